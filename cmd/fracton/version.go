package main

import (
	"github.com/spf13/cobra"
)

// Set via -ldflags "-X main.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("fracton version %s\n", version)
		},
	}
}
