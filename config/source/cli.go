package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/skekre98/fracton/config"
)

// CLISource loads configuration from dotted command-line flags:
//
//	--modules.directory=plugins --logging.level debug
//	  -> {modules: {directory: "plugins"}, logging: {level: "debug"}}
//
// Single-dash long flags (-modules.rollback=true) are accepted, empty values
// and positional arguments are ignored. All values are strings; conversion
// happens during binding.
type CLISource struct {
	// Args to parse. Nil means os.Args[1:].
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(context.Context) (map[string]any, error) {
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseCliFlags(args), nil
}

// Watch returns immediately; arguments are fixed for the process lifetime.
func (c *CLISource) Watch(context.Context, chan<- config.Event) error {
	return nil
}

func parseCliFlags(raw []string) map[string]any {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	registered := make(map[string]bool)
	args := normalizeArgs(raw)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := extractFlagName(arg)
		if name == "" {
			continue
		}
		if !registered[name] {
			fs.String(name, "", fmt.Sprintf("config value for %s", name))
			registered[name] = true
		}
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}

	_ = fs.Parse(args)

	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if v := f.Value.String(); v != "" {
			setNestedValue(result, strings.Split(f.Name, "."), v)
		}
	})
	return result
}

// normalizeArgs turns single-dash long flags into double-dash ones for pflag.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			rest := arg[1:]
			if len(rest) > 1 && rest[0] != '=' {
				out[i] = "-" + arg
			}
		}
	}
	return out
}

func extractFlagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	name, _, _ := strings.Cut(arg, "=")
	return name
}
