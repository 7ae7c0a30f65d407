package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/skekre98/fracton/core"
	"github.com/skekre98/fracton/logging"
)

func newScanCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List discovered modules in load order without enabling them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.scan(cmd)
		},
	}
}

func (o *globalOptions) scan(cmd *cobra.Command) error {
	mgr, cfg, err := o.loadConfig(false, nil)
	if err != nil {
		return err
	}
	defer mgr.Close()
	logger := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})

	loader, err := o.newLoader(cfg.Modules, core.NewContainer(), logger, nil)
	if err != nil {
		return err
	}
	cands, err := loader.Scan()
	if err != nil {
		return err
	}
	renderCandidates(cmd.OutOrStdout(), loader.Directory(), cands)
	return nil
}

func renderCandidates(w io.Writer, dir string, cands []core.Candidate) {
	fmt.Fprintln(w, TitleStyle.Render("Modules")+SubtitleStyle.Render(" in "+dir))
	if len(cands) == 0 {
		fmt.Fprintln(w, WarningStyle.Render("no modules found"))
		return
	}

	cols := []int{4, 20, 12, 10, 0}
	cell := func(i int, s string, st lipgloss.Style) string {
		if cols[i] > 0 {
			st = st.Width(cols[i])
		}
		return st.Render(s)
	}

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		cell(0, "#", HeaderStyle),
		cell(1, "NAME", HeaderStyle),
		cell(2, "VERSION", HeaderStyle),
		cell(3, "PRIORITY", HeaderStyle),
		cell(4, "ARTIFACT", HeaderStyle),
	))
	for i, c := range cands {
		d := c.Descriptor
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(0, fmt.Sprint(i+1), lipgloss.NewStyle()),
			cell(1, d.Name, lipgloss.NewStyle()),
			cell(2, d.Version, lipgloss.NewStyle()),
			cell(3, d.Priority.String(), priorityStyle(int(d.Priority))),
			cell(4, filepath.Base(c.Artifact)+SubtitleStyle.Render(" "+c.Entry), lipgloss.NewStyle()),
		))
	}
}
