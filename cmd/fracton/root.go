package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/skekre98/fracton/config"
	"github.com/skekre98/fracton/config/source"
	"github.com/skekre98/fracton/core"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configDir string
	profile   string
	overrides []string

	// opener replaces the plugin opener when non-nil.
	opener core.ArtifactOpener
}

func newRootCmd(opener core.ArtifactOpener) *cobra.Command {
	o := &globalOptions{opener: opener}

	root := &cobra.Command{
		Use:   "fracton",
		Short: "Load and run plugin modules",
		Long: TitleStyle.Render("fracton") + SubtitleStyle.Render(" - host-side module loader") + `

fracton discovers plugin artifacts in the modules directory, orders the
modules they export by priority and drives their enable/disable lifecycle.

` + SubtitleStyle.Render("Examples:") + `
  fracton scan                                 List modules in load order
  fracton run                                  Load modules and serve the actuator
  fracton run --set modules.directory=plugins  Override any config key`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&o.configDir, "config-dir", "configs", "directory holding application.{yaml,yml,toml}")
	root.PersistentFlags().StringVar(&o.profile, "profile", "", "config profile overlay, e.g. prod")
	root.PersistentFlags().StringArrayVar(&o.overrides, "set", nil, "override a config key (key=value), repeatable")

	root.AddCommand(newRunCmd(o), newScanCmd(o), newVersionCmd())
	return root
}

// setArgs turns --set key=value pairs into the --key=value form CLISource reads.
func setArgs(pairs []string) ([]string, error) {
	args := make([]string, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", p)
		}
		args = append(args, "--"+k+"="+v)
	}
	return args, nil
}

// loadConfig returns the manager and a snapshot of the configuration it
// loaded. The snapshot is not updated by later reloads.
func (o *globalOptions) loadConfig(autoReload bool, logger *slog.Logger) (*config.Manager, config.Root, error) {
	var snap config.Root
	args, err := setArgs(o.overrides)
	if err != nil {
		return nil, snap, err
	}
	mgr, err := source.Load(new(config.Root), source.Options{
		Dir:        o.configDir,
		Profile:    o.profile,
		Args:       args,
		AutoReload: autoReload,
		Logger:     logger,
	})
	if err != nil {
		return nil, snap, err
	}
	if err := mgr.Snapshot(&snap); err != nil {
		mgr.Close()
		return nil, snap, err
	}
	return mgr, snap, nil
}

// newLoader builds a loader for the configured directory. A relative
// directory is resolved against the working directory.
func (o *globalOptions) newLoader(cfg config.ModulesConfig, c core.Container, logger *slog.Logger, reg prometheus.Registerer) (*core.Loader, error) {
	dir := cfg.Directory
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(wd, dir)
	}

	opts := []core.Option{
		core.WithLogger(logger),
		core.WithExtension(cfg.Extension),
		core.WithNamespace(cfg.Namespace),
		core.WithRollback(cfg.Rollback),
	}
	if reg != nil {
		opts = append(opts, core.WithMetrics(core.NewMetrics(reg)))
	}
	if o.opener != nil {
		opts = append(opts, core.WithOpener(o.opener))
	}
	return core.New(dir, c, opts...)
}
