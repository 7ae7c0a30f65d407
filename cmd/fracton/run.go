package main

import (
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/skekre98/fracton/actuator"
	"github.com/skekre98/fracton/config"
	"github.com/skekre98/fracton/core"
	"github.com/skekre98/fracton/logging"
	"github.com/skekre98/fracton/web"
)

func newRunCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Load modules, serve the actuator and unload on shutdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}
}

func (o *globalOptions) run(cmd *cobra.Command) error {
	level := new(slog.LevelVar)
	boot := logging.New(logging.Options{Level: level, Output: cmd.ErrOrStderr()})

	mgr, cfg, err := o.loadConfig(true, boot)
	if err != nil {
		return err
	}

	level.Set(cfg.Logging.Level)
	logger := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	}).With("app", cfg.App.Name, "version", cfg.App.Version)

	changes := make(chan config.Event, 1)
	mgr.Subscribe(changes)
	followed := make(chan struct{})
	go func() {
		defer close(followed)
		followLogLevel(changes, level, logger)
	}()
	// Watchers are the only senders, so changes can be closed once they stop.
	defer func() {
		mgr.Close()
		close(changes)
		<-followed
	}()

	var reg prometheus.Registerer
	if cfg.Observability.Metrics.Enabled {
		reg = prometheus.DefaultRegisterer
	}

	c := core.NewContainer()
	core.Put(c, cfg)
	core.Put(c, logger)

	loader, err := o.newLoader(cfg.Modules, c, logger, reg)
	if err != nil {
		return err
	}
	core.Put(c, loader)

	app := core.NewApp(logger, c, loader, web.New(), actuator.New())
	if err := app.Run(cmd.Context()); err != nil {
		logger.Error("app error", "error", err)
		return err
	}
	return nil
}

// followLogLevel applies logging.level changes from config reloads until
// events is closed.
func followLogLevel(events <-chan config.Event, level *slog.LevelVar, logger *slog.Logger) {
	for ev := range events {
		if !slices.Contains(ev.ChangedKeys, "Logging") {
			continue
		}
		next, ok := ev.NewConfig.(*config.Root)
		if !ok {
			continue
		}
		if next.Logging.Level != level.Level() {
			logger.Info("log level changed", "from", level.Level(), "to", next.Logging.Level)
			level.Set(next.Logging.Level)
		}
	}
}
