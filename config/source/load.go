package source

import (
	"log/slog"

	"github.com/skekre98/fracton/config"
)

// Options selects the sources Load chains after config.Defaults.
type Options struct {
	// Dir holds application.{yaml,yml,toml}. Empty, or a directory without an
	// application file, skips the file source.
	Dir     string
	Profile string
	// EnvPrefix defaults to DefaultEnvPrefix.
	EnvPrefix string
	// Args are command-line overrides in --key=value form.
	Args       []string
	AutoReload bool
	Logger     *slog.Logger
}

// Chain returns the ordered sources defaults, file, env, cli.
func Chain(opts Options) []config.ConfigSource {
	srcs := []config.ConfigSource{config.Defaults()}
	if opts.Dir != "" {
		fs := &FileSource{BasePath: opts.Dir, Profile: opts.Profile}
		if fs.exists() {
			srcs = append(srcs, fs)
		}
	}
	args := opts.Args
	if args == nil {
		args = []string{}
	}
	return append(srcs, &EnvSource{Prefix: opts.EnvPrefix}, &CLISource{Args: args})
}

// Load binds the full source chain into cfg.
func Load(cfg any, opts Options) (*config.Manager, error) {
	return config.NewManager(cfg, config.Options{
		AutoReload: opts.AutoReload,
		Logger:     opts.Logger,
	}, Chain(opts)...)
}
