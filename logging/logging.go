package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// Formats accepted by New.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

type Options struct {
	// Level may be a *slog.LevelVar so it can be changed at runtime.
	// Defaults to slog.LevelInfo.
	Level slog.Leveler
	// Format is one of text, json or pretty. Anything else means text.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

func New(opts Options) *slog.Logger {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	var h slog.Handler
	switch opts.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{Level: opts.Level})
	case FormatPretty:
		pretty := log.NewWithOptions(opts.Output, log.Options{
			Prefix:          "fracton",
			ReportTimestamp: true,
			Level:           log.DebugLevel,
		})
		h = &leveled{Handler: pretty, level: opts.Level}
	default:
		h = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{Level: opts.Level})
	}
	return slog.New(h)
}

// leveled gates a handler on a Leveler that may change after construction.
type leveled struct {
	slog.Handler
	level slog.Leveler
}

func (l *leveled) Enabled(ctx context.Context, lvl slog.Level) bool {
	return lvl >= l.level.Level() && l.Handler.Enabled(ctx, lvl)
}

func (l *leveled) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveled{Handler: l.Handler.WithAttrs(attrs), level: l.level}
}

func (l *leveled) WithGroup(name string) slog.Handler {
	return &leveled{Handler: l.Handler.WithGroup(name), level: l.level}
}
