package config

import "context"

// ConfigSource is one layer of configuration, such as a file, the environment
// or command-line flags. Later sources override earlier ones.
type ConfigSource interface {
	// Load returns the source's values as a nested string-keyed map. The map
	// must be a copy the caller may modify.
	Load(ctx context.Context) (map[string]any, error)

	// Watch blocks until ctx is done, sending an Event on ch whenever the
	// source changes. Sources that cannot change return nil immediately.
	// Watch must not close ch.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors and logs, e.g. "file" or "env".
	Name() string
}

// Event is sent to subscribers after a reload that changed something.
type Event struct {
	// ChangedKeys lists the top-level struct fields that differ.
	ChangedKeys []string
	OldConfig   any
	NewConfig   any
}
