package source

import (
	"context"
	"os"
	"strings"

	"github.com/skekre98/fracton/config"
)

// DefaultEnvPrefix is used when EnvSource.Prefix is empty.
const DefaultEnvPrefix = "FRACTON_"

// EnvSource loads configuration from prefixed environment variables. The rest
// of the name is lowercased and split on underscores:
//
//	FRACTON_MODULES_DIRECTORY=plugins -> {modules: {directory: "plugins"}}
//
// Because underscores separate levels, camel-cased keys such as
// server.readTimeout cannot be set from the environment; mapstructure matches
// keys case-insensitively, so FRACTON_SERVER_READTIMEOUT works instead.
//
// When a leaf and a nested value collide (FRACTON_DB and FRACTON_DB_HOST),
// whichever is seen first wins.
type EnvSource struct {
	Prefix string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(context.Context) (map[string]any, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return loadEnvVars(prefix, os.Environ()), nil
}

// Watch returns immediately; the environment is read once per reload.
func (e *EnvSource) Watch(context.Context, chan<- config.Event) error {
	return nil
}

func loadEnvVars(prefix string, environ []string) map[string]any {
	result := make(map[string]any)
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		setNestedValue(result, strings.Split(key, "_"), value)
	}
	return result
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		existing, ok := current[segment]
		if !ok {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			return
		}
		current = nested
	}
}
