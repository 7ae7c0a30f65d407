package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSource_Load(t *testing.T) {
	t.Setenv("FRACTON_MODULES_DIRECTORY", "plugins")
	t.Setenv("FRACTON_LOGGING_LEVEL", "warn")
	t.Setenv("OTHER_MODULES_DIRECTORY", "ignored")

	got, err := (&EnvSource{}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plugins", got["modules"].(map[string]any)["directory"])
	assert.Equal(t, "warn", got["logging"].(map[string]any)["level"])
}

func TestEnvSource_CustomPrefix(t *testing.T) {
	t.Setenv("HOST_SERVER_ADDR", ":7000")

	got, err := (&EnvSource{Prefix: "HOST_"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"addr": ":7000"}, got["server"])
}

func TestLoadEnvVars(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		want    map[string]any
	}{
		{
			name:    "prefix filter and lowercase",
			environ: []string{"X_A_B=1", "Y_A=2", "X_TOP=3"},
			want:    map[string]any{"a": map[string]any{"b": "1"}, "top": "3"},
		},
		{
			name:    "value containing equals",
			environ: []string{"X_DSN=a=b"},
			want:    map[string]any{"dsn": "a=b"},
		},
		{
			name:    "leaf seen first wins",
			environ: []string{"X_DB=flat", "X_DB_HOST=h"},
			want:    map[string]any{"db": "flat"},
		},
		{
			name:    "empty segments skipped",
			environ: []string{"X_A__B=1"},
			want:    map[string]any{"a": map[string]any{"b": "1"}},
		},
		{
			name:    "malformed ignored",
			environ: []string{"X_NOEQUALS"},
			want:    map[string]any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loadEnvVars("X_", tt.environ))
		})
	}
}
