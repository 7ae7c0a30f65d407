package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeMaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "nested keys merge",
			dst:  map[string]any{"modules": map[string]any{"directory": "modules", "extension": ".so"}},
			src:  map[string]any{"modules": map[string]any{"directory": "plugins"}},
			want: map[string]any{"modules": map[string]any{"directory": "plugins", "extension": ".so"}},
		},
		{
			name: "scalar replaces map",
			dst:  map[string]any{"a": map[string]any{"b": 1}},
			src:  map[string]any{"a": "flat"},
			want: map[string]any{"a": "flat"},
		},
		{
			name: "map replaces scalar",
			dst:  map[string]any{"a": "flat"},
			src:  map[string]any{"a": map[string]any{"b": 1}},
			want: map[string]any{"a": map[string]any{"b": 1}},
		},
		{
			name: "new keys added",
			dst:  map[string]any{},
			src:  map[string]any{"x": 1},
			want: map[string]any{"x": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			MergeMaps(tt.dst, tt.src)
			assert.Equal(t, tt.want, tt.dst)
		})
	}
}

func TestMergeMaps_DoesNotAliasSource(t *testing.T) {
	t.Parallel()

	src := map[string]any{"a": map[string]any{"b": 1}}
	dst := map[string]any{}
	MergeMaps(dst, src)
	dst["a"].(map[string]any)["b"] = 2

	assert.Equal(t, 1, src["a"].(map[string]any)["b"])
}

func TestDefaults_LoadReturnsCopy(t *testing.T) {
	t.Parallel()

	d := Defaults()
	first, err := d.Load(context.Background())
	assert.NoError(t, err)
	first["modules"].(map[string]any)["directory"] = "changed"

	second, err := d.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "modules", second["modules"].(map[string]any)["directory"])
}
