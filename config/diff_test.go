package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangedFields(t *testing.T) {
	t.Parallel()

	base := Root{Modules: ModulesConfig{Directory: "modules"}}
	moved := base
	moved.Modules.Directory = "plugins"
	logged := base
	logged.Logging.Format = "json"
	logged.Server.Addr = ":9090"

	tests := []struct {
		name     string
		old, new any
		want     []string
	}{
		{"identical", &base, &base, nil},
		{"one field", &base, &moved, []string{"Modules"}},
		{"two fields in order", &base, &logged, []string{"Logging", "Server"}},
		{"values not pointers", base, moved, []string{"Modules"}},
		{"different types", &base, &ModulesConfig{}, nil},
		{"nil", nil, &base, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, changedFields(tt.old, tt.new))
		})
	}
}
