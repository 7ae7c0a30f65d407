package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/fracton/core"
)

func candidate[T any](ctor any) core.Candidate {
	e := core.Export[T]("modules/x", ctor, &core.Descriptor{Name: "x", Version: "1"})
	return core.Candidate{Entry: e.Name, Class: e.Class, Descriptor: *e.Class.Descriptor}
}

func TestFactory_Construct(t *testing.T) {
	var f core.Factory
	root := core.NewContainer()

	t.Run("plain constructor", func(t *testing.T) {
		m, next, err := f.Construct(candidate[*plain](func(c core.Container) *plain {
			return &plain{Base: core.NewBase(c)}
		}), root)
		require.NoError(t, err)
		assert.IsType(t, &plain{}, m)
		assert.Same(t, root, next)
	})

	t.Run("constructor with error result", func(t *testing.T) {
		m, _, err := f.Construct(candidate[*plain](func(c core.Container) (*plain, error) {
			return &plain{Base: core.NewBase(c)}, nil
		}), root)
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("next context is the module's injector", func(t *testing.T) {
		scope := root.Scope()
		_, next, err := f.Construct(candidate[*plain](func(c core.Container) *plain {
			return &plain{Base: core.NewBase(scope)}
		}), root)
		require.NoError(t, err)
		assert.Same(t, scope, next)
	})

	t.Run("module without injector keeps current context", func(t *testing.T) {
		_, next, err := f.Construct(candidate[*plain](func(core.Container) *plain { return &plain{} }), root)
		require.NoError(t, err)
		assert.Same(t, root, next)
	})

	t.Run("returns module interface", func(t *testing.T) {
		m, _, err := f.Construct(candidate[*plain](func(core.Container) core.Module { return &plain{} }), root)
		require.NoError(t, err)
		assert.IsType(t, &plain{}, m)
	})
}

func TestFactory_ConstructFailures(t *testing.T) {
	var f core.Factory
	root := core.NewContainer()

	tests := []struct {
		name string
		c    core.Candidate
	}{
		{"not a func", candidate[*plain]("nope")},
		{"nil ctor", candidate[*plain](nil)},
		{"no args", candidate[*plain](func() *plain { return &plain{} })},
		{"two args", candidate[*plain](func(core.Container, int) *plain { return &plain{} })},
		{"wrong arg type", candidate[*plain](func(string) *plain { return &plain{} })},
		{"non-module result", candidate[*plain](func(core.Container) string { return "" })},
		{"second result not error", candidate[*plain](func(core.Container) (*plain, int) { return &plain{}, 0 })},
		{"constructor error", candidate[*plain](func(core.Container) (*plain, error) { return nil, errors.New("nope") })},
		{"nil result", candidate[*plain](func(core.Container) *plain { return nil })},
		{"panics", candidate[*plain](func(core.Container) *plain { panic("boom") })},
		{"type mismatch", candidate[*plain](func(core.Container) core.Module { return &ptrEmbed{} })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, next, err := f.Construct(tt.c, root)
			assert.Error(t, err)
			assert.Nil(t, m)
			assert.Nil(t, next)
		})
	}
}
