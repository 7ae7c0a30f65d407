package core

import "context"

// Module is a pluggable unit of host functionality. The loader owns every
// module's lifecycle; hosts never construct one directly.
//
// Concrete modules embed Base, which supplies no-op versions of the four
// optional hooks, and implement Enable and Disable themselves.
type Module interface {
	// PreEnable runs before Enable.
	PreEnable(ctx context.Context) error
	// Enable initialises the module.
	Enable(ctx context.Context) error
	// PostEnable runs after Enable.
	PostEnable(ctx context.Context) error
	// PreDisable runs before Disable.
	PreDisable(ctx context.Context) error
	// Disable resets the module and releases the resources it holds.
	Disable(ctx context.Context) error
	// PostDisable runs after Disable.
	PostDisable(ctx context.Context) error
}

// Base must be embedded directly by every loadable module type. Embedding it
// through an intermediate struct does not qualify the outer type as a module.
type Base struct {
	injector Container
}

// NewBase wraps the injection context a module was constructed with.
func NewBase(c Container) Base { return Base{injector: c} }

// Injector returns the module's injection context. The loader hands it to the
// next module it constructs.
func (b *Base) Injector() Container { return b.injector }

func (b *Base) PreEnable(context.Context) error   { return nil }
func (b *Base) PostEnable(context.Context) error  { return nil }
func (b *Base) PreDisable(context.Context) error  { return nil }
func (b *Base) PostDisable(context.Context) error { return nil }

type injectorHolder interface {
	Injector() Container
}
