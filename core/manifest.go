package core

import "reflect"

// ManifestSymbol is the symbol an artifact exports to list its entries.
const ManifestSymbol = "Manifest"

// Manifest is the table of contents of an artifact. Plugins export it as
//
//	var Manifest = core.Manifest{
//		core.Export[*Greeter]("modules/greeter/Greeter", NewGreeter, &core.Descriptor{
//			Name: "greeter", Version: "1.0.0", Priority: core.PriorityHigh,
//		}),
//		core.Resource("modules/greeter/banner.txt"),
//	}
//
// Entries that are not modules are allowed and skipped by the scanner.
type Manifest []Entry

// Entry is a single named item inside an artifact.
type Entry struct {
	// Name is a slash separated logical path.
	Name  string
	Dir   bool
	Class *Class
}

// Class is a loadable type handle.
type Class struct {
	// Type is the type the constructor produces, usually a struct pointer.
	Type reflect.Type
	// New is the constructor. The loader only calls func(Container) T and
	// func(Container) (T, error); anything else fails construction.
	New any
	// Descriptor is nil for types that carry no module metadata.
	Descriptor *Descriptor
}

// Export declares a type entry for T.
func Export[T any](name string, ctor any, desc *Descriptor) Entry {
	return Entry{
		Name: name,
		Class: &Class{
			Type:       reflect.TypeFor[T](),
			New:        ctor,
			Descriptor: desc,
		},
	}
}

// Resource declares a plain file entry.
func Resource(name string) Entry { return Entry{Name: name} }

// Dir declares a directory entry.
func Dir(name string) Entry { return Entry{Name: name, Dir: true} }
