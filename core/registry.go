package core

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

var registrations atomic.Uint64

// RegisteredModule is a loaded module together with its descriptor.
type RegisteredModule struct {
	Module   Module   `json:"-"`
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Priority Priority `json:"priority"`

	// id tells apart entries whose modules cannot be compared with ==.
	id uint64
}

func newRegisteredModule(m Module, d Descriptor) RegisteredModule {
	return RegisteredModule{
		Module:   m,
		Name:     d.Name,
		Version:  d.Version,
		Priority: d.Priority,
		id:       registrations.Add(1),
	}
}

// Registry holds loaded modules in the order their lifecycle ran.
type Registry struct {
	mu   sync.RWMutex
	mods []RegisteredModule
}

func NewRegistry() *Registry { return &Registry{} }

// Register appends rm. It reports false when another module with the same
// name is already present; rm is registered either way.
func (r *Registry) Register(rm RegisteredModule) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	unique := true
	for _, m := range r.mods {
		if m.Name == rm.Name {
			unique = false
			break
		}
	}
	r.mods = append(r.mods, rm)
	return unique
}

// FindByName returns the first registered module with the given name.
func (r *Registry) FindByName(name string) (RegisteredModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.mods {
		if m.Name == name {
			return m, true
		}
	}
	return RegisteredModule{}, false
}

// FindByModule returns the entry for a module instance.
func (r *Registry) FindByModule(mod Module) (RegisteredModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(mod); i >= 0 {
		return r.mods[i], true
	}
	return RegisteredModule{}, false
}

// Remove drops the entry rm from the registry. Entries created by the loader
// are matched by identity, so modules of non-comparable types are removed
// too; other entries fall back to comparing the module instance.
func (r *Registry) Remove(rm RegisteredModule) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	var i int
	if rm.id != 0 {
		i = slices.IndexFunc(r.mods, func(m RegisteredModule) bool { return m.id == rm.id })
	} else {
		i = r.indexOf(rm.Module)
	}
	if i < 0 {
		return false
	}
	r.mods = slices.Delete(r.mods, i, i+1)
	return true
}

func (r *Registry) indexOf(mod Module) int {
	if mod == nil || !reflect.TypeOf(mod).Comparable() {
		return -1
	}
	for i, m := range r.mods {
		if reflect.TypeOf(m.Module) == reflect.TypeOf(mod) && m.Module == mod {
			return i
		}
	}
	return -1
}

// All returns a snapshot of the registered modules.
func (r *Registry) All() []RegisteredModule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]RegisteredModule(nil), r.mods...)
}

// Modules returns a snapshot of the bare module instances.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Module, len(r.mods))
	for i, m := range r.mods {
		out[i] = m.Module
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mods)
}
