package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"plugin"
	"sync"
)

// ErrSymbolNotFound is returned when no opened artifact exports a symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Artifact is an opened package of module code.
type Artifact interface {
	Path() string
	// Entries lists the artifact's manifest. An artifact without a manifest
	// returns no entries and no error.
	Entries() ([]Entry, error)
	Lookup(symbol string) (any, error)
}

// ArtifactOpener turns an artifact path into an opened Artifact.
type ArtifactOpener interface {
	Open(path string) (Artifact, error)
}

// PluginOpener opens artifacts built with -buildmode=plugin.
type PluginOpener struct{}

func (PluginOpener) Open(path string) (Artifact, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &pluginArtifact{path: path, p: p}, nil
}

type pluginArtifact struct {
	path string
	p    *plugin.Plugin
}

func (a *pluginArtifact) Path() string { return a.path }

func (a *pluginArtifact) Entries() ([]Entry, error) {
	sym, err := a.p.Lookup(ManifestSymbol)
	if err != nil {
		return nil, nil
	}
	switch m := sym.(type) {
	case *Manifest:
		return *m, nil
	case func() Manifest:
		return m(), nil
	default:
		return nil, fmt.Errorf("%s: symbol %s has unsupported type %T", a.path, ManifestSymbol, sym)
	}
}

func (a *pluginArtifact) Lookup(symbol string) (any, error) {
	sym, err := a.p.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", a.path, ErrSymbolNotFound, symbol)
	}
	return sym, nil
}

// StaticOpener serves in-memory manifests keyed by artifact file name. The
// file must still exist in the modules directory to be discovered.
type StaticOpener map[string]Manifest

func (o StaticOpener) Open(path string) (Artifact, error) {
	m, ok := o[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("%s: no static manifest", path)
	}
	return &staticArtifact{path: path, entries: m}, nil
}

type staticArtifact struct {
	path    string
	entries Manifest
}

func (a *staticArtifact) Path() string { return a.path }

func (a *staticArtifact) Entries() ([]Entry, error) { return a.entries, nil }

func (a *staticArtifact) Lookup(symbol string) (any, error) {
	if symbol == ManifestSymbol {
		return &a.entries, nil
	}
	return nil, fmt.Errorf("%s: %w: %s", a.path, ErrSymbolNotFound, symbol)
}

// SymbolTable is the resolution boundary shared by every module a loader
// loads. Artifacts are opened on first use and kept open for the life of the
// process.
type SymbolTable struct {
	opener ArtifactOpener
	paths  []string

	mu     sync.Mutex
	opened map[string]Artifact
}

func newSymbolTable(opener ArtifactOpener, paths []string) *SymbolTable {
	return &SymbolTable{
		opener: opener,
		paths:  append([]string(nil), paths...),
		opened: make(map[string]Artifact, len(paths)),
	}
}

// Paths returns the artifact paths in discovery order.
func (s *SymbolTable) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Artifact opens (or returns the already opened) artifact at path.
func (s *SymbolTable) Artifact(path string) (Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.opened[path]; ok {
		return a, nil
	}
	a, err := s.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	s.opened[path] = a
	return a, nil
}

// Lookup resolves symbol against every artifact in discovery order and
// returns the first match along with the path that exported it.
func (s *SymbolTable) Lookup(symbol string) (any, string, error) {
	for _, path := range s.paths {
		a, err := s.Artifact(path)
		if err != nil {
			return nil, "", err
		}
		if sym, err := a.Lookup(symbol); err == nil {
			return sym, path, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
}
