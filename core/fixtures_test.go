package core_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/skekre98/fracton/core"
)

// journal records lifecycle calls across modules in invocation order.
type journal struct {
	mu     sync.Mutex
	events []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, fmt.Sprintf(format, args...))
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.events...)
}

type recorder struct {
	core.Base
	name   string
	j      *journal
	failOn core.Phase
}

func (r *recorder) hook(p core.Phase) error {
	r.j.add("%s:%s", r.name, p)
	if r.failOn == p {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) PreEnable(context.Context) error   { return r.hook(core.PhasePreEnable) }
func (r *recorder) Enable(context.Context) error      { return r.hook(core.PhaseEnable) }
func (r *recorder) PostEnable(context.Context) error  { return r.hook(core.PhasePostEnable) }
func (r *recorder) PreDisable(context.Context) error  { return r.hook(core.PhasePreDisable) }
func (r *recorder) Disable(context.Context) error     { return r.hook(core.PhaseDisable) }
func (r *recorder) PostDisable(context.Context) error { return r.hook(core.PhasePostDisable) }

// plain relies on Base for the optional hooks.
type plain struct {
	core.Base
}

func (p *plain) Enable(context.Context) error  { return nil }
func (p *plain) Disable(context.Context) error { return nil }

type intermediate struct {
	core.Base
}

// indirect reaches Base only through intermediate.
type indirect struct {
	intermediate
}

func (i *indirect) Enable(context.Context) error  { return nil }
func (i *indirect) Disable(context.Context) error { return nil }

type modSpec struct {
	name     string
	priority core.Priority
	failOn   core.Phase
}

func recorderEntry(j *journal, s modSpec) core.Entry {
	ctor := func(c core.Container) *recorder {
		return &recorder{Base: core.NewBase(c), name: s.name, j: j, failOn: s.failOn}
	}
	return core.Export[*recorder]("modules/"+s.name, ctor, &core.Descriptor{
		Name: s.name, Version: "1.0", Priority: s.priority,
	})
}

type fakeArtifact struct {
	path    string
	entries []core.Entry
	err     error
	symbols map[string]any
}

func (a *fakeArtifact) Path() string                   { return a.path }
func (a *fakeArtifact) Entries() ([]core.Entry, error) { return a.entries, a.err }

func (a *fakeArtifact) Lookup(symbol string) (any, error) {
	if v, ok := a.symbols[symbol]; ok {
		return v, nil
	}
	return nil, core.ErrSymbolNotFound
}

// fakeOpener serves artifacts by file name.
type fakeOpener struct {
	artifacts map[string]*fakeArtifact
	openErr   map[string]error
	opened    []string
}

func (o *fakeOpener) Open(path string) (core.Artifact, error) {
	name := filepath.Base(path)
	o.opened = append(o.opened, name)
	if err := o.openErr[name]; err != nil {
		return nil, err
	}
	a, ok := o.artifacts[name]
	if !ok {
		return &fakeArtifact{path: path}, nil
	}
	a.path = path
	return a, nil
}

// moduleDir creates an empty file per artifact name and returns the dir.
func moduleDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	return dir
}

func newTestLoader(t *testing.T, arts map[string][]core.Entry, opts ...core.Option) (*core.Loader, *fakeOpener) {
	t.Helper()
	opener := &fakeOpener{artifacts: map[string]*fakeArtifact{}}
	names := make([]string, 0, len(arts))
	for name, entries := range arts {
		names = append(names, name)
		opener.artifacts[name] = &fakeArtifact{entries: entries}
	}
	dir := moduleDir(t, names...)
	opts = append([]core.Option{core.WithOpener(opener), core.WithLogger(quietLogger())}, opts...)
	l, err := core.New(dir, core.NewContainer(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, opener
}

func registeredNames(l *core.Loader) []string {
	var out []string
	for _, rm := range l.AllRegisteredModules() {
		out = append(out, rm.Name)
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
