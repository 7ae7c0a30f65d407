package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DefaultDirectory is the module directory relative to the working directory.
const DefaultDirectory = "modules"

type options struct {
	logger    *slog.Logger
	opener    ArtifactOpener
	extension string
	namespace string
	rollback  bool
	metrics   *Metrics
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithOpener replaces the Go plugin opener.
func WithOpener(op ArtifactOpener) Option { return func(o *options) { o.opener = op } }

// WithExtension sets the file suffix that marks an artifact.
func WithExtension(ext string) Option { return func(o *options) { o.extension = ext } }

// WithNamespace sets the entry name prefix reserved for modules.
func WithNamespace(ns string) Option { return func(o *options) { o.namespace = ns } }

// WithRollback makes a failed LoadModules disable, in reverse order, the
// modules it had already enabled and drop them from the registry. Without it
// those modules stay loaded.
func WithRollback(on bool) Option { return func(o *options) { o.rollback = on } }

func WithMetrics(m *Metrics) Option { return func(o *options) { o.metrics = m } }

// Loader discovers, constructs and enables the modules of one directory.
type Loader struct {
	dir      string
	injector Container
	symbols  *SymbolTable
	scanner  *Scanner
	factory  Factory
	runner   *LifecycleRunner
	registry *Registry
	logger   *slog.Logger
	metrics  *Metrics
	rollback bool

	mu     sync.Mutex
	loaded bool
}

// New lists the artifacts in dir; nothing is opened until LoadModules.
func New(dir string, injector Container, opts ...Option) (*Loader, error) {
	o := options{
		opener:    PluginOpener{},
		extension: DefaultExtension,
		namespace: DefaultNamespace,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if injector == nil {
		injector = NewContainer()
	}

	scanner := &Scanner{Extension: o.extension, Namespace: o.namespace, Logger: o.logger}
	paths, err := scanner.Discover(dir)
	if err != nil {
		o.metrics.failed(StageDiscovery)
		return nil, &LoadError{Stage: StageDiscovery, Artifact: dir, Err: err}
	}

	return &Loader{
		dir:      dir,
		injector: injector,
		symbols:  newSymbolTable(o.opener, paths),
		scanner:  scanner,
		runner:   &LifecycleRunner{Logger: o.logger, Metrics: o.metrics},
		registry: NewRegistry(),
		logger:   o.logger,
		metrics:  o.metrics,
		rollback: o.rollback,
	}, nil
}

// NewDefault creates a loader for <working directory>/modules.
func NewDefault(injector Container, opts ...Option) (*Loader, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return New(filepath.Join(wd, DefaultDirectory), injector, opts...)
}

func (l *Loader) Directory() string { return l.dir }

// Symbols is the resolution boundary over every artifact of this loader.
func (l *Loader) Symbols() *SymbolTable { return l.symbols }

func (l *Loader) Registry() *Registry { return l.registry }

// Scan opens every artifact and returns all module candidates in load order
// without constructing anything.
func (l *Loader) Scan() ([]Candidate, error) {
	var all []Candidate
	for _, path := range l.symbols.Paths() {
		a, err := l.symbols.Artifact(path)
		if err != nil {
			l.metrics.failed(StageDiscovery)
			return nil, &LoadError{Stage: StageDiscovery, Artifact: path, Err: err}
		}
		l.metrics.scanned()
		cands, err := l.scanner.Candidates(a)
		if err != nil {
			l.metrics.failed(StageDiscovery)
			return nil, &LoadError{Stage: StageDiscovery, Artifact: path, Err: err}
		}
		for _, c := range cands {
			if err := c.Descriptor.Validate(); err != nil {
				l.metrics.failed(StageMetadata)
				return nil, &LoadError{Stage: StageMetadata, Artifact: path, Module: c.Entry, Err: err}
			}
		}
		all = append(all, cands...)
	}
	return Schedule(all), nil
}

// LoadModules loads every module in the directory. Candidates from all
// artifacts are ordered together by priority, constructed in that order and
// then enabled one by one; each module is registered once its postEnable
// returns.
//
// Any error aborts the pass. Discovery, metadata and construction errors
// happen before any module is enabled. On a lifecycle error the modules
// enabled so far remain registered unless the loader was built with
// WithRollback. The context is passed to hooks; the pass itself does not stop
// on cancellation.
//
// A loader runs one pass at a time: once a pass has started, LoadModules
// returns ErrAlreadyLoaded until UnloadModules (or a rollback) clears it.
// Passes that fail before any module is enabled can be retried.
func (l *Loader) LoadModules(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return ErrAlreadyLoaded
	}

	log := l.logger.With("pass", uuid.NewString())
	log.Info("loading modules", "directory", l.dir, "artifacts", len(l.symbols.Paths()))

	ordered, err := l.Scan()
	if err != nil {
		return err
	}

	pending := make([]RegisteredModule, 0, len(ordered))
	injector := l.injector
	for _, c := range ordered {
		m, next, err := l.factory.Construct(c, injector)
		if err != nil {
			l.metrics.failed(StageConstruction)
			return &LoadError{Stage: StageConstruction, Artifact: c.Artifact, Module: c.Descriptor.Name, Err: err}
		}
		injector = next
		pending = append(pending, newRegisteredModule(m, c.Descriptor))
	}

	l.loaded = true
	var enabled []RegisteredModule
	runner := &LifecycleRunner{Logger: log, Metrics: l.metrics}
	err = runner.EnableAll(ctx, pending, LoadOrder, func(rm RegisteredModule) {
		enabled = append(enabled, rm)
		if !l.registry.Register(rm) {
			log.Warn("duplicate module name, lookups return the first", "module", rm.Name)
		}
		l.metrics.loaded()
	})
	if err != nil {
		l.metrics.failed(StageLifecycle)
		if l.rollback {
			l.loaded = false
			return errors.Join(err, l.rollbackPass(ctx, log, enabled))
		}
		return err
	}
	log.Info("modules loaded", "count", len(pending))
	return nil
}

func (l *Loader) rollbackPass(ctx context.Context, log *slog.Logger, enabled []RegisteredModule) error {
	if len(enabled) == 0 {
		return nil
	}
	log.Warn("rolling back modules enabled by failed pass", "count", len(enabled))
	runner := &LifecycleRunner{Logger: log, Metrics: l.metrics}
	return runner.DisableAll(ctx, enabled, ReverseOrder, func(rm RegisteredModule, _ error) {
		if l.registry.Remove(rm) {
			l.metrics.unloaded()
		}
	})
}

// UnloadModules disables every registered module in reverse load order and
// clears the registry. Failures do not stop the remaining modules.
func (l *Loader) UnloadModules(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	mods := l.registry.All()
	l.loaded = false
	err := l.runner.DisableAll(ctx, mods, ReverseOrder, func(rm RegisteredModule, err error) {
		if err != nil {
			l.metrics.failed(StageUnload)
		}
		if l.registry.Remove(rm) {
			l.metrics.unloaded()
		}
	})
	if err == nil {
		l.logger.Info("modules unloaded", "count", len(mods))
	}
	return err
}

// FindRegisteredModule returns the first loaded module with the given name.
func (l *Loader) FindRegisteredModule(name string) (RegisteredModule, bool) {
	return l.registry.FindByName(name)
}

func (l *Loader) AllRegisteredModules() []RegisteredModule { return l.registry.All() }

func (l *Loader) AllModules() []Module { return l.registry.Modules() }
