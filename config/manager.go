package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// Manager loads configuration from an ordered list of sources, validates it
// and notifies subscribers of changes. Later sources override earlier ones.
//
// Updates are atomic: a reload that fails to load, bind or validate leaves the
// current configuration untouched. All methods are safe for concurrent use.
type Manager struct {
	sources []ConfigSource
	config  any
	binder  *Binder
	logger  *slog.Logger

	mu   sync.RWMutex
	subs []chan Event

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures a Manager.
type Options struct {
	// AutoReload starts a watcher per source and reloads when one reports a
	// change. Watchers stop when Close is called.
	AutoReload bool

	// Logger receives reload failures from watchers. Defaults to slog.Default.
	Logger *slog.Logger
}

// NewManager binds the merged sources into cfg, which must be a pointer to a
// struct, and keeps it up to date afterwards.
//
//	var cfg config.Root
//	mgr, err := config.NewManager(&cfg, config.Options{AutoReload: true},
//	    config.Defaults(),
//	    &source.FileSource{BasePath: "configs"},
//	    &source.EnvSource{},
//	    &source.CLISource{},
//	)
func NewManager(cfg any, opts Options, sources ...ConfigSource) (*Manager, error) {
	if v := reflect.ValueOf(cfg); v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("config target must be a pointer to a struct, got %T", cfg)
	}

	m := &Manager{
		sources: sources,
		config:  cfg,
		binder:  NewBinder(),
		logger:  opts.Logger,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}

	if opts.AutoReload {
		m.startWatchers()
	}
	return m, nil
}

// Reload loads every source, binds and validates the merged result, then swaps
// it into the configuration struct. Subscribers are notified only when a
// top-level field changed.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		MergeMaps(merged, vals)
	}

	typ := reflect.TypeOf(m.config).Elem()
	newCfg := reflect.New(typ)
	if err := m.binder.Bind(merged, newCfg.Interface()); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	oldCfg := reflect.New(typ)
	oldCfg.Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(newCfg.Elem())
	m.mu.Unlock()

	if changed := changedFields(oldCfg.Interface(), newCfg.Interface()); len(changed) > 0 {
		m.notify(Event{
			ChangedKeys: changed,
			OldConfig:   oldCfg.Interface(),
			NewConfig:   newCfg.Interface(),
		})
	}
	return nil
}

// Snapshot copies the current configuration into out, which must be a pointer
// to the same struct type the Manager was created with.
func (m *Manager) Snapshot(out any) error {
	dst := reflect.ValueOf(out)
	if dst.Kind() != reflect.Pointer || dst.Type() != reflect.TypeOf(m.config) {
		return fmt.Errorf("snapshot target must be %T, got %T", m.config, out)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	dst.Elem().Set(reflect.ValueOf(m.config).Elem())
	return nil
}

// Subscribe registers ch for change events. Sends never block: when ch is
// full the event is dropped. The Manager never closes ch.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

// Close stops the watchers started by AutoReload and waits for them to exit.
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	for _, src := range m.sources {
		ch := make(chan Event, 1)

		m.wg.Add(2)
		go func() {
			defer m.wg.Done()
			if err := src.Watch(ctx, ch); err != nil && ctx.Err() == nil {
				m.logger.Warn("config watch stopped", "source", src.Name(), "error", err)
			}
		}()
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					if err := m.Reload(ctx); err != nil && ctx.Err() == nil {
						m.logger.Error("config reload failed", "source", src.Name(), "error", err)
					}
				}
			}
		}()
	}
}
