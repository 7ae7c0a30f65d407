package core

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Service is a compiled-in host component, such as the HTTP server, that
// runs alongside the loaded modules.
type Service interface {
	Name() string
	// Configure registers objects into the container.
	Configure(c Container) error
	Start(ctx context.Context, c Container) error
	Stop(ctx context.Context, c Container) error
}

// App ties a Loader to the host's services and the process lifetime.
type App struct {
	Loader          *Loader
	Services        []Service
	Container       Container
	Logger          *slog.Logger
	ShutdownTimeout time.Duration
}

func NewApp(logger *slog.Logger, c Container, loader *Loader, svcs ...Service) *App {
	return &App{
		Loader:          loader,
		Services:        svcs,
		Container:       c,
		Logger:          logger,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Run loads modules, starts services, blocks until ctx is done or the process
// is signalled, then stops services and unloads modules in reverse order.
func (a *App) Run(ctx context.Context) error {
	// 1) Modules first, so services can expose them
	if err := a.Loader.LoadModules(ctx); err != nil {
		return err
	}

	// 2) Configure services in the order given
	for _, s := range a.Services {
		if err := s.Configure(a.Container); err != nil {
			return errors.Join(err, a.unload())
		}
	}

	// 3) Start in order
	var started []Service
	for _, s := range a.Services {
		a.Logger.Info("starting service", "service", s.Name())
		if err := s.Start(ctx, a.Container); err != nil {
			return errors.Join(err, a.stop(started), a.unload())
		}
		started = append(started, s)
	}

	// 4) Wait for signal, then stop in reverse order
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case <-ctx.Done():
	case <-stop:
	}

	return errors.Join(a.stop(started), a.unload())
}

func (a *App) stop(started []Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()

	var firstErr error
	for i := len(started) - 1; i >= 0; i-- {
		s := started[i]
		a.Logger.Info("stopping service", "service", s.Name())
		if err := s.Stop(ctx, a.Container); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) unload() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()
	return a.Loader.UnloadModules(ctx)
}
