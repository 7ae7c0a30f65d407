package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/fracton/config"
	"github.com/skekre98/fracton/core"
)

const Name = "web"

func Engine(c core.Container) *gin.Engine {
	return core.Get[*gin.Engine](c)
}

type Option func(*Server)

// WithRoutes registers routes on the engine during Configure.
func WithRoutes(f func(r Router)) Option {
	return func(s *Server) { s.routes = append(s.routes, f) }
}

func WithMiddlewares(m ...Handler) Option {
	return func(s *Server) { s.middlewares = append(s.middlewares, m...) }
}

// Server is the host's HTTP service. Configure publishes the *gin.Engine so
// later services, such as the actuator, can add routes to it.
type Server struct {
	routes      []func(r Router)
	middlewares []Handler

	server *http.Server
	addr   net.Addr
	errc   chan error
}

func New(opts ...Option) *Server {
	s := &Server{}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Server) Name() string { return Name }

// Configure needs config.Root and *slog.Logger in the container.
func (s *Server) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)
	l := core.Get[*slog.Logger](c)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(RequestID(), RecoveryProblem(l), AccessLog(l))
	r.Use(s.middlewares...)
	r.NoRoute(func(ctx *gin.Context) {
		Problem(ctx, http.StatusNotFound, "no route for "+ctx.Request.URL.Path)
	})

	for _, reg := range s.routes {
		reg(r)
	}

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	core.Put(c, r)
	core.Put(c, s.server)
	return nil
}

// Start binds the listener synchronously so address errors surface here, then
// serves in the background.
func (s *Server) Start(_ context.Context, c core.Container) error {
	l := core.Get[*slog.Logger](c)

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", s.server.Addr, err)
	}
	s.addr = ln.Addr()
	s.errc = make(chan error, 1)

	l.Info("http server starting", "addr", s.addr.String())
	go func() {
		err := s.server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			l.Error("http server error", "error", err)
		}
		s.errc <- err
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context, _ core.Container) error {
	if s.errc == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-s.errc
}

// Addr is the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr { return s.addr }
