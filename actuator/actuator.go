package actuator

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/fracton/config"
	"github.com/skekre98/fracton/core"
	"github.com/skekre98/fracton/web"
)

const Name = "actuator"

// Service exposes health, build info, the module registry and metrics under
// config.Root.Actuator.BasePath. It must be configured after web.Server.
type Service struct {
	started time.Time
}

func New() *Service { return &Service{} }

type moduleView struct {
	core.RegisteredModule
	Type string `json:"type"`
}

func view(rm core.RegisteredModule) moduleView {
	return moduleView{RegisteredModule: rm, Type: fmt.Sprintf("%T", rm.Module)}
}

func (s *Service) Name() string { return Name }

// Configure needs *gin.Engine, config.Root and *core.Loader in the container.
// A prometheus.Gatherer in the container replaces the default registry.
func (s *Service) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)
	if !cfg.Actuator.Enabled {
		return nil
	}
	loader := core.Get[*core.Loader](c)
	group := web.Engine(c).Group(cfg.Actuator.BasePath)

	group.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status": "UP",
			"checks": []gin.H{{
				"name":   "modules",
				"status": "UP",
				"loaded": len(loader.AllRegisteredModules()),
			}},
		})
	})

	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"modules": gin.H{
				"directory": loader.Directory(),
				"artifacts": len(loader.Symbols().Paths()),
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"uptime":       time.Since(s.started).Round(time.Second).String(),
				"pid":          os.Getpid(),
			},
		})
	})

	group.GET("/modules", func(ctx *gin.Context) {
		all := loader.AllRegisteredModules()
		out := make([]moduleView, 0, len(all))
		for _, rm := range all {
			out = append(out, view(rm))
		}
		ctx.JSON(http.StatusOK, out)
	})

	group.GET("/modules/:name", func(ctx *gin.Context) {
		rm, ok := loader.FindRegisteredModule(ctx.Param("name"))
		if !ok {
			web.Problem(ctx, http.StatusNotFound, "module "+ctx.Param("name")+" is not loaded")
			return
		}
		ctx.JSON(http.StatusOK, view(rm))
	})

	if cfg.Observability.Metrics.Enabled {
		gatherer, ok := core.Lookup[prometheus.Gatherer](c)
		if !ok {
			gatherer = prometheus.DefaultGatherer
		}
		group.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return nil
}

func (s *Service) Start(context.Context, core.Container) error {
	s.started = time.Now()
	return nil
}

func (s *Service) Stop(context.Context, core.Container) error { return nil }
