package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/iotaledger/hive.go/app"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
	"github.com/cryptocreeper94-sudo/orby-sub003/pkg/daemon"
)

func init() {
	Component = &app.Component{
		Name:      "Prometheus",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Params:    params,
		Configure: configure,
		Run:       run,
	}
}

var (
	Component *app.Component
	deps      dependencies

	server   *http.Server
	registry = prometheus.NewRegistry()
	detach   func()
)

type dependencies struct {
	dig.In

	Orchestrator *verification.Orchestrator
}

func configure() error {
	if !ParamsPrometheus.Enabled {
		return nil
	}

	metrics := verification.NewMetrics(registry)
	detach = metrics.Attach(deps.Orchestrator)

	if ParamsPrometheus.GoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
	}
	if ParamsPrometheus.ProcessMetrics {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return nil
}

func newHandler(reg *prometheus.Registry, instrument bool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	if instrument {
		handler = promhttp.InstrumentMetricHandler(reg, handler)
	}

	e.GET("/metrics", func(c echo.Context) error {
		handler.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	})

	return e
}

func run() error {
	if !ParamsPrometheus.Enabled {
		Component.LogInfo("Prometheus exporter disabled")
		return nil
	}

	Component.LogInfo("Starting Prometheus exporter ...")

	if err := Component.Daemon().BackgroundWorker("Prometheus exporter", func(ctx context.Context) {
		Component.LogInfo("Starting Prometheus exporter ... done")

		server = &http.Server{
			Addr:              ParamsPrometheus.BindAddress,
			Handler:           newHandler(registry, ParamsPrometheus.PromhttpMetrics),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			Component.LogInfof("You can now access the Prometheus exporter using: http://%s/metrics", ParamsPrometheus.BindAddress)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Component.LogWarnf("Stopped Prometheus exporter due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Component.LogInfo("Stopping Prometheus exporter ...")

		if detach != nil {
			detach()
		}

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCtxCancel()

		//nolint:contextcheck // false positive
		if err := server.Shutdown(shutdownCtx); err != nil {
			Component.LogWarn(err)
		}

		Component.LogInfo("Stopping Prometheus exporter ... done")
	}, daemon.PriorityPrometheus); err != nil {
		Component.LogPanicf("failed to start worker: %s", err)
	}

	return nil
}
