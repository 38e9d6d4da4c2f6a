package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/iotaledger/hive.go/app"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/api"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/stamp"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
	"github.com/cryptocreeper94-sudo/orby-sub003/pkg/daemon"
)

func init() {
	Component = &app.Component{
		Name:      "RestAPI",
		DepsFunc:  func(cDeps dependencies) { deps = cDeps },
		Params:    params,
		Provide:   provide,
		Configure: configure,
		Run:       run,
	}
}

var (
	Component *app.Component
	deps      dependencies
)

type dependencies struct {
	dig.In

	Echo         *echo.Echo
	Orchestrator *verification.Orchestrator
	LedgerClient *ledger.Client
	Stamps       *stamp.Store
	Network      ledger.Network
	Platform     stamp.Platform
}

func provide(c *dig.Container) error {
	if err := c.Provide(func() *echo.Echo {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.HTTPErrorHandler = func(err error, c echo.Context) {
			var he *echo.HTTPError
			if errors.As(err, &he) && he.Code >= http.StatusInternalServerError {
				Component.LogWarnf("%s %s: %s", c.Request().Method, c.Path(), err)
			}
			e.DefaultHTTPErrorHandler(err, c)
		}

		e.Use(middleware.Recover())
		if ParamsRestAPI.DebugRequestLoggerEnabled {
			e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
				LogMethod: true,
				LogURI:    true,
				LogStatus: true,
				LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
					Component.LogDebugf("%s %s %d", v.Method, v.URI, v.Status)
					return nil
				},
			}))
		}
		e.Use(middleware.CORS())
		if ParamsRestAPI.UseGZIP {
			e.Use(middleware.Gzip())
		}
		e.Use(middleware.BodyLimit(ParamsRestAPI.Limits.MaxBodyLength))

		return e
	}); err != nil {
		Component.LogPanic(err)
	}

	return nil
}

func configure() error {
	if ParamsRestAPI.RateLimiting.Enabled {
		rl := newIPRateLimiter(
			ParamsRestAPI.RateLimiting.MaxRequestsPerSecond,
			ParamsRestAPI.RateLimiting.Burst,
		)
		deps.Echo.Use(rateLimitMiddleware(rl))
		Component.LogInfof("Rate limiting enabled: %.1f req/s, burst %d",
			ParamsRestAPI.RateLimiting.MaxRequestsPerSecond,
			ParamsRestAPI.RateLimiting.Burst)
	}

	server := api.NewServer(
		Component.App().NewLogger("API"),
		deps.Orchestrator,
		deps.LedgerClient,
		deps.Stamps,
		api.Options{
			Network:         deps.Network,
			Platform:        deps.Platform,
			MaxContentBytes: ParamsRestAPI.Limits.MaxContentBytes,
		},
	)
	server.RegisterRoutes(deps.Echo)

	return nil
}

func run() error {
	if !ParamsRestAPI.Enabled {
		Component.LogInfo("REST-API server disabled")
		return nil
	}

	Component.LogInfo("Starting REST-API server ...")

	if err := Component.Daemon().BackgroundWorker("REST-API server", func(ctx context.Context) {
		Component.LogInfo("Starting REST-API server ... done")

		bindAddr := ParamsRestAPI.BindAddress

		go func() {
			Component.LogInfof("You can now access the API using: http://%s", bindAddr)
			if err := deps.Echo.Start(bindAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Component.LogWarnf("Stopped REST-API server due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Component.LogInfo("Stopping REST-API server ...")

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCtxCancel()

		//nolint:contextcheck // false positive
		if err := deps.Echo.Shutdown(shutdownCtx); err != nil {
			Component.LogWarn(err)
		}

		Component.LogInfo("Stopping REST-API server ... done")
	}, daemon.PriorityRestAPI); err != nil {
		Component.LogPanicf("failed to start worker: %s", err)
	}

	return nil
}
