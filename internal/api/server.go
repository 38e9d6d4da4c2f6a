// Package api exposes fingerprinting, anchoring, diagnostics and the stamp
// registry over HTTP.
package api

import (
	"context"
	"time"

	"github.com/iotaledger/hive.go/logger"
	"github.com/labstack/echo/v4"

	"github.com/cryptocreeper94-sudo/orby-sub003/internal/ledger"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/stamp"
	"github.com/cryptocreeper94-sudo/orby-sub003/internal/verification"
)

const (
	RouteHealth      = "/health"
	RouteFingerprint = "/api/v1/fingerprints"
	RouteAnchor      = "/api/v1/anchors"
	RouteContentHash = "/api/v1/content-hash"
	RouteDiagnostics = "/api/v1/diagnostics"
	RouteStamps      = "/api/v1/stamps"
	RouteStamp       = "/api/v1/stamps/:id"
	RouteStampAnchor = "/api/v1/stamps/:id/anchor"

	// QueryNetwork overrides the default network on anchoring and diagnostics routes.
	QueryNetwork = "network"
)

// Prober reports ledger connectivity. *ledger.Client satisfies it.
type Prober interface {
	Probe(ctx context.Context, network ledger.Network) ledger.Report
}

type Options struct {
	Network  ledger.Network
	Platform stamp.Platform
	// MaxContentBytes bounds bodies hashed by the content-hash route.
	MaxContentBytes int64
}

type Server struct {
	*logger.WrappedLogger

	orchestrator *verification.Orchestrator
	prober       Prober
	stamps       *stamp.Store
	opts         Options
	now          func() time.Time
}

func NewServer(log *logger.Logger, orchestrator *verification.Orchestrator, prober Prober, stamps *stamp.Store, opts Options) *Server {
	if opts.Network == "" {
		opts.Network = ledger.Devnet
	}
	if opts.MaxContentBytes <= 0 {
		opts.MaxContentBytes = 32 << 20
	}

	return &Server{
		WrappedLogger: logger.NewWrappedLogger(log),
		orchestrator:  orchestrator,
		prober:        prober,
		stamps:        stamps,
		opts:          opts,
		now:           time.Now,
	}
}

// RegisterRoutes adds all routes to e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET(RouteHealth, s.health)

	e.POST(RouteFingerprint, s.fingerprint)
	e.POST(RouteAnchor, s.anchor)
	e.POST(RouteContentHash, s.contentHash)
	e.GET(RouteDiagnostics, s.diagnostics)

	e.POST(RouteStamps, s.createStamp)
	e.GET(RouteStamps, s.listStamps)
	e.GET(RouteStamp, s.getStamp)
	e.POST(RouteStampAnchor, s.anchorStamp)
}
