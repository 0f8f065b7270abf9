package backend

import (
	"net/http"

	"github.com/jo-hoe/hoasite/internal/backend/metrics"
	"github.com/labstack/echo/v4"
)

// Pinger reports whether the storage behind the site is reachable.
type Pinger interface {
	Ping() bool
}

// APIService serves the machine-facing endpoints: the liveness probe and the
// Prometheus metrics.
type APIService struct {
	pinger  Pinger
	metrics *metrics.Metrics
}

func NewAPIService(pinger Pinger, m *metrics.Metrics) *APIService {
	return &APIService{
		pinger:  pinger,
		metrics: m,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", s.probeHandler)
	if s.metrics != nil {
		e.GET("/metrics", s.metrics.Handler())
	}
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if s.pinger != nil && !s.pinger.Ping() {
		return ctx.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return ctx.String(http.StatusOK, "ok")
}
