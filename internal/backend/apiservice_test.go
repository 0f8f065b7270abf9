package backend

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jo-hoe/hoasite/internal/backend/metrics"
	"github.com/labstack/echo/v4"
)

type stubPinger bool

func (p stubPinger) Ping() bool { return bool(p) }

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProbe(t *testing.T) {
	e := echo.New()
	NewAPIService(stubPinger(true), nil).SetRoutes(e)

	rec := serve(e, "/probe")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("probe: status = %d, body = %q", rec.Code, rec.Body.String())
	}
	if rec := serve(e, "/metrics"); rec.Code != http.StatusNotFound {
		t.Errorf("metrics without registry: status = %d, want 404", rec.Code)
	}
}

func TestProbe_DatabaseDown(t *testing.T) {
	e := echo.New()
	NewAPIService(stubPinger(false), nil).SetRoutes(e)

	if rec := serve(e, "/probe"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("probe: status = %d, want 503", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New("hoa")
	e := echo.New()
	e.Use(m.Middleware())
	NewAPIService(stubPinger(true), m).SetRoutes(e)

	serve(e, "/probe")
	rec := serve(e, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `hoa_http_requests_total{method="GET",route="/probe",status="200"} 1`) {
		t.Errorf("expected probe request in metrics output:\n%s", rec.Body.String())
	}
}
