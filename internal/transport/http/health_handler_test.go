package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "trainpulse/internal/errors"
	"trainpulse/internal/services"
	"trainpulse/internal/shared/testutil"
)

type checkerFunc func(ctx context.Context, spreadsheetID string) error

func (f checkerFunc) Check(ctx context.Context, spreadsheetID string) error {
	return f(ctx, spreadsheetID)
}

func newHealthRouter(t *testing.T, check checkerFunc) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewHealthHandler(services.NewHealthService("1.2.3", "sheet-1", check, logger), logger)

	r := chi.NewRouter()
	r.Get("/health", h.HealthCheck)
	r.Get("/health/ready", h.ReadinessCheck)
	r.Get("/version", h.Version)
	return r
}

func TestHealthHandler_HealthCheck(t *testing.T) {
	r := newHealthRouter(t, func(context.Context, string) error {
		t.Fatal("liveness must not touch the spreadsheet")
		return nil
	})

	rec := get(t, r, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	decode(t, rec, &status)
	assert.Equal(t, services.StatusOK, status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Contains(t, status.Runtime, "go_version")
}

func TestHealthHandler_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		status string
	}{
		{"ready", nil, http.StatusOK, services.StatusReady},
		{"sheet unreachable", apierrors.NewTransportError("dial tcp", errors.New("refused")), http.StatusServiceUnavailable, services.StatusNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var probed string
			r := newHealthRouter(t, func(_ context.Context, id string) error {
				probed = id
				return tt.err
			})

			rec := get(t, r, "/health/ready")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "sheet-1", probed)

			var status services.HealthStatus
			decode(t, rec, &status)
			assert.Equal(t, tt.status, status.Status)
			assert.Contains(t, status.Services, "sheets")
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	rec := get(t, newHealthRouter(t, nil), "/version")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "1.2.3", body["version"])
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	t.Run("disabled", func(t *testing.T) {
		rec := get(t, NewMetricsHandler(nil, errorHandler), "/metrics")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		prom := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("sheets_fetch_total 1\n"))
		})
		rec := httptest.NewRecorder()
		NewMetricsHandler(prom, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "sheets_fetch_total")
	})
}
