package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"trainpulse/internal/config"
	apperrors "trainpulse/internal/errors"
	"trainpulse/internal/shared/testutil"
)

func newTestApp(t *testing.T) (*Application, *testutil.FakeSheets) {
	t.Helper()
	fake := testutil.NewFakeSheets(t, testutil.SheetRows())

	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.Host = "127.0.0.1"
	cfg.Sheets.SpreadsheetID = "sheet-1"
	cfg.Sheets.Endpoint = fake.Endpoint()
	cfg.Sheets.RequestsPerMinute = 0

	app, err := NewApplication(cfg, option.WithoutAuthentication())
	require.NoError(t, err)
	t.Cleanup(func() {
		app.OTelProviders.Shutdown(context.Background())
	})
	return app, fake
}

func serve(t *testing.T, app *Application, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNewApplication_RequiresConfig(t *testing.T) {
	_, err := NewApplication(nil)
	assert.Error(t, err)
}

func TestApplication_Records(t *testing.T) {
	app, fake := newTestApp(t)

	rec := serve(t, app, http.MethodGet, "/api/v1/records?status=TER")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Count   int                      `json:"count"`
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "NDLS", body.Records[0]["Station"])

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, 1, fake.ValuesCalls())
	assert.Contains(t, fake.LastValuesQuery(), "valueRenderOption=UNFORMATTED_VALUE")
}

func TestApplication_UpstreamErrors(t *testing.T) {
	tests := []struct {
		upstream    int
		status      int
		problemType string
	}{
		{http.StatusForbidden, http.StatusForbidden, apperrors.TypeSheetAccessDenied},
		{http.StatusNotFound, http.StatusNotFound, apperrors.TypeSheetNotFound},
		{http.StatusConflict, http.StatusBadGateway, apperrors.TypeSheetUpstream},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.upstream), func(t *testing.T) {
			app, fake := newTestApp(t)
			fake.SetStatus(tt.upstream)

			rec := serve(t, app, http.MethodGet, "/api/v1/reports/stations")
			assert.Equal(t, tt.status, rec.Code)

			var problem map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, tt.problemType, problem["type"])
			assert.NotEmpty(t, problem["trace_id"])
		})
	}
}

func TestApplication_Readiness(t *testing.T) {
	app, fake := newTestApp(t)

	rec := serve(t, app, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	fake.SetStatus(http.StatusForbidden)
	rec = serve(t, app, http.MethodGet, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(t, app, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code, "liveness ignores the spreadsheet")
}

func TestApplication_Metrics(t *testing.T) {
	app, _ := newTestApp(t)

	require.Equal(t, http.StatusOK, serve(t, app, http.MethodGet, "/api/v1/statistics?field=Sl+No").Code)

	rec := serve(t, app, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/v1/statistics"`)
	assert.Contains(t, rec.Body.String(), "sheets_fetch_total")
}

func TestApplication_RoutingErrors(t *testing.T) {
	app, _ := newTestApp(t)

	rec := serve(t, app, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apperrors.TypeNotFound, problem["type"])

	rec = serve(t, app, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApplication_StartStop(t *testing.T) {
	app, _ := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Start(ctx, cancel))

	// give the listener a moment
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	assert.NoError(t, app.Stop(stopCtx))
	assert.NoError(t, ctx.Err(), "a clean shutdown does not cancel the serve context")
}
