package errors

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"trainpulse/internal/shared/testutil"
)

func TestErrorMiddleware_Handler(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantLevel  slog.Level
	}{
		{
			name:       "success",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok")) },
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
		},
		{
			name:       "client error",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadRequest) },
			wantStatus: http.StatusBadRequest,
			wantLevel:  slog.LevelWarn,
		},
		{
			name:       "panic",
			handler:    func(w http.ResponseWriter, r *http.Request) { panic("boom") },
			wantStatus: http.StatusInternalServerError,
			wantLevel:  slog.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			m := NewErrorMiddleware(NewErrorHandler(logger, false), logger)

			w := httptest.NewRecorder()
			m.Handler(tt.handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/records?status=TER", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			testutil.AssertLogContains(t, logs, tt.wantLevel, "http request")
			testutil.AssertLogAttr(t, logs, "query", "status=TER")
			testutil.AssertLogAttr(t, logs, "status", int64(tt.wantStatus))
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	mw := RecoveryMiddleware(NewErrorHandler(logger, false))

	w := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
