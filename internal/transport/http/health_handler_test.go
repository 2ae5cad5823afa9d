package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbadash/internal/services"
	"nbadash/internal/shared/testutil"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		sourceErr  error
		wantStatus int
		wantState  string
	}{
		{name: "health", endpoint: "/api/health", wantStatus: http.StatusOK, wantState: "ok"},
		{name: "live", endpoint: "/api/health/live", wantStatus: http.StatusOK, wantState: "alive"},
		{name: "ready", endpoint: "/api/health/ready", wantStatus: http.StatusOK, wantState: "ready"},
		{name: "source down", endpoint: "/api/health/ready", sourceErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantState: "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			deps := map[string]services.Pinger{
				"data_source": services.PingFunc(func(context.Context) error { return tt.sourceErr }),
			}
			handler := NewHealthHandler(services.NewHealthService("v1.0.0-test", "https://example.com/repo", deps, logger), logger)

			r := chi.NewRouter()
			r.Route("/api", handler.Routes)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.endpoint, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body["status"])
			assert.Equal(t, "v1.0.0-test", body["version"])
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "nbadash_test_total", Help: "test counter"})
	registry.MustRegister(counter)
	counter.Inc()

	w := httptest.NewRecorder()
	NewMetricsHandler(registry).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "nbadash_test_total 1"))
}
