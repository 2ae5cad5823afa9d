package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the Prometheus scrape endpoint
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a metrics handler over the given registry. A nil
// registry serves the default gatherer.
func NewMetricsHandler(registry *prometheus.Registry) *MetricsHandler {
	if registry == nil {
		return &MetricsHandler{handler: promhttp.Handler()}
	}
	return &MetricsHandler{
		handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			Registry:          registry,
			EnableOpenMetrics: true,
		}),
	}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}
