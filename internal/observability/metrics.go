// Package observability holds the prometheus collectors shared by the service.
package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SearchRequestsTotal counts Engine.Search calls by retrieval outcome.
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentaku_search_requests_total",
			Help: "Total number of search calls by outcome",
		},
		[]string{"outcome"},
	)
	// RetrievalOutcomesTotal counts retriever results (ok, empty, unavailable).
	RetrievalOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentaku_retrieval_outcomes_total",
			Help: "Total number of retrieval outcomes",
		},
		[]string{"outcome"},
	)
	// SearchDuration observes Engine.Search latency.
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentaku_search_duration_seconds",
			Help:    "End-to-end search latency",
			Buckets: prometheus.DefBuckets,
		},
	)
	// BalanceInterleavedTotal counts balancer decisions.
	BalanceInterleavedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentaku_balance_interleaved_total",
			Help: "Balancer decisions by whether results were interleaved",
		},
		[]string{"interleaved"},
	)
	// EmbeddingRequestsTotal counts embedding provider calls by provider and status.
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentaku_embedding_requests_total",
			Help: "Embedding provider calls by provider and status",
		},
		[]string{"provider", "status"},
	)
	// HTTPRequestsTotal counts HTTP requests by method, route pattern and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentaku_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// HTTPRequestDuration observes HTTP latency by method and route pattern.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentaku_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal)
		prometheus.MustRegister(RetrievalOutcomesTotal)
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(BalanceInterleavedTotal)
		prometheus.MustRegister(EmbeddingRequestsTotal)
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
	})
}

// RecordEmbedding counts one provider call.
func RecordEmbedding(provider string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EmbeddingRequestsTotal.WithLabelValues(provider, status).Inc()
}

// HTTPMetricsMiddleware records request count and latency per chi route pattern.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
