// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"onghub/internal/domain/organization"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onghub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "onghub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	organizationCreateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "onghub_organization_create_duration_seconds",
		Help:    "Duration of organization create calls by result",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// CreateObserver feeds organization create outcomes into Prometheus.
type CreateObserver struct{}

var _ organization.CreateObserver = CreateObserver{}

func (CreateObserver) ObserveOrganizationCreate(result string, seconds float64) {
	organizationCreateDuration.WithLabelValues(result).Observe(seconds)
}

// RegisterPool exports connection pool statistics.
func RegisterPool(pool *pgxpool.Pool) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "onghub_db_pool_acquired_conns",
		Help: "Connections currently acquired from the pool",
	}, func() float64 { return float64(pool.Stat().AcquiredConns()) })

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "onghub_db_pool_total_conns",
		Help: "Connections currently open in the pool",
	}, func() float64 { return float64(pool.Stat().TotalConns()) })
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
