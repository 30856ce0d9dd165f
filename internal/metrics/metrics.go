// internal/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Schema migrations applied, by version and outcome
	MigrationsApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_schema_migrations_total",
		Help: "Schema migrations attempted against the store, by version and result",
	}, []string{"version", "result"})

	MigrationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_schema_migration_duration_seconds",
		Help:    "Time spent applying a single schema migration",
		Buckets: prometheus.DefBuckets,
	}, []string{"version"})

	SchemaVersion = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pos_schema_version",
		Help: "Highest schema version recorded as applied",
	})

	RequestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	SalesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_recorded_total",
		Help: "Sales recorded through the point of sale",
	})

	BackupsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_store_backups_total",
		Help: "Store backups taken, by destination and result",
	}, []string{"destination", "result"})
)

var once sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			MigrationsApplied,
			MigrationDuration,
			SchemaVersion,
			RequestCounter,
			RequestDuration,
			SalesRecorded,
			BackupsCreated,
		)
	})
}
