package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Budget metrics
	BudgetsCreated  prometheus.Counter
	BudgetsArchived prometheus.Counter
	BudgetsExceeded prometheus.Counter
	BudgetErrors    *prometheus.CounterVec

	// Spending metrics
	SpendingRecorded prometheus.Counter
	SpendingRemoved  prometheus.Counter
	SpendingAmount   prometheus.Histogram
	SpendingDuration prometheus.Histogram

	// Transaction metrics
	TransactionsCreated *prometheus.CounterVec
	RecurringProcessed  prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Outbox metrics
	EventsPublished prometheus.Counter
	EventErrors     prometheus.Counter

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Budget metrics
		BudgetsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_budgets_created_total",
			Help: "Total number of budgets created",
		}),
		BudgetsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_budgets_archived_total",
			Help: "Total number of budgets archived",
		}),
		BudgetsExceeded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_budgets_exceeded_total",
			Help: "Total number of times a spend pushed a budget past its limit",
		}),
		BudgetErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_budget_errors_total",
				Help: "Total number of budget operation errors by type",
			},
			[]string{"error_type"},
		),

		// Spending metrics
		SpendingRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_spending_recorded_total",
			Help: "Total number of spending entries recorded",
		}),
		SpendingRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_spending_removed_total",
			Help: "Total number of spending entries removed",
		}),
		SpendingAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobudget_spending_amount",
			Help:    "Spending amounts",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		SpendingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobudget_spending_duration_seconds",
			Help:    "Duration of spend operations",
			Buckets: prometheus.DefBuckets,
		}),

		// Transaction metrics
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_transactions_created_total",
				Help: "Total transactions created by type",
			},
			[]string{"type"},
		),
		RecurringProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_recurring_processed_total",
			Help: "Total recurring transactions materialized by the worker",
		}),

		// Cache metrics
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_cache_hits_total",
				Help: "Total cache hits",
			},
			[]string{"cache"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_cache_misses_total",
				Help: "Total cache misses",
			},
			[]string{"cache"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobudget_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "gobudget_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		// Outbox metrics
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_events_published_total",
			Help: "Total outbox events published",
		}),
		EventErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobudget_event_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobudget_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
