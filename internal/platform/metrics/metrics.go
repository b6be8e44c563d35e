package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated          prometheus.Counter
	AccountsCreated       prometheus.Counter
	AccountsClosed        prometheus.Counter
	TransactionsProcessed *prometheus.CounterVec
	TransactionsRejected  *prometheus.CounterVec
	SaveConflicts         prometheus.Counter
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return newWithRegisterer(prometheus.DefaultRegisterer)
}

// NewForTesting creates metrics on a private registry so parallel tests don't
// trip duplicate-registration panics.
func NewForTesting() *Metrics {
	return newWithRegisterer(prometheus.NewRegistry())
}

func newWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "eaglebank_users_created_total",
			Help: "Total number of users created.",
		}),
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "eaglebank_accounts_created_total",
			Help: "Total number of accounts opened.",
		}),
		AccountsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "eaglebank_accounts_closed_total",
			Help: "Total number of accounts closed and removed.",
		}),
		TransactionsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eaglebank_transactions_processed_total",
			Help: "Ledger entries written, by movement type.",
		}, []string{"type"}),
		TransactionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eaglebank_transactions_rejected_total",
			Help: "Transactions refused before any state change, by reason.",
		}, []string{"reason"}),
		SaveConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "eaglebank_save_conflicts_total",
			Help: "Optimistic-lock conflicts detected at save time.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eaglebank_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// Nil-safe increment helpers so services can run without metrics wired
// (unit tests, CLI tools).

func (m *Metrics) IncUsersCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

func (m *Metrics) IncAccountsCreated() {
	if m != nil {
		m.AccountsCreated.Inc()
	}
}

func (m *Metrics) IncAccountsClosed() {
	if m != nil {
		m.AccountsClosed.Inc()
	}
}

func (m *Metrics) IncTransactionsProcessed(txType string) {
	if m != nil {
		m.TransactionsProcessed.WithLabelValues(txType).Inc()
	}
}

func (m *Metrics) IncTransactionsRejected(reason string) {
	if m != nil {
		m.TransactionsRejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncSaveConflicts() {
	if m != nil {
		m.SaveConflicts.Inc()
	}
}

func (m *Metrics) ObserveRequestDuration(route, method, status string, elapsed time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
	}
}
