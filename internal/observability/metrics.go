// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Transfer metrics
	TransfersSubmitted *prometheus.CounterVec
	TransferErrors     *prometheus.CounterVec
	Confirmations      *prometheus.HistogramVec

	// Balance metrics
	BalanceQueries *prometheus.CounterVec

	// Latency metrics
	RPCCallLatency     *prometheus.HistogramVec
	HTTPRequestLatency *prometheus.HistogramVec

	// Swap metrics
	SwapRequests *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg registers with the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "solana_wallet_kit"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TransfersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "transfers_submitted_total",
			Help:      "Total transactions submitted by kind",
		}, []string{"kind"}),
		TransferErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "transfer_errors_total",
			Help:      "Total failed transfers by error kind",
		}, []string{"kind"}),
		Confirmations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transfer",
			Name:      "confirmation_seconds",
			Help:      "Time from submission to confirmation in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),

		BalanceQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "balance",
			Name:      "balance_queries_total",
			Help:      "Total balance queries by path",
		}, []string{"path"}),

		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		HTTPRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "http_request_latency_seconds",
			Help:      "Third-party HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "op"}),

		SwapRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "swap_requests_total",
			Help:      "Total aggregator requests by operation and status",
		}, []string{"op", "status"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordTransferSubmitted increments the submitted counter for a transaction kind.
func RecordTransferSubmitted(kind string) {
	DefaultMetrics.TransfersSubmitted.WithLabelValues(kind).Inc()
}

// RecordTransferError records a failed transfer.
func RecordTransferError(kind string) {
	DefaultMetrics.TransferErrors.WithLabelValues(kind).Inc()
}

// RecordConfirmation records how long confirmation took.
func RecordConfirmation(mode string, seconds float64) {
	DefaultMetrics.Confirmations.WithLabelValues(mode).Observe(seconds)
}

// RecordBalanceQuery increments the balance query counter.
func RecordBalanceQuery(path string) {
	DefaultMetrics.BalanceQueries.WithLabelValues(path).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordHTTPLatency records a third-party HTTP request latency.
func RecordHTTPLatency(service, op string, seconds float64) {
	DefaultMetrics.HTTPRequestLatency.WithLabelValues(service, op).Observe(seconds)
}

// RecordSwapRequest records an aggregator request outcome.
func RecordSwapRequest(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.SwapRequests.WithLabelValues(op, status).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
