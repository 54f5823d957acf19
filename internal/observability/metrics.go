// Package observability provides Prometheus metrics and structured logging.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram

	// Provider metrics
	ProviderCalls   *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec

	// Explanation metrics
	ExplanationsTotal *prometheus.CounterVec
	LLMLatency        prometheus.Histogram

	// Solana metrics
	RPCCallLatency *prometheus.HistogramVec
	RPCCallErrors  *prometheus.CounterVec

	// Bot metrics
	BotMessagesTotal *prometheus.CounterVec
	BotRateLimited   prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAnalysis prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "tokenbrain"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "analyses_total",
			Help:      "Total number of analyses by outcome and risk level",
		}, []string{"outcome", "risk"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analyzer",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokendata",
			Name:      "provider_calls_total",
			Help:      "Total number of token data provider calls by status",
		}, []string{"provider", "status"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tokendata",
			Name:      "provider_latency_seconds",
			Help:      "Token data provider latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),

		ExplanationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "explain",
			Name:      "explanations_total",
			Help:      "Total number of explanations by source",
		}, []string{"source"}),
		LLMLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "explain",
			Name:      "llm_latency_seconds",
			Help:      "LLM generation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RPCCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_errors_total",
			Help:      "Total number of failed Solana RPC calls",
		}, []string{"method"}),

		BotMessagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "messages_total",
			Help:      "Total number of handled bot messages by kind",
		}, []string{"kind"}),
		BotRateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the per-user rate limit",
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulAnalysis: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("", nil)

// RecordAnalysis records a finished analysis. risk is empty on failure.
func RecordAnalysis(risk string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failed"
	} else {
		DefaultMetrics.LastSuccessfulAnalysis.SetToCurrentTime()
	}
	DefaultMetrics.AnalysesTotal.WithLabelValues(outcome, risk).Inc()
	DefaultMetrics.AnalysisDuration.Observe(duration.Seconds())
}

// RecordProviderCall records one provider fetch.
// status is one of ok, empty, error or timeout.
func RecordProviderCall(provider, status string, duration time.Duration) {
	DefaultMetrics.ProviderCalls.WithLabelValues(provider, status).Inc()
	DefaultMetrics.ProviderLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordExplanation records the source of a produced explanation.
func RecordExplanation(source string) {
	DefaultMetrics.ExplanationsTotal.WithLabelValues(source).Inc()
}

// RecordLLMLatency records one LLM generation attempt.
func RecordLLMLatency(duration time.Duration) {
	DefaultMetrics.LLMLatency.Observe(duration.Seconds())
}

// RecordRPCCall records RPC call latency and failure.
func RecordRPCCall(method string, seconds float64, err error) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
	if err != nil {
		DefaultMetrics.RPCCallErrors.WithLabelValues(method).Inc()
	}
}

// RecordBotMessage counts a handled bot message.
func RecordBotMessage(kind string) {
	DefaultMetrics.BotMessagesTotal.WithLabelValues(kind).Inc()
}

// RecordRateLimited counts a rejected request.
func RecordRateLimited() {
	DefaultMetrics.BotRateLimited.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
