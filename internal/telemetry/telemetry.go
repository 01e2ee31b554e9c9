package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for dispatching, agent execution
// and provider calls. Label values are plain strings so this package stays
// free of domain imports.
type Metrics struct {
	dispatches       prometheus.Counter
	dispatchDuration prometheus.Histogram
	agentExecutions  *prometheus.CounterVec
	agentDuration    *prometheus.HistogramVec
	providerRequests *prometheus.CounterVec
}

// NewMetrics registers the taskforce instruments on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		dispatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskforce_dispatches_total",
			Help: "Dispatch requests processed.",
		}),
		dispatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskforce_dispatch_duration_seconds",
			Help:    "Wall-clock duration of dispatch requests.",
			Buckets: prometheus.DefBuckets,
		}),
		agentExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taskforce_agent_executions_total",
			Help: "Agent invocations by agent and terminal status.",
		}, []string{"agent", "status"}),
		agentDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskforce_agent_duration_seconds",
			Help:    "Duration of individual agent invocations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"agent"}),
		providerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "taskforce_provider_requests_total",
			Help: "LLM provider calls by provider and result.",
		}, []string{"provider", "result"}),
	}
}

// RecordDispatch counts one finished dispatch request.
func (m *Metrics) RecordDispatch(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatches.Inc()
	m.dispatchDuration.Observe(elapsed.Seconds())
}

// RecordAgent counts one agent invocation with its terminal status.
func (m *Metrics) RecordAgent(agent, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.agentExecutions.WithLabelValues(agent, status).Inc()
	m.agentDuration.WithLabelValues(agent).Observe(elapsed.Seconds())
}

// RecordProvider counts one LLM provider call.
func (m *Metrics) RecordProvider(provider string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.providerRequests.WithLabelValues(provider, result).Inc()
}

// RegisterBusDrops exposes the notification bus drop counter as a metric.
// The bus itself stays dependency-free; this reads its counter lazily.
func RegisterBusDrops(reg prometheus.Registerer, dropped func() uint64) {
	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "taskforce_notify_dropped_total",
		Help: "Notification events dropped due to full subscriber queues.",
	}, func() float64 { return float64(dropped()) }))
}
