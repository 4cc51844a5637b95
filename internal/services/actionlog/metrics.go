package actionlog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "variables_service"

// Metrics holds the audit pipeline collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	enqueued  prometheus.Counter
	dropped   prometheus.Counter
	persisted prometheus.Counter
	failed    prometheus.Counter
	batchSize prometheus.Histogram
	deleted   prometheus.Counter
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		enqueued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "action_log",
			Name:      "enqueued_total",
			Help:      "Total number of action log entries accepted into the queue",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "action_log",
			Name:      "dropped_total",
			Help:      "Total number of action log entries dropped due to queue overflow",
		}),
		persisted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "action_log",
			Name:      "persisted_total",
			Help:      "Total number of action log entries written to the audit store",
		}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "action_log",
			Name:      "persist_failures_total",
			Help:      "Total number of action log batches the audit store rejected",
		}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "action_log",
			Name:      "batch_size",
			Help:      "Number of entries per persisted batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "action_log",
			Name:      "retention_deleted_total",
			Help:      "Total number of action log entries removed by retention",
		}),
	}
}

func (m *Metrics) recordEnqueued() {
	if m != nil {
		m.enqueued.Inc()
	}
}

func (m *Metrics) recordDropped() {
	if m != nil {
		m.dropped.Inc()
	}
}

func (m *Metrics) recordBatch(size int, err error) {
	if m == nil {
		return
	}
	m.batchSize.Observe(float64(size))
	if err != nil {
		m.failed.Inc()
		return
	}
	m.persisted.Add(float64(size))
}

func (m *Metrics) recordDeleted(n int64) {
	if m != nil {
		m.deleted.Add(float64(n))
	}
}
