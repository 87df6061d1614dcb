package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ledgerexec/ledgerexec/module"
)

// ClientCollector implements module.ClientMetrics with prometheus collectors.
type ClientCollector struct {
	connectionsInPool     prometheus.Gauge
	connectionPoolSize    prometheus.Gauge
	connectionReused      prometheus.Counter
	connectionAdded       prometheus.Counter
	connectionEstablished prometheus.Counter
	connectionInvalidated prometheus.Counter
	connectionEvicted     prometheus.Counter
	attemptDuration       *prometheus.HistogramVec
	backoffDuration       prometheus.Histogram
	requestDuration       *prometheus.HistogramVec
	requestAttempts       *prometheus.HistogramVec
	nodeMarkedUnhealthy   *prometheus.CounterVec
	receiptPolls          *prometheus.CounterVec
	receiptWaitDuration   *prometheus.HistogramVec
}

var _ module.ClientMetrics = (*ClientCollector)(nil)

// NewClientCollector creates the collector and registers it with registerer. Use
// prometheus.DefaultRegisterer to expose it through the metrics server.
func NewClientCollector(registerer prometheus.Registerer) *ClientCollector {
	return &ClientCollector{
		connectionsInPool: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "connections_in_pool",
			Namespace: namespaceClient,
			Subsystem: subsystemConnectionPool,
			Help:      "number of cached connections to network nodes",
		})),
		connectionPoolSize: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "pool_size",
			Namespace: namespaceClient,
			Subsystem: subsystemConnectionPool,
			Help:      "maximum number of cached connections",
		})),
		connectionReused: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "reused_total",
			Namespace: namespaceClient,
			Subsystem: subsystemConnectionPool,
			Help:      "number of times a cached connection was reused",
		})),
		connectionAdded: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "added_total",
			Namespace: namespaceClient,
			Subsystem: subsystemConnectionPool,
			Help:      "number of times a node was added to the pool",
		})),
		connectionEstablished: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "established_total",
			Namespace: namespaceClient,
			Subsystem: subsystemConnectionPool,
			Help:      "number of grpc connections established",
		})),
		connectionInvalidated: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "invalidated_total",
			Namespace: namespaceClient,
			Subsystem: subsystemConnectionPool,
			Help:      "number of cached connections invalidated and closed",
		})),
		connectionEvicted: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "evicted_total",
			Namespace: namespaceClient,
			Subsystem: subsystemConnectionPool,
			Help:      "number of cached connections evicted from the pool",
		})),
		attemptDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "attempt_duration_seconds",
			Namespace: namespaceClient,
			Subsystem: subsystemExecution,
			Help:      "duration of a single transmission to a node, by outcome",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{LabelMethod, LabelOutcome})),
		backoffDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:      "backoff_duration_seconds",
			Namespace: namespaceClient,
			Subsystem: subsystemExecution,
			Help:      "time spent waiting between two attempts",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		})),
		requestDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "request_duration_seconds",
			Namespace: namespaceClient,
			Subsystem: subsystemExecution,
			Help:      "duration of a request over all of its attempts",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{LabelMethod, LabelResult})),
		requestAttempts: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "request_attempts",
			Namespace: namespaceClient,
			Subsystem: subsystemExecution,
			Help:      "number of attempts a request needed",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}, []string{LabelMethod, LabelResult})),
		nodeMarkedUnhealthy: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "node_unhealthy_total",
			Namespace: namespaceClient,
			Subsystem: subsystemExecution,
			Help:      "number of times a node was taken out of rotation",
		}, []string{LabelNode})),
		receiptPolls: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "polls_total",
			Namespace: namespaceClient,
			Subsystem: subsystemReceipt,
			Help:      "receipt polls by returned status",
		}, []string{LabelStatus})),
		receiptWaitDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "wait_duration_seconds",
			Namespace: namespaceClient,
			Subsystem: subsystemReceipt,
			Help:      "time from submission until a receipt was final or polling gave up",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{LabelResult})),
	}
}

func (c *ClientCollector) TotalConnectionsInPool(connectionCount uint, connectionPoolSize uint) {
	c.connectionsInPool.Set(float64(connectionCount))
	c.connectionPoolSize.Set(float64(connectionPoolSize))
}

func (c *ClientCollector) ConnectionFromPoolReused() {
	c.connectionReused.Inc()
}

func (c *ClientCollector) ConnectionAddedToPool() {
	c.connectionAdded.Inc()
}

func (c *ClientCollector) NewConnectionEstablished() {
	c.connectionEstablished.Inc()
}

func (c *ClientCollector) ConnectionFromPoolInvalidated() {
	c.connectionInvalidated.Inc()
}

func (c *ClientCollector) ConnectionFromPoolEvicted() {
	c.connectionEvicted.Inc()
}

func (c *ClientCollector) AttemptFinished(method string, outcome string, duration time.Duration) {
	c.attemptDuration.WithLabelValues(method, outcome).Observe(duration.Seconds())
}

func (c *ClientCollector) BackoffWaited(duration time.Duration) {
	c.backoffDuration.Observe(duration.Seconds())
}

func (c *ClientCollector) RequestFinished(method string, result string, attempts int, duration time.Duration) {
	c.requestDuration.WithLabelValues(method, result).Observe(duration.Seconds())
	c.requestAttempts.WithLabelValues(method, result).Observe(float64(attempts))
}

func (c *ClientCollector) NodeMarkedUnhealthy(node string) {
	c.nodeMarkedUnhealthy.WithLabelValues(node).Inc()
}

func (c *ClientCollector) ReceiptPolled(status string) {
	c.receiptPolls.WithLabelValues(status).Inc()
}

func (c *ClientCollector) ReceiptWaitFinished(result string, duration time.Duration) {
	c.receiptWaitDuration.WithLabelValues(result).Observe(duration.Seconds())
}
