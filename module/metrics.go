package module

import (
	"time"

	httpmetrics "github.com/slok/go-http-metrics/metrics"
)

// GRPCConnectionPoolMetrics tracks the connection pool to network nodes.
type GRPCConnectionPoolMetrics interface {
	// TotalConnectionsInPool updates the number of connections to nodes stored in the pool, and the size of the pool
	TotalConnectionsInPool(connectionCount uint, connectionPoolSize uint)

	// ConnectionFromPoolReused tracks the number of times a connection to a node is reused from the connection pool
	ConnectionFromPoolReused()

	// ConnectionAddedToPool tracks the number of times a node is added to the connection pool
	ConnectionAddedToPool()

	// NewConnectionEstablished tracks the number of times a new grpc connection is established
	NewConnectionEstablished()

	// ConnectionFromPoolInvalidated tracks the number of times a cached grpc connection is invalidated and closed
	ConnectionFromPoolInvalidated()

	// ConnectionFromPoolEvicted tracks the number of times a cached connection is evicted from the cache
	ConnectionFromPoolEvicted()
}

// ExecutionMetrics tracks requests run through the execution engine.
type ExecutionMetrics interface {
	// AttemptFinished records one transmission to a node and how it was classified.
	AttemptFinished(method string, outcome string, duration time.Duration)

	// BackoffWaited records the time spent waiting between two attempts.
	BackoffWaited(duration time.Duration)

	// RequestFinished records the end of a request, over all of its attempts.
	RequestFinished(method string, result string, attempts int, duration time.Duration)

	// NodeMarkedUnhealthy counts the times a node was taken out of rotation.
	NodeMarkedUnhealthy(node string)
}

// ReceiptMetrics tracks receipt polling.
type ReceiptMetrics interface {
	// ReceiptPolled records the status returned by one receipt poll.
	ReceiptPolled(status string)

	// ReceiptWaitFinished records how long it took for a receipt to become final, or to give up.
	ReceiptWaitFinished(result string, duration time.Duration)
}

// ClientMetrics is everything the client reports.
type ClientMetrics interface {
	GRPCConnectionPoolMetrics
	ExecutionMetrics
	ReceiptMetrics
}

// MetricsServerMetrics records the requests served by the metrics server.
type MetricsServerMetrics interface {
	// Example recorder taken from:
	// https://github.com/slok/go-http-metrics/blob/master/metrics/prometheus/prometheus.go
	httpmetrics.Recorder
}
