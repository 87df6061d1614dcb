package metrics

import (
	"time"

	"github.com/ledgerexec/ledgerexec/module"
)

type NoopCollector struct{}

var _ module.ClientMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) TotalConnectionsInPool(connectionCount uint, connectionPoolSize uint) {}
func (nc *NoopCollector) ConnectionFromPoolReused()                                           {}
func (nc *NoopCollector) ConnectionAddedToPool()                                              {}
func (nc *NoopCollector) NewConnectionEstablished()                                           {}
func (nc *NoopCollector) ConnectionFromPoolInvalidated()                                      {}
func (nc *NoopCollector) ConnectionFromPoolEvicted()                                          {}
func (nc *NoopCollector) AttemptFinished(method string, outcome string, duration time.Duration) {
}
func (nc *NoopCollector) BackoffWaited(duration time.Duration) {}
func (nc *NoopCollector) RequestFinished(method string, result string, attempts int, duration time.Duration) {
}
func (nc *NoopCollector) NodeMarkedUnhealthy(node string)                           {}
func (nc *NoopCollector) ReceiptPolled(status string)                               {}
func (nc *NoopCollector) ReceiptWaitFinished(result string, duration time.Duration) {}
