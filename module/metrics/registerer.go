package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// register registers c with r and returns it, so collectors can be declared and
// registered in one expression.
func register[C prometheus.Collector](r prometheus.Registerer, c C) C {
	r.MustRegister(c)
	return c
}
