package execute

import (
	"time"
)

// Config configures the execution engine. It is the default for every request; requests
// implementing Overrider may change the retry budget for themselves.
type Config struct {
	// AttemptTimeout bounds a single exchange with a node.
	AttemptTimeout time.Duration
	// MaxAttempts bounds the number of exchanges of one request, over all nodes.
	MaxAttempts int
	// MinBackoff is the first delay between two attempts.
	MinBackoff time.Duration
	// MaxBackoff caps the delay between two attempts.
	MaxBackoff time.Duration
	// JitterPercent randomizes every delay by up to this share of its value.
	JitterPercent uint64
	// MaxElapsed bounds the total time spent on one request, including backoffs.
	MaxElapsed time.Duration

	Policy Policy
}

func DefaultConfig() Config {
	return Config{
		AttemptTimeout: 10 * time.Second,
		MaxAttempts:    10,
		MinBackoff:     250 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		JitterPercent:  20,
		MaxElapsed:     2 * time.Minute,
		Policy:         DefaultPolicy(),
	}
}

// Options are per-request overrides of the retry budget. Zero fields keep the engine
// defaults.
type Options struct {
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
	MaxElapsed  time.Duration
}

func (c Config) with(o Options) Config {
	if o.MaxAttempts > 0 {
		c.MaxAttempts = o.MaxAttempts
	}
	if o.MinBackoff > 0 {
		c.MinBackoff = o.MinBackoff
	}
	if o.MaxBackoff > 0 {
		c.MaxBackoff = o.MaxBackoff
	}
	if o.MaxElapsed > 0 {
		c.MaxElapsed = o.MaxElapsed
	}
	if c.MaxBackoff < c.MinBackoff {
		c.MaxBackoff = c.MinBackoff
	}
	return c
}
