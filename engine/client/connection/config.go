package connection

import (
	"time"
)

// DefaultClientTimeout is used when making a GRPC request to a network node.
const DefaultClientTimeout = 10 * time.Second

// Config configures the connection pool.
type Config struct {
	// CacheSize is the number of node connections kept open. 0 disables caching: every
	// request then dials its own connection and closes it afterwards.
	CacheSize int `mapstructure:"cache-size"`
	// Timeout bounds every call made on a connection.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxMsgSize is the largest response accepted, in bytes.
	MaxMsgSize uint `mapstructure:"max-msg-size"`
	// KeepaliveTime is how long a connection may stay idle before a keepalive ping.
	KeepaliveTime time.Duration `mapstructure:"keepalive-time"`
	// EnableGRPCMetrics reports per-method client metrics to the default prometheus registry.
	EnableGRPCMetrics bool `mapstructure:"enable-grpc-metrics"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit-breaker"`
	RateLimit      RateLimitConfig      `mapstructure:"rate-limit"`
}

// CircuitBreakerConfig configures the per-node circuit breaker. While open, calls to
// the node fail immediately without touching the network.
type CircuitBreakerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// RestoreTimeout is how long the breaker stays open before letting trial calls through.
	RestoreTimeout time.Duration `mapstructure:"restore-timeout"`
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32 `mapstructure:"max-failures"`
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32 `mapstructure:"max-requests"`
}

// RateLimitConfig configures the per-node client-side rate limit. Calls above the limit
// fail with codes.ResourceExhausted, which callers treat as a busy node.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Limit is the sustained number of calls per second.
	Limit float64 `mapstructure:"limit"`
	Burst int     `mapstructure:"burst"`
}

func DefaultConfig() Config {
	return Config{
		CacheSize:     64,
		Timeout:       DefaultClientTimeout,
		MaxMsgSize:    16 << 20,
		KeepaliveTime: 10 * time.Second,
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:        false,
			RestoreTimeout: 60 * time.Second,
			MaxFailures:    5,
			MaxRequests:    1,
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			Limit:   50,
			Burst:   10,
		},
	}
}
