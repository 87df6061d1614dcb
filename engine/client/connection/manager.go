package connection

import (
	"context"
	"fmt"
	"io"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/ledgerexec/ledgerexec/model/encoding/cbor"
	"github.com/ledgerexec/ledgerexec/module"
)

// Manager provides methods for getting and managing gRPC client connections to network
// nodes. It never retries on its own: failures are returned to the caller, which
// decides whether to try another node.
type Manager struct {
	cache       *Cache
	logger      zerolog.Logger
	metrics     module.GRPCConnectionPoolMetrics
	config      Config
	dialOptions []grpc.DialOption
}

// NewManager creates a new Manager. A nil cache disables connection reuse. Extra dial
// options are appended to the defaults; tests use them to install in-memory dialers.
func NewManager(
	logger zerolog.Logger,
	metrics module.GRPCConnectionPoolMetrics,
	cache *Cache,
	config Config,
	dialOptions ...grpc.DialOption,
) *Manager {
	return &Manager{
		cache:       cache,
		logger:      logger.With().Str("component", "connection_manager").Logger(),
		metrics:     metrics,
		config:      config,
		dialOptions: dialOptions,
	}
}

// GetConnection returns a gRPC client connection for the given address.
// If a cache is used, it retrieves a cached connection, otherwise creates a new connection.
// It returns the client connection and an io.Closer to close the connection when done.
func (m *Manager) GetConnection(address string) (*grpc.ClientConn, io.Closer, error) {
	if m.cache != nil {
		conn, err := m.retrieveConnection(address)
		if err != nil {
			return nil, nil, err
		}
		return conn, &noopCloser{}, nil
	}

	conn, err := m.createConnection(address, nil)
	if err != nil {
		return nil, nil, err
	}

	return conn, io.Closer(conn), nil
}

// Remove removes the gRPC client connection associated with the given address from the cache,
// closing it once in-flight requests are done.
// It returns true if the connection was removed successfully, false otherwise.
func (m *Manager) Remove(address string) bool {
	if m.cache == nil {
		return false
	}

	if !m.cache.Remove(address) {
		return false
	}
	m.metrics.ConnectionFromPoolInvalidated()
	return true
}

// Close closes every cached connection.
func (m *Manager) Close() {
	if m.cache != nil {
		m.cache.Purge()
	}
}

// HasCache returns true if the Manager has a cache, false otherwise.
func (m *Manager) HasCache() bool {
	return m.cache != nil
}

// retrieveConnection retrieves the CachedClient for the given address from the cache or adds a new one if not present.
// If the connection is already cached, it waits for the lock and returns the connection from the cache.
// Otherwise, it creates a new connection and caches it.
func (m *Manager) retrieveConnection(address string) (*grpc.ClientConn, error) {
	client, ok := m.cache.GetOrAdd(address, m.config.Timeout)
	if ok {
		// The client was retrieved from the cache, wait for the lock
		client.mu.Lock()
		m.metrics.ConnectionFromPoolReused()
	} else {
		m.metrics.ConnectionAddedToPool()
	}
	defer client.mu.Unlock()

	if client.ClientConn != nil && client.ClientConn.GetState() != connectivity.Shutdown {
		// Return the client connection from the cache
		return client.ClientConn, nil
	}

	// The connection is not cached or is closed, create a new connection and cache it
	conn, err := m.createConnection(address, client)
	if err != nil {
		return nil, err
	}

	client.ClientConn = conn
	m.metrics.NewConnectionEstablished()
	m.metrics.TotalConnectionsInPool(uint(m.cache.Len()), uint(m.cache.MaxSize()))

	return client.ClientConn, nil
}

// createConnection creates a new gRPC connection to the node at the given address.
// If the cachedClient is not nil, it means a new entry in the cache is being created, so it's locked to give priority
// to the caller working with the new client, allowing it to create the underlying connection.
func (m *Manager) createConnection(address string, cachedClient *CachedClient) (*grpc.ClientConn, error) {
	timeout := m.config.Timeout
	if timeout == 0 {
		timeout = DefaultClientTimeout
	}
	keepaliveTime := m.config.KeepaliveTime
	if keepaliveTime == 0 {
		keepaliveTime = 10 * time.Second
	}

	keepaliveParams := keepalive.ClientParameters{
		Time:    keepaliveTime, // How long the client will wait before sending a keepalive to the server if there is no activity.
		Timeout: timeout,       // How long the client will wait for a response from the keepalive before closing.
	}

	var connInterceptors []grpc.UnaryClientInterceptor

	// The order in which interceptors are added to the connInterceptors slice is important as they will be called in
	// the same order during gRPC requests. It is crucial to ensure that the request watcher interceptor is added first.
	// This interceptor monitors ongoing requests before passing control to subsequent interceptors.
	if cachedClient != nil {
		connInterceptors = append(connInterceptors, createRequestWatcherInterceptor(cachedClient))
	}

	// The rate limiter runs before the breaker so that rejected calls never count as node failures.
	if m.config.RateLimit.Enabled {
		connInterceptors = append(connInterceptors, m.createRateLimiterInterceptor(address))
	}

	if m.config.CircuitBreaker.Enabled {
		connInterceptors = append(connInterceptors, m.createCircuitBreakerInterceptor(address))
	}

	if m.config.EnableGRPCMetrics {
		connInterceptors = append(connInterceptors, grpc_prometheus.UnaryClientInterceptor)
	}

	connInterceptors = append(connInterceptors, createClientTimeoutInterceptor(timeout))

	maxMsgSize := int(m.config.MaxMsgSize)
	if maxMsgSize == 0 {
		maxMsgSize = int(DefaultConfig().MaxMsgSize)
	}

	opts := []grpc.DialOption{
		grpc.WithDefaultCallOptions(
			grpc.ForceCodec(cbor.NewCodec()),
			grpc.MaxCallRecvMsgSize(maxMsgSize),
		),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepaliveParams),
		grpc.WithChainUnaryInterceptor(connInterceptors...),
	}
	opts = append(opts, m.dialOptions...)

	// ClientConn's default KeepAlive on connections is indefinite, assuming the timeout isn't reached
	// The connections should be safe to be persisted and reused.
	conn, err := grpc.Dial(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to address %s: %w", address, err)
	}
	return conn, nil
}

// createRequestWatcherInterceptor creates a request watcher interceptor to wait for unfinished requests before closing.
func createRequestWatcherInterceptor(cachedClient *CachedClient) grpc.UnaryClientInterceptor {
	requestWatcherInterceptor := func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		// Prevent new requests from being sent if the connection is marked for closure.
		if cachedClient.closeRequested.Load() {
			return status.Errorf(codes.Unavailable, "the connection to %s was closed", cachedClient.Address)
		}

		// Increment the request counter to track ongoing requests, then decrement the request counter before returning.
		cachedClient.wg.Add(1)
		defer cachedClient.wg.Done()

		// Invoke the actual RPC method.
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	return requestWatcherInterceptor
}

// createClientTimeoutInterceptor creates a client interceptor with a context that expires after the timeout.
func createClientTimeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	clientTimeoutInterceptor := func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		// Create a context that expires after the specified timeout.
		ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		// Call the remote GRPC using the short context.
		return invoker(ctxWithTimeout, method, req, reply, cc, opts...)
	}

	return clientTimeoutInterceptor
}

// createCircuitBreakerInterceptor creates a client interceptor with a circuit breaker dedicated to one node.
// While the breaker is open, calls fail with gobreaker.ErrOpenState.
func (m *Manager) createCircuitBreakerInterceptor(address string) grpc.UnaryClientInterceptor {
	config := m.config.CircuitBreaker
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        address,
		Timeout:     config.RestoreTimeout,
		MaxRequests: config.MaxRequests,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// the caller giving up says nothing about the node
			return err == nil || status.Code(err) == codes.Canceled
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			m.logger.Info().
				Str("address", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		_, err := circuitBreaker.Execute(func() (interface{}, error) {
			err := invoker(ctx, method, req, reply, cc, opts...)
			return nil, err
		})
		return err
	}
}

// createRateLimiterInterceptor creates a client interceptor that rejects calls above the configured rate with
// codes.ResourceExhausted.
func (m *Manager) createRateLimiterInterceptor(address string) grpc.UnaryClientInterceptor {
	limiter := rate.NewLimiter(rate.Limit(m.config.RateLimit.Limit), m.config.RateLimit.Burst)

	return func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if !limiter.Allow() {
			m.logger.Debug().
				Str("address", address).
				Str("method", method).
				Float64("limit", float64(limiter.Limit())).
				Msg("client rate limit exceeded")
			return status.Errorf(codes.ResourceExhausted, "client rate limit for %s reached", address)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

type noopCloser struct{}

func (c *noopCloser) Close() error {
	return nil
}
