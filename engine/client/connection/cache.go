package connection

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"google.golang.org/grpc"

	"github.com/ledgerexec/ledgerexec/module"
)

// CachedClient represents a gRPC client connection to one node that is cached for reuse.
type CachedClient struct {
	ClientConn     *grpc.ClientConn
	Address        string
	timeout        time.Duration
	closeRequested *atomic.Bool
	wg             sync.WaitGroup
	mu             sync.Mutex
}

// Close closes the CachedClient connection. It marks the connection for closure and waits for ongoing
// requests to complete before closing the connection.
func (cc *CachedClient) Close() {
	// Mark the connection for closure
	if !cc.closeRequested.CompareAndSwap(false, true) {
		return
	}

	// Obtain the lock to ensure that any connection attempts have completed
	cc.mu.Lock()
	conn := cc.ClientConn
	cc.mu.Unlock()

	// If the initial connection attempt failed, ClientConn will be nil
	if conn == nil {
		return
	}

	// If there are ongoing requests, wait for them to complete
	cc.wg.Wait()

	_ = conn.Close()
}

// Cache represents a cache of CachedClient instances with a given maximum size. Evicted
// clients are closed in the background once their in-flight requests are done.
type Cache struct {
	cache *lru.Cache[string, *CachedClient]
	size  int
	wg    sync.WaitGroup
}

// NewCache creates a new Cache with the specified maximum size.
func NewCache(log zerolog.Logger, metrics module.GRPCConnectionPoolMetrics, size int) (*Cache, error) {
	c := &Cache{size: size}
	cache, err := lru.NewWithEvict(size, func(address string, client *CachedClient) {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			client.Close()
		}()
		log.Debug().Str("grpc_conn_evicted", address).Msg("closing grpc connection evicted from pool")
		metrics.ConnectionFromPoolEvicted()
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize connection pool cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

// Get retrieves the CachedClient for the given address from the cache.
// It returns the CachedClient and a boolean indicating whether the entry exists in the cache.
func (c *Cache) Get(address string) (*CachedClient, bool) {
	return c.cache.Get(address)
}

// GetOrAdd atomically gets the CachedClient for the given address from the cache, or adds a new one
// if none existed.
// New entries are added to the cache with their mutex locked. This ensures that the caller gets
// priority when working with the new client, allowing it to create the underlying connection.
// Clients retrieved from the cache are returned without modifying their lock.
func (c *Cache) GetOrAdd(address string, timeout time.Duration) (*CachedClient, bool) {
	client := &CachedClient{
		Address:        address,
		timeout:        timeout,
		closeRequested: atomic.NewBool(false),
	}
	client.mu.Lock()

	val, existed, _ := c.cache.PeekOrAdd(address, client)
	if existed {
		return val, true
	}

	return client, false
}

// Remove removes the CachedClient entry from the cache with the given address, closing it.
// It returns a boolean indicating whether the entry was present and removed.
func (c *Cache) Remove(address string) (present bool) {
	return c.cache.Remove(address)
}

// Len returns the number of CachedClient entries in the cache.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// MaxSize returns the maximum size of the cache.
func (c *Cache) MaxSize() int {
	return c.size
}

// Contains checks if the cache contains an entry with the given address.
func (c *Cache) Contains(address string) (containKey bool) {
	return c.cache.Contains(address)
}

// Purge closes every cached client and waits until they are all closed.
func (c *Cache) Purge() {
	c.cache.Purge()
	c.wg.Wait()
}
