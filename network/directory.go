// Package network keeps track of the ingress nodes of the ledger network and of how
// healthy each of them currently looks from this client.
package network

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/module"
	"github.com/ledgerexec/ledgerexec/module/metrics"
	"github.com/ledgerexec/ledgerexec/utils/logging"
)

const (
	DefaultMinReadmitDelay = 8 * time.Second
	DefaultMaxReadmitDelay = time.Hour
)

// Directory is the address book of the network: the known nodes ordered by account ID,
// plus a health mark per node.
//
// A node is marked unhealthy when it could not be reached. It then stays out of the
// front of the rotation until its readmit time, which doubles on every consecutive
// failure between the min and max readmit delays. Unhealthy nodes are still eligible:
// callers only deprioritize them.
//
// Directory is safe for concurrent use.
type Directory struct {
	log     zerolog.Logger
	metrics module.ExecutionMetrics

	minReadmit time.Duration
	maxReadmit time.Duration
	now        func() time.Time

	mu     sync.RWMutex
	nodes  ledger.NodeIdentityList
	health map[string]*nodeHealth // by account key
}

type nodeHealth struct {
	delay          time.Duration
	unhealthyUntil time.Time
}

// Option configures a Directory.
type Option func(*Directory)

func WithReadmitDelays(min, max time.Duration) Option {
	return func(d *Directory) {
		d.minReadmit = min
		d.maxReadmit = max
	}
}

func WithMetrics(metrics module.ExecutionMetrics) Option {
	return func(d *Directory) {
		d.metrics = metrics
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		d.now = now
	}
}

// NewDirectory creates a directory over the given nodes.
func NewDirectory(log zerolog.Logger, nodes ledger.NodeIdentityList, opts ...Option) *Directory {
	d := &Directory{
		log:        log.With().Str("component", "node_directory").Logger(),
		metrics:    metrics.NewNoopCollector(),
		minReadmit: DefaultMinReadmitDelay,
		maxReadmit: DefaultMaxReadmitDelay,
		now:        time.Now,
		nodes:      nodes.Sorted(),
		health:     make(map[string]*nodeHealth),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Nodes returns the known nodes in ascending account ID order.
func (d *Directory) Nodes() ledger.NodeIdentityList {
	d.mu.RLock()
	defer d.mu.RUnlock()
	nodes := make(ledger.NodeIdentityList, len(d.nodes))
	copy(nodes, d.nodes)
	return nodes
}

// Node returns the node with the given account ID.
func (d *Directory) Node(id ledger.AccountID) (ledger.NodeIdentity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.nodes.ByAccountID(id)
}

// Update replaces the known nodes. Health marks of nodes that remain are kept; marks of
// removed nodes are dropped.
func (d *Directory) Update(nodes ledger.NodeIdentityList) {
	sorted := nodes.Sorted()

	d.mu.Lock()
	defer d.mu.Unlock()

	keep := make(map[string]*nodeHealth, len(sorted))
	for _, node := range sorted {
		if health, ok := d.health[node.AccountID.Key()]; ok {
			keep[node.AccountID.Key()] = health
		}
	}
	d.nodes = sorted
	d.health = keep

	d.log.Info().Int("nodes", len(sorted)).Msg("node directory updated")
}

// IsHealthy reports whether the node is not currently serving out an unhealthy mark.
// Unknown nodes are healthy.
func (d *Directory) IsHealthy(id ledger.AccountID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	health, ok := d.health[id.Key()]
	if !ok {
		return true
	}
	return !d.now().Before(health.unhealthyUntil)
}

// MarkUnhealthy takes the node out of the front of the rotation until its readmit time.
func (d *Directory) MarkUnhealthy(id ledger.AccountID) {
	d.mu.Lock()
	health, ok := d.health[id.Key()]
	if !ok {
		health = &nodeHealth{}
		d.health[id.Key()] = health
	}
	switch {
	case health.delay == 0:
		health.delay = d.minReadmit
	case health.delay*2 > d.maxReadmit:
		health.delay = d.maxReadmit
	default:
		health.delay *= 2
	}
	health.unhealthyUntil = d.now().Add(health.delay)
	delay := health.delay
	d.mu.Unlock()

	d.metrics.NodeMarkedUnhealthy(id.String())
	d.log.Debug().
		Str(logging.KeyNode, id.String()).
		Dur("readmit_in", delay).
		Msg("node marked unhealthy")
}

// MarkHealthy clears the unhealthy mark of the node after a successful exchange.
func (d *Directory) MarkHealthy(id ledger.AccountID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.health, id.Key())
}
