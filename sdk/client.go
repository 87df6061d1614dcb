// Package sdk builds typed queries and transactions and runs them against the network
// through the execution engine.
package sdk

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"google.golang.org/grpc"

	"github.com/ledgerexec/ledgerexec/crypto"
	"github.com/ledgerexec/ledgerexec/engine/client/connection"
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/engine/client/receipt"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/module"
	"github.com/ledgerexec/ledgerexec/module/metrics"
	"github.com/ledgerexec/ledgerexec/network"
	"github.com/ledgerexec/ledgerexec/network/mirror"
)

// Operator is the account paying for transactions and queries by default, with the
// signer authorizing those payments.
type Operator struct {
	AccountID ledger.AccountID
	Signer    crypto.Signer
}

// Client holds everything shared by the requests sent to one network: the node
// directory, the connection pool, the execution engine and the receipt poller.
//
// Client is safe for concurrent use. Close releases its connections.
type Client struct {
	log    zerolog.Logger
	config Config

	directory   *network.Directory
	connections *connection.Manager
	engine      *execute.Engine
	poller      *receipt.Poller

	mu       sync.RWMutex
	operator *Operator

	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed *atomic.Bool
}

type clientOptions struct {
	metrics     module.ClientMetrics
	dialOptions []grpc.DialOption
}

// Option configures optional dependencies of a Client.
type Option func(*clientOptions)

// WithMetrics reports client metrics to collector.
func WithMetrics(collector module.ClientMetrics) Option {
	return func(o *clientOptions) {
		o.metrics = collector
	}
}

// WithDialOptions adds gRPC dial options to every node connection.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *clientOptions) {
		o.dialOptions = append(o.dialOptions, opts...)
	}
}

// NewClient validates config and creates a client. When a mirror is configured and no
// static network is, the address book is read from the mirror before returning.
func NewClient(log zerolog.Logger, config Config, opts ...Option) (*Client, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	options := clientOptions{metrics: metrics.NewNoopCollector()}
	for _, opt := range opts {
		opt(&options)
	}

	nodes, err := config.nodes()
	if err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	var cache *connection.Cache
	if config.Connection.CacheSize > 0 {
		cache, err = connection.NewCache(log, options.metrics, config.Connection.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("could not create connection cache: %w", err)
		}
	}

	directory := network.NewDirectory(log, nodes, network.WithMetrics(options.metrics))
	connections := connection.NewManager(log, options.metrics, cache, config.Connection, options.dialOptions...)
	engine := execute.New(log, config.engineConfig(), directory, execute.NewGRPCTransport(connections), options.metrics)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		log:         log.With().Str("component", "client").Logger(),
		config:      config,
		directory:   directory,
		connections: connections,
		engine:      engine,
		poller:      receipt.NewPoller(log, engine, config.receiptConfig(), options.metrics),
		cancel:      cancel,
		closed:      atomic.NewBool(false),
	}

	if config.MirrorURL != "" {
		err = c.startMirror(ctx, log, len(nodes) == 0)
		if err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

func (c *Client) startMirror(ctx context.Context, log zerolog.Logger, initial bool) error {
	mirrorClient, err := mirror.NewClient(log, c.config.MirrorURL, c.config.MirrorTimeout)
	if err != nil {
		return err
	}
	refresherConfig := mirror.DefaultRefresherConfig()
	refresherConfig.Interval = c.config.MirrorRefreshInterval
	refresher := mirror.NewRefresher(log, mirrorClient, c.directory, refresherConfig)

	run := refresher.Run
	if initial {
		err = refresher.Refresh(ctx)
		if err != nil {
			return err
		}
		if refresherConfig.Interval <= 0 {
			return nil
		}
		run = refresher.RunPeriodic
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		run(ctx)
	}()
	return nil
}

// SetOperator sets the default payer and its signer.
func (c *Client) SetOperator(accountID ledger.AccountID, signer crypto.Signer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operator = &Operator{AccountID: accountID, Signer: signer}
}

// Operator returns the operator, or nil if none is set.
func (c *Client) Operator() *Operator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.operator
}

func (c *Client) Config() Config {
	return c.config
}

// Nodes returns the known nodes in ascending account order.
func (c *Client) Nodes() ledger.NodeIdentityList {
	return c.directory.Nodes()
}

// Directory returns the node directory of the client.
func (c *Client) Directory() *network.Directory {
	return c.directory
}

// Engine returns the execution engine, for running custom executables.
func (c *Client) Engine() *execute.Engine {
	return c.engine
}

// WaitForReceipt polls the receipt of txID on any node until it is final. Unlike
// TransactionResponse.GetReceipt, a failed status is returned as is, not as an error.
func (c *Client) WaitForReceipt(ctx context.Context, txID ledger.TransactionID) (ledger.Receipt, error) {
	return c.poller.Wait(ctx, txID, nil)
}

// Close stops the address book refresh and closes every node connection. Requests
// still running fail. Close is idempotent.
func (c *Client) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.cancel()
	c.wg.Wait()
	c.connections.Close()
}
