package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/ledgerexec/ledgerexec/model/ledger"
)

// AddressBookUpdater receives refreshed address books.
type AddressBookUpdater interface {
	Update(nodes ledger.NodeIdentityList)
}

// RefresherConfig configures a Refresher.
type RefresherConfig struct {
	// Interval between two refreshes of Run. 0 refreshes once.
	Interval time.Duration
	// RetryDelay is the first backoff after a transient mirror failure, doubled on
	// every retry up to MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	MaxRetries    uint64
}

func DefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		Interval:      0,
		RetryDelay:    200 * time.Millisecond,
		MaxRetryDelay: 5 * time.Second,
		MaxRetries:    3,
	}
}

// Refresher copies the mirror address book into a directory, once or periodically.
type Refresher struct {
	log    zerolog.Logger
	client *Client
	target AddressBookUpdater
	config RefresherConfig
}

func NewRefresher(log zerolog.Logger, client *Client, target AddressBookUpdater, config RefresherConfig) *Refresher {
	return &Refresher{
		log:    log.With().Str("component", "mirror_refresher").Logger(),
		client: client,
		target: target,
		config: config,
	}
}

// Refresh reads the address book and hands it to the target. Transient mirror failures,
// unreachable mirrors and HTTP 429 or 5xx answers, are retried with backoff. An empty
// address book is an error and leaves the target unchanged.
func (r *Refresher) Refresh(ctx context.Context) error {
	backoff := retry.NewExponential(r.config.RetryDelay)
	if r.config.MaxRetryDelay > 0 {
		backoff = retry.WithCappedDuration(r.config.MaxRetryDelay, backoff)
	}
	backoff = retry.WithMaxRetries(r.config.MaxRetries, backoff)

	var nodes ledger.NodeIdentityList
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		nodes, err = r.client.AddressBook(ctx)
		if err != nil && ctx.Err() == nil && IsRetryable(err) {
			r.log.Debug().Err(err).Msg("mirror request failed, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("could not refresh address book: %w", err)
	}
	if len(nodes) == 0 {
		return fmt.Errorf("mirror returned an empty address book")
	}

	r.target.Update(nodes)
	r.log.Debug().Int("nodes", len(nodes)).Msg("address book refreshed")
	return nil
}

// Run refreshes right away, then on every interval until ctx is done. Failures are
// logged and the previous address book stays in use.
func (r *Refresher) Run(ctx context.Context) {
	r.refreshAndLog(ctx)
	r.RunPeriodic(ctx)
}

// RunPeriodic is Run without the first refresh, for callers that just refreshed. It
// returns right away when no interval is configured.
func (r *Refresher) RunPeriodic(ctx context.Context) {
	if r.config.Interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshAndLog(ctx)
		}
	}
}

func (r *Refresher) refreshAndLog(ctx context.Context) {
	err := r.Refresh(ctx)
	if err != nil && ctx.Err() == nil {
		r.log.Warn().Err(err).Msg("address book refresh failed")
	}
}
