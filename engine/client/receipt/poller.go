// Package receipt waits for submitted transactions to reach consensus by polling
// their receipts.
package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/engine/client/execute"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/module"
	"github.com/ledgerexec/ledgerexec/module/metrics"
	"github.com/ledgerexec/ledgerexec/utils/logging"
)

// Config configures a Poller.
type Config struct {
	// Interval between two polls.
	Interval time.Duration
	// Timeout bounds the whole wait, over all polls.
	Timeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval: 500 * time.Millisecond,
		Timeout:  2 * time.Minute,
	}
}

// Poller waits for receipts. Every poll is a receipt query run through the execution
// engine, so one poll fails over between nodes like any other query.
type Poller struct {
	log     zerolog.Logger
	engine  *execute.Engine
	config  Config
	metrics module.ReceiptMetrics
}

// NewPoller creates a poller. A nil metrics collector disables metrics.
func NewPoller(log zerolog.Logger, engine *execute.Engine, config Config, collector module.ReceiptMetrics) *Poller {
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}
	return &Poller{
		log:     log.With().Str("component", "receipt_poller").Logger(),
		engine:  engine,
		config:  config,
		metrics: collector,
	}
}

// Wait polls the receipt of txID on a fixed interval until its status is final, and
// returns it. A final receipt is returned whatever its status; see Validate.
//
// nodes pins the polls to the given nodes, in order. Empty means any node.
//
// Expected errors:
//   - ReceiptUnavailableError if the receipt was still pending when the wait timed out.
//     The transaction may still reach consensus: waiting again is safe.
//   - PrecheckStatusError if the nodes refused to answer, e.g. for an unknown transaction
//   - the error of ctx, wrapped, if ctx was canceled
func (p *Poller) Wait(ctx context.Context, txID ledger.TransactionID, nodes []ledger.AccountID) (ledger.Receipt, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	logging.TransactionID(p.log.Debug(), txID).Msg("waiting for receipt")

	query := NewQuery(txID, nodes)
	lastStatus := ledger.StatusUnknown
	var lastErr error

	for polls := 1; ; polls++ {
		result, err := execute.Execute[*wire.Query, *wire.Response](ctx, p.engine, query)
		switch {
		case err == nil:
			receipt := FromResponse(result.Response)
			lastStatus = receipt.Status
			p.metrics.ReceiptPolled(receipt.Status.String())

			if !receipt.Status.IsPending() {
				p.metrics.ReceiptWaitFinished(metrics.ResultSuccess, time.Since(start))
				logging.TransactionID(p.log.Debug(), txID).
					Str("status", receipt.Status.String()).
					Int("polls", polls).
					Msg("receipt is final")
				return receipt, nil
			}

		case ctx.Err() == context.Canceled:
			p.metrics.ReceiptWaitFinished(metrics.ResultCanceled, time.Since(start))
			return ledger.Receipt{}, fmt.Errorf("waiting for receipt of %s canceled: %w", txID, ctx.Err())

		case ctx.Err() == nil && absorbable(err):
			// the nodes could not answer this time, which says nothing about the transaction
			lastErr = err
			logging.TransactionID(p.log.Debug(), txID).Err(err).Int("polls", polls).Msg("receipt poll failed")

		case ctx.Err() != nil:
			lastErr = err

		default:
			p.metrics.ReceiptWaitFinished(metrics.ResultFailure, time.Since(start))
			return ledger.Receipt{}, fmt.Errorf("could not poll receipt of %s: %w", txID, err)
		}

		err = sleep(ctx, p.config.Interval)
		if err != nil {
			if ctx.Err() == context.Canceled {
				p.metrics.ReceiptWaitFinished(metrics.ResultCanceled, time.Since(start))
				return ledger.Receipt{}, fmt.Errorf("waiting for receipt of %s canceled: %w", txID, ctx.Err())
			}
			p.metrics.ReceiptWaitFinished(metrics.ResultTimeout, time.Since(start))
			logging.TransactionID(p.log.Warn(), txID).
				Str("last_status", lastStatus.String()).
				Int("polls", polls).
				Msg("receipt not available before deadline")
			return ledger.Receipt{}, clienterrors.NewReceiptUnavailableError(txID, lastStatus, polls, lastErr)
		}
	}
}

// Validate returns a ReceiptStatusError for final receipts whose status is not a success.
func Validate(txID ledger.TransactionID, receipt ledger.Receipt) error {
	if receipt.Status.IsReceiptSuccess() {
		return nil
	}
	return clienterrors.NewReceiptStatusError(txID, receipt)
}

// absorbable reports whether a failed poll may be followed by another one.
func absorbable(err error) bool {
	return clienterrors.IsTimeoutError(err) ||
		clienterrors.IsMaxAttemptsExceededError(err) ||
		clienterrors.IsNoNodesAvailableError(err)
}

// sleep waits for d, failing early if ctx ends before d elapses.
func sleep(ctx context.Context, d time.Duration) error {
	deadline, ok := ctx.Deadline()
	if ok && time.Until(deadline) < d {
		<-ctx.Done()
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
