package sdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"

	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/storage"
)

// PendingQueue keeps transactions to submit later, for instance transactions signed
// offline, in their portable form.
type PendingQueue struct {
	log    zerolog.Logger
	store  storage.PendingTransactions
	client *Client
	now    func() time.Time
}

// NewPendingQueue returns a queue over store. client may be nil when only Add and List
// are used.
func NewPendingQueue(log zerolog.Logger, store storage.PendingTransactions, client *Client) *PendingQueue {
	return &PendingQueue{
		log:    log.With().Str("component", "pending_queue").Logger(),
		store:  store,
		client: client,
		now:    time.Now,
	}
}

// Add stores a transaction. Its transaction ID must be set: it keys the queue, and
// replaying the same ID is what keeps the submission exactly-once.
func (p *PendingQueue) Add(tx *AnyTransaction) error {
	txID, ok := tx.TransactionID()
	if !ok {
		return clienterrors.NewBuildErrorf("pending transactions need a transaction ID")
	}
	payload, err := tx.MarshalJSON()
	if err != nil {
		return err
	}
	return p.store.Store(&storage.PendingTransaction{
		ID:      txID.String(),
		Payload: payload,
		Created: p.now(),
	})
}

func (p *PendingQueue) List() ([]*storage.PendingTransaction, error) {
	return p.store.All()
}

// ReplayResult is the outcome of replaying one pending transaction.
type ReplayResult struct {
	ID      string
	Receipt *ledger.Receipt
	// Removed is set when the transaction left the queue, whether it succeeded or can
	// never succeed.
	Removed bool
	Err     error
}

// Replay submits every pending transaction, at most concurrency at a time, and waits
// for their receipts. Transactions with a final receipt leave the queue, as do
// expired or undecodable ones. Others stay, with the failure recorded.
//
// progress, if not nil, is called after each transaction, from any goroutine.
func (p *PendingQueue) Replay(ctx context.Context, concurrency int, progress func(ReplayResult)) ([]ReplayResult, error) {
	pending, err := p.store.All()
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	pool := workerpool.New(concurrency)
	var mu sync.Mutex
	results := make([]ReplayResult, len(pending))

	for i, record := range pending {
		i, record := i, record
		pool.Submit(func() {
			result := p.replay(ctx, record)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			if progress != nil {
				progress(result)
			}
		})
	}
	pool.StopWait()

	return results, ctx.Err()
}

func (p *PendingQueue) replay(ctx context.Context, record *storage.PendingTransaction) ReplayResult {
	result := ReplayResult{ID: record.ID}
	log := p.log.With().Str("tx_id", record.ID).Logger()

	if ctx.Err() != nil {
		result.Err = ctx.Err()
		return result
	}

	tx, err := DecodeAnyTransaction(record.Payload)
	if err != nil {
		log.Warn().Err(err).Msg("dropping undecodable pending transaction")
		result.Err = err
		result.Removed = p.remove(record.ID, log)
		return result
	}

	receipt, err := p.submit(ctx, tx)
	switch {
	case err == nil:
		result.Receipt = &receipt
		result.Removed = p.remove(record.ID, log)
	case isExpired(err):
		log.Warn().Err(err).Msg("dropping expired pending transaction")
		result.Err = err
		result.Removed = p.remove(record.ID, log)
	case clienterrors.IsReceiptStatusError(err):
		// reached consensus, and failed: replaying cannot change that
		var statusErr *clienterrors.ReceiptStatusError
		errors.As(err, &statusErr)
		result.Receipt = &statusErr.Receipt
		result.Err = err
		result.Removed = p.remove(record.ID, log)
	default:
		result.Err = err
		recordErr := p.store.RecordAttempt(record.ID, p.now(), err)
		if recordErr != nil {
			log.Error().Err(recordErr).Msg("could not record replay attempt")
		}
	}
	return result
}

// submit sends the transaction and waits for its receipt. A duplicate submission means
// an earlier replay went through: only the receipt is missing.
func (p *PendingQueue) submit(ctx context.Context, tx *AnyTransaction) (ledger.Receipt, error) {
	response, err := tx.Execute(ctx, p.client)
	if err != nil {
		var precheck *clienterrors.PrecheckStatusError
		if !errors.As(err, &precheck) || precheck.Status != ledger.StatusDuplicateTransaction {
			return ledger.Receipt{}, err
		}
		txID, _ := tx.TransactionID()
		response = newTransactionResponse(precheck.Node, txID, nil, tx.NodeAccountIDs())
	}
	return response.GetReceipt(ctx, p.client)
}

func (p *PendingQueue) remove(id string, log zerolog.Logger) bool {
	err := p.store.Remove(id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Error().Err(err).Msg("could not remove pending transaction")
		return false
	}
	return true
}

func isExpired(err error) bool {
	var precheck *clienterrors.PrecheckStatusError
	return errors.As(err, &precheck) && precheck.Status == ledger.StatusTransactionExpired
}

// String renders a replay result for humans.
func (r ReplayResult) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s: %v", r.ID, r.Err)
	case r.Receipt != nil:
		return fmt.Sprintf("%s: %s", r.ID, r.Receipt.Status)
	default:
		return r.ID
	}
}
