package sdk

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/ledgerexec/ledgerexec/crypto"
	clienterrors "github.com/ledgerexec/ledgerexec/engine/client/errors"
	"github.com/ledgerexec/ledgerexec/model/ledger"
	"github.com/ledgerexec/ledgerexec/model/wire"
	"github.com/ledgerexec/ledgerexec/storage"
	bstorage "github.com/ledgerexec/ledgerexec/storage/badger"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
	"github.com/ledgerexec/ledgerexec/utils/unittest/mocknode"
)

// offlineTransfer is a transfer signed by its payer without any client.
func offlineTransfer(t *testing.T) *AnyTransaction {
	key := unittest.PrivateKeyFixture(t, crypto.ED25519)
	payer := unittest.AccountIDFixture()
	tx := transferFixture(t, payer, unittest.AccountIDFixture(), ledger.NewHbar(1))
	require.NoError(t, tx.SetTransactionID(ledger.GenerateTransactionID(payer)))
	require.NoError(t, tx.SetNodeAccountIDs(ledger.NewAccountID(0, 0, 3)))
	require.NoError(t, tx.Freeze())
	tx.Sign(key)

	// the queue only ever sees the portable form
	encoded, err := tx.MarshalJSON()
	require.NoError(t, err)
	decoded, err := DecodeAnyTransaction(encoded)
	require.NoError(t, err)
	return decoded
}

func runWithQueue(t *testing.T, nodes *mocknode.Network, f func(*PendingQueue, storage.PendingTransactions)) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := bstorage.NewPendingTransactions(db)
		queue := NewPendingQueue(unittest.Logger(), store, newTestClient(t, nodes))
		f(queue, store)
	})
}

func TestPendingReplaySuccess(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	nodes.Node(3).Handle(byMethod(map[string]mocknode.HandlerFunc{
		wire.MethodCryptoTransfer:         mocknode.Always(mocknode.Precheck(ledger.StatusOk)),
		wire.MethodGetTransactionReceipts: mocknode.Always(mocknode.ReceiptResponse(ledger.Receipt{Status: ledger.StatusSuccess})),
	}))

	runWithQueue(t, nodes, func(queue *PendingQueue, store storage.PendingTransactions) {
		tx := offlineTransfer(t)
		require.NoError(t, queue.Add(tx))
		assert.ErrorIs(t, queue.Add(tx), storage.ErrAlreadyExists)

		var reported atomic.Int32
		results, err := queue.Replay(context.Background(), 4, func(ReplayResult) { reported.Inc() })
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int32(1), reported.Load())

		result := results[0]
		require.NoError(t, result.Err)
		assert.True(t, result.Removed)
		require.NotNil(t, result.Receipt)
		assert.Equal(t, ledger.StatusSuccess, result.Receipt.Status)

		pending, err := queue.List()
		require.NoError(t, err)
		assert.Empty(t, pending)

		// the submitted bytes carry the offline signature
		transfers := 0
		for _, call := range nodes.Node(3).Calls() {
			if call.Transaction == nil {
				continue
			}
			transfers++
			signed, _ := decodeSigned(t, call.Transaction)
			assert.Len(t, signed.SigMap.SigPair, 1)
		}
		assert.Equal(t, 1, transfers)
	})
}

func TestPendingReplayKeepsUnreachable(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	nodes.SetDown(3, true)

	runWithQueue(t, nodes, func(queue *PendingQueue, store storage.PendingTransactions) {
		tx := offlineTransfer(t)
		require.NoError(t, queue.Add(tx))

		results, err := queue.Replay(context.Background(), 1, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, clienterrors.IsNoNodesAvailableError(results[0].Err))
		assert.False(t, results[0].Removed)

		txID, _ := tx.TransactionID()
		record, err := store.ByID(txID.String())
		require.NoError(t, err)
		assert.Equal(t, 1, record.Attempts)
		assert.NotEmpty(t, record.LastError)
		assert.False(t, record.LastTried.IsZero())
	})
}

func TestPendingReplayDuplicate(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	nodes.Node(3).Handle(byMethod(map[string]mocknode.HandlerFunc{
		wire.MethodCryptoTransfer:         mocknode.Always(mocknode.Precheck(ledger.StatusDuplicateTransaction)),
		wire.MethodGetTransactionReceipts: mocknode.Always(mocknode.ReceiptResponse(ledger.Receipt{Status: ledger.StatusSuccess})),
	}))

	runWithQueue(t, nodes, func(queue *PendingQueue, store storage.PendingTransactions) {
		require.NoError(t, queue.Add(offlineTransfer(t)))

		results, err := queue.Replay(context.Background(), 1, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err, "an earlier replay went through")
		assert.True(t, results[0].Removed)
		assert.Equal(t, ledger.StatusSuccess, results[0].Receipt.Status)
	})
}

func TestPendingReplayDropsFinalFailures(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	nodes.Node(3).Handle(byMethod(map[string]mocknode.HandlerFunc{
		wire.MethodCryptoTransfer: mocknode.Always(mocknode.Precheck(ledger.StatusTransactionExpired)),
	}))

	runWithQueue(t, nodes, func(queue *PendingQueue, store storage.PendingTransactions) {
		require.NoError(t, queue.Add(offlineTransfer(t)))
		require.NoError(t, store.Store(&storage.PendingTransaction{
			ID:      "0.0.1@1.1",
			Payload: []byte(`{"version":1,"type":"bogus"}`),
			Created: time.Now(),
		}))

		results, err := queue.Replay(context.Background(), 2, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, result := range results {
			assert.Error(t, result.Err)
			assert.True(t, result.Removed, result.String())
		}

		pending, err := queue.List()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestPendingAddNeedsTransactionID(t *testing.T) {
	nodes := mocknode.NewNetwork(t, 3)
	runWithQueue(t, nodes, func(queue *PendingQueue, _ storage.PendingTransactions) {
		tx := transferFixture(t, unittest.AccountIDFixture(), unittest.AccountIDFixture(), ledger.NewHbar(1))
		assert.True(t, clienterrors.IsBuildError(queue.Add(tx.ToAny())))
	})
}
