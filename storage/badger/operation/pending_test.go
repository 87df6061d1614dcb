package operation

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/storage"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
)

func pendingFixture(id string) *storage.PendingTransaction {
	return &storage.PendingTransaction{
		ID:      id,
		Payload: []byte(`{"version":1,"type":"transfer"}`),
		Created: time.Unix(1_690_000_000, 0).UTC(),
	}
}

func TestInsertRetrievePending(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := pendingFixture("0.0.1001@1690000000.000000001")
		require.NoError(t, db.Update(InsertPendingTransaction(expected)))

		var actual storage.PendingTransaction
		require.NoError(t, db.View(RetrievePendingTransaction(expected.ID, &actual)))
		assert.Equal(t, expected.ID, actual.ID)
		assert.Equal(t, expected.Payload, actual.Payload)
		assert.True(t, expected.Created.Equal(actual.Created))

		err := db.Update(InsertPendingTransaction(expected))
		assert.True(t, errors.Is(err, storage.ErrAlreadyExists))
	})
}

func TestRetrieveMissingPending(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var actual storage.PendingTransaction
		err := db.View(RetrievePendingTransaction("0.0.5@1.000000001", &actual))
		assert.True(t, errors.Is(err, storage.ErrNotFound))

		err = db.Update(RemovePendingTransaction("0.0.5@1.000000001"))
		assert.True(t, errors.Is(err, storage.ErrNotFound))

		err = db.Update(RecordPendingAttempt("0.0.5@1.000000001", time.Now(), "boom"))
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
}

func TestRecordPendingAttempt(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		tx := pendingFixture("0.0.1001@1690000000.000000001")
		require.NoError(t, db.Update(InsertPendingTransaction(tx)))

		at := time.Unix(1_690_000_100, 0).UTC()
		require.NoError(t, db.Update(RecordPendingAttempt(tx.ID, at, "node busy")))
		require.NoError(t, db.Update(RecordPendingAttempt(tx.ID, at, "timeout")))

		var actual storage.PendingTransaction
		require.NoError(t, db.View(RetrievePendingTransaction(tx.ID, &actual)))
		assert.Equal(t, 2, actual.Attempts)
		assert.Equal(t, "timeout", actual.LastError)
		assert.True(t, at.Equal(actual.LastTried))
	})
}

func TestTraversePending(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		ids := []string{"0.0.1001@3.000000000", "0.0.1001@1.000000000", "0.0.1001@2.000000000"}
		for _, id := range ids {
			require.NoError(t, db.Update(InsertPendingTransaction(pendingFixture(id))))
		}

		var txs []*storage.PendingTransaction
		require.NoError(t, db.View(TraversePendingTransactions(&txs)))
		require.Len(t, txs, 3)
		assert.Equal(t, "0.0.1001@1.000000000", txs[0].ID)
		assert.Equal(t, "0.0.1001@2.000000000", txs[1].ID)
		assert.Equal(t, "0.0.1001@3.000000000", txs[2].ID)

		require.NoError(t, db.Update(RemovePendingTransaction(ids[0])))
		txs = nil
		require.NoError(t, db.View(TraversePendingTransactions(&txs)))
		assert.Len(t, txs, 2)
	})
}
