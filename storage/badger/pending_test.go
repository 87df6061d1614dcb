package badger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerexec/ledgerexec/storage"
	bstorage "github.com/ledgerexec/ledgerexec/storage/badger"
	"github.com/ledgerexec/ledgerexec/utils/unittest"
)

func TestPendingTransactionsOldestFirst(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := bstorage.NewPendingTransactions(db)
		base := time.Unix(1_690_000_000, 0).UTC()

		// IDs sort in the opposite order of creation
		require.NoError(t, store.Store(&storage.PendingTransaction{ID: "0.0.9@1.0", Created: base}))
		require.NoError(t, store.Store(&storage.PendingTransaction{ID: "0.0.8@1.0", Created: base.Add(time.Second)}))
		require.NoError(t, store.Store(&storage.PendingTransaction{ID: "0.0.7@1.0", Created: base.Add(2 * time.Second)}))

		txs, err := store.All()
		require.NoError(t, err)
		require.Len(t, txs, 3)
		assert.Equal(t, "0.0.9@1.0", txs[0].ID)
		assert.Equal(t, "0.0.8@1.0", txs[1].ID)
		assert.Equal(t, "0.0.7@1.0", txs[2].ID)
	})
}

func TestPendingTransactionsLifecycle(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		store := bstorage.NewPendingTransactions(db)
		id := "0.0.1001@1690000000.000000001"

		require.NoError(t, store.Store(&storage.PendingTransaction{ID: id, Payload: []byte("{}")}))
		err := store.Store(&storage.PendingTransaction{ID: id})
		assert.True(t, errors.Is(err, storage.ErrAlreadyExists))

		require.NoError(t, store.RecordAttempt(id, time.Now(), errors.New("node busy")))
		tx, err := store.ByID(id)
		require.NoError(t, err)
		assert.Equal(t, 1, tx.Attempts)
		assert.Equal(t, "node busy", tx.LastError)
		assert.Equal(t, []byte("{}"), tx.Payload)

		require.NoError(t, store.Remove(id))
		_, err = store.ByID(id)
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
}
