package operation

import (
	"time"

	"github.com/dgraph-io/badger/v2"

	"github.com/ledgerexec/ledgerexec/storage"
)

func pendingKey(id string) []byte {
	return makePrefix(codePendingTransaction, []byte(id))
}

func InsertPendingTransaction(tx *storage.PendingTransaction) func(*badger.Txn) error {
	return insert(pendingKey(tx.ID), tx)
}

func UpdatePendingTransaction(tx *storage.PendingTransaction) func(*badger.Txn) error {
	return update(pendingKey(tx.ID), tx)
}

func RetrievePendingTransaction(id string, tx *storage.PendingTransaction) func(*badger.Txn) error {
	return retrieve(pendingKey(id), tx)
}

func RemovePendingTransaction(id string) func(*badger.Txn) error {
	return remove(pendingKey(id))
}

// RecordPendingAttempt bumps the attempt counter of a pending transaction.
func RecordPendingAttempt(id string, at time.Time, lastError string) func(*badger.Txn) error {
	return func(txn *badger.Txn) error {
		var tx storage.PendingTransaction
		err := retrieve(pendingKey(id), &tx)(txn)
		if err != nil {
			return err
		}
		tx.Attempts++
		tx.LastTried = at
		tx.LastError = lastError
		return update(pendingKey(id), &tx)(txn)
	}
}

// TraversePendingTransactions collects every pending transaction, in ID order.
func TraversePendingTransactions(txs *[]*storage.PendingTransaction) func(*badger.Txn) error {
	var current *storage.PendingTransaction
	create := func() interface{} {
		current = &storage.PendingTransaction{}
		return current
	}
	handle := func() error {
		*txs = append(*txs, current)
		return nil
	}
	return traverse(makePrefix(codePendingTransaction), create, handle)
}
