// Package badger implements the storage interfaces on a badger database.
package badger

import (
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v2"

	"github.com/ledgerexec/ledgerexec/storage"
	"github.com/ledgerexec/ledgerexec/storage/badger/operation"
)

// PendingTransactions stores pending transactions in badger.
type PendingTransactions struct {
	db *badger.DB
}

var _ storage.PendingTransactions = (*PendingTransactions)(nil)

func NewPendingTransactions(db *badger.DB) *PendingTransactions {
	return &PendingTransactions{db: db}
}

func (p *PendingTransactions) Store(tx *storage.PendingTransaction) error {
	err := p.db.Update(operation.InsertPendingTransaction(tx))
	if err != nil {
		return fmt.Errorf("could not store pending transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (p *PendingTransactions) ByID(id string) (*storage.PendingTransaction, error) {
	var tx storage.PendingTransaction
	err := p.db.View(operation.RetrievePendingTransaction(id, &tx))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve pending transaction %s: %w", id, err)
	}
	return &tx, nil
}

func (p *PendingTransactions) All() ([]*storage.PendingTransaction, error) {
	var txs []*storage.PendingTransaction
	err := p.db.View(operation.TraversePendingTransactions(&txs))
	if err != nil {
		return nil, fmt.Errorf("could not list pending transactions: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Created.Before(txs[j].Created)
	})
	return txs, nil
}

func (p *PendingTransactions) RecordAttempt(id string, at time.Time, cause error) error {
	lastError := ""
	if cause != nil {
		lastError = cause.Error()
	}
	err := p.db.Update(operation.RecordPendingAttempt(id, at, lastError))
	if err != nil {
		return fmt.Errorf("could not record attempt of pending transaction %s: %w", id, err)
	}
	return nil
}

func (p *PendingTransactions) Remove(id string) error {
	err := p.db.Update(operation.RemovePendingTransaction(id))
	if err != nil {
		return fmt.Errorf("could not remove pending transaction %s: %w", id, err)
	}
	return nil
}
