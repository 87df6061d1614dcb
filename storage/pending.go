// Package storage persists the state the client keeps between runs.
package storage

import (
	"time"
)

// PendingTransaction is a transaction waiting to be submitted, or to be confirmed,
// kept in its portable encoding.
type PendingTransaction struct {
	// ID is the transaction ID, in its string form.
	ID      string    `msgpack:"id"`
	Payload []byte    `msgpack:"payload"`
	Created time.Time `msgpack:"created"`

	Attempts  int       `msgpack:"attempts"`
	LastTried time.Time `msgpack:"last_tried"`
	LastError string    `msgpack:"last_error"`
}

// PendingTransactions stores pending transactions by ID.
type PendingTransactions interface {
	// Store adds a pending transaction.
	// Expected errors:
	//   - ErrAlreadyExists if a transaction with the same ID is stored
	Store(tx *PendingTransaction) error

	// ByID returns the pending transaction with the given ID.
	// Expected errors:
	//   - ErrNotFound if there is no such transaction
	ByID(id string) (*PendingTransaction, error)

	// All returns every pending transaction, oldest first.
	All() ([]*PendingTransaction, error)

	// RecordAttempt notes a failed submission of the transaction.
	// Expected errors:
	//   - ErrNotFound if there is no such transaction
	RecordAttempt(id string, at time.Time, cause error) error

	// Remove deletes the transaction.
	// Expected errors:
	//   - ErrNotFound if there is no such transaction
	Remove(id string) error
}
