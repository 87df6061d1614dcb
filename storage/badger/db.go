package badger

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v2"
)

// OpenDB opens, and creates if needed, the database in dir. Badger's own logging is
// turned off.
func OpenDB(dir string) (*badger.DB, error) {
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return nil, fmt.Errorf("could not create database directory %s: %w", dir, err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("could not open database in %s: %w", dir, err)
	}
	return db, nil
}
