package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned for missing keys. Modules in storage/badger and
	// storage/badger/operation translate badger.ErrKeyNotFound into it.
	ErrNotFound = errors.New("key not found")

	ErrAlreadyExists = errors.New("key already exists")
)
