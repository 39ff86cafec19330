// Package store is the client facade over the membership record store.
// It owns the two collections (customers, payments), classifies backend
// failures into the error kinds callers can act on, and keeps the
// payment compound write atomic.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the referenced customer or payment is absent
	ErrNotFound = errors.New("record not found")

	// ErrStaleWrite means the row changed since the caller last read it;
	// the write was discarded, re-read and retry deliberately
	ErrStaleWrite = errors.New("record changed since last read")

	// ErrUnavailable wraps any backend failure not otherwise classified
	ErrUnavailable = errors.New("record store unavailable")
)

// Store provides filtered reads and writes against the record store
type Store struct {
	db *gorm.DB
}

// New creates a Store over an established database connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// classify maps a gorm error onto the store's error kinds
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
