// Package prefs implements the client-local key-value preference store
// behind service.PrefStore, backed by Badger. Everything in here is
// best-effort: callers fall back to defaults when a key is missing or its
// content is malformed.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"

	"github.com/mferrell/dealflow/internal/common"
)

// Store is a Badger-backed PrefStore.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the preference database at dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: preferences directory", common.ErrMissingConfig)
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithLogger(nil) // Badger's own logging is noise here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences store: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the raw value for key, or common.ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

// Set stores the raw value under key.
func (s *Store) Set(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
