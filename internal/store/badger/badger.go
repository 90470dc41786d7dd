package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/MrSnakeDoc/mindnest/internal/store/kv"
)

// keyPrefix namespaces preference keys inside the badger keyspace.
const keyPrefix = "pref:"

// Options configures the embedded database.
type Options struct {
	Dir      string
	InMemory bool
}

// Store persists preference values in an embedded BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens the database at opts.Dir, or an in-memory one when
// opts.InMemory is set.
func Open(opts Options) (*Store, error) {
	db, err := badger.Open(badgerOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// badgerOptions maps Options onto badger's. On-disk databases fsync every
// commit so a Set that returned nil survives a crash.
func badgerOptions(opts Options) badger.Options {
	if opts.InMemory {
		return badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	return badger.DefaultOptions(opts.Dir).
		WithSyncWrites(true).
		WithLogger(nil)
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return kv.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a value. On disk the commit is fsynced before Update returns.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(keyPrefix+key), value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// Ping reports whether the database is still open.
func (s *Store) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
