// Package kv defines the durable key-value contract the preference store
// persists through. Values are opaque bytes; callers own the encoding.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a durable string-keyed byte store. Set must be durable once it
// returns nil. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendMemory = "memory"
)
