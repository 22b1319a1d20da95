// Package kv abstracts the persistent key-value store the local content
// repository keeps its collections in. Values are opaque byte payloads
// (JSON arrays); every read hands back a fresh copy, callers never share
// mutable state with the store.
package kv

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the minimal contract the repository needs. Implementations are
// not required to be transactional: concurrent read-modify-write cycles
// against the same key may interleave.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
