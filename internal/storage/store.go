// Package storage defines the key-value contract every snapshot backend
// implements. Backends live in subpackages; backend.Open picks one from
// configuration.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or has
// been deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store holds opaque byte values under string keys.
//
// Put overwrites. Delete of an absent key is not an error. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
