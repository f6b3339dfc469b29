package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Store is the small key-value surface the local repositories need.
// Lists keep insertion order and are used as entity indexes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetNX writes value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	Append(ctx context.Context, listKey, member string) error
	Members(ctx context.Context, listKey string) ([]string, error)
	Remove(ctx context.Context, listKey, member string) error
}
