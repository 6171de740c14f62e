package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KVStore.Get when no value is stored under
// the key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is the persistent key-value capability the session store and the
// onboarding tracker are built on. String keyed, string valued, durable
// across process restarts. Every operation is independently fallible.
type KVStore interface {
	// Get returns the stored value, or ErrKeyNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
