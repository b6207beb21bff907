// Package storage defines the narrow key-value port the profile store
// persists through, with a durable sqlite adapter and an in-memory adapter.
package storage

import "context"

// KV is the persistence port. Get reports ok=false when the key is absent.
// Implementations must treat values as opaque text.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
