// Package offload provides the run-scoped side store for oversized tool
// results. Tool wrappers write full payloads here and surface only summarized
// content in the event stream; downstream consumers read the full payload
// back by scope and key while the scope's TTL lasts.
package offload

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the scope/key pair is absent or expired.
var ErrNotFound = errors.New("offload: not found")

// DefaultTTL is how long a scope's entries survive after the last write.
const DefaultTTL = 10 * time.Minute

// Store is a scope-partitioned key→value store with TTL auto-expiry. Every
// write to a scope resets that scope's expiry clock.
type Store interface {
	// Put stores value under scope/key and resets the scope TTL.
	Put(ctx context.Context, scope string, key string, value string) error

	// Get retrieves the value for scope/key. Returns ErrNotFound when the
	// entry is absent or the scope expired.
	Get(ctx context.Context, scope string, key string) (string, error)

	// Keys lists the live keys for a scope, in unspecified order.
	Keys(ctx context.Context, scope string) ([]string, error)

	// Delete removes an entire scope.
	Delete(ctx context.Context, scope string) error

	// Close releases resources.
	Close() error
}
