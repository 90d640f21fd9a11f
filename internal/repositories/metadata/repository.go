// Package metadata provides a small key/value store used for session state
// that must survive process restarts (e.g. the current session token).
package metadata

import "context"

// Repository describes the key/value operations backing session persistence.
type Repository interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Get returns the value stored under key, or common.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a single key. Missing keys are ignored.
	Delete(ctx context.Context, key string) error

	// Clear removes all stored keys.
	Clear(ctx context.Context) error
}
