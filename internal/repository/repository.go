// Package repository persists the storefront's named collections in a
// durable key-value store.
package repository

import (
	"context"
)

// Persisted keys.
const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyDarkMode = "darkMode"
)

// KV is a durable store of text values keyed by name.
type KV interface {
	// Get returns the stored value. A missing key yields an error wrapping
	// apperrors.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
