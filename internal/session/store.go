package session

import "context"

// Store is the durable slot mapping a client-held session key to the
// authenticated user id. Presence of a non-empty value is the sole authority
// for authentication state: no token, no expiry, no revalidation of the
// stored id on later reads. Only the session gate writes it; consumers read
// through the gate rather than touching the slot directly.
type Store interface {
	// Get returns the user id stored for key, or "" when none is set.
	Get(ctx context.Context, key string) (string, error)

	// Set persists userID for key, replacing any previous value.
	Set(ctx context.Context, key, userID string) error

	// Clear removes the value for key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error

	Close() error
}
