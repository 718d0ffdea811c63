package repositories

import "context"

// LocalStore is a device-scoped key/value store. It stands in for browser
// localStorage: each device sees only its own keys.
type LocalStore interface {
	// Get returns the stored value and whether it exists
	Get(ctx context.Context, deviceID, key string) (string, bool, error)

	// Set creates or replaces a value
	Set(ctx context.Context, deviceID, key, value string) error

	// Delete removes a key. Deleting a missing key is not an error
	Delete(ctx context.Context, deviceID, key string) error
}
