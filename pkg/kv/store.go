// Package kv is the durable key-value boundary of the storefront. Writes
// are fire-and-forget: a failed save is logged and the in-memory state
// stays authoritative for the session. Reads never propagate backend or
// decode failures past this boundary; callers keep their fallback value.
package kv

import (
	"context"
	"encoding/json"
)

// Store persists JSON-serialized snapshots under namespaced keys.
type Store interface {
	// Save serializes value under key. Failures are swallowed after logging.
	Save(ctx context.Context, key string, value any)
	// Load deserializes the stored payload into dest and reports whether a
	// usable value was found. On a missing key, malformed payload, or
	// backend failure it returns false and leaves dest untouched.
	Load(ctx context.Context, key string, dest any) bool
	// Delete removes the key. Failures are swallowed after logging.
	Delete(ctx context.Context, key string)
	Close() error
}

func encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func decode(payload []byte, dest any) error {
	return json.Unmarshal(payload, dest)
}

func namespacedKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
