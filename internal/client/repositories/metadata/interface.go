// Package metadata is the local key/value table that backs durable client
// state. Values are opaque byte strings; interpretation is up to callers.
package metadata

import (
	"context"
)

type Repository interface {
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the given keys; absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context, keys ...string) (map[string][]byte, error)
}
