// Package kvstore provides document storage keyed by fixed string identifiers.
// Each key holds one JSON array of records; callers own the schema.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound indicates no document exists under the key.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store reads and writes whole JSON documents under string keys.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
