// Package store persists canonical base images keyed by
// (userId, sourceResolution). It is a cache tier, not a source of truth:
// writes are best-effort and entries are overwritten wholesale on refresh.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound means no base image is stored for the key.
	ErrNotFound = errors.New("source image not found")

	// ErrInvalidKey means the key would resolve outside the store's
	// namespace. Rejected before any backend access.
	ErrInvalidKey = errors.New("invalid source image key")
)

// SourceStore is the durable second cache tier of canonical base images.
type SourceStore interface {
	// Read returns the stored bytes and their modification time, used as
	// the staleness baseline. Absent keys return ErrNotFound.
	Read(ctx context.Context, userID int64, resolution int) ([]byte, time.Time, error)

	// Write replaces the stored bytes for the key. Failures leave any
	// previous entry unspecified; callers log and move on.
	Write(ctx context.Context, userID int64, resolution int, data []byte) error

	// Remove drops the entry so the next read misses. Used to discard
	// corrupt sources.
	Remove(ctx context.Context, userID int64, resolution int) error
}

// objectName builds the deterministic per-key file name.
func objectName(userID int64, resolution int) string {
	return fmt.Sprintf("%d_%d.png", userID, resolution)
}
