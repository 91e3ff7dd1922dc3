package blobstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist is returned by Get when no object has the given name.
var ErrNotExist = errors.New("blobstore: object does not exist")

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Name         string
	Size         int64
	LastModified time.Time
}

// Store is the object-storage abstraction the API services run against.
//
// PresignGet and PresignPut compute capability URLs locally from the
// static credential; they make no network call and do not depend on the
// named object existing. Upload capabilities are issued for objects that
// do not exist yet.
type Store interface {
	// EnsureBucket creates the bucket if it is missing. Idempotent and
	// safe to call concurrently.
	EnsureBucket(ctx context.Context) error

	// Get returns the full object body, or ErrNotExist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put writes the full object body, overwriting any previous version.
	Put(ctx context.Context, name string, data []byte, contentType string) error

	// List enumerates every object in the bucket.
	List(ctx context.Context) ([]ObjectInfo, error)

	// PresignGet returns a read capability URL valid for expiry.
	PresignGet(ctx context.Context, name string, expiry time.Duration) (string, error)

	// PresignPut returns a single-PUT write capability URL valid for expiry.
	PresignPut(ctx context.Context, name string, expiry time.Duration) (string, error)
}
