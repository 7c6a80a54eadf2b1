package blobs

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the narrow object-storage contract the client is written
// against. Implementations live under storage/.
//
// Get, Head and Delete must return an error satisfying
// errors.Is(err, ErrNotFound) for a missing object, wrapping the native
// error so callers can still inspect it.
type ObjectStore interface {
	// Put uploads body under bucket/key, replacing any existing object.
	Put(ctx context.Context, bucket, key string, body io.Reader, opts PutOptions) error

	// Get opens the object for reading. The caller owns the returned reader
	// and must close both its Body and its Response.
	Get(ctx context.Context, bucket, key string) (*ObjectReader, error)

	// Head returns the object's attributes without its content.
	Head(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// Delete removes the object.
	Delete(ctx context.Context, bucket, key string) error
}

// PutOptions carries the attributes stored alongside an object.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string

	// Size is the body length, or -1 when unknown.
	Size int64
}

// ObjectInfo contains the attributes of a stored object.
type ObjectInfo struct {
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
	Metadata     map[string]string
}

// ObjectReader is an open object. Response is the store-side handle the
// body depends on, for example the HTTP exchange that produced it; it may
// be nil and must be released after the body.
type ObjectReader struct {
	Info     ObjectInfo
	Body     io.ReadCloser
	Response io.Closer
}

// ReleaseFunc adapts a function, such as a context.CancelFunc, to io.Closer.
type ReleaseFunc func()

func (f ReleaseFunc) Close() error {
	if f != nil {
		f()
	}
	return nil
}
