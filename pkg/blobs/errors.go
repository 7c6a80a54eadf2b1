package blobs

import (
	"errors"
	"fmt"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

var (
	// ErrNotFound indicates the object addressed by an identifier does not
	// exist. Stores wrap their native not-found error with it.
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidArgument indicates a blank bucket, file name, missing data
	// or zero identifier. It is the same sentinel blobid.New reports, so one
	// errors.Is check covers both.
	ErrInvalidArgument = blobid.ErrInvalidArgument

	// ErrDefaultBucketNotConfigured is returned by AddFile when the client
	// was built without a default bucket.
	ErrDefaultBucketNotConfigured = errors.New("default bucket not configured")

	// ErrClosed is returned when reading a stream after Close or after its
	// context was cancelled.
	ErrClosed = errors.New("blob stream closed")
)

// OpError reports a failed store call together with the identifier it was
// made for.
type OpError struct {
	Op  string
	ID  blobid.ID
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("blob operation %s failed for %s: %v", e.Op, e.ID, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
