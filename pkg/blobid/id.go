package blobid

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// Prefix is the token every serialized identifier starts with.
	Prefix = "blb"

	// MaxLength is the longest serialized identifier.
	MaxLength = 255

	// SuffixLength is the length of a generated unique suffix.
	SuffixLength = 22

	prefixWithDelimiter = Prefix + Delimiter
)

// ID identifies one object in one bucket. The zero value is not a valid
// identifier; use New or Parse. IDs are comparable and can be used as map
// keys: two IDs are equal exactly when their serialized forms are equal.
type ID struct {
	bucket    string
	prefix    string
	suffix    string
	extension string
	key       string
}

// Option customizes an identifier created by New.
type Option func(*options)

type options struct {
	prefix    string
	extension string
}

// WithNamePrefix places the object under a hierarchical prefix such as
// "users/photos". Surrounding whitespace and slashes are removed.
func WithNamePrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithExtension appends a file extension to the object key. A leading dot
// is optional and the extension is lowercased.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = ext
	}
}

// New creates an identifier with a fresh unique suffix.
func New(bucket string, opts ...Option) (ID, error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if !ValidBucket(bucket) {
		return ID{}, &ArgumentError{
			Arg:    "bucket name",
			Value:  bucket,
			Reason: fmt.Sprintf("must comply with S3 naming rules and not contain %q", Delimiter),
		}
	}
	if !ValidNamePrefix(o.prefix) {
		return ID{}, &ArgumentError{
			Arg:    "name prefix",
			Value:  o.prefix,
			Reason: fmt.Sprintf("must be at most %d characters and not contain %q", MaxNamePrefixLength, Delimiter),
		}
	}
	if !ValidExtension(o.extension) {
		return ID{}, &ArgumentError{
			Arg:    "extension",
			Value:  o.extension,
			Reason: fmt.Sprintf("must be at most %d characters without %q, %q or inner dots", MaxExtensionLength, Delimiter, PathSeparator),
		}
	}

	suffix, err := newSuffix()
	if err != nil {
		return ID{}, fmt.Errorf("failed to generate blob id suffix: %w", err)
	}

	return compose(bucket, NormalizeNamePrefix(o.prefix), suffix, NormalizeExtension(o.extension)), nil
}

// newSuffix encodes a UUIDv7 with the URL-safe base64 alphabet, which never
// contains '.' or '/'. The version 7 generator is time ordered and
// monotonic within the process.
func newSuffix() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(u[:]), nil
}

func compose(bucket, prefix, suffix, extension string) ID {
	var key strings.Builder
	if prefix != "" {
		key.WriteString(prefix)
		key.WriteString(PathSeparator)
	}
	key.WriteString(suffix)
	if extension != "" {
		key.WriteString(ExtensionSeparator)
		key.WriteString(extension)
	}
	return ID{
		bucket:    bucket,
		prefix:    prefix,
		suffix:    suffix,
		extension: extension,
		key:       key.String(),
	}
}

// Bucket returns the bucket name.
func (id ID) Bucket() string { return id.bucket }

// NamePrefix returns the name prefix, or "" when there is none.
func (id ID) NamePrefix() string { return id.prefix }

// Suffix returns the unique suffix.
func (id ID) Suffix() string { return id.suffix }

// Extension returns the lowercase extension without its dot, or "".
func (id ID) Extension() string { return id.extension }

// ObjectKey returns the key of the object inside its bucket.
func (id ID) ObjectKey() string { return id.key }

// String returns the serialized identifier, "blb_<bucket>_<objectKey>".
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return prefixWithDelimiter + id.bucket + Delimiter + id.key
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Equal reports whether both identifiers serialize to the same string.
func (id ID) Equal(other ID) bool {
	return id.String() == other.String()
}
