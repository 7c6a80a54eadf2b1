package blobs

import (
	"log/slog"
	"maps"
)

// Option configures a BlobClient.
type Option func(*BlobClient)

// WithDefaultBucket sets the bucket used by AddFile.
func WithDefaultBucket(bucket string) Option {
	return func(c *BlobClient) {
		c.defaultBucket = bucket
	}
}

// WithLogger sets the logger. Without it the client logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *BlobClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// AddOption customizes a single upload.
type AddOption func(*addOptions)

type addOptions struct {
	contentType string
	attributes  map[string]string
	namePrefix  string
	extension   string
	hasExt      bool
}

// WithContentType stores the object with contentType instead of the type
// resolved from the file name.
func WithContentType(contentType string) AddOption {
	return func(o *addOptions) {
		o.contentType = contentType
	}
}

// WithAttributes attaches caller metadata to the object. Entries from
// repeated calls are merged.
func WithAttributes(attrs map[string]string) AddOption {
	return func(o *addOptions) {
		if o.attributes == nil {
			o.attributes = make(map[string]string, len(attrs))
		}
		maps.Copy(o.attributes, attrs)
	}
}

// WithNamePrefix places the object under prefix, e.g. "users/photos".
func WithNamePrefix(prefix string) AddOption {
	return func(o *addOptions) {
		o.namePrefix = prefix
	}
}

// WithExtension overrides the extension taken from the file name. An empty
// ext stores the object without one.
func WithExtension(ext string) AddOption {
	return func(o *addOptions) {
		o.extension = ext
		o.hasExt = true
	}
}
