package gocloud

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets for local development
	_ "gocloud.dev/blob/memblob"  // mem:// buckets for tests
	_ "gocloud.dev/blob/s3blob"   // s3:// buckets
	"gocloud.dev/gcerrors"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
)

// Store implements blobs.ObjectStore over gocloud.dev buckets.
//
// The URL is a template for one bucket per bucket name, for example
// "s3://%s?region=eu-west-1" or "file:///var/blobs/%s?create_dir=true".
// A URL without a %s verb, such as "mem://" or "file:///var/blobs", is
// opened once per bucket name with the name as key prefix.
type Store struct {
	url string

	mu      sync.Mutex
	buckets map[string]*blob.Bucket
}

var _ blobs.ObjectStore = (*Store)(nil)

// New creates a store for urlstr. Buckets are opened lazily.
func New(urlstr string) (*Store, error) {
	if strings.TrimSpace(urlstr) == "" {
		return nil, fmt.Errorf("bucket url is required")
	}
	if n := strings.Count(urlstr, "%s"); n > 1 {
		return nil, fmt.Errorf("bucket url %q has %d %%s verbs, want at most one", urlstr, n)
	}
	return &Store{url: urlstr, buckets: make(map[string]*blob.Bucket)}, nil
}

// bucketURL resolves the URL for one bucket name.
func (s *Store) bucketURL(name string) (string, error) {
	if strings.Contains(s.url, "%s") {
		return strings.Replace(s.url, "%s", name, 1), nil
	}

	u, err := url.Parse(s.url)
	if err != nil {
		return "", fmt.Errorf("invalid bucket url: %w", err)
	}
	q := u.Query()
	q.Set("prefix", name+"/")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Store) bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[name]; ok {
		return b, nil
	}

	urlstr, err := s.bucketURL(name)
	if err != nil {
		return nil, err
	}
	b, err := blob.OpenBucket(ctx, urlstr)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob bucket %s: %w", name, err)
	}

	s.buckets[name] = b
	return b, nil
}

// Put writes body through a bucket writer. A failed copy aborts the write.
func (s *Store) Put(ctx context.Context, bucket, key string, body io.Reader, opts blobs.PutOptions) error {
	b, err := s.bucket(ctx, bucket)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := b.NewWriter(writeCtx, key, &blob.WriterOptions{
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to create blob writer: %w", err)
	}

	if _, err := io.Copy(w, body); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close blob writer: %w", err)
	}
	return nil
}

// Get reads the attributes and opens a reader. The reader is both body and
// response.
func (s *Store) Get(ctx context.Context, bucket, key string) (*blobs.ObjectReader, error) {
	b, err := s.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}

	attrs, err := b.Attributes(ctx, key)
	if err != nil {
		return nil, wrapError("failed to get blob attributes", bucket, key, err)
	}

	r, err := b.NewReader(ctx, key, nil)
	if err != nil {
		return nil, wrapError("failed to create blob reader", bucket, key, err)
	}

	info := objectInfo(attrs)
	info.Size = r.Size()
	return &blobs.ObjectReader{Info: info, Body: r}, nil
}

// Head returns the blob's attributes.
func (s *Store) Head(ctx context.Context, bucket, key string) (*blobs.ObjectInfo, error) {
	b, err := s.bucket(ctx, bucket)
	if err != nil {
		return nil, err
	}

	attrs, err := b.Attributes(ctx, key)
	if err != nil {
		return nil, wrapError("failed to get blob attributes", bucket, key, err)
	}

	info := objectInfo(attrs)
	return &info, nil
}

// Delete removes the blob.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	b, err := s.bucket(ctx, bucket)
	if err != nil {
		return err
	}

	if err := b.Delete(ctx, key); err != nil {
		return wrapError("failed to delete blob", bucket, key, err)
	}
	return nil
}

// Close closes every bucket opened so far.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *multierror.Error
	for name, b := range s.buckets {
		if err := b.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close bucket %s: %w", name, err))
		}
	}
	s.buckets = make(map[string]*blob.Bucket)
	return result.ErrorOrNil()
}

func objectInfo(attrs *blob.Attributes) blobs.ObjectInfo {
	info := blobs.ObjectInfo{
		Size:         attrs.Size,
		ContentType:  attrs.ContentType,
		LastModified: attrs.ModTime,
		ETag:         strings.Trim(attrs.ETag, "\""),
	}
	if len(attrs.Metadata) > 0 {
		info.Metadata = make(map[string]string, len(attrs.Metadata))
		for k, v := range attrs.Metadata {
			info.Metadata[k] = v
		}
	}
	return info
}

func wrapError(msg, bucket, key string, err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%w: %s/%s: %w", blobs.ErrNotFound, bucket, key, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
