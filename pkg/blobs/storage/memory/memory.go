package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/contenttype"
)

type object struct {
	data        []byte
	contentType string
	metadata    map[string]string
	modTime     time.Time
	etag        string
}

// Store is an in-memory implementation of blobs.ObjectStore. Buckets are
// created on first write.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]map[string]*object
	now     func() time.Time
}

var _ blobs.ObjectStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		buckets: make(map[string]map[string]*object),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Put stores a copy of body under bucket/key.
func (s *Store) Put(ctx context.Context, bucket, key string, body io.Reader, opts blobs.PutOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = contenttype.OctetStream
	}

	sum := md5.Sum(data)
	obj := &object{
		data:        data,
		contentType: contentType,
		metadata:    maps.Clone(opts.Metadata),
		modTime:     s.now(),
		etag:        hex.EncodeToString(sum[:]),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.buckets[bucket]
	if !ok {
		objects = make(map[string]*object)
		s.buckets[bucket] = objects
	}
	objects[key] = obj
	return nil
}

// Get returns a reader over the stored bytes.
func (s *Store) Get(ctx context.Context, bucket, key string) (*blobs.ObjectReader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obj, err := s.lookup(bucket, key)
	if err != nil {
		return nil, err
	}

	return &blobs.ObjectReader{
		Info: obj.info(),
		Body: io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

// Head returns the attributes of the stored object.
func (s *Store) Head(ctx context.Context, bucket, key string) (*blobs.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obj, err := s.lookup(bucket, key)
	if err != nil {
		return nil, err
	}

	info := obj.info()
	return &info, nil
}

// Delete removes the object. Deleting a missing object returns an error
// matching blobs.ErrNotFound.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	objects := s.buckets[bucket]
	if _, ok := objects[key]; !ok {
		return notFound(bucket, key)
	}

	delete(objects, key)
	return nil
}

// Len returns the number of objects in bucket.
func (s *Store) Len(bucket string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[bucket])
}

// Buckets returns the names of buckets that have been written to, sorted.
func (s *Store) Buckets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.buckets))
}

func (s *Store) lookup(bucket, key string) (*object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.buckets[bucket][key]
	if !ok {
		return nil, notFound(bucket, key)
	}
	return obj, nil
}

func (o *object) info() blobs.ObjectInfo {
	return blobs.ObjectInfo{
		Size:         int64(len(o.data)),
		ContentType:  o.contentType,
		LastModified: o.modTime,
		ETag:         o.etag,
		Metadata:     maps.Clone(o.metadata),
	}
}

func notFound(bucket, key string) error {
	return fmt.Errorf("%w: %s/%s", blobs.ErrNotFound, bucket, key)
}
