package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
)

// Config options for the MinIO store
type Config struct {
	Endpoint  string // host:port, without scheme
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string // Skips the bucket location lookup when set
}

// Store implements blobs.ObjectStore for MinIO and other S3-compatible
// servers.
type Store struct {
	client *minio.Client
}

var _ blobs.ObjectStore = (*Store)(nil)

// New connects a MinIO client. No request is made until the first call.
func New(config Config) (*Store, error) {
	endpoint := config.Endpoint
	secure := config.UseSSL
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "http://"), false
	}
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: secure,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewFromClient(client), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *minio.Client) *Store {
	return &Store{client: client}
}

// Put uploads body. An unknown size (-1) makes the client stream the body
// in parts.
func (s *Store) Put(ctx context.Context, bucket, key string, body io.Reader, opts blobs.PutOptions) error {
	size := opts.Size
	if size < 0 {
		size = -1
	}
	_, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return wrapError("failed to upload to minio", bucket, key, err)
	}
	return nil
}

// Get opens the object. The minio object is both the body and the
// response: closing it releases the connection.
func (s *Store) Get(ctx context.Context, bucket, key string) (*blobs.ObjectReader, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapError("failed to download from minio", bucket, key, err)
	}

	// GetObject is lazy; Stat issues the request.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, wrapError("failed to download from minio", bucket, key, err)
	}

	return &blobs.ObjectReader{
		Info: objectInfo(info),
		Body: obj,
	}, nil
}

// Head returns the object's attributes.
func (s *Store) Head(ctx context.Context, bucket, key string) (*blobs.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, wrapError("failed to get object metadata", bucket, key, err)
	}
	oi := objectInfo(info)
	return &oi, nil
}

// Delete removes the object.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return wrapError("failed to delete from minio", bucket, key, err)
	}
	return nil
}

// objectInfo lowercases user metadata keys; the server returns them in
// canonical header form.
func objectInfo(info minio.ObjectInfo) blobs.ObjectInfo {
	oi := blobs.ObjectInfo{
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
		ETag:         strings.Trim(info.ETag, "\""),
	}
	if len(info.UserMetadata) > 0 {
		oi.Metadata = make(map[string]string, len(info.UserMetadata))
		for k, v := range info.UserMetadata {
			oi.Metadata[strings.ToLower(k)] = v
		}
	}
	return oi
}

func wrapError(msg, bucket, key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s/%s: %w", blobs.ErrNotFound, bucket, key, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
