package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
)

const defaultRegion = "us-east-1"

// Config options for the S3 store
type Config struct {
	Region          string // AWS region (default: us-east-1)
	AccessKeyID     string // Access key; empty uses the default credential chain
	SecretAccessKey string // Secret key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UseSSL          bool   // Scheme for an Endpoint given without one
	UsePathStyle    bool   // Use path-style addressing

	// Upload tuning; zero values keep the manager defaults.
	PartSize    int64
	Concurrency int
}

// API is the subset of *s3.Client the store uses.
type API interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store is an S3-compatible implementation of blobs.ObjectStore
type Store struct {
	client   API
	uploader *manager.Uploader
}

var _ blobs.ObjectStore = (*Store)(nil)

// New creates an S3 client from config and wraps it in a Store.
func New(ctx context.Context, config Config) (*Store, error) {
	if config.Region == "" {
		config.Region = defaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.Region),
	}
	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(config.Endpoint, config.UseSSL))
		}
		o.UsePathStyle = config.UsePathStyle
	})

	return NewFromClient(client, func(u *manager.Uploader) {
		if config.PartSize > 0 {
			u.PartSize = config.PartSize
		}
		if config.Concurrency > 0 {
			u.Concurrency = config.Concurrency
		}
	}), nil
}

// NewFromClient wraps an existing client. Bodies smaller than the uploader
// part size are sent with a single PutObject.
func NewFromClient(client API, opts ...func(*manager.Uploader)) *Store {
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client, opts...),
	}
}

// endpointURL adds a scheme to endpoints configured as host:port.
func endpointURL(endpoint string, useSSL bool) string {
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// Put uploads body through the upload manager.
func (s *Store) Put(ctx context.Context, bucket, key string, body io.Reader, opts blobs.PutOptions) error {
	input := &s3.PutObjectInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Body:     body,
		Metadata: opts.Metadata,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// Get starts a GetObject request. The request context stays alive until
// the returned Response is closed.
func (s *Store) Get(ctx context.Context, bucket, key string) (*blobs.ObjectReader, error) {
	reqCtx, cancel := context.WithCancel(ctx)

	out, err := s.client.GetObject(reqCtx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		cancel()
		return nil, wrapError("failed to download from S3", bucket, key, err)
	}

	return &blobs.ObjectReader{
		Info: objectInfo(out.ContentLength, out.ContentType, out.LastModified, out.ETag, out.Metadata),
		Body: out.Body,
		// Cancelling the request context tears down the HTTP exchange.
		Response: blobs.ReleaseFunc(cancel),
	}, nil
}

// Head returns the object's attributes.
func (s *Store) Head(ctx context.Context, bucket, key string) (*blobs.ObjectInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapError("failed to get object metadata", bucket, key, err)
	}

	info := objectInfo(out.ContentLength, out.ContentType, out.LastModified, out.ETag, out.Metadata)
	return &info, nil
}

// Delete removes the object. S3 reports success for missing keys.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapError("failed to delete from S3", bucket, key, err)
	}
	return nil
}

func objectInfo(size *int64, contentType *string, modTime *time.Time, etag *string, metadata map[string]string) blobs.ObjectInfo {
	info := blobs.ObjectInfo{
		Size:         aws.ToInt64(size),
		ContentType:  aws.ToString(contentType),
		LastModified: aws.ToTime(modTime),
		ETag:         strings.Trim(aws.ToString(etag), "\""),
	}
	if len(metadata) > 0 {
		info.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			info.Metadata[k] = v
		}
	}
	return info
}

func wrapError(msg, bucket, key string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%w: %s/%s: %w", blobs.ErrNotFound, bucket, key, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// isNotFound recognizes a missing object from typed errors, error codes,
// or a bare 404 status (HEAD responses have no body to carry a code).
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}
