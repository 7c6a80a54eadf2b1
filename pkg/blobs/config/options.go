package config

import (
	"fmt"
	"strings"
)

// WithBackend selects the storage backend.
func WithBackend(backend string) Option {
	return func(c *Config) error {
		switch backend {
		case BackendMemory, BackendS3, BackendMinio, BackendGocloud:
			c.Backend = backend
			return nil
		default:
			return fmt.Errorf("storage backend must be one of memory, s3, minio or gocloud, got: %s", backend)
		}
	}
}

// WithBucket sets the default bucket.
func WithBucket(bucket string) Option {
	return func(c *Config) error {
		if bucket == "" {
			return fmt.Errorf("bucket cannot be empty")
		}
		c.Bucket = bucket
		return nil
	}
}

// WithRegion sets the region.
func WithRegion(region string) Option {
	return func(c *Config) error {
		if region == "" {
			return fmt.Errorf("region cannot be empty")
		}
		c.Region = region
		return nil
	}
}

// WithCredentials sets a static access key pair.
func WithCredentials(accessKey, secretKey string) Option {
	return func(c *Config) error {
		if accessKey == "" || secretKey == "" {
			return fmt.Errorf("access key and secret key are both required")
		}
		c.AccessKey = accessKey
		c.SecretKey = secretKey
		return nil
	}
}

// WithS3 selects the AWS SDK backend. An empty endpoint talks to AWS itself.
func WithS3(endpoint string, usePathStyle bool) Option {
	return func(c *Config) error {
		c.Backend = BackendS3
		c.Endpoint = endpoint
		c.UsePathStyle = usePathStyle
		return nil
	}
}

// WithMinio selects the MinIO backend.
func WithMinio(endpoint string, useHTTPS bool) Option {
	return func(c *Config) error {
		if endpoint == "" {
			return fmt.Errorf("minio endpoint is required")
		}
		c.Backend = BackendMinio
		c.Endpoint = endpoint
		c.UseHTTPS = useHTTPS
		return nil
	}
}

// WithBucketURL selects the Go CDK backend with the given bucket URL.
func WithBucketURL(url string) Option {
	return func(c *Config) error {
		if url == "" {
			return fmt.Errorf("bucket URL cannot be empty")
		}
		c.Backend = BackendGocloud
		c.BucketURL = url
		return nil
	}
}

// WithStorageURL picks the backend from a single URL:
//
//	memory, memory://   in-memory store
//	anything with ://   Go CDK bucket URL (file://, mem://, s3://...)
func WithStorageURL(url string) Option {
	return func(c *Config) error {
		switch {
		case url == "":
			return fmt.Errorf("storage URL cannot be empty")
		case url == "memory" || url == "memory://":
			c.Backend = BackendMemory
			c.BucketURL = ""
			return nil
		case strings.Contains(url, "://"):
			return WithBucketURL(url)(c)
		default:
			return fmt.Errorf("unsupported storage URL format: %s (use 'memory://' or a bucket URL such as 'file:///path' or 's3://%%s')", url)
		}
	}
}
