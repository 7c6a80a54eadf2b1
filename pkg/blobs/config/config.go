// Package config assembles a blob client from defaults, options, files and
// environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/storage/gocloud"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/storage/memory"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/storage/minio"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/storage/s3"
)

// Storage backends.
const (
	BackendMemory  = "memory"
	BackendS3      = "s3"
	BackendMinio   = "minio"
	BackendGocloud = "gocloud"
)

const defaultRegion = "us-east-1"

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Config describes the object store a client talks to.
type Config struct {
	Backend      string `yaml:"backend" json:"backend" env:"BLOB_BACKEND" env-description:"Storage backend: memory, s3, minio or gocloud"`
	Bucket       string `yaml:"bucket" json:"bucket" env:"BLOB_BUCKET" env-description:"Default bucket for uploads"`
	Endpoint     string `yaml:"endpoint" json:"endpoint" env:"BLOB_ENDPOINT" env-description:"Service endpoint for S3-compatible servers"`
	Region       string `yaml:"region" json:"region" env:"BLOB_REGION" env-description:"Region (default us-east-1)"`
	AccessKey    string `yaml:"access_key" json:"access_key" env:"BLOB_ACCESS_KEY" env-description:"Access key"`
	SecretKey    string `yaml:"secret_key" json:"secret_key" env:"BLOB_SECRET_KEY" env-description:"Secret key"`
	UseHTTPS     bool   `yaml:"use_https" json:"use_https" env:"BLOB_USE_HTTPS" env-description:"Use https for endpoints given without a scheme"`
	UsePathStyle bool   `yaml:"use_path_style" json:"use_path_style" env:"BLOB_USE_PATH_STYLE" env-description:"Use path-style bucket addressing (default true)"`
	BucketURL    string `yaml:"bucket_url" json:"bucket_url" env:"BLOB_BUCKET_URL" env-description:"Go CDK bucket URL, optionally with %s for the bucket name"`
}

// Load constructs a Config by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blob storage config: %w", err)
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		Backend:      BackendMemory,
		Region:       defaultRegion,
		UsePathStyle: true,
	}
}

// Validate checks that the selected backend has everything it needs.
func (c *Config) Validate() error {
	minioBackend := c.Backend == BackendMinio
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(BackendMemory, BackendS3, BackendMinio, BackendGocloud)),
		validation.Field(&c.Bucket, validation.By(bucketName)),
		validation.Field(&c.Endpoint, validation.When(minioBackend, validation.Required)),
		validation.Field(&c.Region, validation.When(c.Backend == BackendS3, validation.Required)),
		validation.Field(&c.AccessKey, validation.When(minioBackend || c.SecretKey != "", validation.Required)),
		validation.Field(&c.SecretKey, validation.When(minioBackend || c.AccessKey != "", validation.Required)),
		validation.Field(&c.BucketURL, validation.When(c.Backend == BackendGocloud, validation.Required)),
	)
}

func bucketName(value interface{}) error {
	name, _ := value.(string)
	if name == "" || blobid.ValidBucket(name) {
		return nil
	}
	return errors.New("must be 3-63 lowercase letters, digits, dots or hyphens")
}

// RequiredBucket returns the configured bucket or blobs.ErrDefaultBucketNotConfigured.
func (c *Config) RequiredBucket() (string, error) {
	if c.Bucket == "" {
		return "", blobs.ErrDefaultBucketNotConfigured
	}
	return c.Bucket, nil
}

// BuildStore creates the object store for the configured backend.
// Stores that hold resources implement io.Closer.
func (c *Config) BuildStore(ctx context.Context) (blobs.ObjectStore, error) {
	switch c.Backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendS3:
		store, err := s3.New(ctx, s3.Config{
			Region:          c.Region,
			AccessKeyID:     c.AccessKey,
			SecretAccessKey: c.SecretKey,
			Endpoint:        c.Endpoint,
			UseSSL:          c.UseHTTPS,
			UsePathStyle:    c.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build s3 store: %w", err)
		}
		return store, nil
	case BackendMinio:
		store, err := minio.New(minio.Config{
			Endpoint:  c.Endpoint,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
			UseSSL:    c.UseHTTPS,
			Region:    c.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build minio store: %w", err)
		}
		return store, nil
	case BackendGocloud:
		store, err := gocloud.New(c.BucketURL)
		if err != nil {
			return nil, fmt.Errorf("failed to build gocloud store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", c.Backend)
	}
}

// BuildClient creates a blob client over the configured store, using Bucket
// as the default bucket when set.
func (c *Config) BuildClient(ctx context.Context, logger *slog.Logger) (*blobs.BlobClient, error) {
	store, err := c.BuildStore(ctx)
	if err != nil {
		return nil, err
	}
	return blobs.New(store,
		blobs.WithDefaultBucket(c.Bucket),
		blobs.WithLogger(logger),
	)
}
