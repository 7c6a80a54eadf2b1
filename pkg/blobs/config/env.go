package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvPrefix prefixes every environment variable WithEnv reads.
const EnvPrefix = "BLOB_"

// WithEnv applies environment variable overrides:
//
//	BLOB_BACKEND        - memory, s3, minio or gocloud
//	BLOB_BUCKET         - default bucket for uploads
//	BLOB_ENDPOINT       - endpoint for S3-compatible servers
//	BLOB_REGION         - region
//	BLOB_ACCESS_KEY     - access key
//	BLOB_SECRET_KEY     - secret key
//	BLOB_USE_HTTPS      - scheme for endpoints given without one
//	BLOB_USE_PATH_STYLE - path-style bucket addressing
//	BLOB_BUCKET_URL     - Go CDK bucket URL
//	BLOB_STORAGE_URL    - shorthand, see WithStorageURL
//
// Unset variables leave the current values alone.
func WithEnv() Option {
	return func(c *Config) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		var shorthand struct {
			StorageURL string `env:"BLOB_STORAGE_URL"`
		}
		if err := cleanenv.ReadEnv(&shorthand); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		if shorthand.StorageURL != "" {
			return WithStorageURL(shorthand.StorageURL)(c)
		}
		return nil
	}
}

// WithFile reads a yaml, json, toml or .env file and then the environment,
// so BLOB_* variables win over the file.
func WithFile(path string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("config file path cannot be empty")
		}
		if err := cleanenv.ReadConfig(path, c); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}
}

// EnvUsage writes the list of supported environment variables to w.
func EnvUsage(w io.Writer) {
	header := "Environment variables:"
	cleanenv.FUsage(w, &Config{}, &header)()
}
