// Package commands implements the blobctl subcommands.
package commands

import (
	"io"
	"log/slog"

	"github.com/Aurora-Science-Hub/Framework/internal/console"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs/config"
)

type Globals struct {
	Client  blobs.Client
	Printer *console.Printer
	Stdout  io.Writer
	Logger  *slog.Logger
}

// StorageFlags select and configure the object store. Flags left unset keep
// the BLOB_* environment and the library defaults.
type StorageFlags struct {
	Backend     string `flag:"backend" help:"Storage backend (memory, s3, minio, gocloud)."`
	Bucket      string `flag:"bucket" help:"Default bucket for uploads."`
	Endpoint    string `flag:"endpoint" help:"Endpoint for S3-compatible servers."`
	Region      string `flag:"region" help:"Region."`
	AccessKey   string `flag:"access-key" help:"Access key."`
	SecretKey   string `flag:"secret-key" help:"Secret key."`
	UseHTTPS    bool   `flag:"use-https" help:"Use https for endpoints given without a scheme."`
	VirtualHost bool   `flag:"virtual-host" help:"Use virtual-hosted bucket addressing instead of path style."`
	BucketURL   string `flag:"bucket-url" help:"Go CDK bucket URL, optionally with %s for the bucket name."`
}

// Options turns the flags that were set into config options.
func (f StorageFlags) Options() []config.Option {
	opts := []config.Option{
		func(c *config.Config) error {
			if f.Endpoint != "" {
				c.Endpoint = f.Endpoint
			}
			if f.AccessKey != "" {
				c.AccessKey = f.AccessKey
			}
			if f.SecretKey != "" {
				c.SecretKey = f.SecretKey
			}
			if f.UseHTTPS {
				c.UseHTTPS = true
			}
			if f.VirtualHost {
				c.UsePathStyle = false
			}
			return nil
		},
	}
	if f.BucketURL != "" {
		opts = append(opts, config.WithBucketURL(f.BucketURL))
	}
	if f.Backend != "" {
		opts = append(opts, config.WithBackend(f.Backend))
	}
	if f.Bucket != "" {
		opts = append(opts, config.WithBucket(f.Bucket))
	}
	if f.Region != "" {
		opts = append(opts, config.WithRegion(f.Region))
	}
	return opts
}

// EnvCmd lists the environment variables blobctl reads.
type EnvCmd struct{}

func (c *EnvCmd) Run(globals *Globals) error {
	config.EnvUsage(globals.Stdout)
	return nil
}
