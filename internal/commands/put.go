package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobs"
)

type PutCmd struct {
	File        string            `arg:"" help:"File to upload." type:"existingfile"`
	To          string            `flag:"to" help:"Bucket to upload into. Defaults to --bucket."`
	Name        string            `flag:"name" help:"File name to record instead of the local one."`
	Prefix      string            `flag:"prefix" help:"Name prefix, e.g. users/photos."`
	ContentType string            `flag:"content-type" help:"Content type instead of the one derived from the file name."`
	Attr        map[string]string `flag:"attr" help:"Metadata attribute as key=value. Repeatable."`
}

func (c *PutCmd) Run(ctx context.Context, globals *Globals) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	name := c.Name
	if name == "" {
		name = filepath.Base(c.File)
	}

	var opts []blobs.AddOption
	if c.Prefix != "" {
		opts = append(opts, blobs.WithNamePrefix(c.Prefix))
	}
	if c.ContentType != "" {
		opts = append(opts, blobs.WithContentType(c.ContentType))
	}
	if len(c.Attr) > 0 {
		opts = append(opts, blobs.WithAttributes(c.Attr))
	}

	var id blobid.ID
	if c.To != "" {
		id, err = globals.Client.AddFileToBucket(ctx, c.To, name, f, opts...)
	} else {
		id, err = globals.Client.AddFile(ctx, name, f, opts...)
	}
	if err != nil {
		return err
	}

	if info, statErr := f.Stat(); statErr == nil {
		globals.Logger.Info("Blob uploaded", "blob_id", id.String(), "size", humanize.IBytes(uint64(info.Size())))
	}
	fmt.Fprintln(globals.Stdout, id)
	return nil
}
