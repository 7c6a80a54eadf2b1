package commands

import (
	"fmt"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

type NewCmd struct {
	Bucket    string `arg:"" help:"Bucket the identifier points into."`
	Prefix    string `flag:"prefix" help:"Name prefix, e.g. users/photos."`
	Extension string `name:"ext" help:"File extension, with or without the dot."`
	Count     int    `flag:"count" short:"n" help:"Number of identifiers to generate." default:"1"`
}

// Run prints fresh identifiers without touching the store.
func (c *NewCmd) Run(globals *Globals) error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}

	for range c.Count {
		id, err := blobid.New(c.Bucket,
			blobid.WithNamePrefix(c.Prefix),
			blobid.WithExtension(c.Extension),
		)
		if err != nil {
			return fmt.Errorf("failed to create blob id: %w", err)
		}
		fmt.Fprintln(globals.Stdout, id)
	}

	return nil
}
