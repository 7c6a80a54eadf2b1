package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

type GetCmd struct {
	ID     string `arg:"" help:"Blob identifier."`
	Output string `flag:"output" short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *GetCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := blobid.Parse(c.ID)
	if err != nil {
		return err
	}

	if c.Output == "" || c.Output == "-" {
		_, err := globals.Client.ReadToStream(ctx, id, globals.Stdout)
		return err
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.Output, err)
	}

	md, err := globals.Client.ReadToStream(ctx, id, f)
	if closeErr := f.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to close %s: %w", c.Output, closeErr))
	}
	if err != nil {
		_ = os.Remove(c.Output)
		return err
	}

	globals.Printer.Success("Wrote %s to %s", humanize.IBytes(uint64(max(md.Size, 0))), c.Output)
	return nil
}
