package commands

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

type RmCmd struct {
	IDs []string `arg:"" name:"id" help:"Blob identifiers to delete."`
}

// Run deletes every blob it can and reports all failures together.
func (c *RmCmd) Run(ctx context.Context, globals *Globals) error {
	var result *multierror.Error
	for _, s := range c.IDs {
		id, err := blobid.Parse(s)
		if err != nil {
			globals.Printer.Warn("Skipped %s: %v", s, err)
			result = multierror.Append(result, err)
			continue
		}
		if err := globals.Client.Delete(ctx, id); err != nil {
			globals.Printer.Warn("Failed to delete %s: %v", id, err)
			result = multierror.Append(result, err)
			continue
		}
		globals.Printer.Success("Deleted %s", id)
	}
	return result.ErrorOrNil()
}
