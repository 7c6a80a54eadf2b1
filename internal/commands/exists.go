package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

// ErrMissing is returned by exists --strict for an absent blob.
var ErrMissing = errors.New("blob does not exist")

type ExistsCmd struct {
	ID     string `arg:"" help:"Blob identifier."`
	Strict bool   `flag:"strict" help:"Fail when the blob does not exist."`
}

func (c *ExistsCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := blobid.Parse(c.ID)
	if err != nil {
		return err
	}

	ok, err := globals.Client.Exists(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.Stdout, ok)
	if !ok && c.Strict {
		return fmt.Errorf("%w: %s", ErrMissing, id)
	}
	return nil
}
