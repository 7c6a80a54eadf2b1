package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/Aurora-Science-Hub/Framework/internal/console"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

type StatCmd struct {
	ID string `arg:"" help:"Blob identifier."`
}

func (c *StatCmd) Run(ctx context.Context, globals *Globals) error {
	id, err := blobid.Parse(c.ID)
	if err != nil {
		return err
	}

	md, err := globals.Client.GetMetadata(ctx, id)
	if err != nil {
		return err
	}

	fields := idFields(id)
	fields = append(fields,
		console.Field{Name: "Size", Value: fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(max(md.Size, 0))), md.Size)},
		console.Field{Name: "Content type", Value: md.ContentType},
		console.Field{Name: "ETag", Value: md.ETag},
		console.Field{Name: "File name", Value: md.OriginalFileName},
	)
	if !md.LastModified.IsZero() {
		fields = append(fields, console.Field{
			Name:  "Last modified",
			Value: fmt.Sprintf("%s (%s)", md.LastModified.UTC().Format("2006-01-02 15:04:05 MST"), humanize.Time(md.LastModified)),
		})
	}
	for _, k := range slices.Sorted(maps.Keys(md.Attributes)) {
		fields = append(fields, console.Field{Name: k, Value: md.Attributes[k]})
	}

	console.NewPrinter(globals.Stdout).Table(fields)
	return nil
}
