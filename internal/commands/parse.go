package commands

import (
	"github.com/Aurora-Science-Hub/Framework/internal/console"
	"github.com/Aurora-Science-Hub/Framework/pkg/blobid"
)

type ParseCmd struct {
	ID string `arg:"" help:"Blob identifier to decompose."`
}

func (c *ParseCmd) Run(globals *Globals) error {
	id, err := blobid.Parse(c.ID)
	if err != nil {
		return err
	}

	console.NewPrinter(globals.Stdout).Table(idFields(id))
	return nil
}

func idFields(id blobid.ID) []console.Field {
	return []console.Field{
		{Name: "ID", Value: id.String()},
		{Name: "Bucket", Value: id.Bucket()},
		{Name: "Object key", Value: id.ObjectKey()},
		{Name: "Name prefix", Value: id.NamePrefix()},
		{Name: "Suffix", Value: id.Suffix()},
		{Name: "Extension", Value: id.Extension()},
	}
}
