// Package console formats blobctl output.
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("32"))
	keyStyle     = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	valueStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Printer writes status lines and tables to a stream.
type Printer struct {
	stream io.Writer
}

// NewPrinter creates a Printer writing to stream.
func NewPrinter(stream io.Writer) *Printer {
	return &Printer{stream: stream}
}

func (p *Printer) Success(format string, a ...any) {
	fmt.Fprintln(p.stream, successStyle.Render(fmt.Sprintf(format, a...)))
}

func (p *Printer) Warn(format string, a ...any) {
	fmt.Fprintln(p.stream, warnStyle.Render(fmt.Sprintf(format, a...)))
}

// Field is one row of a key/value table.
type Field struct {
	Name  string
	Value string
}

// Table renders fields as a two column table.
func (p *Printer) Table(fields []Field) {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Name, f.Value})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return valueStyle
		}).
		Rows(rows...)

	fmt.Fprintln(p.stream, t.Render())
}
