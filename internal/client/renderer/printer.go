// Package renderer turns companies, metric panels and enrollment results into
// markdown documents and prints them, styled when the output is a terminal.
package renderer

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWidth = 100

// Printer writes markdown documents to w. Terminals get them styled by
// glamour, anything else gets the raw markdown.
type Printer struct {
	w  io.Writer
	tr *glamour.TermRenderer
}

// NewPrinter returns a Printer for w. Styling is enabled when w is a
// terminal and the glamour renderer can be built.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{w: w}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p
	}

	width := defaultWidth
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
		width = cols
	}
	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err == nil {
		p.tr = tr
	}
	return p
}

// Print writes one markdown document.
func (p *Printer) Print(md string) error {
	if p.tr != nil {
		out, err := p.tr.Render(md)
		if err == nil {
			md = out
		}
	}
	_, err := io.WriteString(p.w, md)
	return err
}
