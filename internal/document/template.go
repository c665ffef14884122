// Package document renders invoices to PDF.
//
// There are four templates. Classic, Minimal and Modern are A4 documents that
// differ only in styling; Receipt is a single narrow page whose height is
// measured from its content. A Dispatcher picks the template from the
// business settings, formats every amount once into a View and hands it to
// the template's Renderer.
package document

import (
	"context"
	"strings"
)

// Template names one of the document layouts.
type Template string

const (
	Classic Template = "classic"
	Minimal Template = "minimal"
	Modern  Template = "modern"
	Receipt Template = "receipt"
)

// Templates lists every layout.
var Templates = []Template{Classic, Minimal, Modern, Receipt}

// ParseTemplate resolves a template name case-insensitively. Empty and
// unknown names resolve to Classic.
func ParseTemplate(name string) Template {
	switch t := Template(strings.ToLower(strings.TrimSpace(name))); t {
	case Classic, Minimal, Modern, Receipt:
		return t
	}
	return Classic
}

// Valid reports whether name is a known template name.
func Valid(name string) bool {
	t := Template(strings.ToLower(strings.TrimSpace(name)))
	return t == Classic || t == Minimal || t == Modern || t == Receipt
}

func (t Template) String() string {
	return string(t)
}

// Renderer draws a prepared View as a PDF.
type Renderer interface {
	Render(ctx context.Context, v *View) ([]byte, error)
}
