package httpform

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/flosch/pongo2/v6"
)

// PageTemplate is the template rendered for the form page.
const PageTemplate = "page.html"

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in page templates so callers can copy or
// extend them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

func loadPage(fsys fs.FS) (*pongo2.Template, error) {
	set := pongo2.NewSet("formguard", pongo2.NewFSLoader(fsys))
	tpl, err := set.FromFile(PageTemplate)
	if err != nil {
		return nil, fmt.Errorf("httpform: load template %q: %w", PageTemplate, err)
	}
	return tpl, nil
}
