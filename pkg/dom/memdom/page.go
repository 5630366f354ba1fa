package memdom

import (
	"fmt"
	"strings"
)

// PageSpec describes a single-form page.
type PageSpec struct {
	FormSelector string
	// OverlayID registers an overlay element when non-empty.
	OverlayID string
	Inputs    []InputSpec
}

// Page bundles the document and its form.
type Page struct {
	Document *Document
	Form     *Form
	Overlay  *Node
}

// BuildPage constructs a document holding one form with the declared inputs.
func BuildPage(spec PageSpec) (*Page, error) {
	selector := strings.TrimSpace(spec.FormSelector)
	if selector == "" {
		return nil, fmt.Errorf("memdom: form selector is required")
	}

	doc := New()
	form := doc.AddForm(selector)
	for _, input := range spec.Inputs {
		if _, err := form.AddInput(input); err != nil {
			return nil, err
		}
	}

	page := &Page{Document: doc, Form: form}
	if id := strings.TrimSpace(spec.OverlayID); id != "" {
		page.Overlay = doc.AddElement(id)
	}
	return page, nil
}

// Input returns the control registered under id.
func (p *Page) Input(id string) *Input {
	if p == nil || p.Form == nil {
		return nil
	}
	return p.Form.Input(id)
}

// Fill sets values by control id. Unknown ids are ignored.
func (p *Page) Fill(values map[string]string) {
	for id, value := range values {
		if in := p.Input(id); in != nil {
			in.SetValue(value)
		}
	}
}
