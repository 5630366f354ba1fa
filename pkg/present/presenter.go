// Package present renders error lists into a field's error region and keeps
// the field's invalid class and accessibility flag in sync.
package present

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// DefaultErrorsSelector locates the error region inside a field's container.
const DefaultErrorsSelector = "[data-js-form-field-errors]"

const fragmentTemplate = `{% for message in messages %}<span class="{{ errorClass }}">{{ message }}</span>{% endfor %}`

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("span")
		policy.AllowAttrs("class").OnElements("span")
		fragmentPolicy = policy
	})
	return fragmentPolicy
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithErrorsSelector overrides the error region selector.
func WithErrorsSelector(selector string) Option {
	return func(p *Presenter) {
		if trimmed := strings.TrimSpace(selector); trimmed != "" {
			p.errorsSelector = trimmed
		}
	}
}

// WithClassNames overrides the classes the presenter toggles.
func WithClassNames(names ClassNames) Option {
	return func(p *Presenter) {
		p.classes = p.classes.Merge(names)
	}
}

// WithFragmentTemplate replaces the pongo2 template used for each message
// list. The template receives `messages` and `errorClass`.
func WithFragmentTemplate(source string) Option {
	return func(p *Presenter) {
		if strings.TrimSpace(source) != "" {
			p.templateSource = source
		}
	}
}

// Presenter renders messages into error regions.
type Presenter struct {
	errorsSelector string
	classes        ClassNames
	templateSource string
	fragment       *pongo2.Template
}

// New builds a presenter. It fails only when a custom fragment template does
// not compile.
func New(opts ...Option) (*Presenter, error) {
	p := &Presenter{
		errorsSelector: DefaultErrorsSelector,
		classes:        DefaultClassNames(),
		templateSource: fragmentTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	tpl, err := pongo2.FromString(p.templateSource)
	if err != nil {
		return nil, fmt.Errorf("present: compile fragment template: %w", err)
	}
	p.fragment = tpl
	return p, nil
}

// MustNew panics when New fails.
func MustNew(opts ...Option) *Presenter {
	p, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// ClassNames returns the classes in use.
func (p *Presenter) ClassNames() ClassNames { return p.classes }

// Present replaces the field's error region content with one fragment per
// message and toggles the invalid class. A field without an error region is
// skipped silently; the accessibility flag is still written. Repeated calls
// with the same arguments leave the same state.
func (p *Presenter) Present(field dom.Field, messages []string) {
	if field == nil {
		return
	}
	invalid := len(messages) > 0

	if region := p.regionFor(field); region != nil {
		region.SetInnerHTML(p.Markup(messages))
		field.ClassList().Toggle(p.classes.FieldInvalid, invalid)
	}
	field.SetAriaInvalid(invalid)
}

// Clear erases any rendered errors and resets the invalid state without
// evaluating constraints.
func (p *Presenter) Clear(field dom.Field) {
	if field == nil {
		return
	}
	p.Present(field, nil)
	field.ClassList().Remove(p.classes.FieldInvalid)
	field.SetAriaInvalid(false)
}

// Markup renders the fragment for messages.
func (p *Presenter) Markup(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	out, err := p.fragment.Execute(pongo2.Context{
		"messages":   messages,
		"errorClass": p.classes.FieldError,
	})
	if err != nil {
		out = p.fallbackMarkup(messages)
	}
	return fragmentSanitizer().Sanitize(out)
}

func (p *Presenter) fallbackMarkup(messages []string) string {
	var b strings.Builder
	for _, message := range messages {
		fmt.Fprintf(&b, `<span class="%s">%s</span>`, html.EscapeString(p.classes.FieldError), html.EscapeString(message))
	}
	return b.String()
}

func (p *Presenter) regionFor(field dom.Field) dom.Region {
	container := field.Container()
	if container == nil {
		return nil
	}
	return container.Query(p.errorsSelector)
}
