package memdom

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// DefaultErrorsSelector is the selector error regions are registered under
// unless InputSpec overrides it.
const DefaultErrorsSelector = "[data-js-form-field-errors]"

var (
	typeValidatorOnce sync.Once
	typeValidator     *validator.Validate
)

func nativeTypes() *validator.Validate {
	typeValidatorOnce.Do(func() {
		typeValidator = validator.New()
	})
	return typeValidator
}

// InputSpec declares a control and its constraint attributes.
type InputSpec struct {
	ID string
	// Type is the input type; "email" and "url" get native type checks.
	Type      string
	Value     string
	Required  bool
	Title     string
	Pattern   string
	MinLength int
	MaxLength int
	// ErrorsSelector names the sibling error region. Empty uses
	// DefaultErrorsSelector.
	ErrorsSelector string
	// NoErrorRegion builds the control without an error region.
	NoErrorRegion bool
	// Detached builds the control without a container.
	Detached bool
}

// Input is an in-memory form control that evaluates constraints the way a
// browser does for text-like inputs.
type Input struct {
	doc  *Document
	form *Form

	id           string
	kind         string
	value        string
	defaultValue string
	required     bool
	title        string
	pattern      *regexp.Regexp
	minLength    int
	maxLength    int

	custom      dom.CustomValidity
	ariaInvalid bool
	classes     Classes
	container   *Container
}

var _ dom.Field = (*Input)(nil)

func newInput(doc *Document, form *Form, spec InputSpec) (*Input, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, fmt.Errorf("memdom: input id is required")
	}

	in := &Input{
		doc:          doc,
		form:         form,
		id:           id,
		kind:         strings.ToLower(strings.TrimSpace(spec.Type)),
		value:        spec.Value,
		defaultValue: spec.Value,
		required:     spec.Required,
		title:        spec.Title,
		minLength:    -1,
		maxLength:    -1,
	}
	if spec.MinLength > 0 {
		in.minLength = spec.MinLength
	}
	if spec.MaxLength > 0 {
		in.maxLength = spec.MaxLength
	}

	if pattern := strings.TrimSpace(spec.Pattern); pattern != "" {
		re, err := regexp.Compile("^(?:" + pattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("memdom: input %q pattern: %w", id, err)
		}
		in.pattern = re
	}

	if !spec.Detached {
		in.container = &Container{regions: make(map[string]*Region)}
		if !spec.NoErrorRegion {
			selector := strings.TrimSpace(spec.ErrorsSelector)
			if selector == "" {
				selector = DefaultErrorsSelector
			}
			in.container.regions[selector] = &Region{Node: Node{id: id + "-errors"}}
		}
	}
	return in, nil
}

// ID implements dom.Field.
func (i *Input) ID() string { return i.id }

// Value implements dom.Field.
func (i *Input) Value() string { return i.value }

// SetValue simulates the user editing the control.
func (i *Input) SetValue(value string) { i.value = value }

// Required implements dom.Field.
func (i *Input) Required() bool { return i.required }

// Title implements dom.Field.
func (i *Input) Title() string { return i.title }

// MinLength implements dom.Field.
func (i *Input) MinLength() int { return i.minLength }

// MaxLength implements dom.Field.
func (i *Input) MaxLength() int { return i.maxLength }

// ClassList implements dom.Element.
func (i *Input) ClassList() dom.ClassList { return &i.classes }

// Classes exposes the concrete class list for assertions.
func (i *Input) Classes() *Classes { return &i.classes }

// CustomValidity implements dom.Field.
func (i *Input) CustomValidity() dom.CustomValidity { return i.custom }

// SetCustomValidity implements dom.Field.
func (i *Input) SetCustomValidity(v dom.CustomValidity) { i.custom = v }

// SetAriaInvalid implements dom.Field.
func (i *Input) SetAriaInvalid(invalid bool) { i.ariaInvalid = invalid }

// AriaInvalid implements dom.Field.
func (i *Input) AriaInvalid() bool { return i.ariaInvalid }

// Focus implements dom.Field.
func (i *Input) Focus() {
	if i.doc != nil {
		i.doc.active = i
	}
}

// Container implements dom.Field. Detached inputs return a nil interface.
func (i *Input) Container() dom.Container {
	if i.container == nil {
		return nil
	}
	return i.container
}

// ErrorRegion returns the default error region, nil when the control has none.
func (i *Input) ErrorRegion() *Region {
	if i.container == nil {
		return nil
	}
	for _, region := range i.container.regions {
		return region
	}
	return nil
}

// Validity implements dom.Field. Length and pattern constraints only apply to
// non-empty values, as in browsers.
func (i *Input) Validity() dom.ValiditySnapshot {
	snap := dom.ValiditySnapshot{
		CustomError: i.custom != dom.NoCustomError,
	}

	if i.value == "" {
		snap.ValueMissing = i.required
		return snap.Settle()
	}

	length := utf8.RuneCountInString(i.value)
	if i.minLength > 0 && length < i.minLength {
		snap.TooShort = true
	}
	if i.maxLength > 0 && length > i.maxLength {
		snap.TooLong = true
	}
	if i.pattern != nil && !i.pattern.MatchString(i.value) {
		snap.PatternMismatch = true
	}
	switch i.kind {
	case "email", "url":
		if err := nativeTypes().Var(i.value, i.kind); err != nil {
			snap.TypeMismatch = true
		}
	}
	return snap.Settle()
}

func (i *Input) reset() {
	i.value = i.defaultValue
}
