// Package validation turns a field's constraint snapshot into the ordered list
// of messages rendered next to it.
package validation

import (
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

const (
	// DefaultPasswordField is the id of the primary password control.
	DefaultPasswordField = "password"
	// DefaultConfirmField is the id of the repeat-password control.
	DefaultConfirmField = "repeatPassword"
)

// FieldLookup resolves sibling controls by id. dom.Form satisfies it.
type FieldLookup interface {
	Field(id string) dom.Field
}

// Option configures a Validator.
type Option func(*Validator)

// WithCatalog overrides the message catalog.
func WithCatalog(catalog *Catalog) Option {
	return func(v *Validator) {
		if catalog != nil {
			v.catalog = catalog
		}
	}
}

// WithPasswordFields overrides the ids used by the password match rule.
// Blank ids keep the defaults.
func WithPasswordFields(password, confirm string) Option {
	return func(v *Validator) {
		if id := strings.TrimSpace(password); id != "" {
			v.passwordID = id
		}
		if id := strings.TrimSpace(confirm); id != "" {
			v.confirmID = id
		}
	}
}

// Validator computes error message lists for single fields.
type Validator struct {
	catalog    *Catalog
	lookup     FieldLookup
	passwordID string
	confirmID  string
}

// NewValidator builds a validator resolving the password pair through lookup.
// A nil lookup disables the password match rule.
func NewValidator(lookup FieldLookup, opts ...Option) *Validator {
	v := &Validator{
		catalog:    NewCatalog(),
		lookup:     lookup,
		passwordID: DefaultPasswordField,
		confirmID:  DefaultConfirmField,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// PasswordField returns the id of the primary password control.
func (v *Validator) PasswordField() string { return v.passwordID }

// ConfirmField returns the id of the repeat-password control.
func (v *Validator) ConfirmField() string { return v.confirmID }

// Catalog returns the catalog in use.
func (v *Validator) Catalog() *Catalog { return v.catalog }

// Validate returns the messages for every violated constraint, in catalog
// order. It clears the field's custom validity first, so repeated calls with
// unchanged input return the same list and leave no residue. A valid field
// yields an empty list.
func (v *Validator) Validate(field dom.Field) []string {
	if field == nil {
		return nil
	}

	field.SetCustomValidity(dom.NoCustomError)
	if v.passwordsDiffer(field) {
		field.SetCustomValidity(dom.PasswordMismatch)
	}

	snapshot := field.Validity()
	var messages []string
	for _, kind := range v.catalog.Kinds() {
		if !v.violated(kind, field, snapshot) {
			continue
		}
		if msg, ok := v.catalog.MessageFor(kind, field); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

func (v *Validator) violated(kind ConstraintKind, field dom.Field, snapshot dom.ValiditySnapshot) bool {
	if kind == PasswordMismatch {
		return snapshot.CustomError && field.CustomValidity() == dom.PasswordMismatch
	}
	return snapshot.Flag(string(kind))
}

// passwordsDiffer applies only to the confirmation field, and only when both
// values are present.
func (v *Validator) passwordsDiffer(field dom.Field) bool {
	if v.lookup == nil || field.ID() != v.confirmID {
		return false
	}
	primary := v.lookup.Field(v.passwordID)
	if primary == nil {
		return false
	}
	if primary.Value() == "" || field.Value() == "" {
		return false
	}
	return primary.Value() != field.Value()
}
