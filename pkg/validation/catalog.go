package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// ConstraintKind names a category of field validity failure.
type ConstraintKind string

const (
	ValueMissing     ConstraintKind = "valueMissing"
	PatternMismatch  ConstraintKind = "patternMismatch"
	TooShort         ConstraintKind = "tooShort"
	TooLong          ConstraintKind = "tooLong"
	PasswordMismatch ConstraintKind = "passwordMismatch"
)

// declaredKinds fixes the order messages are rendered in.
var declaredKinds = []ConstraintKind{
	ValueMissing,
	PatternMismatch,
	TooShort,
	TooLong,
	PasswordMismatch,
}

// Messages holds the fixed message strings of a catalog. TooShort and TooLong
// are format strings receiving the declared length through a single %d verb.
type Messages struct {
	ValueMissing     string `yaml:"valueMissing" json:"valueMissing"`
	PatternMismatch  string `yaml:"patternMismatch" json:"patternMismatch"`
	TooShort         string `yaml:"tooShort" json:"tooShort"`
	TooLong          string `yaml:"tooLong" json:"tooLong"`
	PasswordMismatch string `yaml:"passwordMismatch" json:"passwordMismatch"`
}

// EnglishMessages is the default message set.
var EnglishMessages = Messages{
	ValueMissing:     "Please fill this field",
	PatternMismatch:  "Value does not match the required format",
	TooShort:         "Value is too short, minimum length is %d",
	TooLong:          "Value is too long, maximum length is %d",
	PasswordMismatch: "Passwords do not match",
}

// RussianMessages reproduces the widget's original message set.
var RussianMessages = Messages{
	ValueMissing:     "Пожалуйста, заполните это поле",
	PatternMismatch:  "Данные не соответствуют формату",
	TooShort:         "Слишком короткое значение, минимум символов - %d",
	TooLong:          "Слишком длинное значение, ограничение символов - %d",
	PasswordMismatch: "Пароли не совпадают",
}

// MessagesForLocale returns the built-in set for locale, falling back to
// English.
func MessagesForLocale(locale string) Messages {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "ru", "ru-ru":
		return RussianMessages
	default:
		return EnglishMessages
	}
}

// Merge returns m with every non-blank field of overrides applied.
func (m Messages) Merge(overrides Messages) Messages {
	pick := func(base, override string) string {
		if strings.TrimSpace(override) != "" {
			return override
		}
		return base
	}
	return Messages{
		ValueMissing:     pick(m.ValueMissing, overrides.ValueMissing),
		PatternMismatch:  pick(m.PatternMismatch, overrides.PatternMismatch),
		TooShort:         pick(m.TooShort, overrides.TooShort),
		TooLong:          pick(m.TooLong, overrides.TooLong),
		PasswordMismatch: pick(m.PasswordMismatch, overrides.PasswordMismatch),
	}
}

// Catalog maps constraint kinds to messages. It is immutable once built and
// safe to share between validators.
type Catalog struct {
	messages Messages
}

// CatalogOption configures a catalog.
type CatalogOption func(*Catalog)

// WithMessages replaces the message set. Blank entries keep the default.
func WithMessages(messages Messages) CatalogOption {
	return func(c *Catalog) {
		c.messages = c.messages.Merge(messages)
	}
}

// NewCatalog builds a catalog using the English messages unless overridden.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{messages: EnglishMessages}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Messages returns the resolved message set.
func (c *Catalog) Messages() Messages { return c.messages }

// Kinds returns the recognised kinds in declaration order.
func (c *Catalog) Kinds() []ConstraintKind {
	return append([]ConstraintKind(nil), declaredKinds...)
}

// MessageFor renders the message for kind using the field's metadata. The
// boolean is false for kinds the catalog does not recognise.
func (c *Catalog) MessageFor(kind ConstraintKind, field dom.Field) (string, bool) {
	switch kind {
	case ValueMissing:
		return c.messages.ValueMissing, true
	case PatternMismatch:
		if field != nil {
			if title := strings.TrimSpace(field.Title()); title != "" {
				return title, true
			}
		}
		return c.messages.PatternMismatch, true
	case TooShort:
		return withLength(c.messages.TooShort, lengthOf(field, dom.Field.MinLength)), true
	case TooLong:
		return withLength(c.messages.TooLong, lengthOf(field, dom.Field.MaxLength)), true
	case PasswordMismatch:
		return c.messages.PasswordMismatch, true
	default:
		return "", false
	}
}

// withLength interpolates n only when the template asks for it, so fixed
// override strings render verbatim.
func withLength(template string, n int) string {
	if !strings.Contains(template, "%d") {
		return template
	}
	return fmt.Sprintf(template, n)
}

func lengthOf(field dom.Field, get func(dom.Field) int) int {
	if field == nil {
		return 0
	}
	return get(field)
}
