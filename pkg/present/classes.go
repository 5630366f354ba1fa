package present

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme token keys that map onto ClassNames.
const (
	TokenFieldInvalid  = "field.invalid"
	TokenFieldError    = "field.error"
	TokenOverlayActive = "overlay.active"
	TokenBodyOverlay   = "body.overlay"
)

// ClassNames are the CSS classes toggled by the presenter and the overlay.
type ClassNames struct {
	// FieldInvalid marks a control with at least one error.
	FieldInvalid string
	// FieldError is applied to each rendered message.
	FieldError string
	// OverlayActive shows the success overlay.
	OverlayActive string
	// BodyOverlay is set on the body while the overlay is visible.
	BodyOverlay string
}

// DefaultClassNames returns the stock class names.
func DefaultClassNames() ClassNames {
	return ClassNames{
		FieldInvalid:  "is-invalid",
		FieldError:    "field__error",
		OverlayActive: "is-active",
		BodyOverlay:   "has-overlay-active",
	}
}

// WithTokens overrides class names from a token map. Unknown and blank tokens
// are ignored.
func (c ClassNames) WithTokens(tokens map[string]string) ClassNames {
	pick := func(current, key string) string {
		if v := strings.TrimSpace(tokens[key]); v != "" {
			return v
		}
		return current
	}
	c.FieldInvalid = pick(c.FieldInvalid, TokenFieldInvalid)
	c.FieldError = pick(c.FieldError, TokenFieldError)
	c.OverlayActive = pick(c.OverlayActive, TokenOverlayActive)
	c.BodyOverlay = pick(c.BodyOverlay, TokenBodyOverlay)
	return c
}

// Merge returns c with every non-blank name of other applied.
func (c ClassNames) Merge(other ClassNames) ClassNames {
	return c.WithTokens(map[string]string{
		TokenFieldInvalid:  other.FieldInvalid,
		TokenFieldError:    other.FieldError,
		TokenOverlayActive: other.OverlayActive,
		TokenBodyOverlay:   other.BodyOverlay,
	})
}

// ClassNamesFromSelection resolves class names from a go-theme selection.
// Manifest tokens apply first, then the selected variant's tokens.
func ClassNamesFromSelection(selection *theme.Selection) ClassNames {
	names := DefaultClassNames()
	if selection == nil || selection.Manifest == nil {
		return names
	}

	names = names.WithTokens(selection.Manifest.Tokens)
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		names = names.WithTokens(variant.Tokens)
	}
	return names
}

// ResolveClassNames asks selector for the named theme and variant.
func ResolveClassNames(selector theme.ThemeSelector, name, variant string) (ClassNames, error) {
	if selector == nil {
		return DefaultClassNames(), nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return DefaultClassNames(), err
	}
	return ClassNamesFromSelection(selection), nil
}
