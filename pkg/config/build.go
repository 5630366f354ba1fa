package config

import (
	"context"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formguard/pkg/dom/memdom"
	"github.com/goliatone/go-formguard/pkg/present"
	"github.com/goliatone/go-formguard/pkg/registration"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/validation"
)

const themeVersion = "1.0.0"

// PageSpec turns the form section into a memdom page description.
func (c Config) PageSpec() memdom.PageSpec {
	inputs := make([]memdom.InputSpec, 0, len(c.Form.Fields))
	for _, field := range c.Form.Fields {
		inputs = append(inputs, memdom.InputSpec{
			ID:             field.ID,
			Type:           field.Type,
			Required:       field.Required,
			Title:          field.Title,
			Pattern:        field.Pattern,
			MinLength:      field.MinLength,
			MaxLength:      field.MaxLength,
			ErrorsSelector: c.Form.ErrorsSelector,
		})
	}
	return memdom.PageSpec{
		FormSelector: c.Form.Selector,
		OverlayID:    c.Overlay.ElementID,
		Inputs:       inputs,
	}
}

// Field returns the declared field with id.
func (c Config) Field(id string) (Field, bool) {
	for _, field := range c.Form.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Catalog builds the message catalog for the configured locale.
func (c Config) Catalog() *validation.Catalog {
	messages := validation.MessagesForLocale(c.Messages.Locale).Merge(c.Messages.Overrides)
	return validation.NewCatalog(validation.WithMessages(messages))
}

// ThemeManifest converts the theme section into a go-theme manifest. It
// returns nil when no theme is named.
func (c Config) ThemeManifest() *theme.Manifest {
	if c.Theme.Name == "" {
		return nil
	}
	manifest := &theme.Manifest{
		Name:    c.Theme.Name,
		Version: themeVersion,
		Tokens:  copyTokens(c.Theme.Tokens),
	}
	if len(c.Theme.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(c.Theme.Variants))
		for name, tokens := range c.Theme.Variants {
			manifest.Variants[name] = theme.Variant{Tokens: copyTokens(tokens)}
		}
	}
	return manifest
}

// ThemeSelection registers the manifest with a go-theme registry and returns
// the configured selection, nil when no theme is named.
func (c Config) ThemeSelection() (*theme.Selection, error) {
	manifest := c.ThemeManifest()
	if manifest == nil {
		return nil, nil
	}
	if c.Theme.Variant != "" {
		if _, ok := manifest.Variants[c.Theme.Variant]; !ok {
			return nil, fmt.Errorf("%w: theme %q has no variant %q", ErrInvalidConfig, manifest.Name, c.Theme.Variant)
		}
	}

	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, fmt.Errorf("config: register theme %q: %w", manifest.Name, err)
	}
	return &theme.Selection{
		Theme:    manifest.Name,
		Variant:  c.Theme.Variant,
		Manifest: manifest,
	}, nil
}

// ClassNames resolves the presenter and overlay classes through the theme.
func (c Config) ClassNames() (present.ClassNames, error) {
	selection, err := c.ThemeSelection()
	if err != nil {
		return present.DefaultClassNames(), err
	}
	return present.ClassNamesFromSelection(selection), nil
}

// Presenter builds the error presenter for this configuration.
func (c Config) Presenter() (*present.Presenter, error) {
	classes, err := c.ClassNames()
	if err != nil {
		return nil, err
	}
	return present.New(
		present.WithErrorsSelector(c.Form.ErrorsSelector),
		present.WithClassNames(classes),
	)
}

// StoreOptions maps the store section onto backend options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Path:   c.Store.Path,
		Addr:   c.Store.Addr,
		Prefix: c.Store.Prefix,
	}
}

// OpenStore opens the configured backend from registry, DefaultRegistry when
// nil.
func (c Config) OpenStore(ctx context.Context, registry *store.Registry) (store.Store, error) {
	if registry == nil {
		registry = store.DefaultRegistry()
	}
	backend := c.Store.Backend
	if backend == "" {
		backend = store.BackendMemory
	}
	return registry.Open(ctx, backend, c.StoreOptions())
}

// RegistrationOptions returns the workflow options implied by the
// registration section.
func (c Config) RegistrationOptions() []registration.Option {
	opts := []registration.Option{
		registration.WithKey(c.Registration.Key),
		registration.WithDuplicateNotice(c.Registration.DuplicateNotice),
	}
	if c.Overlay.DismissAfter > 0 {
		opts = append(opts, registration.WithDismissAfter(c.Overlay.DismissAfter))
	}
	if c.Registration.HashPasswords {
		opts = append(opts, registration.WithPasswordHasher(registration.BcryptHasher{Cost: c.Registration.BcryptCost}))
	}
	return opts
}

func copyTokens(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
