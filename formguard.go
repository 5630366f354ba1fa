// Package formguard validates registration forms: per-field constraint
// messages on blur, a password confirmation rule, and a submit flow that
// rejects duplicate emails and persists new users.
//
// The subpackages hold the pieces; this package re-exports the common entry
// points.
package formguard

import (
	"context"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/widget"
)

// Config aliases config.Config so callers can load settings from the root
// package.
type Config = config.Config

// Widget aliases widget.Widget.
type Widget = widget.Widget

// Outcome aliases engine.Outcome.
type Outcome = engine.Outcome

// DefaultConfig returns the stock registration form settings.
func DefaultConfig() Config {
	return config.Defaults()
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// NewEngine attaches a validation engine to a caller-supplied document.
func NewEngine(doc dom.Document, options ...engine.Option) (*engine.Engine, error) {
	return engine.New(doc, options...)
}

// Build assembles an in-memory form for cfg persisting into st.
func Build(cfg Config, st store.Store, options ...widget.Option) (*Widget, error) {
	return widget.Build(cfg, st, options...)
}

// Open assembles a form using the store backend named in cfg. The returned
// store should be closed by the caller when it implements io.Closer.
func Open(ctx context.Context, cfg Config, options ...widget.Option) (*Widget, store.Store, error) {
	st, err := cfg.OpenStore(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	w, err := widget.Build(cfg, st, options...)
	if err != nil {
		return nil, st, err
	}
	return w, st, nil
}

// Submit fills the widget's page with values and submits it.
func Submit(ctx context.Context, w *Widget, values map[string]string) (Outcome, error) {
	w.Page.Fill(values)
	return w.Engine.Submit(ctx)
}
