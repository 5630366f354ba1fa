// Package config loads the YAML settings shared by the formguard hosts: the
// form layout, message locale, theme classes, overlay timing and the store
// backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/dom/memdom"
	"github.com/goliatone/go-formguard/pkg/overlay"
	"github.com/goliatone/go-formguard/pkg/registration"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the root document.
type Config struct {
	Form         Form         `yaml:"form"`
	Messages     Messages     `yaml:"messages"`
	Theme        Theme        `yaml:"theme"`
	Overlay      Overlay      `yaml:"overlay"`
	Store        Store        `yaml:"store"`
	Registration Registration `yaml:"registration"`
	HTTP         HTTP         `yaml:"http"`
	Log          Log          `yaml:"log"`
}

// Form describes the validated form and its controls.
type Form struct {
	Selector       string  `yaml:"selector"`
	ErrorsSelector string  `yaml:"errorsSelector"`
	EmailField     string  `yaml:"emailField"`
	PasswordField  string  `yaml:"passwordField"`
	ConfirmField   string  `yaml:"confirmField"`
	Fields         []Field `yaml:"fields"`
}

// Field declares one control and its constraint attributes.
type Field struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Type      string `yaml:"type"`
	Required  bool   `yaml:"required"`
	Title     string `yaml:"title"`
	Pattern   string `yaml:"pattern"`
	MinLength int    `yaml:"minLength"`
	MaxLength int    `yaml:"maxLength"`
}

// Secret reports whether the control holds a password.
func (f Field) Secret() bool {
	return strings.EqualFold(strings.TrimSpace(f.Type), "password")
}

// DisplayLabel falls back to the id when no label is set.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.ID
}

// Messages selects the locale and per-kind overrides.
type Messages struct {
	Locale    string              `yaml:"locale"`
	Overrides validation.Messages `yaml:"overrides"`
}

// Theme names the go-theme manifest class tokens are read from.
type Theme struct {
	Name     string                       `yaml:"name"`
	Variant  string                       `yaml:"variant"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// Overlay configures the success overlay.
type Overlay struct {
	ElementID    string        `yaml:"elementId"`
	DismissAfter time.Duration `yaml:"dismissAfter"`
}

// Store selects the persistence backend.
type Store struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// Registration configures the workflow.
type Registration struct {
	Key             string `yaml:"key"`
	DuplicateNotice string `yaml:"duplicateNotice"`
	HashPasswords   bool   `yaml:"hashPasswords"`
	BcryptCost      int    `yaml:"bcryptCost"`
}

// HTTP configures the web host.
type HTTP struct {
	Addr string `yaml:"addr"`
}

// Log configures the process logger.
type Log struct {
	Level string `yaml:"level"`
}

// Defaults returns the stock registration form backed by an in-memory store.
func Defaults() Config {
	return Config{
		Form: Form{
			Selector:       "[data-js-form]",
			ErrorsSelector: memdom.DefaultErrorsSelector,
			EmailField:     "email",
			PasswordField:  validation.DefaultPasswordField,
			ConfirmField:   validation.DefaultConfirmField,
			Fields: []Field{
				{ID: "email", Label: "Email", Type: "email", Required: true},
				{ID: validation.DefaultPasswordField, Label: "Password", Type: "password", Required: true, MinLength: 6},
				{ID: validation.DefaultConfirmField, Label: "Repeat password", Type: "password", Required: true},
			},
		},
		Messages: Messages{Locale: "en"},
		Overlay: Overlay{
			ElementID:    overlay.DefaultElementID,
			DismissAfter: overlay.DefaultDismissAfter,
		},
		Store:        Store{Backend: store.BackendMemory},
		Registration: Registration{Key: registration.DefaultKey},
		HTTP:         HTTP{Addr: ":8080"},
		Log:          Log{Level: "info"},
	}
}

// Load reads and parses path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Defaults and validates the result. A document that
// declares fields replaces the default field list.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	cfg.Form.Fields = nil

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode yaml: %w", err)
		}
	}
	if len(cfg.Form.Fields) == 0 {
		cfg.Form.Fields = Defaults().Form.Fields
	}

	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalise() {
	c.Form.Selector = strings.TrimSpace(c.Form.Selector)
	c.Form.ErrorsSelector = strings.TrimSpace(c.Form.ErrorsSelector)
	c.Form.EmailField = strings.TrimSpace(c.Form.EmailField)
	c.Form.PasswordField = strings.TrimSpace(c.Form.PasswordField)
	c.Form.ConfirmField = strings.TrimSpace(c.Form.ConfirmField)
	for i := range c.Form.Fields {
		c.Form.Fields[i].ID = strings.TrimSpace(c.Form.Fields[i].ID)
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Theme.Name = strings.TrimSpace(c.Theme.Name)
	c.Theme.Variant = strings.TrimSpace(c.Theme.Variant)
}

// Validate checks cross-field consistency.
func (c Config) Validate() error {
	var problems []string

	if c.Form.Selector == "" {
		problems = append(problems, "form.selector is required")
	}
	seen := make(map[string]bool, len(c.Form.Fields))
	for i, field := range c.Form.Fields {
		switch {
		case field.ID == "":
			problems = append(problems, fmt.Sprintf("form.fields[%d].id is required", i))
		case seen[field.ID]:
			problems = append(problems, fmt.Sprintf("form.fields[%d].id %q is duplicated", i, field.ID))
		}
		seen[field.ID] = true
		if field.MinLength > 0 && field.MaxLength > 0 && field.MinLength > field.MaxLength {
			problems = append(problems, fmt.Sprintf("form.fields[%d] minLength exceeds maxLength", i))
		}
	}
	for _, ref := range []struct{ name, id string }{
		{"form.emailField", c.Form.EmailField},
		{"form.passwordField", c.Form.PasswordField},
		{"form.confirmField", c.Form.ConfirmField},
	} {
		if ref.id != "" && !seen[ref.id] {
			problems = append(problems, fmt.Sprintf("%s %q does not name a field", ref.name, ref.id))
		}
	}
	if c.Overlay.DismissAfter < 0 {
		problems = append(problems, "overlay.dismissAfter must not be negative")
	}
	switch c.Store.Backend {
	case "", store.BackendMemory, store.BackendCache, store.BackendRedis:
	case store.BackendFile, store.BackendSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			problems = append(problems, fmt.Sprintf("store.path is required for the %s backend", c.Store.Backend))
		}
	default:
		problems = append(problems, fmt.Sprintf("store.backend %q is not supported", c.Store.Backend))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
