// Package engine wires field validation and error presentation to a form's
// blur and submit events.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formguard/internal/ctxlog"
	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/present"
	"github.com/goliatone/go-formguard/pkg/registration"
	"github.com/goliatone/go-formguard/pkg/validation"
)

const (
	// DefaultFormSelector locates the validated form.
	DefaultFormSelector = "[data-js-form]"
	// DefaultEmailField is the id of the email control.
	DefaultEmailField = "email"
)

// Submitter receives the values of a valid form. registration.Workflow
// satisfies it.
type Submitter interface {
	Register(ctx context.Context, sub registration.Submission) error
}

// OutcomeHandler observes submits triggered by the submit event.
type OutcomeHandler func(Outcome, error)

// Option configures an Engine.
type Option func(*Engine)

// WithFormSelector overrides the form selector.
func WithFormSelector(selector string) Option {
	return func(e *Engine) {
		if trimmed := strings.TrimSpace(selector); trimmed != "" {
			e.formSelector = trimmed
		}
	}
}

// WithFields overrides the email, password and confirmation ids. Blank ids
// keep the defaults.
func WithFields(email, password, confirm string) Option {
	return func(e *Engine) {
		if trimmed := strings.TrimSpace(email); trimmed != "" {
			e.emailID = trimmed
		}
		if trimmed := strings.TrimSpace(password); trimmed != "" {
			e.passwordID = trimmed
		}
		if trimmed := strings.TrimSpace(confirm); trimmed != "" {
			e.confirmID = trimmed
		}
	}
}

// WithCatalog sets the message catalog used by the validator.
func WithCatalog(catalog *validation.Catalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithPresenter overrides the error presenter.
func WithPresenter(p *present.Presenter) Option {
	return func(e *Engine) {
		if p != nil {
			e.presenter = p
		}
	}
}

// WithSubmitter sets the collaborator receiving valid submissions.
func WithSubmitter(s Submitter) Option {
	return func(e *Engine) {
		e.submitter = s
	}
}

// WithOutcomeHandler observes event-driven submits.
func WithOutcomeHandler(fn OutcomeHandler) Option {
	return func(e *Engine) {
		e.onOutcome = fn
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine validates a single form. It is driven by one event loop and is not
// safe for concurrent use.
type Engine struct {
	doc       dom.Document
	form      dom.Form
	validator *validation.Validator
	presenter *present.Presenter
	catalog   *validation.Catalog
	submitter Submitter
	onOutcome OutcomeHandler
	logger    *slog.Logger
	states    map[string]State

	formSelector string
	emailID      string
	passwordID   string
	confirmID    string
}

// New resolves the form in doc and attaches one capturing blur listener to the
// document and one submit listener to the form.
func New(doc dom.Document, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	e := &Engine{
		doc:          doc,
		logger:       ctxlog.Discard(),
		states:       make(map[string]State),
		formSelector: DefaultFormSelector,
		emailID:      DefaultEmailField,
		passwordID:   validation.DefaultPasswordField,
		confirmID:    validation.DefaultConfirmField,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	form := doc.Form(e.formSelector)
	if form == nil {
		return nil, ErrFormNotFound
	}
	e.form = form

	if e.presenter == nil {
		p, err := present.New()
		if err != nil {
			return nil, err
		}
		e.presenter = p
	}
	e.validator = validation.NewValidator(form,
		validation.WithCatalog(e.catalog),
		validation.WithPasswordFields(e.passwordID, e.confirmID),
	)

	doc.AddEventListener(dom.EventBlur, e.handleBlur, dom.Capture)
	form.AddEventListener(dom.EventSubmit, e.handleSubmit, dom.Bubble)
	return e, nil
}

// Form returns the bound form.
func (e *Engine) Form() dom.Form { return e.form }

// State returns the state of the field with id.
func (e *Engine) State(id string) State {
	return e.states[id]
}

// OnBlur reacts to focus leaving field. Required or non-empty fields are
// validated; empty optional fields are cleared back to Untouched. Leaving the
// password field also re-validates a non-empty confirmation field.
func (e *Engine) OnBlur(field dom.Field) {
	if field == nil {
		return
	}

	if field.Required() || field.Value() != "" {
		e.validateField(field)
	} else {
		e.presenter.Clear(field)
		e.states[field.ID()] = Untouched
	}

	if field.ID() == e.passwordID {
		if confirm := e.form.Field(e.confirmID); confirm != nil && confirm.Value() != "" {
			e.validateField(confirm)
		}
	}
}

// ValidateField validates and presents a single field, returning its
// messages.
func (e *Engine) ValidateField(field dom.Field) []string {
	if field == nil {
		return nil
	}
	return e.validateField(field)
}

// ValidateAll validates and presents every field currently in the form and
// reports whether all of them are natively valid afterwards.
func (e *Engine) ValidateAll() bool {
	valid := true
	for _, field := range e.form.Fields() {
		e.validateField(field)
		if !field.Validity().Valid {
			valid = false
		}
	}
	return valid
}

// Submit validates the whole form. An invalid form focuses its first invalid
// field and stops. A valid form is handed to the submitter; on success the
// form is reset and every field returns to Untouched.
func (e *Engine) Submit(ctx context.Context) (Outcome, error) {
	logger := ctxlog.FromContextOr(ctx, e.logger)

	if !e.ValidateAll() {
		if first := e.form.FirstInvalid(); first != nil {
			first.Focus()
			logger.Debug("submit blocked by invalid field", "field", first.ID())
		}
		return OutcomeInvalid, nil
	}

	if e.submitter == nil {
		return OutcomeValid, nil
	}

	err := e.submitter.Register(ctx, e.submission())
	switch {
	case errors.Is(err, registration.ErrDuplicateRegistration):
		return OutcomeDuplicate, nil
	case err != nil:
		logger.Error("submit failed", "error", err)
		return OutcomeFailed, err
	}

	e.form.Reset()
	e.states = make(map[string]State)
	return OutcomeRegistered, nil
}

func (e *Engine) submission() registration.Submission {
	return registration.Submission{
		Email:    valueOf(e.form.Field(e.emailID)),
		Password: valueOf(e.form.Field(e.passwordID)),
	}
}

func (e *Engine) validateField(field dom.Field) []string {
	messages := e.validator.Validate(field)
	e.presenter.Present(field, messages)
	if len(messages) > 0 {
		e.states[field.ID()] = ValidatedInvalid
	} else {
		e.states[field.ID()] = ValidatedValid
	}
	return messages
}

func (e *Engine) handleBlur(evt dom.Event) {
	target := evt.Target()
	if target == nil || !e.form.Contains(target) {
		return
	}
	e.OnBlur(target)
}

func (e *Engine) handleSubmit(evt dom.Event) {
	evt.PreventDefault()
	ctx := ctxlog.WithLogger(context.Background(), e.logger)
	outcome, err := e.Submit(ctx)
	e.logger.Debug("submit handled", "outcome", outcome.String())
	if e.onOutcome != nil {
		e.onOutcome(outcome, err)
	}
}

func valueOf(field dom.Field) string {
	if field == nil {
		return ""
	}
	return field.Value()
}
