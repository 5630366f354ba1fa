// Package prompt runs the registration form in a terminal. Each answer is
// typed into the in-memory page and blurred, so errors surface field by field
// exactly as they would in a browser.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formguard/internal/ctxlog"
	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/overlay"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/widget"
)

// DefaultMaxAttempts bounds how many submit rounds a session runs.
const DefaultMaxAttempts = 3

// SuccessMessage is printed after a registration is stored.
const SuccessMessage = "Registration complete."

// Option configures a Session.
type Option func(*Session)

// WithMaxAttempts overrides the number of submit rounds.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithScheduler overrides the overlay dismissal scheduler.
func WithScheduler(sched overlay.Scheduler) Option {
	return func(s *Session) {
		s.scheduler = sched
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Result summarises a finished session.
type Result struct {
	Outcome  engine.Outcome
	Email    string
	Attempts int
}

// Session drives one registration through a Driver.
type Session struct {
	cfg         config.Config
	store       store.Store
	driver      Driver
	scheduler   overlay.Scheduler
	logger      *slog.Logger
	maxAttempts int
}

// NewSession builds a session for cfg persisting into st.
func NewSession(cfg config.Config, st store.Store, driver Driver, opts ...Option) (*Session, error) {
	if driver == nil {
		return nil, ErrDriverRequired
	}
	s := &Session{
		cfg:         cfg,
		store:       st,
		driver:      driver,
		logger:      ctxlog.Discard(),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Run asks for every field, submits, and repeats until the user registers,
// declines to retry, or runs out of attempts.
func (s *Session) Run(ctx context.Context) (Result, error) {
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContextOr(ctx, s.logger))

	w, err := widget.Build(s.cfg, s.store,
		widget.WithNotifier(driverNotifier{driver: s.driver}),
		widget.WithScheduler(s.scheduler),
		widget.WithLogger(s.logger),
	)
	if err != nil {
		return Result{}, err
	}

	var (
		result Result
		only   map[string]bool
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		result.Attempts = attempt
		if err := s.fill(ctx, w, only); err != nil {
			return result, err
		}

		email := ""
		if in := w.Input(s.cfg.Form.EmailField); in != nil {
			email = in.Value()
		}
		outcome, err := w.Engine.Submit(ctx)
		result.Outcome = outcome
		switch outcome {
		case engine.OutcomeRegistered, engine.OutcomeValid:
			result.Email = email
			return result, s.driver.Info(ctx, SuccessMessage)
		case engine.OutcomeFailed:
			return result, err
		case engine.OutcomeDuplicate:
			retry, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Try another email?", Default: true})
			if err != nil {
				return result, err
			}
			if !retry {
				return result, nil
			}
			only = map[string]bool{s.cfg.Form.EmailField: true}
		case engine.OutcomeInvalid:
			if err := s.reportInvalid(ctx, w); err != nil {
				return result, err
			}
			only = s.invalidFields(w)
		}
	}
	return result, ErrTooManyAttempts
}

// fill asks for each field, or only for the ids in only when it is non-nil.
func (s *Session) fill(ctx context.Context, w *widget.Widget, only map[string]bool) error {
	for _, field := range s.cfg.Form.Fields {
		in := w.Input(field.ID)
		if in == nil {
			continue
		}
		if only != nil && !only[field.ID] {
			continue
		}

		value, err := s.ask(ctx, field, in.Value())
		if err != nil {
			return err
		}
		in.SetValue(value)
		w.Page.Document.Blur(in)

		for _, msg := range w.Messages(field.ID) {
			if err := s.driver.Info(ctx, fmt.Sprintf("  %s: %s", field.DisplayLabel(), msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) ask(ctx context.Context, field config.Field, current string) (string, error) {
	cfg := InputConfig{Message: field.DisplayLabel(), Help: field.Title}
	if field.Required {
		cfg.Message += " *"
	}
	if field.Secret() {
		return s.driver.Password(ctx, cfg)
	}
	cfg.Default = current
	value, err := s.driver.Input(ctx, cfg)
	return strings.TrimSpace(value), err
}

func (s *Session) reportInvalid(ctx context.Context, w *widget.Widget) error {
	var labels []string
	for _, field := range s.cfg.Form.Fields {
		if w.Invalid(field.ID) {
			labels = append(labels, field.DisplayLabel())
		}
	}
	if len(labels) == 0 {
		return nil
	}
	return s.driver.Info(ctx, "Please correct: "+strings.Join(labels, ", "))
}

func (s *Session) invalidFields(w *widget.Widget) map[string]bool {
	out := make(map[string]bool)
	for _, field := range s.cfg.Form.Fields {
		if w.Invalid(field.ID) {
			out[field.ID] = true
		}
	}
	return out
}

type driverNotifier struct {
	driver Driver
}

func (n driverNotifier) Alert(ctx context.Context, message string) error {
	if n.driver == nil {
		return errors.New("prompt: no driver")
	}
	return n.driver.Info(ctx, "! "+message)
}
