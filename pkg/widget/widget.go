// Package widget assembles a registration form from configuration: the
// in-memory page, the validation engine, the registration workflow and the
// success overlay.
package widget

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-formguard/internal/ctxlog"
	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/dom/memdom"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/overlay"
	"github.com/goliatone/go-formguard/pkg/present"
	"github.com/goliatone/go-formguard/pkg/registration"
	"github.com/goliatone/go-formguard/pkg/store"
)

// InvalidMessage is shown for a field that fails a native check the message
// catalog has no text for, such as a malformed email.
const InvalidMessage = "Please enter a valid value"

var invalidMessages = map[string]string{
	"ru":    "Пожалуйста, введите корректное значение",
	"ru-ru": "Пожалуйста, введите корректное значение",
}

// Option configures Build.
type Option func(*options)

type options struct {
	notifier  registration.Notifier
	scheduler overlay.Scheduler
	logger    *slog.Logger
	onOutcome engine.OutcomeHandler
	locker    sync.Locker
}

// WithNotifier routes duplicate notices to n instead of the page's alert log.
func WithNotifier(n registration.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithScheduler overrides the overlay dismissal scheduler.
func WithScheduler(s overlay.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithLogger sets the logger shared by the engine and the workflow.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutcomeHandler observes submits fired through the page's submit event.
func WithOutcomeHandler(fn engine.OutcomeHandler) Option {
	return func(o *options) {
		o.onOutcome = fn
	}
}

// WithLocker shares l with every widget persisting into the same store, so
// concurrent registrations do not overwrite each other.
func WithLocker(l sync.Locker) Option {
	return func(o *options) {
		o.locker = l
	}
}

// Widget is one assembled form. It shares the page's single-threaded
// contract: build one per session or request.
type Widget struct {
	Config   config.Config
	Page     *memdom.Page
	Engine   *engine.Engine
	Workflow *registration.Workflow
	Overlay  *overlay.Overlay

	presenter *present.Presenter
}

// Build assembles a widget persisting into st.
func Build(cfg config.Config, st store.Store, opts ...Option) (*Widget, error) {
	if st == nil {
		return nil, fmt.Errorf("widget: store is required")
	}
	o := options{logger: ctxlog.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	page, err := memdom.BuildPage(cfg.PageSpec())
	if err != nil {
		return nil, fmt.Errorf("widget: build page: %w", err)
	}

	classes, err := cfg.ClassNames()
	if err != nil {
		return nil, err
	}
	presenter, err := cfg.Presenter()
	if err != nil {
		return nil, fmt.Errorf("widget: presenter: %w", err)
	}

	ov := overlay.New(page.Document,
		overlay.WithElementID(cfg.Overlay.ElementID),
		overlay.WithClasses(classes.OverlayActive, classes.BodyOverlay),
	)

	var notifier registration.Notifier = page.Document
	if o.notifier != nil {
		notifier = o.notifier
	}
	wfOpts := append(cfg.RegistrationOptions(),
		registration.WithNotifier(notifier),
		registration.WithOverlay(ov),
		registration.WithScheduler(o.scheduler),
		registration.WithLogger(o.logger),
		registration.WithLocker(o.locker),
	)
	wf := registration.New(st, wfOpts...)

	eng, err := engine.New(page.Document,
		engine.WithFormSelector(cfg.Form.Selector),
		engine.WithFields(cfg.Form.EmailField, cfg.Form.PasswordField, cfg.Form.ConfirmField),
		engine.WithCatalog(cfg.Catalog()),
		engine.WithPresenter(presenter),
		engine.WithSubmitter(wf),
		engine.WithOutcomeHandler(o.onOutcome),
		engine.WithLogger(o.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("widget: engine: %w", err)
	}

	return &Widget{
		Config:   cfg,
		Page:     page,
		Engine:   eng,
		Workflow: wf,
		Overlay:  ov,

		presenter: presenter,
	}, nil
}

// Input returns the control with id.
func (w *Widget) Input(id string) *memdom.Input {
	return w.Page.Input(id)
}

// Messages returns the messages currently rendered for the control with id,
// revalidating it. Nil when the field is unknown, untouched or valid. A field
// that fails a native check without a catalog message gets InvalidMessage,
// rendered into its error region.
func (w *Widget) Messages(id string) []string {
	in := w.Page.Input(id)
	if in == nil {
		return nil
	}
	switch w.Engine.State(id) {
	case engine.ValidatedInvalid:
		return w.Engine.ValidateField(in)
	case engine.ValidatedValid:
		if in.Validity().Valid {
			return nil
		}
		messages := []string{w.invalidMessage()}
		w.presenter.Present(in, messages)
		return messages
	default:
		return nil
	}
}

// Invalid reports whether the control with id fails any native check,
// whether or not a message exists for it.
func (w *Widget) Invalid(id string) bool {
	in := w.Page.Input(id)
	return in != nil && !in.Validity().Valid
}

func (w *Widget) invalidMessage() string {
	if msg, ok := invalidMessages[strings.ToLower(w.Config.Messages.Locale)]; ok {
		return msg
	}
	return InvalidMessage
}
