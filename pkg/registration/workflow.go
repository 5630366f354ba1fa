// Package registration persists new users after a valid submit, rejecting
// emails that are already registered.
package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-formguard/internal/ctxlog"
	"github.com/goliatone/go-formguard/pkg/overlay"
	"github.com/goliatone/go-formguard/pkg/store"
)

const (
	// DefaultKey is the store key holding the serialized user list.
	DefaultKey = "registeredUsers"
	// DefaultDuplicateNotice is shown when the email is already registered.
	DefaultDuplicateNotice = "A user with this email is already registered."
)

// ErrDuplicateRegistration is returned when the submitted email is already
// in the stored list. Nothing is persisted in that case.
var ErrDuplicateRegistration = errors.New("registration: email already registered")

// RegisteredUser is one persisted entry.
type RegisteredUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Submission carries the values of a valid form.
type Submission struct {
	Email    string
	Password string
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Alert(ctx context.Context, message string) error
}

// Overlay is the success overlay.
type Overlay interface {
	Show()
	Hide()
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(w *Workflow) {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			w.key = trimmed
		}
	}
}

// WithNotifier sets the notifier used for duplicate emails.
func WithNotifier(n Notifier) Option {
	return func(w *Workflow) {
		w.notifier = n
	}
}

// WithDuplicateNotice overrides the duplicate notice text.
func WithDuplicateNotice(text string) Option {
	return func(w *Workflow) {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			w.duplicateNotice = trimmed
		}
	}
}

// WithOverlay sets the success overlay.
func WithOverlay(o Overlay) Option {
	return func(w *Workflow) {
		w.overlay = o
	}
}

// WithScheduler overrides the scheduler used to dismiss the overlay.
func WithScheduler(s overlay.Scheduler) Option {
	return func(w *Workflow) {
		if s != nil {
			w.scheduler = s
		}
	}
}

// WithDismissAfter overrides how long the overlay stays visible.
func WithDismissAfter(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.dismissAfter = d
		}
	}
}

// WithPasswordHasher stores hashed passwords instead of the raw value.
func WithPasswordHasher(h Hasher) Option {
	return func(w *Workflow) {
		w.hasher = h
	}
}

// WithLocker serializes the read-append-write of the stored list with l.
// Workflows persisting into the same store concurrently must share one
// locker; a workflow without one only serializes its own calls.
func WithLocker(l sync.Locker) Option {
	return func(w *Workflow) {
		if l != nil {
			w.locker = l
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Workflow registers users against a store.
type Workflow struct {
	store           store.Store
	key             string
	notifier        Notifier
	duplicateNotice string
	overlay         Overlay
	scheduler       overlay.Scheduler
	dismissAfter    time.Duration
	hasher          Hasher
	locker          sync.Locker
	logger          *slog.Logger
}

// New builds a workflow persisting into s.
func New(s store.Store, opts ...Option) *Workflow {
	w := &Workflow{
		store:           s,
		key:             DefaultKey,
		duplicateNotice: DefaultDuplicateNotice,
		scheduler:       overlay.TimerScheduler{},
		dismissAfter:    overlay.DefaultDismissAfter,
		locker:          &sync.Mutex{},
		logger:          ctxlog.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Register appends the submission to the stored list unless its email is
// already present (case-sensitive). On success it shows the overlay and
// schedules its dismissal. The duplicate check and the write happen under the
// workflow's locker.
func (w *Workflow) Register(ctx context.Context, sub Submission) error {
	logger := ctxlog.FromContextOr(ctx, w.logger)

	password := sub.Password
	if w.hasher != nil {
		hashed, err := w.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("registration: hash password: %w", err)
		}
		password = hashed
	}

	total, err := w.insert(ctx, RegisteredUser{Email: sub.Email, Password: password})
	if errors.Is(err, ErrDuplicateRegistration) {
		logger.Info("duplicate registration rejected", "email", sub.Email)
		if w.notifier != nil {
			if err := w.notifier.Alert(ctx, w.duplicateNotice); err != nil {
				logger.Warn("duplicate notice failed", "error", err)
			}
		}
		return err
	}
	if err != nil {
		return err
	}
	logger.Info("user registered", "email", sub.Email, "total", total)

	if w.overlay != nil {
		w.overlay.Show()
		w.scheduler.AfterFunc(w.dismissAfter, w.overlay.Hide)
	}
	return nil
}

func (w *Workflow) insert(ctx context.Context, user RegisteredUser) (int, error) {
	w.locker.Lock()
	defer w.locker.Unlock()

	users, err := w.Users(ctx)
	if err != nil {
		return 0, err
	}
	if containsEmail(users, user.Email) {
		return len(users), ErrDuplicateRegistration
	}

	users = append(users, user)
	payload, err := json.Marshal(users)
	if err != nil {
		return 0, fmt.Errorf("registration: encode users: %w", err)
	}
	if err := w.store.Set(ctx, w.key, string(payload)); err != nil {
		return 0, fmt.Errorf("registration: persist users: %w", err)
	}
	return len(users), nil
}

// Users returns the stored list. A missing or unparsable value yields an
// empty list; only store read failures are returned.
func (w *Workflow) Users(ctx context.Context) ([]RegisteredUser, error) {
	raw, found, err := w.store.Get(ctx, w.key)
	if err != nil {
		return nil, fmt.Errorf("registration: read users: %w", err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var users []RegisteredUser
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		ctxlog.FromContextOr(ctx, w.logger).Warn("stored user list is unreadable, starting empty",
			"key", w.key, "error", err)
		return nil, nil
	}
	return users, nil
}

func containsEmail(users []RegisteredUser, email string) bool {
	for _, user := range users {
		if user.Email == email {
			return true
		}
	}
	return false
}
