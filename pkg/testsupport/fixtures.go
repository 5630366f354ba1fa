// Package testsupport holds fixtures shared by package tests: a registration
// page built on memdom, a manual scheduler and store helpers.
package testsupport

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom/memdom"
	"github.com/goliatone/go-formguard/pkg/store"
)

// Fixture ids used by RegistrationPage.
const (
	FormSelector = "[data-js-form]"
	EmailID      = "email"
	PasswordID   = "password"
	ConfirmID    = "repeatPassword"
	NicknameID   = "nickname"
	OverlayID    = "overlaySuccessfully"
	UsersKey     = "registeredUsers"
)

// RegistrationPage builds the email/password/repeat form plus an optional
// nickname field and the success overlay.
func RegistrationPage(t *testing.T) *memdom.Page {
	t.Helper()

	page, err := memdom.BuildPage(memdom.PageSpec{
		FormSelector: FormSelector,
		OverlayID:    OverlayID,
		Inputs: []memdom.InputSpec{
			{ID: EmailID, Type: "email", Required: true},
			{ID: PasswordID, Type: "password", Required: true, MinLength: 6},
			{ID: ConfirmID, Type: "password", Required: true},
			{ID: NicknameID, MaxLength: 12},
		},
	})
	if err != nil {
		t.Fatalf("build page: %v", err)
	}
	return page
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// ManualScheduler records callbacks and runs them on Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []scheduled
}

type scheduled struct {
	at time.Duration
	fn func()
}

// AfterFunc implements overlay.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, scheduled{at: s.now + d, fn: fn})
}

// Pending reports how many callbacks have not fired yet.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Advance moves the clock forward and runs every callback now due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []func()
	remaining := s.pending[:0]
	for _, item := range s.pending {
		if item.at <= s.now {
			due = append(due, item.fn)
			continue
		}
		remaining = append(remaining, item)
	}
	s.pending = remaining
	s.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// SeedUsers writes a JSON user list into st under UsersKey.
func SeedUsers(t *testing.T, st store.Store, users any) {
	t.Helper()
	payload, err := json.Marshal(users)
	if err != nil {
		t.Fatalf("marshal users: %v", err)
	}
	if err := st.Set(Context(), UsersKey, string(payload)); err != nil {
		t.Fatalf("seed users: %v", err)
	}
}

// StoredUsers decodes the list stored under UsersKey into maps.
func StoredUsers(t *testing.T, st store.Store) []map[string]string {
	t.Helper()
	raw, found, err := st.Get(Context(), UsersKey)
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	if !found {
		return nil
	}
	var out []map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	return out
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
