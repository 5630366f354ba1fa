package widget_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/registration"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/widget"
)

func themedConfig() config.Config {
	cfg := config.Defaults()
	cfg.Messages.Locale = "ru"
	cfg.Overlay.DismissAfter = time.Second
	cfg.Theme = config.Theme{
		Name: "acme",
		Tokens: map[string]string{
			"field.invalid":  "acme-invalid",
			"field.error":    "acme-error",
			"overlay.active": "acme-open",
			"body.overlay":   "acme-locked",
		},
	}
	return cfg
}

func TestBuildAppliesThemeAndLocale(t *testing.T) {
	sched := &testsupport.ManualScheduler{}
	w, err := widget.Build(themedConfig(), store.NewMemory(), widget.WithScheduler(sched))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	email := w.Input("email")
	w.Page.Document.Blur(email)
	if !email.Classes().Contains("acme-invalid") {
		t.Fatalf("expected themed invalid class, got %q", email.Classes().String())
	}
	want := `<span class="acme-error">Пожалуйста, заполните это поле</span>`
	if got := email.ErrorRegion().InnerHTML(); got != want {
		t.Fatalf("unexpected markup %q", got)
	}
	if msgs := w.Messages("email"); len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}

	w.Page.Fill(map[string]string{"email": "a@x.com", "password": "abc123", "repeatPassword": "abc123"})
	outcome, err := w.Engine.Submit(testsupport.Context())
	if err != nil || outcome != engine.OutcomeRegistered {
		t.Fatalf("expected registration, got %v %v", outcome, err)
	}
	if !w.Page.Overlay.ClassList().Contains("acme-open") || !w.Page.Document.BodyNode().ClassList().Contains("acme-locked") {
		t.Fatalf("expected themed overlay classes")
	}

	sched.Advance(time.Second)
	if w.Overlay.Visible() {
		t.Fatalf("expected configured dismissal delay")
	}
}

func TestBuildRoutesDuplicateNotice(t *testing.T) {
	st := store.NewMemory()
	testsupport.SeedUsers(t, st, []registration.RegisteredUser{{Email: "a@x.com"}})
	notifier := &recordingNotifier{}

	w, err := widget.Build(config.Defaults(), st, widget.WithNotifier(notifier))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	w.Page.Fill(map[string]string{"email": "a@x.com", "password": "abc123", "repeatPassword": "abc123"})
	if outcome, _ := w.Engine.Submit(testsupport.Context()); outcome != engine.OutcomeDuplicate {
		t.Fatalf("expected duplicate, got %v", outcome)
	}
	if len(notifier.messages) != 1 || len(w.Page.Document.Alerts()) != 0 {
		t.Fatalf("expected notice routed to custom notifier")
	}
}

func TestBuildRequiresStore(t *testing.T) {
	if _, err := widget.Build(config.Defaults(), nil); err == nil {
		t.Fatalf("expected error without store")
	}
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Alert(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func TestMessagesFallbackForNativeMismatch(t *testing.T) {
	w, err := widget.Build(config.Defaults(), store.NewMemory(), widget.WithScheduler(&testsupport.ManualScheduler{}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	email := w.Input("email")
	email.SetValue("not-an-email")
	w.Page.Document.Blur(email)

	if !w.Invalid("email") {
		t.Fatalf("expected malformed email to be invalid")
	}
	msgs := w.Messages("email")
	if len(msgs) != 1 || msgs[0] != widget.InvalidMessage {
		t.Fatalf("expected fallback message, got %v", msgs)
	}
	want := `<span class="field__error">` + widget.InvalidMessage + `</span>`
	if got := email.ErrorRegion().InnerHTML(); got != want {
		t.Fatalf("unexpected markup %q", got)
	}

	email.SetValue("a@x.com")
	w.Page.Document.Blur(email)
	if w.Invalid("email") || w.Messages("email") != nil {
		t.Fatalf("expected corrected email to be valid")
	}
	if got := email.ErrorRegion().InnerHTML(); got != "" {
		t.Fatalf("expected region cleared, got %q", got)
	}
}
