package formguard_test

import (
	"context"
	"testing"

	formguard "github.com/goliatone/go-formguard"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/widget"
)

func TestOpenAndSubmit(t *testing.T) {
	ctx := context.Background()
	w, st, err := formguard.Open(ctx, formguard.DefaultConfig(),
		widget.WithScheduler(&testsupport.ManualScheduler{}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := st.(*store.Memory); !ok {
		t.Fatalf("expected memory store by default, got %T", st)
	}

	outcome, err := formguard.Submit(ctx, w, map[string]string{
		"email":          "a@x.com",
		"password":       "abc123",
		"repeatPassword": "abc123",
	})
	if err != nil || outcome != engine.OutcomeRegistered {
		t.Fatalf("expected registration, got %v %v", outcome, err)
	}
	if !w.Overlay.Visible() {
		t.Fatalf("expected overlay visible")
	}

	outcome, _ = formguard.Submit(ctx, w, map[string]string{
		"email":          "a@x.com",
		"password":       "abc123",
		"repeatPassword": "abc123",
	})
	if outcome != engine.OutcomeDuplicate {
		t.Fatalf("expected duplicate on second submit, got %v", outcome)
	}
}

func TestNewEngineOnCustomPage(t *testing.T) {
	page := testsupport.RegistrationPage(t)
	eng, err := formguard.NewEngine(page.Document)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if outcome, _ := eng.Submit(context.Background()); outcome != engine.OutcomeInvalid {
		t.Fatalf("expected empty form to be invalid, got %v", outcome)
	}
}
