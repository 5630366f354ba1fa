package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/dom/memdom"
	"github.com/goliatone/go-formguard/pkg/engine"
	"github.com/goliatone/go-formguard/pkg/overlay"
	"github.com/goliatone/go-formguard/pkg/registration"
	"github.com/goliatone/go-formguard/pkg/store"
	"github.com/goliatone/go-formguard/pkg/testsupport"
)

type harness struct {
	page    *memdom.Page
	engine  *engine.Engine
	store   *store.Memory
	sched   *testsupport.ManualScheduler
	overlay *overlay.Overlay
}

func newHarness(t *testing.T, opts ...engine.Option) *harness {
	t.Helper()

	page := testsupport.RegistrationPage(t)
	st := store.NewMemory()
	sched := &testsupport.ManualScheduler{}
	ov := overlay.New(page.Document)
	wf := registration.New(st,
		registration.WithNotifier(page.Document),
		registration.WithOverlay(ov),
		registration.WithScheduler(sched),
	)

	eng, err := engine.New(page.Document, append([]engine.Option{engine.WithSubmitter(wf)}, opts...)...)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return &harness{page: page, engine: eng, store: st, sched: sched, overlay: ov}
}

func (h *harness) input(id string) *memdom.Input {
	return h.page.Input(id)
}

func (h *harness) blur(id string) {
	h.page.Document.Blur(h.input(id))
}

func (h *harness) fillValid(email string) {
	h.page.Fill(map[string]string{
		testsupport.EmailID:    email,
		testsupport.PasswordID: "abc123",
		testsupport.ConfirmID:  "abc123",
	})
}

func errorsOf(in *memdom.Input) string {
	return in.ErrorRegion().InnerHTML()
}

func TestNewRequiresForm(t *testing.T) {
	if _, err := engine.New(memdom.New()); !errors.Is(err, engine.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if _, err := engine.New(nil); !errors.Is(err, engine.ErrNilDocument) {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
}

func TestNewAttachesSingleCaptureBlurListener(t *testing.T) {
	h := newHarness(t)
	if got := h.page.Document.ListenerCount(dom.EventBlur); got != 1 {
		t.Fatalf("expected one blur listener, got %d", got)
	}
}

func TestBlurRequiredFieldRendersErrors(t *testing.T) {
	h := newHarness(t)
	h.blur(testsupport.EmailID)

	email := h.input(testsupport.EmailID)
	if got := errorsOf(email); got != `<span class="field__error">Please fill this field</span>` {
		t.Fatalf("unexpected error markup %q", got)
	}
	if !email.AriaInvalid() || !email.Classes().Contains("is-invalid") {
		t.Fatalf("expected invalid flag and class")
	}
	if h.engine.State(testsupport.EmailID) != engine.ValidatedInvalid {
		t.Fatalf("expected invalid state, got %v", h.engine.State(testsupport.EmailID))
	}
}

func TestBlurValidFieldBecomesValid(t *testing.T) {
	h := newHarness(t)
	h.input(testsupport.EmailID).SetValue("a@x.com")
	h.blur(testsupport.EmailID)

	if h.engine.State(testsupport.EmailID) != engine.ValidatedValid {
		t.Fatalf("expected valid state, got %v", h.engine.State(testsupport.EmailID))
	}
	if errorsOf(h.input(testsupport.EmailID)) != "" {
		t.Fatalf("expected no rendered errors")
	}
}

func TestBlurEmptyOptionalFieldClearsWithoutValidation(t *testing.T) {
	h := newHarness(t)
	nick := h.input(testsupport.NicknameID)

	nick.SetValue("a-very-long-nickname")
	h.blur(testsupport.NicknameID)
	if h.engine.State(testsupport.NicknameID) != engine.ValidatedInvalid || errorsOf(nick) == "" {
		t.Fatalf("expected tooLong error first, got %q", errorsOf(nick))
	}

	nick.SetValue("")
	h.blur(testsupport.NicknameID)
	if errorsOf(nick) != "" || nick.AriaInvalid() || nick.Classes().Contains("is-invalid") {
		t.Fatalf("expected cleared state, got %q aria=%v", errorsOf(nick), nick.AriaInvalid())
	}
	if h.engine.State(testsupport.NicknameID) != engine.Untouched {
		t.Fatalf("expected untouched, got %v", h.engine.State(testsupport.NicknameID))
	}
}

func TestPasswordBlurRevalidatesConfirmation(t *testing.T) {
	h := newHarness(t)
	confirm := h.input(testsupport.ConfirmID)

	h.input(testsupport.PasswordID).SetValue("abc123")
	confirm.SetValue("abc124")
	h.blur(testsupport.ConfirmID)
	if got := errorsOf(confirm); got != `<span class="field__error">Passwords do not match</span>` {
		t.Fatalf("expected mismatch error, got %q", got)
	}

	h.input(testsupport.PasswordID).SetValue("abc124")
	h.blur(testsupport.PasswordID)

	if got := errorsOf(confirm); got != "" {
		t.Fatalf("expected mismatch cleared without touching confirm, got %q", got)
	}
	if confirm.AriaInvalid() || h.engine.State(testsupport.ConfirmID) != engine.ValidatedValid {
		t.Fatalf("expected confirm valid after password correction")
	}
}

func TestPasswordBlurSkipsEmptyConfirmation(t *testing.T) {
	h := newHarness(t)
	h.input(testsupport.PasswordID).SetValue("abc123")
	h.blur(testsupport.PasswordID)

	if h.engine.State(testsupport.ConfirmID) != engine.Untouched {
		t.Fatalf("expected empty confirm to stay untouched")
	}
}

func TestBlurOutsideFormIsIgnored(t *testing.T) {
	h := newHarness(t)
	other := h.page.Document.AddForm("#search")
	in := other.MustAddInput(memdom.InputSpec{ID: "q", Required: true})

	h.page.Document.Blur(in)
	if errorsOf(in) != "" || in.AriaInvalid() {
		t.Fatalf("expected fields outside the form to be ignored")
	}
}

func TestValidateFieldIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.input(testsupport.PasswordID).SetValue("abc")
	pass := h.input(testsupport.PasswordID)

	first := h.engine.ValidateField(pass)
	markup := errorsOf(pass)
	second := h.engine.ValidateField(pass)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("messages differ (-first +second):\n%s", diff)
	}
	if errorsOf(pass) != markup {
		t.Fatalf("markup changed between calls")
	}
}

func TestSubmitWithRequiredEmptyFieldStops(t *testing.T) {
	h := newHarness(t)
	h.page.Fill(map[string]string{
		testsupport.PasswordID: "abc123",
		testsupport.ConfirmID:  "abc123",
	})

	outcome, err := h.engine.Submit(testsupport.Context())
	if err != nil || outcome != engine.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %v %v", outcome, err)
	}
	if h.page.Document.ActiveElement() != h.input(testsupport.EmailID) {
		t.Fatalf("expected focus on the empty email field")
	}
	if _, found, _ := h.store.Get(testsupport.Context(), testsupport.UsersKey); found {
		t.Fatalf("expected store untouched")
	}
	if h.overlay.Visible() {
		t.Fatalf("overlay must stay hidden")
	}
}

func TestSubmitValidatesEveryField(t *testing.T) {
	h := newHarness(t)
	h.engine.Submit(testsupport.Context())

	for _, id := range []string{testsupport.EmailID, testsupport.PasswordID, testsupport.ConfirmID} {
		if h.engine.State(id) != engine.ValidatedInvalid {
			t.Fatalf("expected %s invalid after submit, got %v", id, h.engine.State(id))
		}
	}
	if h.engine.State(testsupport.NicknameID) != engine.ValidatedValid {
		t.Fatalf("expected optional empty field validated as valid")
	}
}

func TestSubmitMismatchFocusesConfirmation(t *testing.T) {
	h := newHarness(t)
	h.page.Fill(map[string]string{
		testsupport.EmailID:    "a@x.com",
		testsupport.PasswordID: "abc123",
		testsupport.ConfirmID:  "abc999",
	})

	outcome, _ := h.engine.Submit(testsupport.Context())
	if outcome != engine.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %v", outcome)
	}
	if h.page.Document.ActiveElement() != h.input(testsupport.ConfirmID) {
		t.Fatalf("expected focus on the confirmation field")
	}
}

func TestSubmitRegistersAndResets(t *testing.T) {
	h := newHarness(t)
	testsupport.SeedUsers(t, h.store, []registration.RegisteredUser{{Email: "a@x.com", Password: "abc123"}})
	h.fillValid("b@x.com")

	outcome, err := h.engine.Submit(testsupport.Context())
	if err != nil || outcome != engine.OutcomeRegistered {
		t.Fatalf("expected registered outcome, got %v %v", outcome, err)
	}
	if got := testsupport.StoredUsers(t, h.store); len(got) != 2 {
		t.Fatalf("expected two stored users, got %v", got)
	}
	if !h.overlay.Visible() || !h.page.Document.BodyNode().ClassList().Contains("has-overlay-active") {
		t.Fatalf("expected overlay shown")
	}
	if h.input(testsupport.EmailID).Value() != "" || h.engine.State(testsupport.EmailID) != engine.Untouched {
		t.Fatalf("expected form reset to untouched")
	}

	h.sched.Advance(3 * time.Second)
	if h.overlay.Visible() || h.page.Document.BodyNode().ClassList().Contains("has-overlay-active") {
		t.Fatalf("expected overlay hidden after the delay")
	}
}

func TestSubmitDuplicateLeavesStoreAndOverlay(t *testing.T) {
	h := newHarness(t)
	testsupport.SeedUsers(t, h.store, []registration.RegisteredUser{{Email: "a@x.com", Password: "abc123"}})
	h.fillValid("a@x.com")

	outcome, err := h.engine.Submit(testsupport.Context())
	if err != nil || outcome != engine.OutcomeDuplicate {
		t.Fatalf("expected duplicate outcome, got %v %v", outcome, err)
	}
	if got := testsupport.StoredUsers(t, h.store); len(got) != 1 {
		t.Fatalf("expected list unchanged, got %v", got)
	}
	if h.overlay.Visible() {
		t.Fatalf("overlay must stay hidden on duplicate")
	}
	if alerts := h.page.Document.Alerts(); len(alerts) != 1 {
		t.Fatalf("expected one blocking notice, got %v", alerts)
	}
	if h.input(testsupport.EmailID).Value() != "a@x.com" {
		t.Fatalf("form must not reset on duplicate")
	}
}

func TestSubmitEventPreventsDefaultAndReportsOutcome(t *testing.T) {
	var got []engine.Outcome
	h := newHarness(t, engine.WithOutcomeHandler(func(o engine.Outcome, _ error) {
		got = append(got, o)
	}))
	h.fillValid("c@x.com")

	if prevented := h.page.Document.Submit(h.page.Form); !prevented {
		t.Fatalf("expected native submit to be prevented")
	}
	if len(got) != 1 || got[0] != engine.OutcomeRegistered {
		t.Fatalf("unexpected outcomes %v", got)
	}
}

type failingSubmitter struct{ err error }

func (f failingSubmitter) Register(context.Context, registration.Submission) error { return f.err }

func TestSubmitFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	h := newHarness(t, engine.WithSubmitter(failingSubmitter{err: boom}))
	h.fillValid("d@x.com")

	outcome, err := h.engine.Submit(testsupport.Context())
	if outcome != engine.OutcomeFailed || !errors.Is(err, boom) {
		t.Fatalf("expected failure outcome, got %v %v", outcome, err)
	}
	if h.input(testsupport.EmailID).Value() == "" {
		t.Fatalf("form must not reset on failure")
	}
}

func TestSubmitWithoutSubmitter(t *testing.T) {
	h := newHarness(t, engine.WithSubmitter(nil))
	h.fillValid("e@x.com")

	outcome, err := h.engine.Submit(testsupport.Context())
	if err != nil || outcome != engine.OutcomeValid {
		t.Fatalf("expected valid outcome, got %v %v", outcome, err)
	}
}

func TestCustomFieldIDs(t *testing.T) {
	page, err := memdom.BuildPage(memdom.PageSpec{
		FormSelector: "#signup",
		Inputs: []memdom.InputSpec{
			{ID: "login", Required: true},
			{ID: "pw", Required: true},
			{ID: "pw2", Required: true},
		},
	})
	if err != nil {
		t.Fatalf("build page: %v", err)
	}

	var captured registration.Submission
	eng, err := engine.New(page.Document,
		engine.WithFormSelector("#signup"),
		engine.WithFields("login", "pw", "pw2"),
		engine.WithSubmitter(submitterFunc(func(_ context.Context, sub registration.Submission) error {
			captured = sub
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	page.Fill(map[string]string{"login": "me", "pw": "one", "pw2": "two"})
	page.Document.Blur(page.Input("pw"))
	if got := errorsOf(page.Input("pw2")); got == "" {
		t.Fatalf("expected mismatch on custom confirm id")
	}

	page.Input("pw2").SetValue("one")
	if outcome, _ := eng.Submit(testsupport.Context()); outcome != engine.OutcomeRegistered {
		t.Fatalf("expected registered, got %v", outcome)
	}
	if captured.Email != "me" || captured.Password != "one" {
		t.Fatalf("unexpected submission %+v", captured)
	}
}

type submitterFunc func(context.Context, registration.Submission) error

func (f submitterFunc) Register(ctx context.Context, sub registration.Submission) error {
	return f(ctx, sub)
}
