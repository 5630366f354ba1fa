package overlay_test

import (
	"testing"

	"github.com/goliatone/go-formguard/pkg/dom/memdom"
	"github.com/goliatone/go-formguard/pkg/overlay"
)

func TestShowAndHideToggleClasses(t *testing.T) {
	doc := memdom.New()
	el := doc.AddElement(overlay.DefaultElementID)
	ov := overlay.New(doc)

	ov.Show()
	if !el.ClassList().Contains("is-active") || !doc.BodyNode().ClassList().Contains("has-overlay-active") {
		t.Fatalf("expected overlay and body classes after Show")
	}
	if !ov.Visible() {
		t.Fatalf("expected overlay visible")
	}

	ov.Hide()
	ov.Hide()
	if el.ClassList().Contains("is-active") || doc.BodyNode().ClassList().Contains("has-overlay-active") {
		t.Fatalf("expected classes removed after Hide")
	}
	if ov.Visible() {
		t.Fatalf("expected overlay hidden")
	}
}

func TestCustomElementAndClasses(t *testing.T) {
	doc := memdom.New()
	el := doc.AddElement("done")
	ov := overlay.New(doc, overlay.WithElementID("done"), overlay.WithClasses("open", ""))

	ov.Show()
	if !el.ClassList().Contains("open") {
		t.Fatalf("expected custom active class")
	}
	if !doc.BodyNode().ClassList().Contains("has-overlay-active") {
		t.Fatalf("blank body class should keep the default")
	}
}

func TestMissingElementStillMarksBody(t *testing.T) {
	doc := memdom.New()
	ov := overlay.New(doc)

	ov.Show()
	if ov.Visible() {
		t.Fatalf("overlay without an element cannot be visible")
	}
	if !doc.BodyNode().ClassList().Contains("has-overlay-active") {
		t.Fatalf("expected body class even without the element")
	}
}

func TestNilOverlayIsSafe(t *testing.T) {
	var ov *overlay.Overlay
	ov.Show()
	ov.Hide()
	if ov.Visible() {
		t.Fatalf("nil overlay is never visible")
	}
}
