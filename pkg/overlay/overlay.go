// Package overlay toggles the transient success overlay.
package overlay

import (
	"strings"
	"time"

	"github.com/goliatone/go-formguard/pkg/dom"
)

const (
	// DefaultElementID is the overlay element id.
	DefaultElementID = "overlaySuccessfully"
	// DefaultDismissAfter is how long the overlay stays visible.
	DefaultDismissAfter = 3000 * time.Millisecond
)

// Scheduler runs fn once after d. Pending callbacks are never cancelled.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules on the runtime timer.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithElementID overrides the overlay element id.
func WithElementID(id string) Option {
	return func(o *Overlay) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			o.elementID = trimmed
		}
	}
}

// WithClasses overrides the overlay and body classes. Blank values keep the
// defaults.
func WithClasses(active, body string) Option {
	return func(o *Overlay) {
		if trimmed := strings.TrimSpace(active); trimmed != "" {
			o.activeClass = trimmed
		}
		if trimmed := strings.TrimSpace(body); trimmed != "" {
			o.bodyClass = trimmed
		}
	}
}

// Overlay shows and hides the success overlay by toggling classes on the
// overlay element and the document body.
type Overlay struct {
	doc         dom.Document
	elementID   string
	activeClass string
	bodyClass   string
}

// New builds an overlay bound to doc.
func New(doc dom.Document, opts ...Option) *Overlay {
	o := &Overlay{
		doc:         doc,
		elementID:   DefaultElementID,
		activeClass: "is-active",
		bodyClass:   "has-overlay-active",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Show makes the overlay visible.
func (o *Overlay) Show() {
	o.toggle(true)
}

// Hide removes the overlay. Hiding an already hidden overlay is a no-op.
func (o *Overlay) Hide() {
	o.toggle(false)
}

// Visible reports whether the overlay element carries the active class.
func (o *Overlay) Visible() bool {
	if o == nil || o.doc == nil {
		return false
	}
	el := o.doc.ElementByID(o.elementID)
	return el != nil && el.ClassList().Contains(o.activeClass)
}

func (o *Overlay) toggle(on bool) {
	if o == nil || o.doc == nil {
		return
	}
	if el := o.doc.ElementByID(o.elementID); el != nil {
		el.ClassList().Toggle(o.activeClass, on)
	}
	if body := o.doc.Body(); body != nil {
		body.ClassList().Toggle(o.bodyClass, on)
	}
}
