// Package memdom is an in-memory document implementing the dom capability
// interfaces. Hosts without a browser (tests, the terminal and HTTP hosts)
// drive the engine through it. A Document is not safe for concurrent use;
// build one per session or request.
package memdom

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Document is the in-memory page.
type Document struct {
	forms     map[string]*Form
	elements  map[string]*Node
	body      Node
	listeners listeners
	active    *Input
	alerts    []string
}

var _ dom.Document = (*Document)(nil)

// New returns an empty document.
func New() *Document {
	return &Document{
		forms:    make(map[string]*Form),
		elements: make(map[string]*Node),
	}
}

// AddForm registers a form reachable through selector.
func (d *Document) AddForm(selector string) *Form {
	selector = strings.TrimSpace(selector)
	form := &Form{doc: d, selector: selector}
	d.forms[selector] = form
	return form
}

// AddElement registers a plain element by id (overlays, banners).
func (d *Document) AddElement(id string) *Node {
	node := &Node{id: strings.TrimSpace(id)}
	d.elements[node.id] = node
	return node
}

// Form implements dom.Document.
func (d *Document) Form(selector string) dom.Form {
	form, ok := d.forms[strings.TrimSpace(selector)]
	if !ok {
		return nil
	}
	return form
}

// ElementByID implements dom.Document.
func (d *Document) ElementByID(id string) dom.Element {
	node, ok := d.elements[strings.TrimSpace(id)]
	if !ok {
		return nil
	}
	return node
}

// Node returns the concrete element registered under id.
func (d *Document) Node(id string) *Node {
	return d.elements[strings.TrimSpace(id)]
}

// Body implements dom.Document.
func (d *Document) Body() dom.Element { return &d.body }

// BodyNode returns the concrete body element.
func (d *Document) BodyNode() *Node { return &d.body }

// AddEventListener implements dom.EventTarget.
func (d *Document) AddEventListener(eventType string, fn dom.Listener, phase dom.Phase) {
	d.listeners.add(eventType, fn, phase)
}

// ListenerCount reports how many listeners are attached to the document.
func (d *Document) ListenerCount(eventType string) int {
	return d.listeners.count(eventType)
}

// ActiveElement returns the focused control, nil when nothing has focus.
func (d *Document) ActiveElement() *Input {
	return d.active
}

// Alert records a blocking notice. It satisfies registration.Notifier.
func (d *Document) Alert(_ context.Context, message string) error {
	d.alerts = append(d.alerts, message)
	return nil
}

// Alerts returns every notice shown so far.
func (d *Document) Alerts() []string {
	return append([]string(nil), d.alerts...)
}

// Blur simulates focus leaving input. Blur does not bubble: only capture
// listeners on the document and form observe it.
func (d *Document) Blur(input *Input) {
	if input == nil {
		return
	}
	if d.active == input {
		d.active = nil
	}
	evt := &event{kind: dom.EventBlur, target: input}
	d.listeners.fire(evt, dom.Capture)
	if input.form != nil {
		input.form.listeners.fire(evt, dom.Capture)
	}
}

// Submit dispatches a submit event on form and reports whether a listener
// prevented the default action.
func (d *Document) Submit(form *Form) (prevented bool) {
	if form == nil {
		return false
	}
	evt := &event{kind: dom.EventSubmit}
	d.listeners.fire(evt, dom.Capture)
	form.listeners.fire(evt, dom.Capture)
	form.listeners.fire(evt, dom.Bubble)
	d.listeners.fire(evt, dom.Bubble)
	return evt.prevented
}

// Form is an in-memory form element.
type Form struct {
	doc       *Document
	selector  string
	inputs    []*Input
	classes   Classes
	listeners listeners
}

var _ dom.Form = (*Form)(nil)

// AddInput appends a control to the form.
func (f *Form) AddInput(spec InputSpec) (*Input, error) {
	if existing := f.Input(spec.ID); existing != nil {
		return nil, fmt.Errorf("memdom: duplicate input %q", spec.ID)
	}
	in, err := newInput(f.doc, f, spec)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	return in, nil
}

// MustAddInput panics when AddInput fails. Useful for fixtures.
func (f *Form) MustAddInput(spec InputSpec) *Input {
	in, err := f.AddInput(spec)
	if err != nil {
		panic(err)
	}
	return in
}

// Input returns the concrete control by id, nil when missing.
func (f *Form) Input(id string) *Input {
	id = strings.TrimSpace(id)
	for _, in := range f.inputs {
		if in.id == id {
			return in
		}
	}
	return nil
}

// Inputs returns the concrete controls in document order.
func (f *Form) Inputs() []*Input {
	return append([]*Input(nil), f.inputs...)
}

// ClassList implements dom.Element.
func (f *Form) ClassList() dom.ClassList { return &f.classes }

// AddEventListener implements dom.EventTarget.
func (f *Form) AddEventListener(eventType string, fn dom.Listener, phase dom.Phase) {
	f.listeners.add(eventType, fn, phase)
}

// Fields implements dom.Form.
func (f *Form) Fields() []dom.Field {
	out := make([]dom.Field, 0, len(f.inputs))
	for _, in := range f.inputs {
		out = append(out, in)
	}
	return out
}

// Field implements dom.Form.
func (f *Form) Field(id string) dom.Field {
	in := f.Input(id)
	if in == nil {
		return nil
	}
	return in
}

// FirstInvalid implements dom.Form.
func (f *Form) FirstInvalid() dom.Field {
	for _, in := range f.inputs {
		if !in.Validity().Valid {
			return in
		}
	}
	return nil
}

// Contains implements dom.Form.
func (f *Form) Contains(field dom.Field) bool {
	in, ok := field.(*Input)
	if !ok || in == nil {
		return false
	}
	return in.form == f
}

// Reset restores every control to its default value.
func (f *Form) Reset() {
	for _, in := range f.inputs {
		in.reset()
	}
}

type event struct {
	kind      string
	target    *Input
	prevented bool
}

func (e *event) Type() string { return e.kind }

func (e *event) Target() dom.Field {
	if e.target == nil {
		return nil
	}
	return e.target
}

func (e *event) PreventDefault() { e.prevented = true }

type listenerEntry struct {
	kind  string
	fn    dom.Listener
	phase dom.Phase
}

type listeners []listenerEntry

func (l *listeners) add(kind string, fn dom.Listener, phase dom.Phase) {
	if fn == nil {
		return
	}
	*l = append(*l, listenerEntry{kind: kind, fn: fn, phase: phase})
}

func (l listeners) fire(evt *event, phase dom.Phase) {
	for _, entry := range l {
		if entry.kind == evt.kind && entry.phase == phase {
			entry.fn(evt)
		}
	}
}

func (l listeners) count(kind string) int {
	n := 0
	for _, entry := range l {
		if entry.kind == kind {
			n++
		}
	}
	return n
}
