// Package dom describes the document capabilities the validation engine
// consumes. Implementations may wrap a real browser document (syscall/js), a
// server-side model, or the in-memory document in memdom.
package dom

// Phase selects when an event listener fires relative to the target.
type Phase int

const (
	// Bubble listeners run after the target's own handlers.
	Bubble Phase = iota
	// Capture listeners run on the way down, which is the only way an
	// ancestor can observe events that do not bubble (blur, focus).
	Capture
)

// Event names dispatched by documents.
const (
	EventBlur   = "blur"
	EventSubmit = "submit"
)

// Event is the minimal event payload handed to listeners.
type Event interface {
	Type() string
	// Target returns the field the event originated from. Submit events
	// carry a nil target.
	Target() Field
	PreventDefault()
}

// Listener handles a dispatched event.
type Listener func(Event)

// EventTarget accepts listeners.
type EventTarget interface {
	AddEventListener(eventType string, fn Listener, phase Phase)
}

// ClassList mirrors Element.classList.
type ClassList interface {
	Add(names ...string)
	Remove(names ...string)
	Toggle(name string, force bool)
	Contains(name string) bool
}

// Element is anything carrying a class list.
type Element interface {
	ClassList() ClassList
}

// Region is an element whose rendered markup can be replaced wholesale.
type Region interface {
	Element
	SetInnerHTML(markup string)
	InnerHTML() string
}

// Container is the structural parent of a field; error regions are looked up
// relative to it.
type Container interface {
	Query(selector string) Region
}

// Field is a form control (input, select, textarea). The engine only reads
// and annotates fields, it never creates or destroys them.
type Field interface {
	Element
	ID() string
	Value() string
	Required() bool
	// Title returns the title attribute, empty when absent.
	Title() string
	// MinLength and MaxLength return -1 when the attribute is not declared.
	MinLength() int
	MaxLength() int
	// Validity evaluates the constraints against the current value. Every
	// call returns a fresh snapshot.
	Validity() ValiditySnapshot
	CustomValidity() CustomValidity
	SetCustomValidity(CustomValidity)
	SetAriaInvalid(invalid bool)
	AriaInvalid() bool
	Focus()
	// Container returns the nearest structural container, nil when the
	// field is detached.
	Container() Container
}

// Form is the root element of a validated form.
type Form interface {
	Element
	EventTarget
	// Fields returns every control currently in the form, in document order.
	Fields() []Field
	// Field looks up a control by id.
	Field(id string) Field
	// FirstInvalid returns the first control whose snapshot is not valid.
	FirstInvalid() Field
	Contains(field Field) bool
	Reset()
}

// Document is the capability surface of the hosting page.
type Document interface {
	EventTarget
	// Form returns the form matching selector, nil when none matches.
	Form(selector string) Form
	// ElementByID returns an element, nil when it does not exist.
	ElementByID(id string) Element
	Body() Element
}
