package engine

import "errors"

var (
	// ErrFormNotFound is returned by New when the document holds no form
	// matching the configured selector.
	ErrFormNotFound = errors.New("engine: form not found")
	// ErrNilDocument is returned by New when no document is supplied.
	ErrNilDocument = errors.New("engine: document is required")
)
