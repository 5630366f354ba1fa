package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrTooManyAttempts is returned when the form stays invalid after the
	// configured number of rounds.
	ErrTooManyAttempts = errors.New("prompt: too many attempts")
	// ErrDriverRequired is returned when a session is built without a driver.
	ErrDriverRequired = errors.New("prompt: driver is required")
)
