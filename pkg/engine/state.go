package engine

// State tracks what the engine last did to a field.
type State int

const (
	// Untouched fields have not been validated, or were cleared.
	Untouched State = iota
	// ValidatedValid fields were validated and produced no messages.
	ValidatedValid
	// ValidatedInvalid fields were validated and produced messages.
	ValidatedInvalid
)

func (s State) String() string {
	switch s {
	case Untouched:
		return "untouched"
	case ValidatedValid:
		return "valid"
	case ValidatedInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Outcome is the result of a submit attempt.
type Outcome int

const (
	// OutcomeInvalid means at least one field failed validation; nothing was
	// handed to the submitter.
	OutcomeInvalid Outcome = iota
	// OutcomeValid means the form validated but no submitter is configured.
	OutcomeValid
	// OutcomeDuplicate means the submitter rejected the email as taken.
	OutcomeDuplicate
	// OutcomeRegistered means the submitter persisted the user.
	OutcomeRegistered
	// OutcomeFailed means the submitter returned an unexpected error.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeValid:
		return "valid"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeRegistered:
		return "registered"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
