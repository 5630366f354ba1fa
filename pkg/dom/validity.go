package dom

// CustomValidity is the application-level violation attached to a field. It
// replaces the free-text custom validity message with a closed set.
type CustomValidity int

const (
	// NoCustomError clears any application-level violation.
	NoCustomError CustomValidity = iota
	// PasswordMismatch marks a confirmation field that differs from the
	// primary password.
	PasswordMismatch
)

func (c CustomValidity) String() string {
	switch c {
	case NoCustomError:
		return ""
	case PasswordMismatch:
		return "passwordMismatch"
	default:
		return "unknown"
	}
}

// ValiditySnapshot is the set of constraint flags for a field at one point in
// time. It is a value; it never tracks later changes to the field.
type ValiditySnapshot struct {
	ValueMissing    bool
	TypeMismatch    bool
	PatternMismatch bool
	TooShort        bool
	TooLong         bool
	CustomError     bool
	Valid           bool
}

// Flag reports the flag matching a constraint name (valueMissing,
// patternMismatch, ...). Unknown names report false.
func (s ValiditySnapshot) Flag(name string) bool {
	switch name {
	case "valueMissing":
		return s.ValueMissing
	case "typeMismatch":
		return s.TypeMismatch
	case "patternMismatch":
		return s.PatternMismatch
	case "tooShort":
		return s.TooShort
	case "tooLong":
		return s.TooLong
	case "customError":
		return s.CustomError
	case "valid":
		return s.Valid
	default:
		return false
	}
}

// Settle recomputes Valid from the individual flags.
func (s ValiditySnapshot) Settle() ValiditySnapshot {
	s.Valid = !(s.ValueMissing || s.TypeMismatch || s.PatternMismatch ||
		s.TooShort || s.TooLong || s.CustomError)
	return s
}
