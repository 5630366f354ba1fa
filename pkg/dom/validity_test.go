package dom

import "testing"

func TestValiditySnapshotSettle(t *testing.T) {
	cases := []struct {
		name string
		in   ValiditySnapshot
		want bool
	}{
		{name: "clean", in: ValiditySnapshot{}, want: true},
		{name: "missing", in: ValiditySnapshot{ValueMissing: true}, want: false},
		{name: "type", in: ValiditySnapshot{TypeMismatch: true}, want: false},
		{name: "custom", in: ValiditySnapshot{CustomError: true}, want: false},
		{name: "stale valid flag", in: ValiditySnapshot{TooLong: true, Valid: true}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Settle().Valid; got != tc.want {
				t.Fatalf("Settle().Valid = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValiditySnapshotFlag(t *testing.T) {
	snap := ValiditySnapshot{PatternMismatch: true, TooShort: true}
	if !snap.Flag("patternMismatch") || !snap.Flag("tooShort") {
		t.Fatalf("expected pattern and tooShort flags set: %+v", snap)
	}
	if snap.Flag("tooLong") || snap.Flag("bogus") {
		t.Fatalf("unexpected flag reported")
	}
}

func TestCustomValidityString(t *testing.T) {
	if NoCustomError.String() != "" {
		t.Fatalf("expected empty string for NoCustomError")
	}
	if PasswordMismatch.String() != "passwordMismatch" {
		t.Fatalf("unexpected mismatch name %q", PasswordMismatch.String())
	}
}
