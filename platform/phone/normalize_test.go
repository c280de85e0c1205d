package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"ten digit US", "(614) 555-0134", "+16145550134"},
		{"already e164", "+16145550134", "+16145550134"},
		{"dashes", "614-555-0134", "+16145550134"},
		{"invalid stays trimmed", " not-a-number ", "not-a-number"},
		{"empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
