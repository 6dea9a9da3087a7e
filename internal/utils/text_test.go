package utils

import "testing"

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hello…"},
		{"héllo wörld", 5, "héllo…"}, // rune-based, not byte-based
		{"hello", 0, "hello"},
		{"hello", -1, "hello"},
		{"", 3, ""},
	}
	for _, tc := range cases {
		if got := TruncateRunes(tc.in, tc.n); got != tc.want {
			t.Fatalf("TruncateRunes(%q, %d) = %q; want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
