package handlers

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"kai@example.com", "kai@example.com"},
		{"Kai@Example.COM", "kai@example.com"},
		{"  kai@example.com  ", "kai@example.com"},
		{" A@X.com ", "a@x.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeEmail(tc.in); got != tc.want {
			t.Errorf("normalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
