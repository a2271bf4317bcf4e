package service

import "testing"

func TestMatches(t *testing.T) {
	cases := []struct {
		name       string
		categories []string
		category   string
		want       bool
	}{
		{"empty filter passes everything", nil, "letter", true},
		{"match in filter", []string{"letter", "photo"}, "photo", true},
		{"not in filter", []string{"letter", "photo"}, "video", false},
		{"zero-length filter passes", []string{}, "anecdote", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matches(tc.categories, tc.category); got != tc.want {
				t.Errorf("matches(%v, %q) = %v, want %v", tc.categories, tc.category, got, tc.want)
			}
		})
	}
}
