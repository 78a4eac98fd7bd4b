package search

import "testing"

func TestHighlight(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{"basic", "The Dark Knight", "dark", "The <mark>Dark</mark> Knight"},
		{"case preserved", "DARKNESS", "dark", "<mark>DARK</mark>NESS"},
		{"multiple occurrences", "dark in the dark", "dark", "<mark>dark</mark> in the <mark>dark</mark>"},
		{"no match", "Light House", "dark", "Light House"},
		{"uppercase query", "darkness", "DARK", "<mark>dark</mark>ness"},
		{"wide-cased rune before match", "İ dark night", "dark", "İ <mark>dark</mark> night"},
		{"rune that grows when lowered", "Ⱥ dark", "dark", "Ⱥ <mark>dark</mark>"},
		{"empty query", "Anything", "", "Anything"},
		{"empty text", "", "dark", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Highlight(tc.text, tc.query); got != tc.want {
				t.Fatalf("Highlight(%q, %q) = %q, want %q", tc.text, tc.query, got, tc.want)
			}
		})
	}
}
