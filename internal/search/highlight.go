package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Highlight wraps every case-insensitive occurrence of query in text with
// <mark> tags, preserving the original casing of the matched segment.
// Matching folds rune by rune against the original string, so case mappings
// that change UTF-8 width (İ, Ⱥ) cannot skew the wrapped segment.
// Pure and stateless; used for presentation only, never for ranking.
func Highlight(text, query string) string {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return text
	}

	q := make([]rune, 0, utf8.RuneCountInString(query))
	for _, r := range query {
		q = append(q, unicode.ToLower(r))
	}

	var b strings.Builder
	last := 0
	for i := 0; i < len(text); {
		end, ok := foldMatchAt(text, i, q)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[i:])
			i += size
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString("<mark>")
		b.WriteString(text[i:end])
		b.WriteString("</mark>")
		i, last = end, end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// foldMatchAt reports whether query matches text at byte offset start under
// lowercase folding, returning the end byte offset of the match.
func foldMatchAt(text string, start int, query []rune) (int, bool) {
	pos := start
	for _, qr := range query {
		if pos >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[pos:])
		if unicode.ToLower(r) != qr {
			return 0, false
		}
		pos += size
	}
	return pos, true
}
