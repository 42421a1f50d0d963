package layout

import "strings"

// Tokenize splits spans on line breaks and then on spaces. The result holds
// words, single "\n" markers and single " " markers, each with a copy of its
// source span's style, in source order.
func Tokenize(spans []Span) []Span {
	return Split(Split(spans, '\n'), ' ')
}

// Split partitions every span's text at each occurrence of c. A marker token
// holding exactly c is emitted before every partition except the first, and
// every non-empty partition becomes a content token.
func Split(spans []Span, c rune) []Span {
	if len(spans) == 0 {
		return nil
	}
	sep := string(c)
	out := make([]Span, 0, len(spans))
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		for i, part := range strings.Split(span.Text, sep) {
			if i > 0 {
				out = append(out, span.Derive(sep))
			}
			if part != "" {
				out = append(out, span.Derive(part))
			}
		}
	}
	return out
}

// Join concatenates the text of all tokens, markers included.
func Join(tokens []Span) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}
