// Package highlight annotates matched text for presentation. It is a
// pure function layer over match results and query tokens; scoring
// never consults it.
package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a half-open byte range [Start,End) within the source text.
type Span struct {
	Start int
	End   int
}

// Ranges finds case-insensitive occurrences of each query token in
// text. Overlapping or adjacent spans are merged; the result is
// sorted by start offset. Spans are byte offsets into text itself,
// never into a case-folded copy: folding can change a rune's byte
// length, so offsets are only ever derived from the original string.
func Ranges(text string, queryTokens []string) []Span {
	if text == "" || len(queryTokens) == 0 {
		return nil
	}

	var spans []Span
	for _, tok := range queryTokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		for start := 0; start < len(text); {
			if n, ok := foldPrefixLen(text[start:], tok); ok {
				spans = append(spans, Span{Start: start, End: start + n})
				start += n
				continue
			}
			_, size := utf8.DecodeRuneInString(text[start:])
			start += size
		}
	}
	return merge(spans)
}

// foldPrefixLen reports whether s begins with a case-insensitive
// occurrence of tok, and the byte length of that occurrence in s.
func foldPrefixLen(s, tok string) (int, bool) {
	n := 0
	for _, tr := range tok {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 {
			return 0, false
		}
		if unicode.ToLower(r) != unicode.ToLower(tr) {
			return 0, false
		}
		n += size
	}
	return n, true
}

// WordRanges is like Ranges but only keeps occurrences aligned to
// word boundaries, for token-boundary-aware highlighting.
func WordRanges(text string, queryTokens []string) []Span {
	spans := Ranges(text, queryTokens)
	kept := spans[:0]
	for _, sp := range spans {
		if boundaryBefore(text, sp.Start) && boundaryAfter(text, sp.End) {
			kept = append(kept, sp)
		}
	}
	return kept
}

// Annotate wraps every matched span of text using mark. The output
// preserves the original text outside the spans.
func Annotate(text string, queryTokens []string, mark func(string) string) string {
	spans := Ranges(text, queryTokens)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(text[prev:sp.Start])
		b.WriteString(mark(text[sp.Start:sp.End]))
		prev = sp.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

// merge sorts spans and collapses overlaps.
func merge(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}

	// Insertion sort; span counts are tiny.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}

	out := spans[:1]
	for _, sp := range spans[1:] {
		last := &out[len(out)-1]
		if sp.Start <= last.End {
			if sp.End > last.End {
				last.End = sp.End
			}
			continue
		}
		out = append(out, sp)
	}
	return out
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
