// Package normaliser converts markup document fields into plain
// lower-case text suitable for matching. Stripping is regex based and
// never fails: input that is not valid markup passes through as plain
// text with whitespace collapsed.
package normaliser

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled expressions for markup stripping.
var (
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockTags    = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|ul|ol|tr|td|th|blockquote|pre|table|section|article)[^>]*>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Normalise strips markup from s, decodes entities, collapses
// whitespace, and lower-cases the result. Tag attribute values and
// script/style contents never leak into the output.
func Normalise(s string) string {
	if s == "" {
		return ""
	}

	// Remove script, style, and noscript contents entirely
	s = scriptTag.ReplaceAllString(s, "")
	s = styleTag.ReplaceAllString(s, "")
	s = noscriptTag.ReplaceAllString(s, "")

	// Remove comments
	s = htmlComments.ReplaceAllString(s, "")

	// Block elements become word boundaries
	s = blockTags.ReplaceAllString(s, " ")

	// Strip all remaining tags
	s = allTags.ReplaceAllString(s, " ")

	// Decode entities
	s = html.UnescapeString(s)

	// Collapse whitespace and lower-case
	s = whitespace.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokenise splits already-normalised text on whitespace. Use for
// token-boundary-aware matching and word-boundary highlighting.
func Tokenise(s string) []string {
	return strings.Fields(s)
}

// QueryTokens normalises a raw query string and returns its tokens.
func QueryTokens(query string) []string {
	return Tokenise(Normalise(query))
}
