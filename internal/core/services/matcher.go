package services

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/normaliser"
)

// Matcher computes weighted fuzzy match scores between a query and a
// document across its searchable fields.
type Matcher struct {
	weights map[domain.FieldName]float64
	minSim  float64
}

// NewMatcher creates a matcher from the search configuration.
func NewMatcher(cfg domain.SearchConfig) *Matcher {
	weights := cfg.FieldWeights
	if len(weights) == 0 {
		weights = domain.DefaultSearchConfig().FieldWeights
	}
	return &Matcher{
		weights: weights,
		minSim:  cfg.MinSimilarity(),
	}
}

// fieldText is one normalised searchable field of a document.
type fieldText struct {
	name   domain.FieldName
	text   string
	tokens []string
}

// Score matches doc against queryTokens. The second return value is
// false when the document is a no-match: some query word clears the
// similarity floor against no field at all (matching is conjunctive
// across words, disjunctive across fields).
//
// Score semantics are distance-like: 0 means every weighted field the
// document carries matched perfectly, 1 is the worst retained match.
func (m *Matcher) Score(doc *domain.Document, queryTokens []string) (domain.MatchResult, bool) {
	if doc == nil || len(queryTokens) == 0 {
		return domain.MatchResult{}, false
	}

	fields := m.extractFields(doc)
	if len(fields) == 0 {
		return domain.MatchResult{}, false
	}

	// Per-field mean similarity across all query words, and the best
	// single-word similarity per field.
	sims := make([]float64, len(fields))
	peaks := make([]float64, len(fields))

	// Every query word must clear the floor against at least one
	// field; the fields need not be the same one for every word.
	for _, tok := range queryTokens {
		best := 0.0
		for i := range fields {
			sim, _ := tokenSimilarity(tok, &fields[i])
			sims[i] += sim / float64(len(queryTokens))
			if sim > peaks[i] {
				peaks[i] = sim
			}
			if sim > best {
				best = sim
			}
		}
		if best < m.minSim {
			return domain.MatchResult{}, false
		}
	}

	var (
		matched    []domain.FieldName
		titleMatch = domain.MatchNone
		num        float64
		denom      float64
	)
	// A field is matched once it clears the floor for any query word.
	// Its score contribution is its mean similarity over all words, so
	// a field covering the whole query outranks one covering part.
	for i := range fields {
		w := m.weights[fields[i].name]
		denom += w
		if peaks[i] < m.minSim {
			continue
		}
		matched = append(matched, fields[i].name)
		num += w * sims[i]
		if fields[i].name == domain.FieldTitle {
			titleMatch = fieldMatchKind(&fields[i], queryTokens)
		}
	}
	if len(matched) == 0 || denom == 0 {
		return domain.MatchResult{}, false
	}

	return domain.MatchResult{
		DocumentID:    doc.ID,
		Score:         1 - num/denom,
		MatchedFields: matched,
		TitleMatch:    titleMatch,
	}, true
}

// extractFields normalises the document's non-empty fields in weight
// order. Set-valued fields are joined with spaces before normalising.
func (m *Matcher) extractFields(doc *domain.Document) []fieldText {
	raw := []struct {
		name domain.FieldName
		text string
	}{
		{domain.FieldTitle, doc.Title},
		{domain.FieldCategories, strings.Join(doc.Categories, " ")},
		{domain.FieldTags, strings.Join(doc.Tags, " ")},
		{domain.FieldAuthor, doc.AuthorName},
		{domain.FieldExcerpt, doc.Excerpt},
		{domain.FieldBody, doc.Body},
	}

	fields := make([]fieldText, 0, len(raw))
	for _, r := range raw {
		if m.weights[r.name] <= 0 {
			continue
		}
		text := normaliser.Normalise(r.text)
		if text == "" {
			continue
		}
		fields = append(fields, fieldText{
			name:   r.name,
			text:   text,
			tokens: normaliser.Tokenise(text),
		})
	}
	return fields
}

// tokenSimilarity computes the similarity of one query word against a
// field in [0,1]. A verbatim substring always scores 1, so a substring
// hit is never beaten by a fuzzy hit of the same word.
func tokenSimilarity(tok string, f *fieldText) (float64, domain.MatchKind) {
	if f.text == tok {
		return 1, domain.MatchExact
	}
	if strings.Contains(f.text, tok) {
		return 1, domain.MatchSubstring
	}

	best := 0.0
	for _, ft := range f.tokens {
		if sim := editSimilarity(tok, ft); sim > best {
			best = sim
		}
	}
	if best == 0 {
		return 0, domain.MatchNone
	}
	return best, domain.MatchFuzzy
}

// fieldMatchKind classifies how a field matched the whole query.
func fieldMatchKind(f *fieldText, queryTokens []string) domain.MatchKind {
	joined := strings.Join(queryTokens, " ")
	if f.text == joined {
		return domain.MatchExact
	}
	if strings.Contains(f.text, joined) {
		return domain.MatchSubstring
	}
	kind := domain.MatchSubstring
	for _, tok := range queryTokens {
		if !strings.Contains(f.text, tok) {
			kind = domain.MatchFuzzy
			break
		}
	}
	return kind
}

// editSimilarity is a normalised Levenshtein similarity: identical
// strings score 1, completely disjoint strings score 0.
func editSimilarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}
