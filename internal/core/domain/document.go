package domain

// FieldName identifies a searchable document field.
type FieldName string

// Searchable fields, from heaviest to lightest default weight.
const (
	FieldTitle      FieldName = "title"
	FieldCategories FieldName = "categories"
	FieldTags       FieldName = "tags"
	FieldAuthor     FieldName = "author"
	FieldExcerpt    FieldName = "excerpt"
	FieldBody       FieldName = "body"
)

// AllFields returns every searchable field in weight order.
func AllFields() []FieldName {
	return []FieldName{
		FieldTitle,
		FieldCategories,
		FieldTags,
		FieldAuthor,
		FieldExcerpt,
		FieldBody,
	}
}

// Document is a knowledge-base article as delivered by the document feed.
// The search core never mutates a Document; the feed replaces whole
// snapshots instead of patching them.
type Document struct {
	// ID is stable and unique within one index snapshot.
	ID string `json:"id"`

	// Title is the article title, plain text.
	Title string `json:"title"`

	// Categories the article is filed under (small set).
	Categories []string `json:"categories,omitempty"`

	// Tags attached to the article.
	Tags []string `json:"tags,omitempty"`

	// AuthorName is the display name of the author.
	AuthorName string `json:"author,omitempty"`

	// Excerpt is a short markup summary. Normalised before matching.
	Excerpt string `json:"excerpt,omitempty"`

	// Body is the full markup content. Normalised before matching.
	Body string `json:"body,omitempty"`
}
