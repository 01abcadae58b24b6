package domain

// Front-matter keys of a content document.
const (
	FieldURL         = "url"
	FieldNextURL     = "nextUrl"
	FieldPreviousURL = "previousUrl"
	FieldNumber      = "number"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldIcon        = "icon"

	// FieldSlug overrides the path-derived entry ID. It is not part of the document.
	FieldSlug = "slug"
)

// Document is the validated front-matter of one content file.
type Document struct {
	URL         string           `json:"url"`
	NextURL     Optional[string] `json:"nextUrl,omitzero"`
	PreviousURL Optional[string] `json:"previousUrl,omitzero"`
	Number      float64          `json:"number"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
}

// Entry is a document held by a collection.
type Entry struct {
	// ID is the path-derived (or slug) identifier, unique within the collection.
	ID         string `json:"id"`
	Collection string `json:"collection"`
	// FilePath is relative to the collection base, slash separated.
	FilePath string   `json:"filePath"`
	Data     Document `json:"data"`
	// Fields holds schema-declared front-matter that Document does not model,
	// such as the tags of a collection with its own schema.
	Fields map[string]any `json:"fields,omitempty"`
	Body   string         `json:"body,omitempty"`
}
