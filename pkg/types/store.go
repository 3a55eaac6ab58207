package types

import "errors"

// Store is the storage layer's public contract: snippet and document CRUD
// over the currently bound backend, plus seeding and export. All
// operations return ErrNotConnected while no backend is bound.
type Store interface {
	// Bind attaches the store to a backend. A previous binding, if any,
	// is replaced; exactly one backend is addressed at a time.
	Bind(b Backend)

	// Unbind detaches the store. Subsequent operations return
	// ErrNotConnected until the next Bind.
	Unbind()

	// Bound reports whether a backend is currently bound.
	Bound() bool

	// GetSnippets returns every snippet in the bound workspace. A
	// never-written workspace yields an empty slice, not an error.
	GetSnippets() ([]*Snippet, error)

	// GetDocuments returns every document in the bound workspace.
	GetDocuments() ([]*Document, error)

	// SaveSnippet upserts a snippet by id, recomputing the legacy link
	// mirror before persisting regardless of what the caller supplied.
	SaveSnippet(s *Snippet) error

	// DeleteSnippet removes a snippet. Markers left behind in document
	// content are not cascaded; content is user-owned text.
	DeleteSnippet(id string) error

	// SaveDocument upserts a document, stamping UpdatedAt. When prev is
	// non-nil and its content differs, snippets whose markers were
	// removed from the new content are unlinked from this document.
	SaveDocument(doc *Document, prev *Document) error

	// DeleteDocument removes a document. It does not unlink snippets;
	// callers run UnlinkDocument first so a deletion can be undone with
	// every link intact.
	DeleteDocument(id string) error

	// UnlinkDocument removes the document from every snippet's
	// DocumentLinks and returns the ids of the snippets that changed.
	UnlinkDocument(documentID string) ([]string, error)

	// LinkSnippetToDocument appends the document to the snippet's links
	// and appends a rendered excerpt to the document's content. Returns
	// ErrAlreadyLinked if the link already exists.
	LinkSnippetToDocument(snippetID, documentID string) error

	// SubmitCapture creates a snippet from captured content, assigning
	// id and creation time, and persists it with no document links.
	SubmitCapture(text, sourceURL, sourceTitle, sourceFavicon string) (*Snippet, error)

	// SeedIfEmpty writes the starter content if and only if the snippet
	// blob has never been written. A workspace the user emptied by hand
	// is not re-seeded.
	SeedIfEmpty() error

	// ExportAll returns a read-only snapshot of both collections.
	ExportAll() (*Export, error)
}

// Export is the user-facing snapshot of a workspace.
type Export struct {
	Snippets  []*Snippet  `json:"snippets"`
	Documents []*Document `json:"documents"`
}

// Store operation errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyLinked = errors.New("snippet is already linked to document")
	ErrMalformedData = errors.New("malformed data in blob")
	ErrInvalidID     = errors.New("invalid record id")
)
