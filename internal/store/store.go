// Package store implements the Document Store: snippet and document CRUD
// over the currently bound blob backend, first-run seeding, and
// association repair when document content drifts from the recorded
// links.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sidenote-labs/satchel/internal/logger"
	"github.com/sidenote-labs/satchel/pkg/types"
)

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// Store holds the single process-wide backend binding. Operations re-read
// the binding at call time, so a switch replaces the backend for every
// subsequent operation without any caller holding a stale handle.
type Store struct {
	log logger.Logger

	// backend is nil while unbound. Guarded so a rebind during a
	// suspended host call never exposes a half-written pointer.
	backend types.Backend
}

// New creates an unbound store.
func New(log logger.Logger) *Store {
	return &Store{log: log}
}

// Bind attaches the store to a backend, replacing any previous binding.
func (s *Store) Bind(b types.Backend) {
	s.backend = b
	s.log.Debug("store bound to backend")
}

// Unbind detaches the store.
func (s *Store) Unbind() {
	s.backend = nil
	s.log.Debug("store unbound")
}

// Bound reports whether a backend is currently bound.
func (s *Store) Bound() bool {
	return s.backend != nil
}

// current returns the backend bound at this moment, or ErrNotConnected.
func (s *Store) current() (types.Backend, error) {
	if s.backend == nil {
		return nil, types.ErrNotConnected
	}
	return s.backend, nil
}

// readSnippets loads and normalizes the snippet collection. A
// never-written blob yields an empty slice; a present-but-unparseable
// blob surfaces as ErrMalformedData, untouched.
func (s *Store) readSnippets(b types.Backend) ([]*types.Snippet, error) {
	data, err := b.ReadBlob(types.SnippetsBlob)
	if errors.Is(err, types.ErrBlobAbsent) {
		return []*types.Snippet{}, nil
	}
	if err != nil {
		return nil, err
	}

	var snippets []*types.Snippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedData, types.SnippetsBlob, err)
	}
	for _, sn := range snippets {
		sn.Normalize()
	}
	return snippets, nil
}

// readDocuments loads the document collection.
func (s *Store) readDocuments(b types.Backend) ([]*types.Document, error) {
	data, err := b.ReadBlob(types.DocumentsBlob)
	if errors.Is(err, types.ErrBlobAbsent) {
		return []*types.Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	var docs []*types.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrMalformedData, types.DocumentsBlob, err)
	}
	return docs, nil
}

// writeSnippets persists the whole snippet collection, pretty-printed.
func (s *Store) writeSnippets(b types.Backend, snippets []*types.Snippet) error {
	data, err := json.MarshalIndent(snippets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snippets: %w", err)
	}
	return b.WriteBlob(types.SnippetsBlob, data)
}

// writeDocuments persists the whole document collection, pretty-printed.
func (s *Store) writeDocuments(b types.Backend, docs []*types.Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling documents: %w", err)
	}
	return b.WriteBlob(types.DocumentsBlob, data)
}

// GetSnippets returns every snippet in the bound workspace.
func (s *Store) GetSnippets() ([]*types.Snippet, error) {
	b, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.readSnippets(b)
}

// GetDocuments returns every document in the bound workspace.
func (s *Store) GetDocuments() ([]*types.Document, error) {
	b, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.readDocuments(b)
}

// SaveSnippet upserts a snippet by id. The legacy link mirror is
// recomputed from DocumentLinks before persisting; the caller's value is
// never trusted.
func (s *Store) SaveSnippet(sn *types.Snippet) error {
	if sn.ID == "" {
		return types.ErrInvalidID
	}

	b, err := s.current()
	if err != nil {
		return err
	}

	snippets, err := s.readSnippets(b)
	if err != nil {
		return err
	}

	sn.SyncLegacyLink()

	replaced := false
	for i, existing := range snippets {
		if existing.ID == sn.ID {
			snippets[i] = sn
			replaced = true
			break
		}
	}
	if !replaced {
		snippets = append(snippets, sn)
	}

	return s.writeSnippets(b, snippets)
}

// DeleteSnippet removes a snippet by id. Markers the snippet left inside
// document content stay where they are; content is user-owned text.
func (s *Store) DeleteSnippet(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	b, err := s.current()
	if err != nil {
		return err
	}

	snippets, err := s.readSnippets(b)
	if err != nil {
		return err
	}

	for i, sn := range snippets {
		if sn.ID == id {
			snippets = append(snippets[:i], snippets[i+1:]...)
			return s.writeSnippets(b, snippets)
		}
	}
	return types.ErrNotFound
}

// SaveDocument upserts a document, stamping UpdatedAt. When prev carries
// different content, the new content is authoritative for which snippets
// are still presented: every snippet linked to this document whose marker
// disappeared is unlinked. Editing content is the only path that silently
// drops a link.
func (s *Store) SaveDocument(doc *types.Document, prev *types.Document) error {
	if doc.ID == "" {
		return types.ErrInvalidID
	}

	b, err := s.current()
	if err != nil {
		return err
	}

	docs, err := s.readDocuments(b)
	if err != nil {
		return err
	}

	doc.UpdatedAt = time.Now().UTC()

	replaced := false
	for i, existing := range docs {
		if existing.ID == doc.ID {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}

	if err := s.writeDocuments(b, docs); err != nil {
		return err
	}

	if prev != nil && prev.Content != doc.Content {
		return s.repairAssociations(b, doc)
	}
	return nil
}

// repairAssociations drops this document from every snippet whose marker
// is no longer present in the document's content.
func (s *Store) repairAssociations(b types.Backend, doc *types.Document) error {
	markers := types.MarkerIDs(doc.Content)

	snippets, err := s.readSnippets(b)
	if err != nil {
		return err
	}

	changed := 0
	for _, sn := range snippets {
		if sn.LinkedTo(doc.ID) && !markers[sn.ID] {
			sn.Unlink(doc.ID)
			changed++
		}
	}
	if changed == 0 {
		return nil
	}

	s.log.Debug("association repair unlinked snippets",
		logger.String("document", doc.ID), logger.Int("count", changed))
	return s.writeSnippets(b, snippets)
}

// DeleteDocument removes a document by id. Snippet links are not touched
// here; callers run UnlinkDocument first so an undo can restore the
// document together with every link it had.
func (s *Store) DeleteDocument(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	b, err := s.current()
	if err != nil {
		return err
	}

	docs, err := s.readDocuments(b)
	if err != nil {
		return err
	}

	for i, doc := range docs {
		if doc.ID == id {
			docs = append(docs[:i], docs[i+1:]...)
			return s.writeDocuments(b, docs)
		}
	}
	return types.ErrNotFound
}

// UnlinkDocument removes the document from every snippet's links and
// returns the ids of the snippets that changed.
func (s *Store) UnlinkDocument(documentID string) ([]string, error) {
	if documentID == "" {
		return nil, types.ErrInvalidID
	}

	b, err := s.current()
	if err != nil {
		return nil, err
	}

	snippets, err := s.readSnippets(b)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, sn := range snippets {
		if sn.Unlink(documentID) {
			changed = append(changed, sn.ID)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}

	if err := s.writeSnippets(b, snippets); err != nil {
		return nil, err
	}
	return changed, nil
}

// LinkSnippetToDocument appends the document to the snippet's links and a
// rendered excerpt of the snippet to the document's content. The snippet
// side is persisted first: if the second write never lands, the next
// content edit's repair pass clears the dangling link.
func (s *Store) LinkSnippetToDocument(snippetID, documentID string) error {
	if snippetID == "" || documentID == "" {
		return types.ErrInvalidID
	}

	b, err := s.current()
	if err != nil {
		return err
	}

	snippets, err := s.readSnippets(b)
	if err != nil {
		return err
	}
	var target *types.Snippet
	for _, sn := range snippets {
		if sn.ID == snippetID {
			target = sn
			break
		}
	}
	if target == nil {
		return fmt.Errorf("snippet %s: %w", snippetID, types.ErrNotFound)
	}
	if target.LinkedTo(documentID) {
		return types.ErrAlreadyLinked
	}

	docs, err := s.readDocuments(b)
	if err != nil {
		return err
	}
	var doc *types.Document
	for _, d := range docs {
		if d.ID == documentID {
			doc = d
			break
		}
	}
	if doc == nil {
		return fmt.Errorf("document %s: %w", documentID, types.ErrNotFound)
	}

	target.DocumentLinks = append(target.DocumentLinks, documentID)
	target.SyncLegacyLink()
	if err := s.writeSnippets(b, snippets); err != nil {
		return err
	}

	doc.Content = types.AppendExcerpt(doc.Content, target)
	doc.UpdatedAt = time.Now().UTC()
	if err := s.writeDocuments(b, docs); err != nil {
		return err
	}

	s.log.Debug("linked snippet to document",
		logger.String("snippet", snippetID), logger.String("document", documentID))
	return nil
}

// SubmitCapture creates a snippet from captured content. The store
// assigns the id and creation time; the snippet starts with no document
// links.
func (s *Store) SubmitCapture(text, sourceURL, sourceTitle, sourceFavicon string) (*types.Snippet, error) {
	sn := &types.Snippet{
		ID:            newID(),
		Text:          text,
		SourceURL:     sourceURL,
		SourceTitle:   sourceTitle,
		SourceFavicon: sourceFavicon,
		CreatedAt:     time.Now().UTC(),
		Tags:          []string{},
		DocumentLinks: []string{},
	}
	if err := s.SaveSnippet(sn); err != nil {
		return nil, err
	}
	return sn, nil
}

// ExportAll returns a read-only snapshot of both collections.
func (s *Store) ExportAll() (*types.Export, error) {
	snippets, err := s.GetSnippets()
	if err != nil {
		return nil, err
	}
	docs, err := s.GetDocuments()
	if err != nil {
		return nil, err
	}
	return &types.Export{Snippets: snippets, Documents: docs}, nil
}

// newID generates a UUID v7, falling back to v4 if v7 generation fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
