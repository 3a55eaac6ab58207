// First-run seeding: a fixed starter set written only when the snippet
// blob has never been written.
package store

import (
	"errors"
	"time"

	"github.com/sidenote-labs/satchel/internal/logger"
	"github.com/sidenote-labs/satchel/pkg/types"
)

// starterSnippet describes a snippet to seed on first run.
type starterSnippet struct {
	text        string
	sourceURL   string
	sourceTitle string
	color       string
}

// starterSnippets defines the captured examples a fresh workspace starts
// with. The first two are embedded in the welcome document, the third in
// the organizing guide.
var starterSnippets = []starterSnippet{
	{
		text:        "Highlight any text on a page and Satchel keeps it, with its source, until you need it.",
		sourceURL:   "https://satchel.example/welcome",
		sourceTitle: "Welcome to Satchel",
		color:       "amber",
	},
	{
		text:        "Snippets can live in several documents at once; the newest link decides where a snippet is shown by default.",
		sourceURL:   "https://satchel.example/welcome",
		sourceTitle: "Welcome to Satchel",
	},
	{
		text:        "Deleting an excerpt from a document's text unlinks the snippet on the next save. The capture itself stays in your library.",
		sourceURL:   "https://satchel.example/guide",
		sourceTitle: "Organizing captures",
	},
}

// SeedIfEmpty writes the starter snippets and documents if and only if
// the snippet blob was never written. A workspace the user emptied by
// hand is written (as an empty collection) and is therefore never
// re-seeded. A present-but-unparseable blob is surfaced, not overwritten.
func (s *Store) SeedIfEmpty() error {
	b, err := s.current()
	if err != nil {
		return err
	}

	_, err = b.ReadBlob(types.SnippetsBlob)
	if err == nil {
		return nil
	}
	if !errors.Is(err, types.ErrBlobAbsent) {
		return err
	}

	now := time.Now().UTC()

	snippets := make([]*types.Snippet, len(starterSnippets))
	for i, ss := range starterSnippets {
		snippets[i] = &types.Snippet{
			ID:            newID(),
			Text:          ss.text,
			SourceURL:     ss.sourceURL,
			SourceTitle:   ss.sourceTitle,
			CreatedAt:     now,
			Tags:          []string{},
			DocumentLinks: []string{},
			Color:         ss.color,
		}
	}

	welcome := &types.Document{
		ID:        newID(),
		Title:     "Welcome",
		Content:   "Satchel collects the passages you highlight while reading.\n\nA couple of captures to start from:",
		CreatedAt: now,
		UpdatedAt: now,
	}
	guide := &types.Document{
		ID:        newID(),
		Title:     "Organizing captures",
		Content:   "Link snippets into documents to build up notes from your reading.",
		CreatedAt: now,
		UpdatedAt: now,
	}

	embed := func(doc *types.Document, sn *types.Snippet) {
		doc.Content = types.AppendExcerpt(doc.Content, sn)
		sn.DocumentLinks = append(sn.DocumentLinks, doc.ID)
		sn.SyncLegacyLink()
	}
	embed(welcome, snippets[0])
	embed(welcome, snippets[1])
	embed(guide, snippets[2])

	if err := s.writeSnippets(b, snippets); err != nil {
		return err
	}
	if err := s.writeDocuments(b, []*types.Document{welcome, guide}); err != nil {
		return err
	}

	s.log.Info("seeded starter content",
		logger.Int("snippets", len(snippets)), logger.Int("documents", 2))
	return nil
}
