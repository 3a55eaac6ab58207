package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidenote-labs/satchel/internal/dirblob"
	"github.com/sidenote-labs/satchel/internal/kvblob"
	"github.com/sidenote-labs/satchel/internal/logger"
	"github.com/sidenote-labs/satchel/pkg/types"
)

// newBoundStore returns a store bound to a fresh directory backend.
func newBoundStore(t *testing.T) (*Store, *dirblob.Backend) {
	t.Helper()
	b := dirblob.New(t.TempDir())
	require.NoError(t, b.Connect())

	s := New(logger.NewNop())
	s.Bind(b)
	return s, b
}

func addSnippet(t *testing.T, s *Store, id, text string, links ...string) *types.Snippet {
	t.Helper()
	sn := &types.Snippet{ID: id, Text: text, SourceURL: "https://example.com", DocumentLinks: links}
	require.NoError(t, s.SaveSnippet(sn))
	return sn
}

func addDocument(t *testing.T, s *Store, id, title, content string) *types.Document {
	t.Helper()
	doc := &types.Document{ID: id, Title: title, Content: content}
	require.NoError(t, s.SaveDocument(doc, nil))
	return doc
}

func TestBinding(t *testing.T) {
	t.Run("operations fail while unbound", func(t *testing.T) {
		s := New(logger.NewNop())

		_, err := s.GetSnippets()
		assert.ErrorIs(t, err, types.ErrNotConnected)
		_, err = s.GetDocuments()
		assert.ErrorIs(t, err, types.ErrNotConnected)
		assert.ErrorIs(t, s.SaveSnippet(&types.Snippet{ID: "a"}), types.ErrNotConnected)
		assert.ErrorIs(t, s.SeedIfEmpty(), types.ErrNotConnected)
	})

	t.Run("unbind returns the store to the unbound state", func(t *testing.T) {
		s, _ := newBoundStore(t)
		require.True(t, s.Bound())

		s.Unbind()
		assert.False(t, s.Bound())
		_, err := s.GetSnippets()
		assert.ErrorIs(t, err, types.ErrNotConnected)
	})

	t.Run("rebinding addresses the new backend", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "first workspace")

		b2 := dirblob.New(t.TempDir())
		require.NoError(t, b2.Connect())
		s.Bind(b2)

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Empty(t, snippets, "new backend starts never-written")
	})
}

func TestGetSnippets(t *testing.T) {
	t.Run("never-written workspace yields empty, not error", func(t *testing.T) {
		s, _ := newBoundStore(t)
		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Empty(t, snippets)
	})

	t.Run("malformed blob surfaces distinctly", func(t *testing.T) {
		s, b := newBoundStore(t)
		require.NoError(t, b.WriteBlob(types.SnippetsBlob, []byte("{not json")))

		_, err := s.GetSnippets()
		assert.ErrorIs(t, err, types.ErrMalformedData)
	})

	t.Run("legacy single-link records are migrated on read", func(t *testing.T) {
		s, b := newBoundStore(t)
		legacy := `[{"id":"old","text":"t","sourceUrl":"u","createdAt":"2023-01-01T00:00:00Z","tags":null,"documentIds":null,"documentId":"doc-1"}]`
		require.NoError(t, b.WriteBlob(types.SnippetsBlob, []byte(legacy)))

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, []string{"doc-1"}, snippets[0].DocumentLinks)
		assert.Equal(t, "doc-1", snippets[0].LegacyDocumentID)
		assert.NotNil(t, snippets[0].Tags)
	})
}

func TestSaveSnippet(t *testing.T) {
	t.Run("appends unseen ids and overwrites seen ones", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "one")
		addSnippet(t, s, "s2", "two")
		addSnippet(t, s, "s1", "one, edited")

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		require.Len(t, snippets, 2)
		assert.Equal(t, "one, edited", snippets[0].Text)
	})

	t.Run("recomputes the legacy mirror regardless of caller input", func(t *testing.T) {
		tests := []struct {
			name   string
			links  []string
			legacy string
			want   string
		}{
			{"mirror follows last link", []string{"d1", "d2"}, "", "d2"},
			{"caller-supplied mirror is discarded", []string{"d1"}, "bogus", "d1"},
			{"empty links clear the mirror", nil, "stale", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s, _ := newBoundStore(t)
				sn := &types.Snippet{
					ID:               "s1",
					Text:             "t",
					DocumentLinks:    tt.links,
					LegacyDocumentID: tt.legacy,
				}
				require.NoError(t, s.SaveSnippet(sn))

				snippets, err := s.GetSnippets()
				require.NoError(t, err)
				require.Len(t, snippets, 1)
				assert.Equal(t, tt.want, snippets[0].LegacyDocumentID)
			})
		}
	})

	t.Run("rejects an empty id", func(t *testing.T) {
		s, _ := newBoundStore(t)
		assert.ErrorIs(t, s.SaveSnippet(&types.Snippet{}), types.ErrInvalidID)
	})
}

func TestDeleteSnippet(t *testing.T) {
	t.Run("removes the record", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "one")
		addSnippet(t, s, "s2", "two")

		require.NoError(t, s.DeleteSnippet("s1"))

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, "s2", snippets[0].ID)
	})

	t.Run("does not cascade into document content", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "captured text")
		addDocument(t, s, "d1", "Doc", "notes")
		require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))

		require.NoError(t, s.DeleteSnippet("s1"))

		docs, err := s.GetDocuments()
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].Content, types.Marker("s1"),
			"orphaned marker stays; content is user-owned")
	})

	t.Run("missing id is not found", func(t *testing.T) {
		s, _ := newBoundStore(t)
		assert.ErrorIs(t, s.DeleteSnippet("ghost"), types.ErrNotFound)
	})
}

func TestLinkSnippetToDocument(t *testing.T) {
	t.Run("appends link, mirror, and excerpt", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "captured text")
		addDocument(t, s, "d1", "Doc", "existing notes")

		require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, snippets[0].DocumentLinks)
		assert.Equal(t, "d1", snippets[0].LegacyDocumentID)

		docs, err := s.GetDocuments()
		require.NoError(t, err)
		assert.Contains(t, docs[0].Content, "existing notes")
		assert.Contains(t, docs[0].Content, "> captured text")
		assert.Contains(t, docs[0].Content, types.Marker("s1"))
	})

	t.Run("second link is rejected and appends exactly once", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "captured text")
		addDocument(t, s, "d1", "Doc", "")

		require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))
		assert.ErrorIs(t, s.LinkSnippetToDocument("s1", "d1"), types.ErrAlreadyLinked)

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, snippets[0].DocumentLinks)
	})

	t.Run("unknown snippet or document is not found", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "t")
		addDocument(t, s, "d1", "Doc", "")

		assert.ErrorIs(t, s.LinkSnippetToDocument("ghost", "d1"), types.ErrNotFound)
		assert.ErrorIs(t, s.LinkSnippetToDocument("s1", "ghost"), types.ErrNotFound)
	})

	t.Run("newest link becomes the primary association", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "t")
		addDocument(t, s, "d1", "First", "")
		addDocument(t, s, "d2", "Second", "")

		require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))
		require.NoError(t, s.LinkSnippetToDocument("s1", "d2"))

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2"}, snippets[0].DocumentLinks)
		assert.Equal(t, "d2", snippets[0].LegacyDocumentID)
	})
}

func TestSaveDocumentRepair(t *testing.T) {
	t.Run("removed marker unlinks that snippet only", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "snipA", "alpha")
		addSnippet(t, s, "snipB", "beta")
		addDocument(t, s, "d1", "Doc", "")
		require.NoError(t, s.LinkSnippetToDocument("snipA", "d1"))
		require.NoError(t, s.LinkSnippetToDocument("snipB", "d1"))

		docs, err := s.GetDocuments()
		require.NoError(t, err)
		prev := *docs[0]

		// The user deletes B's excerpt by hand; A's marker survives.
		edited := *docs[0]
		edited.Content = "kept intro\n" + types.Marker("snipA")
		require.NoError(t, s.SaveDocument(&edited, &prev))

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		byID := map[string]*types.Snippet{}
		for _, sn := range snippets {
			byID[sn.ID] = sn
		}
		assert.Equal(t, []string{"d1"}, byID["snipA"].DocumentLinks, "A unaffected")
		assert.Empty(t, byID["snipB"].DocumentLinks, "B unlinked")
		assert.Empty(t, byID["snipB"].LegacyDocumentID)
	})

	t.Run("title-only save does not scan content", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "t")
		addDocument(t, s, "d1", "Doc", "")
		require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))

		docs, err := s.GetDocuments()
		require.NoError(t, err)
		prev := *docs[0]

		renamed := *docs[0]
		renamed.Title = "Renamed"
		require.NoError(t, s.SaveDocument(&renamed, &prev))

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, snippets[0].DocumentLinks)
	})

	t.Run("save without previous version skips repair", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "t", "d1")
		addDocument(t, s, "d1", "Doc", "no markers here")

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, snippets[0].DocumentLinks)
	})

	t.Run("stamps UpdatedAt on every save", func(t *testing.T) {
		s, _ := newBoundStore(t)
		doc := addDocument(t, s, "d1", "Doc", "")
		first := doc.UpdatedAt
		assert.False(t, first.IsZero())

		again := *doc
		require.NoError(t, s.SaveDocument(&again, nil))
		assert.False(t, again.UpdatedAt.Before(first))
	})
}

func TestDeleteDocument(t *testing.T) {
	t.Run("two-step unlink then delete restores cleanly", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "one")
		addSnippet(t, s, "s2", "two")
		addDocument(t, s, "d1", "Doc", "")
		require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))
		require.NoError(t, s.LinkSnippetToDocument("s2", "d1"))

		changed, err := s.UnlinkDocument("d1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"s1", "s2"}, changed)

		require.NoError(t, s.DeleteDocument("d1"))

		docs, err := s.GetDocuments()
		require.NoError(t, err)
		assert.Empty(t, docs)

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		for _, sn := range snippets {
			assert.Empty(t, sn.DocumentLinks)
			assert.Empty(t, sn.LegacyDocumentID)
		}
	})

	t.Run("delete alone leaves links untouched", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "one")
		addDocument(t, s, "d1", "Doc", "")
		require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))

		require.NoError(t, s.DeleteDocument("d1"))

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Equal(t, []string{"d1"}, snippets[0].DocumentLinks,
			"deletion never silently drops links; that is the unlink step's job")
	})

	t.Run("unlink with no matches changes nothing", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "one")

		changed, err := s.UnlinkDocument("ghost")
		require.NoError(t, err)
		assert.Empty(t, changed)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		s, _ := newBoundStore(t)
		assert.ErrorIs(t, s.DeleteDocument("ghost"), types.ErrNotFound)
	})
}

func TestSubmitCapture(t *testing.T) {
	t.Run("assigns id and creation time, no links", func(t *testing.T) {
		s, _ := newBoundStore(t)
		sn, err := s.SubmitCapture("quoted passage", "https://example.com/page", "Example", "https://example.com/favicon.ico")
		require.NoError(t, err)

		assert.NotEmpty(t, sn.ID)
		assert.False(t, sn.CreatedAt.IsZero())
		assert.Empty(t, sn.DocumentLinks)
		assert.Empty(t, sn.LegacyDocumentID)

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		require.Len(t, snippets, 1)
		assert.Equal(t, "quoted passage", snippets[0].Text)
		assert.Equal(t, "Example", snippets[0].SourceTitle)
	})
}

func TestExportAll(t *testing.T) {
	t.Run("snapshots both collections without side effects", func(t *testing.T) {
		s, _ := newBoundStore(t)
		addSnippet(t, s, "s1", "one")
		addDocument(t, s, "d1", "Doc", "")

		export, err := s.ExportAll()
		require.NoError(t, err)
		assert.Len(t, export.Snippets, 1)
		assert.Len(t, export.Documents, 1)

		// Exporting a never-written workspace is empty, not an error.
		b2 := dirblob.New(t.TempDir())
		require.NoError(t, b2.Connect())
		s.Bind(b2)
		export, err = s.ExportAll()
		require.NoError(t, err)
		assert.Empty(t, export.Snippets)
		assert.Empty(t, export.Documents)
	})
}

// The store behaves identically over the embedded backend; cover the
// CRUD surface once against kvblob to pin the contract down.
func TestStoreOverEmbeddedBackend(t *testing.T) {
	b := kvblob.New(t.TempDir())
	require.NoError(t, b.Connect())
	defer b.Close()

	s := New(logger.NewNop())
	s.Bind(b)

	addSnippet(t, s, "s1", "captured")
	addDocument(t, s, "d1", "Doc", "")
	require.NoError(t, s.LinkSnippetToDocument("s1", "d1"))
	assert.ErrorIs(t, s.LinkSnippetToDocument("s1", "d1"), types.ErrAlreadyLinked)

	snippets, err := s.GetSnippets()
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, "d1", snippets[0].LegacyDocumentID)

	require.NoError(t, s.DeleteSnippet("s1"))
	snippets, err = s.GetSnippets()
	require.NoError(t, err)
	assert.Empty(t, snippets)
}
