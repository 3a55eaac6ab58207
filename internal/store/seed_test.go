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

func TestSeedIfEmpty(t *testing.T) {
	t.Run("seeds three snippets and two documents", func(t *testing.T) {
		s, _ := newBoundStore(t)
		require.NoError(t, s.SeedIfEmpty())

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Len(t, snippets, 3)

		docs, err := s.GetDocuments()
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("seeded links and markers are consistent", func(t *testing.T) {
		s, _ := newBoundStore(t)
		require.NoError(t, s.SeedIfEmpty())

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		docs, err := s.GetDocuments()
		require.NoError(t, err)

		markersByDoc := make(map[string]map[string]bool, len(docs))
		for _, doc := range docs {
			markersByDoc[doc.ID] = types.MarkerIDs(doc.Content)
		}

		for _, sn := range snippets {
			require.Len(t, sn.DocumentLinks, 1)
			docID := sn.DocumentLinks[0]
			assert.Equal(t, docID, sn.LegacyDocumentID, "mirror invariant on seeded data")
			assert.True(t, markersByDoc[docID][sn.ID], "marker present in linked document")
		}
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		s, _ := newBoundStore(t)
		require.NoError(t, s.SeedIfEmpty())
		first, err := s.GetSnippets()
		require.NoError(t, err)

		require.NoError(t, s.SeedIfEmpty())
		second, err := s.GetSnippets()
		require.NoError(t, err)

		require.Len(t, second, 3)
		assert.Equal(t, first[0].ID, second[0].ID, "no regeneration on second call")
	})

	t.Run("a workspace emptied by hand is not re-seeded", func(t *testing.T) {
		s, _ := newBoundStore(t)
		require.NoError(t, s.SeedIfEmpty())

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		for _, sn := range snippets {
			require.NoError(t, s.DeleteSnippet(sn.ID))
		}

		require.NoError(t, s.SeedIfEmpty())
		snippets, err = s.GetSnippets()
		require.NoError(t, err)
		assert.Empty(t, snippets, "written-empty is not never-written")
	})

	t.Run("never overwrites a corrupt blob", func(t *testing.T) {
		s, b := newBoundStore(t)
		require.NoError(t, b.WriteBlob(types.SnippetsBlob, []byte("{corrupt")))

		err := s.SeedIfEmpty()
		assert.ErrorIs(t, err, types.ErrMalformedData)

		raw, readErr := b.ReadBlob(types.SnippetsBlob)
		require.NoError(t, readErr)
		assert.Equal(t, []byte("{corrupt"), raw, "corrupt-but-real data left intact")
	})

	t.Run("seeds each workspace independently", func(t *testing.T) {
		s, _ := newBoundStore(t)
		require.NoError(t, s.SeedIfEmpty())

		// Mutate the first workspace.
		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		require.NoError(t, s.DeleteSnippet(snippets[0].ID))
		remaining, err := s.GetSnippets()
		require.NoError(t, err)
		require.Len(t, remaining, 2)

		// A fresh workspace still gets the full starter set.
		b2 := dirblob.New(t.TempDir())
		require.NoError(t, b2.Connect())
		s.Bind(b2)
		require.NoError(t, s.SeedIfEmpty())

		snippets, err = s.GetSnippets()
		require.NoError(t, err)
		assert.Len(t, snippets, 3)
		docs, err := s.GetDocuments()
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("seeds over the embedded backend too", func(t *testing.T) {
		b := kvblob.New(t.TempDir())
		require.NoError(t, b.Connect())
		defer b.Close()

		s := New(logger.NewNop())
		s.Bind(b)
		require.NoError(t, s.SeedIfEmpty())
		require.NoError(t, s.SeedIfEmpty())

		snippets, err := s.GetSnippets()
		require.NoError(t, err)
		assert.Len(t, snippets, 3)
	})
}
