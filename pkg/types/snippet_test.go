package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncLegacyLink(t *testing.T) {
	tests := []struct {
		name  string
		links []string
		given string
		want  string
	}{
		{"empty links clear the mirror", nil, "stale", ""},
		{"single link mirrors itself", []string{"d1"}, "", "d1"},
		{"mirror follows the last link", []string{"d1", "d2", "d3"}, "d1", "d3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Snippet{DocumentLinks: tt.links, LegacyDocumentID: tt.given}
			s.SyncLegacyLink()
			assert.Equal(t, tt.want, s.LegacyDocumentID)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("migrates a legacy single-link record", func(t *testing.T) {
		s := &Snippet{LegacyDocumentID: "d1"}
		s.Normalize()
		assert.Equal(t, []string{"d1"}, s.DocumentLinks)
		assert.Equal(t, "d1", s.LegacyDocumentID)
	})

	t.Run("multi-link records keep their order", func(t *testing.T) {
		s := &Snippet{DocumentLinks: []string{"d1", "d2"}, LegacyDocumentID: "bogus"}
		s.Normalize()
		assert.Equal(t, []string{"d1", "d2"}, s.DocumentLinks)
		assert.Equal(t, "d2", s.LegacyDocumentID, "links win over the mirror")
	})

	t.Run("nil tags become an empty set", func(t *testing.T) {
		s := &Snippet{}
		s.Normalize()
		assert.NotNil(t, s.Tags)
		assert.Empty(t, s.Tags)
	})
}

func TestUnlink(t *testing.T) {
	t.Run("removes the link and recomputes the mirror", func(t *testing.T) {
		s := &Snippet{DocumentLinks: []string{"d1", "d2"}}
		s.SyncLegacyLink()

		assert.True(t, s.Unlink("d2"))
		assert.Equal(t, []string{"d1"}, s.DocumentLinks)
		assert.Equal(t, "d1", s.LegacyDocumentID)

		assert.True(t, s.Unlink("d1"))
		assert.Empty(t, s.DocumentLinks)
		assert.Empty(t, s.LegacyDocumentID)
	})

	t.Run("absent id reports false", func(t *testing.T) {
		s := &Snippet{DocumentLinks: []string{"d1"}}
		assert.False(t, s.Unlink("ghost"))
		assert.Equal(t, []string{"d1"}, s.DocumentLinks)
	})
}

func TestLinkedTo(t *testing.T) {
	s := &Snippet{DocumentLinks: []string{"d1", "d2"}}
	assert.True(t, s.LinkedTo("d1"))
	assert.True(t, s.LinkedTo("d2"))
	assert.False(t, s.LinkedTo("d3"))
}
