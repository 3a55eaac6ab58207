package types

import "time"

// Snippet is a captured piece of highlighted text with source metadata.
type Snippet struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	SourceURL     string    `json:"sourceUrl"`
	SourceTitle   string    `json:"sourceTitle,omitempty"`
	SourceFavicon string    `json:"sourceFavicon,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	Tags          []string  `json:"tags"`

	// DocumentLinks lists the documents this snippet has been appended to,
	// in insertion order. The last entry is the most recent association.
	DocumentLinks []string `json:"documentIds"`

	// LegacyDocumentID mirrors the last entry of DocumentLinks for older
	// consumers that expect a single link. It is derived, never
	// authoritative; SyncLegacyLink recomputes it on every mutation.
	LegacyDocumentID string `json:"documentId,omitempty"`

	Color string `json:"color,omitempty"`
}

// SyncLegacyLink recomputes the single-link mirror from DocumentLinks.
// Whatever the caller supplied for LegacyDocumentID is discarded.
func (s *Snippet) SyncLegacyLink() {
	if len(s.DocumentLinks) == 0 {
		s.LegacyDocumentID = ""
		return
	}
	s.LegacyDocumentID = s.DocumentLinks[len(s.DocumentLinks)-1]
}

// Normalize migrates a legacy single-link record to the multi-link model
// and restores the mirror invariant. Records written before the multi-link
// model carry only LegacyDocumentID; on read it becomes the sole entry of
// DocumentLinks.
func (s *Snippet) Normalize() {
	if len(s.DocumentLinks) == 0 && s.LegacyDocumentID != "" {
		s.DocumentLinks = []string{s.LegacyDocumentID}
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	s.SyncLegacyLink()
}

// LinkedTo reports whether the snippet is linked to the given document.
func (s *Snippet) LinkedTo(documentID string) bool {
	for _, id := range s.DocumentLinks {
		if id == documentID {
			return true
		}
	}
	return false
}

// Unlink removes the given document from DocumentLinks and recomputes the
// mirror. Reports whether a link was removed.
func (s *Snippet) Unlink(documentID string) bool {
	for i, id := range s.DocumentLinks {
		if id == documentID {
			s.DocumentLinks = append(s.DocumentLinks[:i], s.DocumentLinks[i+1:]...)
			s.SyncLegacyLink()
			return true
		}
	}
	return false
}
