package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Document is a user-authored text container that can embed snippet
// excerpts. An embedded excerpt carries an inline marker of the form
// [[snippet:<id>]]; the marker is the content-side half of the
// snippet/document association.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// markerPattern matches inline snippet markers. IDs are opaque; anything
// up to the closing bracket counts.
var markerPattern = regexp.MustCompile(`\[\[snippet:([^\]]+)\]\]`)

// MarkerIDs returns the set of snippet IDs whose markers appear in the
// given content. Content is user-owned text; markers can be deleted by
// hand, which is exactly the drift association repair looks for.
func MarkerIDs(content string) map[string]bool {
	ids := make(map[string]bool)
	for _, m := range markerPattern.FindAllStringSubmatch(content, -1) {
		ids[m[1]] = true
	}
	return ids
}

// Marker returns the inline marker for a snippet ID.
func Marker(snippetID string) string {
	return fmt.Sprintf("[[snippet:%s]]", snippetID)
}

// RenderExcerpt formats a snippet as a quoted block tagged with its
// marker, ready to append to a document's content.
func RenderExcerpt(s *Snippet) string {
	var b strings.Builder
	b.WriteString("\n\n")
	for _, line := range strings.Split(s.Text, "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	source := s.SourceTitle
	if source == "" {
		source = s.SourceURL
	}
	if source != "" {
		fmt.Fprintf(&b, ">\n> -- %s\n", source)
	}
	b.WriteString(Marker(s.ID))
	b.WriteString("\n")
	return b.String()
}

// AppendExcerpt returns the document content with the snippet's excerpt
// appended.
func AppendExcerpt(content string, s *Snippet) string {
	return content + RenderExcerpt(s)
}
