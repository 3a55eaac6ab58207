// Shared helpers for satchel CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sidenote-labs/satchel/pkg/types"
)

// requireBound returns an error when no workspace is currently bound.
func requireBound() error {
	if !appStore.Bound() {
		return errors.New("no active workspace: run 'satchel workspace create' or 'satchel workspace switch'")
	}
	return nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// findWorkspace resolves an id or display name to a workspace record.
func findWorkspace(ref string) (types.Workspace, bool) {
	for _, ws := range appRegistry.List() {
		if ws.ID == ref || ws.Name == ref {
			return ws, true
		}
	}
	return types.Workspace{}, false
}

// findSnippet resolves an id, or a unique id prefix, to a snippet.
func findSnippet(ref string) (*types.Snippet, error) {
	snippets, err := appStore.GetSnippets()
	if err != nil {
		return nil, err
	}

	var match *types.Snippet
	for _, sn := range snippets {
		if sn.ID == ref {
			return sn, nil
		}
		if strings.HasPrefix(sn.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("snippet id %q is ambiguous", ref)
			}
			match = sn
		}
	}
	if match == nil {
		return nil, fmt.Errorf("snippet %q: %w", ref, types.ErrNotFound)
	}
	return match, nil
}

// findDocument resolves an id, a unique id prefix, or a title to a
// document.
func findDocument(ref string) (*types.Document, error) {
	docs, err := appStore.GetDocuments()
	if err != nil {
		return nil, err
	}

	var match *types.Document
	for _, doc := range docs {
		if doc.ID == ref {
			return doc, nil
		}
		if strings.HasPrefix(doc.ID, ref) || doc.Title == ref {
			if match != nil {
				return nil, fmt.Errorf("document %q is ambiguous", ref)
			}
			match = doc
		}
	}
	if match == nil {
		return nil, fmt.Errorf("document %q: %w", ref, types.ErrNotFound)
	}
	return match, nil
}

// readTextArg returns flagValue, or all of stdin when the flag is empty.
func readTextArg(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// shortID trims an id for table output.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// excerpt trims text for table output.
func excerpt(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	return text[:max-3] + "..."
}
