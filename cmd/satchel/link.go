// Link command: paste a snippet into a document.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sidenote-labs/satchel/pkg/types"
)

var linkCmd = &cobra.Command{
	Use:   "link SNIPPET DOCUMENT",
	Short: "Paste a snippet into a document",
	Long: `Link appends the snippet's excerpt block to the document and records
the association on the snippet. A snippet can be linked into many
documents; linking the same pair twice is rejected.`,
	Args: cobra.ExactArgs(2),
	RunE: runLink,
}

func runLink(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	sn, err := findSnippet(args[0])
	if err != nil {
		return err
	}
	doc, err := findDocument(args[1])
	if err != nil {
		return err
	}

	if err := appStore.LinkSnippetToDocument(sn.ID, doc.ID); err != nil {
		if errors.Is(err, types.ErrAlreadyLinked) {
			return fmt.Errorf("snippet %s is already in document %q", shortID(sn.ID), doc.Title)
		}
		return err
	}

	fmt.Printf("Linked snippet %s into %s\n", shortID(sn.ID), doc.Title)
	return nil
}
