// Document commands: create, list, show, edit, delete.
package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sidenote-labs/satchel/pkg/types"
)

var (
	docTitle   string
	docContent string
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage documents",
}

var docCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a document",
	Args:  cobra.NoArgs,
	RunE:  runDocCreate,
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the active workspace",
	Args:  cobra.NoArgs,
	RunE:  runDocList,
}

var docShowCmd = &cobra.Command{
	Use:   "show DOCUMENT",
	Short: "Print a document's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocShow,
}

var docEditCmd = &cobra.Command{
	Use:   "edit DOCUMENT",
	Short: "Edit a document's title or content",
	Long: `Edit replaces a document's title and/or content. Removing a snippet's
excerpt from the content unlinks that snippet from the document on save.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocEdit,
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete DOCUMENT",
	Short: "Delete a document and unlink its snippets",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocDelete,
}

func init() {
	docCreateCmd.Flags().StringVar(&docTitle, "title", "", "document title (required)")
	docCreateCmd.Flags().StringVar(&docContent, "content", "", "initial content (default: empty, or stdin with --stdin)")
	_ = docCreateCmd.MarkFlagRequired("title")

	docEditCmd.Flags().StringVar(&docTitle, "title", "", "replacement title")
	docEditCmd.Flags().StringVar(&docContent, "content", "", "replacement content")

	docCmd.AddCommand(docCreateCmd)
	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docEditCmd)
	docCmd.AddCommand(docDeleteCmd)
}

func runDocCreate(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	doc := &types.Document{
		ID:        newDocID(),
		Title:     docTitle,
		Content:   docContent,
		CreatedAt: time.Now().UTC(),
	}
	if err := appStore.SaveDocument(doc, nil); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(doc)
	}
	fmt.Printf("Created document %s: %s\n", shortID(doc.ID), doc.Title)
	return nil
}

func runDocList(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	docs, err := appStore.GetDocuments()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents yet.")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("%s  %-30s updated %s\n", shortID(doc.ID), doc.Title, doc.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocShow(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	doc, err := findDocument(args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(doc)
	}
	fmt.Printf("# %s\n\n%s\n", doc.Title, doc.Content)
	return nil
}

func runDocEdit(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	doc, err := findDocument(args[0])
	if err != nil {
		return err
	}

	// The unmodified version drives association repair on save.
	prev := *doc

	if docTitle != "" {
		doc.Title = docTitle
	}
	if cmd.Flags().Changed("content") {
		doc.Content = docContent
	}

	if err := appStore.SaveDocument(doc, &prev); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(doc)
	}
	fmt.Printf("Updated document %s\n", shortID(doc.ID))
	return nil
}

// runDocDelete performs the explicit two-step cascade: unlink every
// snippet referencing the document, then delete the document itself.
// Keeping the steps separate at the call site means an undo could
// restore both the document and each link it had.
func runDocDelete(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	doc, err := findDocument(args[0])
	if err != nil {
		return err
	}

	unlinked, err := appStore.UnlinkDocument(doc.ID)
	if err != nil {
		return err
	}
	if err := appStore.DeleteDocument(doc.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted document %s (%d snippet(s) unlinked)\n", doc.Title, len(unlinked))
	return nil
}

// newDocID generates a UUID v7, falling back to v4.
func newDocID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
