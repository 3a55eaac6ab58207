// Snippet commands: list, edit, delete.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	snippetText  string
	snippetColor string
	snippetTags  string
)

var snippetCmd = &cobra.Command{
	Use:   "snippet",
	Short: "Manage captured snippets",
}

var snippetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snippets in the active workspace",
	Args:  cobra.NoArgs,
	RunE:  runSnippetList,
}

var snippetEditCmd = &cobra.Command{
	Use:   "edit SNIPPET",
	Short: "Edit a snippet's text, tags, or color",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnippetEdit,
}

var snippetDeleteCmd = &cobra.Command{
	Use:   "delete SNIPPET",
	Short: "Delete a snippet",
	Long: `Delete removes a snippet from the workspace. Excerpts already pasted
into documents keep their text; only the snippet record goes away.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnippetDelete,
}

func init() {
	snippetEditCmd.Flags().StringVar(&snippetText, "text", "", "replacement text")
	snippetEditCmd.Flags().StringVar(&snippetColor, "color", "", "display tint")
	snippetEditCmd.Flags().StringVar(&snippetTags, "tags", "", "comma-separated tags")

	snippetCmd.AddCommand(snippetListCmd)
	snippetCmd.AddCommand(snippetEditCmd)
	snippetCmd.AddCommand(snippetDeleteCmd)
}

func runSnippetList(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	snippets, err := appStore.GetSnippets()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(snippets)
	}

	if len(snippets) == 0 {
		fmt.Println("No snippets captured yet.")
		return nil
	}
	for _, sn := range snippets {
		links := ""
		if n := len(sn.DocumentLinks); n > 0 {
			links = fmt.Sprintf(" [%d doc(s)]", n)
		}
		fmt.Printf("%s  %s%s\n", shortID(sn.ID), excerpt(sn.Text, 70), links)
	}
	return nil
}

func runSnippetEdit(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	sn, err := findSnippet(args[0])
	if err != nil {
		return err
	}

	if snippetText != "" {
		sn.Text = snippetText
	}
	if snippetColor != "" {
		sn.Color = snippetColor
	}
	if snippetTags != "" {
		var tags []string
		for _, tag := range strings.Split(snippetTags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		sn.Tags = tags
	}

	if err := appStore.SaveSnippet(sn); err != nil {
		return err
	}

	if flagJSON {
		return printJSON(sn)
	}
	fmt.Printf("Updated snippet %s\n", shortID(sn.ID))
	return nil
}

func runSnippetDelete(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	sn, err := findSnippet(args[0])
	if err != nil {
		return err
	}

	if err := appStore.DeleteSnippet(sn.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted snippet %s\n", shortID(sn.ID))
	return nil
}
