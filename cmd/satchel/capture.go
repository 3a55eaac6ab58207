// Capture command: the inbound path for new snippets. The browser
// extension's relay calls this with the highlighted text and its source;
// the store assigns id and creation time.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	captureText    string
	captureURL     string
	captureTitle   string
	captureFavicon string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a snippet of text",
	Long: `Capture saves a piece of highlighted text into the active workspace.
Text comes from --text or stdin.

Example:
  satchel capture --url https://example.com/post --title "A post" --text "the highlight"
  pbpaste | satchel capture --url https://example.com/post`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureText, "text", "", "captured text (default: read stdin)")
	captureCmd.Flags().StringVar(&captureURL, "url", "", "source page URL (required)")
	captureCmd.Flags().StringVar(&captureTitle, "title", "", "source page title")
	captureCmd.Flags().StringVar(&captureFavicon, "favicon", "", "source favicon URL")
	_ = captureCmd.MarkFlagRequired("url")
}

func runCapture(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	text, err := readTextArg(captureText)
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("nothing to capture: empty text")
	}

	sn, err := appStore.SubmitCapture(text, captureURL, captureTitle, captureFavicon)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(sn)
	}
	fmt.Printf("Captured %s: %s\n", shortID(sn.ID), excerpt(sn.Text, 60))
	return nil
}
