// Export command: dump the active workspace to a JSON file.
package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidenote-labs/satchel/internal/dirblob"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active workspace as JSON",
	Long: `Export writes every snippet and document of the active workspace to a
single JSON file. The file is self-contained and backend-independent.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: satchel-export-<date>.json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := requireBound(); err != nil {
		return err
	}

	export, err := appStore.ExportAll()
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("satchel-export-%s.json", time.Now().Format("2006-01-02"))
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	if err := dirblob.WriteFileAtomic(out, data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	fmt.Printf("Exported %d snippet(s) and %d document(s) to %s\n",
		len(export.Snippets), len(export.Documents), out)
	return nil
}
