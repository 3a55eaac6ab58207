// Package main provides the satchel CLI: capture highlighted text into a
// local workspace and organize snippets into documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
