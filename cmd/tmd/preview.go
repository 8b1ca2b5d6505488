package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/render"
)

var previewCmd = &cobra.Command{
	Use:   "preview <doc.tmd>",
	Short: "Render the document's body to HTML for display",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	doc, err := readDoc(args[0])
	if err != nil {
		return err
	}
	fmt.Print(render.Preview(doc))
	return nil
}
