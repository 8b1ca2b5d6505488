package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/resolver"
)

var updateCmd = &cobra.Command{
	Use:   "update <doc.tmd>",
	Short: "Refresh trace evidence hashes, or demote a sealed document back to draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var updateTraceOnly bool
var updateRoot string

func init() {
	updateCmd.Flags().BoolVar(&updateTraceOnly, "trace-only", false, "only refresh trace hashes, leave doc_status untouched")
	updateCmd.Flags().StringVar(&updateRoot, "root", "", "resolver root for trace sources (default: the document's own directory)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	root := updateRoot
	if root == "" {
		root = filepath.Dir(path)
	}
	res, err := resolver.New(root)
	if err != nil {
		return fmt.Errorf("resolver: %w", err)
	}

	if err := doc.UpdateAllTraces(res); err != nil {
		return fmt.Errorf("update traces: %w", err)
	}
	if !updateTraceOnly {
		doc.Update()
	}

	if err := writeDoc(path, doc); err != nil {
		return err
	}
	fmt.Printf("Updated    : %s\n", path)
	fmt.Printf("Status     : %s\n", doc.FrontMatter.DocStatus)
	return nil
}
