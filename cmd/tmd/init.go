package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/registry"
	"github.com/tracemd/tmd/internal/tmd"
)

var initCmd = &cobra.Command{
	Use:   "init <title> <output.tmd>",
	Short: "Create a new, unsealed traced document",
	Args:  cobra.ExactArgs(2),
	RunE:  runInit,
}

var initAuthor string

func init() {
	initCmd.Flags().StringVar(&initAuthor, "author", "", "document author")
}

func runInit(cmd *cobra.Command, args []string) error {
	title, output := args[0], args[1]

	doc := tmd.New(title, "")
	doc.FrontMatter.ProtocolVersion = registry.Latest()
	if initAuthor != "" {
		doc.WithAuthor(initAuthor)
	}

	rendered, err := doc.Render()
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	fmt.Printf("Created    : %s\n", output)
	fmt.Printf("Title      : %s\n", title)
	fmt.Printf("Id         : %s\n", doc.FrontMatter.ID)
	fmt.Printf("Protocol   : %s\n", doc.FrontMatter.ProtocolVersion)
	return nil
}
