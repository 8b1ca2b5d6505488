package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/registry"
)

var statusCmd = &cobra.Command{
	Use:   "status <doc.tmd>",
	Short: "Print lifecycle and seal metadata without performing a full verification",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	fm := doc.FrontMatter
	protoStatus, known := registry.Lookup(fm.ProtocolVersion)

	fmt.Printf("Title           : %s\n", fm.Title)
	fmt.Printf("Id              : %s\n", fm.ID)
	fmt.Printf("Doc status      : %s\n", fm.DocStatus)
	fmt.Printf("Doc version     : %d\n", fm.DocVersion)
	fmt.Printf("Protocol        : %s", fm.ProtocolVersion)
	if known {
		fmt.Printf(" (%s)\n", protoStatus)
	} else {
		fmt.Printf(" (unknown)\n")
	}
	fmt.Printf("Sealed          : %t\n", fm.VersionHash != "" && fm.Signature != "")
	if fm.PrevVersionHash != "" {
		fmt.Printf("Prev version    : %s\n", fm.PrevVersionHash)
	}
	return nil
}
