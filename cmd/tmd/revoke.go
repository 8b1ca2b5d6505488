package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/tmd"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke <doc.tmd> --key <name>",
	Short: "Mark the document Revoked and reseal it",
	Args:  cobra.ExactArgs(1),
	RunE:  runRevoke,
}

var revokeKeyName string
var revokeVaultDir string

func init() {
	addKeystoreFlag(revokeCmd)
	revokeCmd.Flags().StringVar(&revokeKeyName, "key", "", "identity to sign with (required)")
	_ = revokeCmd.MarkFlagRequired("key")
	addVaultFlag(revokeCmd, &revokeVaultDir)
}

func runRevoke(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	ks, err := openKeystore()
	if err != nil {
		return err
	}
	kp, err := ks.Load(revokeKeyName)
	if err != nil {
		return fmt.Errorf("load key %q: %w", revokeKeyName, err)
	}

	doc.FrontMatter.DocStatus = tmd.Revoked
	doc.Seal(kp)

	if err := writeDoc(path, doc); err != nil {
		return err
	}
	fmt.Printf("Revoked    : %s\n", path)
	return commitToVault(revokeVaultDir, path, kp, doc)
}
