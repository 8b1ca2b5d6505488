package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sealCmd = &cobra.Command{
	Use:   "seal <doc.tmd> --key <name>",
	Short: "Compute the version hash, sign it, and mark the document Published",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeal,
}

var sealKeyName string
var sealVaultDir string

func init() {
	addKeystoreFlag(sealCmd)
	sealCmd.Flags().StringVar(&sealKeyName, "key", "", "identity to sign with (required)")
	_ = sealCmd.MarkFlagRequired("key")
	addVaultFlag(sealCmd, &sealVaultDir)
}

func runSeal(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	ks, err := openKeystore()
	if err != nil {
		return err
	}
	kp, err := ks.Load(sealKeyName)
	if err != nil {
		return fmt.Errorf("load key %q: %w", sealKeyName, err)
	}

	doc.Seal(kp)
	if err := writeDoc(path, doc); err != nil {
		return err
	}

	fmt.Printf("Sealed     : %s\n", path)
	fmt.Printf("Version    : %d\n", doc.FrontMatter.DocVersion)
	fmt.Printf("Hash       : %s\n", doc.FrontMatter.VersionHash)
	return commitToVault(sealVaultDir, path, kp, doc)
}
