package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/vault"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage a git-backed vault of sealed documents",
}

var vaultInitCmd = &cobra.Command{
	Use:   "init <dir> --key <name>",
	Short: "Initialize a new vault directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultInit,
}

var vaultInitKeyName string
var vaultInitName string
var vaultInitDescription string

func init() {
	addKeystoreFlag(vaultInitCmd)
	vaultInitCmd.Flags().StringVar(&vaultInitKeyName, "key", "", "admin identity for the vault (required)")
	vaultInitCmd.Flags().StringVar(&vaultInitName, "name", "", "vault name")
	vaultInitCmd.Flags().StringVar(&vaultInitDescription, "description", "", "vault description")
	_ = vaultInitCmd.MarkFlagRequired("key")
	vaultCmd.AddCommand(vaultInitCmd)
}

func runVaultInit(cmd *cobra.Command, args []string) error {
	dir := args[0]

	ks, err := openKeystore()
	if err != nil {
		return err
	}
	kp, err := ks.Load(vaultInitKeyName)
	if err != nil {
		return fmt.Errorf("load key %q: %w", vaultInitKeyName, err)
	}

	meta := vault.Meta{Name: vaultInitName, Description: vaultInitDescription}
	if _, err := vault.Init(dir, meta, kp); err != nil {
		return fmt.Errorf("init vault %s: %w", dir, err)
	}
	fmt.Printf("Vault initialized: %s\n", dir)
	return nil
}
