package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/tmd"
	"github.com/tracemd/tmd/internal/vault"
)

// addVaultFlag is shared by every subcommand that can commit a sealed
// document into a vault's git history alongside rewriting it in place.
func addVaultFlag(cmd *cobra.Command, dest *string) {
	cmd.Flags().StringVar(dest, "vault", "", "vault directory to commit the sealed document into (optional)")
}

// commitToVault opens the vault at dir and commits doc under its basename
// relative to the vault root. It is a no-op when dir is empty: committing
// to a vault is something a caller opts into, never automatic.
func commitToVault(dir string, path string, kp tmd.KeyPair, doc *tmd.TracedDocument) error {
	if dir == "" {
		return nil
	}
	v, err := vault.Open(dir)
	if err != nil {
		return fmt.Errorf("open vault %s: %w", dir, err)
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		rel = filepath.Base(path)
	}
	if err := v.CommitDocument(kp, rel, doc); err != nil {
		return fmt.Errorf("commit %s to vault: %w", rel, err)
	}
	fmt.Printf("Committed  : %s -> %s\n", rel, dir)
	return nil
}
