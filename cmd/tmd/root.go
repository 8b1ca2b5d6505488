// Command tmd implements the traced-document CLI: create, seal, verify,
// update, publish, and revoke .tmd documents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/keystore"
)

var rootCmd = &cobra.Command{
	Use:   "tmd",
	Short: "tmd manages traced, cryptographically sealed documents",
	Long: `tmd creates, seals, verifies, and updates traced documents: Markdown-like
files whose claims are backed by evidence hashes and whose versions are
chained and Ed25519-signed.`,
}

func main() {
	Execute()
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tmd:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(revokeCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(vaultCmd)
}

// keystoreDir holds the --keystore flag shared by every subcommand that
// needs to load a named identity.
var keystoreDir string

func addKeystoreFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&keystoreDir, "keystore", keystore.DefaultDir(), "directory holding named identities")
}

func openKeystore() (*keystore.Keystore, error) {
	return keystore.Open(keystoreDir)
}
