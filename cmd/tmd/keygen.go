package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen <name>",
	Short: "Generate a new named Ed25519 identity in the keystore",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeygen,
}

func init() {
	addKeystoreFlag(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	name := args[0]

	ks, err := openKeystore()
	if err != nil {
		return err
	}
	kp, err := ks.Generate(name)
	if err != nil {
		return fmt.Errorf("generate key %q: %w", name, err)
	}

	fmt.Printf("Identity    : %s\n", name)
	fmt.Printf("Public key  : %s\n", hex.EncodeToString(kp.Public))
	fmt.Printf("Keystore    : %s\n", keystoreDir)
	return nil
}
