package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/compiler"
	"github.com/tracemd/tmd/internal/resolver"
)

var publishCmd = &cobra.Command{
	Use:   "publish <doc.tmd> --key <name>",
	Short: "Verify the document and, if it passes, seal it as Published",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublish,
}

var publishKeyName string
var publishRoot string
var publishVaultDir string

func init() {
	addKeystoreFlag(publishCmd)
	publishCmd.Flags().StringVar(&publishKeyName, "key", "", "identity to sign with (required)")
	publishCmd.Flags().StringVar(&publishRoot, "root", "", "resolver root (default: the document's own directory)")
	_ = publishCmd.MarkFlagRequired("key")
	addVaultFlag(publishCmd, &publishVaultDir)
}

func runPublish(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	root := publishRoot
	if root == "" {
		root = filepath.Dir(path)
	}
	res, err := resolver.New(root)
	if err != nil {
		return fmt.Errorf("resolver: %w", err)
	}

	ks, err := openKeystore()
	if err != nil {
		return err
	}
	kp, err := ks.Load(publishKeyName)
	if err != nil {
		return fmt.Errorf("load key %q: %w", publishKeyName, err)
	}

	c := compiler.New(res)
	published, err := c.Publish(doc, kp)
	if err != nil {
		return fmt.Errorf("publish %s: %w", path, err)
	}

	if err := writeDoc(path, published); err != nil {
		return err
	}
	fmt.Printf("Published  : %s\n", path)
	fmt.Printf("Version    : %d\n", published.FrontMatter.DocVersion)
	return commitToVault(publishVaultDir, path, kp, published)
}
