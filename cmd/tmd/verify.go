package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tracemd/tmd/internal/compiler"
	"github.com/tracemd/tmd/internal/resolver"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <doc.tmd>",
	Short: "Run the full include/trace/signature verification pass",
	Long: `Verify follows every include, checks every trace's evidence hash and
extracted value, and checks the document's signature. With --strict, any
warning is treated as a failing exit code.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var verifyStrict bool
var verifyRoot string

func init() {
	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "treat warnings as failures")
	verifyCmd.Flags().StringVar(&verifyRoot, "root", "", "resolver root (default: the document's own directory)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	root := verifyRoot
	if root == "" {
		root = filepath.Dir(path)
	}
	res, err := resolver.New(root)
	if err != nil {
		return fmt.Errorf("resolver: %w", err)
	}

	c := compiler.New(res)
	report, err := c.Verify(doc)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	for _, w := range report.Warnings {
		fmt.Printf("warning: %v\n", w)
	}
	for _, e := range report.Errors {
		fmt.Printf("error: %v\n", e)
	}

	if !report.OK() || (verifyStrict && len(report.Warnings) > 0) {
		return fmt.Errorf("verification failed: %d error(s), %d warning(s)", len(report.Errors), len(report.Warnings))
	}
	fmt.Println("OK")
	return nil
}
