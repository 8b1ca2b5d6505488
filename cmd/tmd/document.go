package main

import (
	"fmt"
	"os"

	"github.com/tracemd/tmd/internal/tmd"
)

func readDoc(path string) (*tmd.TracedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := tmd.ParseTMD(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func writeDoc(path string, doc *tmd.TracedDocument) error {
	rendered, err := doc.Render()
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
