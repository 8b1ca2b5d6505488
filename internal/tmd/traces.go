package tmd

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/tracemd/tmd/internal/blocks"
)

// SourceReader resolves a trace's source reference to bytes. It is
// satisfied structurally by *resolver.Resolver, without tmd importing
// internal/resolver (that package imports tmd to parse included
// documents, so the dependency must run the other way).
type SourceReader interface {
	ResolveBytes(source string) ([]byte, error)
}

// RefreshHash re-reads t.Source through reader and updates t.Hash to the
// source's current sha256.
func RefreshHash(t *blocks.TraceBlock, reader SourceReader) error {
	content, err := reader.ResolveBytes(t.Source)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(content)
	t.Hash = "sha256:" + hex.EncodeToString(sum[:])
	return nil
}

// UpdateAllTraces rewrites every trace section's hash in place per
// spec.md §4.5. Paragraphs and includes pass through verbatim. This never
// touches version_hash or signature — only a subsequent Seal recomputes
// those.
func (d *TracedDocument) UpdateAllTraces(reader SourceReader) error {
	sections := d.Sections()
	for i, s := range sections {
		tr, ok := s.(blocks.Trace)
		if !ok {
			continue
		}
		if err := RefreshHash(&tr.Block, reader); err != nil {
			return ErrResolution("update trace hash for "+tr.Block.Source, err)
		}
		sections[i] = tr
	}
	rendered, err := blocks.Render(sections)
	if err != nil {
		return ErrSerialization("render traces", err)
	}
	d.Body = rendered
	return nil
}
