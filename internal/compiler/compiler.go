// Package compiler implements the recursive verification walk (C7): it
// checks a document's seal, then every trace claim and include reference,
// following includes into their own documents under the same root,
// bounded by a depth guard and a cycle guard.
package compiler

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tracemd/tmd/internal/blocks"
	"github.com/tracemd/tmd/internal/extract"
	"github.com/tracemd/tmd/internal/resolver"
	"github.com/tracemd/tmd/internal/tmd"
)

// MaxIncludeDepth is the deepest an include chain may nest before
// compilation hard-fails, per spec.md §8.4.
const MaxIncludeDepth = 5

// CompilationReport collects what a Verify pass found. Security and depth
// violations never land here — they abort Verify immediately — but a
// trace hash mismatch, a failing extractor, or a Published/Revoked document
// without a valid signature becomes an entry here. Signature problems are
// always errors; trace failures are errors on a Published document and
// warnings otherwise.
type CompilationReport struct {
	Errors   []error
	Warnings []error
}

func (r *CompilationReport) addError(err error)   { r.Errors = append(r.Errors, err) }
func (r *CompilationReport) addWarning(err error) { r.Warnings = append(r.Warnings, err) }

// OK reports whether the report contains no errors (warnings are
// permitted even for a passing compilation).
func (r *CompilationReport) OK() bool { return len(r.Errors) == 0 }

// Compiler walks a document and its includes through a Resolver.
type Compiler struct {
	resolver *resolver.Resolver
}

// New builds a Compiler that resolves includes and trace sources through r.
func New(r *resolver.Resolver) *Compiler {
	return &Compiler{resolver: r}
}

// Verify runs the full compilation pass over doc, per spec.md §4.6 and
// §8.4: a depth- and cycle-guarded walk that checks each document's own
// signature, verifies every trace, and follows every include.
func (c *Compiler) Verify(doc *tmd.TracedDocument) (*CompilationReport, error) {
	report := &CompilationReport{}
	seen := map[string]bool{}

	if err := c.walk(doc, 0, seen, report); err != nil {
		return nil, err
	}
	return report, nil
}

// verifySignature checks doc's Ed25519 signature. Per spec.md §4.6 point 1,
// this only applies to Published and Revoked documents — a Notes/Draft
// document is allowed to carry no signature, or a stale one, without
// affecting compilation.
func (c *Compiler) verifySignature(doc *tmd.TracedDocument, report *CompilationReport) {
	if doc.FrontMatter.DocStatus != tmd.Published && doc.FrontMatter.DocStatus != tmd.Revoked {
		return
	}
	if doc.FrontMatter.PublicKey == "" {
		report.addError(tmd.ErrVerification("document has no public_key; signature not checked"))
		return
	}
	pub, err := hex.DecodeString(doc.FrontMatter.PublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		report.addError(tmd.ErrVerification("malformed public_key"))
		return
	}
	if err := doc.Verify(ed25519.PublicKey(pub)); err != nil {
		report.addError(err)
	}
}

// walk verifies doc's own signature and sections, then recurses into every
// include, at depth (the number of include hops already taken to reach
// doc) and seen (the set of source paths already on the current include
// chain).
func (c *Compiler) walk(doc *tmd.TracedDocument, depth int, seen map[string]bool, report *CompilationReport) error {
	if depth > MaxIncludeDepth {
		return tmd.ErrMaxRecursionDepth(MaxIncludeDepth)
	}

	c.verifySignature(doc, report)

	for _, section := range doc.Sections() {
		switch s := section.(type) {
		case blocks.Trace:
			c.verifyTrace(doc, s.Block, report)
		case blocks.Include:
			if err := c.walkInclude(doc, s, depth, seen, report); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) walkInclude(doc *tmd.TracedDocument, inc blocks.Include, depth int, seen map[string]bool, report *CompilationReport) error {
	ref, err := blocks.ParseInclude(inc.Raw)
	if err != nil {
		report.addError(tmd.ErrFormatf(err, "parse include block"))
		return nil
	}

	if !doc.FrontMatter.Policy.AllowInclude {
		report.addError(tmd.ErrVerification(fmt.Sprintf("document policy forbids include of %q", ref.Path)))
		return nil
	}

	if seen[ref.Path] {
		return tmd.ErrCircularInclude(ref.Path)
	}

	included, err := c.resolver.ResolveDocument(ref.Path)
	if err != nil {
		report.addError(err)
		return nil
	}

	if ref.Integrity != "" {
		hash := included.ComputeVersionHash()
		if hex.EncodeToString(hash[:]) != ref.Integrity {
			report.addError(tmd.ErrVerification(fmt.Sprintf("include integrity mismatch for %q", ref.Path)))
		}
	}

	// seen is scoped to the current chain, not the whole walk: a diamond
	// (two siblings including the same leaf) is fine, only a cycle back
	// onto the active path is an error. Mark on entry, clear on exit.
	seen[ref.Path] = true
	err = c.walk(included, depth+1, seen, report)
	delete(seen, ref.Path)
	return err
}

// verifyTrace checks a single trace block's evidence hash and, if a
// selector is present, runs the configured extractor and compares its
// result against the expected value. Failures on a Published document are
// errors; on any other status they are warnings, since unpublished
// documents are allowed to have unresolved claims.
func (c *Compiler) verifyTrace(doc *tmd.TracedDocument, t blocks.TraceBlock, report *CompilationReport) {
	classify := report.addWarning
	if doc.FrontMatter.DocStatus == tmd.Published {
		classify = report.addError
	}

	content, err := c.resolver.ResolveBytes(t.Source)
	if err != nil {
		classify(err)
		return
	}

	if t.Hash != "" {
		if err := checkHash(content, t.Hash); err != nil {
			classify(tmd.ErrVerification(fmt.Sprintf("trace %q: %v", t.Source, err)))
			return
		}
	}

	if t.Selector == "" {
		return
	}
	extractor, err := extract.Get(t.ExtractorName())
	if err != nil {
		classify(tmd.ErrExtraction(err.Error()))
		return
	}
	got, err := extractor.Extract(content, t.Selector)
	if err != nil {
		classify(tmd.ErrExtraction(fmt.Sprintf("trace %q: %v", t.Source, err)))
		return
	}
	if strings.TrimSpace(got) != strings.TrimSpace(t.Expected) {
		classify(tmd.ErrVerification(fmt.Sprintf("trace %q: expected %q, extracted %q", t.Source, t.Expected, got)))
	}
}
