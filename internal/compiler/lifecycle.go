package compiler

import (
	"strings"

	"github.com/tracemd/tmd/internal/tmd"
)

// reportError flattens a failing CompilationReport's errors into a single
// error value so Publish can return the plain (doc, error) shape callers
// expect, while still exposing the individual causes via Unwrap.
type reportError struct {
	causes []error
}

func (e *reportError) Error() string {
	msgs := make([]string, len(e.causes))
	for i, c := range e.causes {
		msgs[i] = c.Error()
	}
	return "compilation failed: " + strings.Join(msgs, "; ")
}

func (e *reportError) Unwrap() []error { return e.causes }

// Publish verifies doc and, only if verification produced no errors, seals
// it with kp and transitions it to Published. On failure doc is returned
// unchanged; the returned error unwraps to the individual causes, so
// callers can use errors.Is/errors.As on it, or re-run Verify themselves
// for the full report, including warnings.
func (c *Compiler) Publish(doc *tmd.TracedDocument, kp tmd.KeyPair) (*tmd.TracedDocument, error) {
	report, err := c.Verify(doc)
	if err != nil {
		return doc, err
	}
	if !report.OK() {
		return doc, &reportError{causes: report.Errors}
	}
	return doc.Seal(kp), nil
}

// Revoke marks doc Revoked and reseals it, preserving the version chain
// via prev_version_hash the same way any other Seal does.
func (c *Compiler) Revoke(doc *tmd.TracedDocument, kp tmd.KeyPair) *tmd.TracedDocument {
	doc.FrontMatter.DocStatus = tmd.Revoked
	return doc.Seal(kp)
}
