package compiler_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/tracemd/tmd/internal/compiler"
	"github.com/tracemd/tmd/internal/resolver"
	"github.com/tracemd/tmd/internal/tmd"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newCompiler(t *testing.T, dir string) *compiler.Compiler {
	t.Helper()
	r, err := resolver.New(dir)
	if err != nil {
		t.Fatalf("resolver.New: %v", err)
	}
	return compiler.New(r)
}

func TestVerify_UnsignedNotesDocumentIsFine(t *testing.T) {
	dir := t.TempDir()
	c := newCompiler(t, dir)
	doc := tmd.New("Draft", "Some prose.")

	report, err := c.Verify(doc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("expected no warnings for an unsigned Notes document, got %v", report.Warnings)
	}
}

func TestVerify_PublishedDocumentWithoutKeyErrors(t *testing.T) {
	dir := t.TempDir()
	c := newCompiler(t, dir)
	doc := tmd.New("Draft", "Some prose.")
	doc.FrontMatter.DocStatus = tmd.Published

	report, err := c.Verify(doc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.OK() {
		t.Error("expected an error for a Published document with no public_key")
	}
}

func TestVerify_TraceHashMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "evidence.txt", "the evidence")

	body := "Claim.\n\n```trace\nsource: evidence.txt\nhash: \"sha256:" +
		sha256Hex("the evidence") + "\"\nexpected: \"\"\n```\n"
	doc := tmd.New("Report", body)

	c := newCompiler(t, dir)
	report, err := c.Verify(doc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() {
		t.Errorf("expected no errors, got %v", report.Errors)
	}
}

func TestVerify_TraceHashMismatchIsErrorWhenPublished(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "evidence.txt", "changed evidence")

	kp, _ := tmd.GenerateKeyPair()
	body := "Claim.\n\n```trace\nsource: evidence.txt\nhash: \"sha256:" +
		sha256Hex("original evidence") + "\"\nexpected: \"\"\n```\n"
	doc := tmd.New("Report", body)
	doc.Seal(kp)

	c := newCompiler(t, dir)
	report, err := c.Verify(doc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.OK() {
		t.Error("expected a hash-mismatch error for a Published document")
	}
}

func TestVerify_TraceHashMismatchIsWarningWhenNotes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "evidence.txt", "changed evidence")

	body := "Claim.\n\n```trace\nsource: evidence.txt\nhash: \"sha256:" +
		sha256Hex("original evidence") + "\"\nexpected: \"\"\n```\n"
	doc := tmd.New("Report", body) // stays at status Notes

	c := newCompiler(t, dir)
	report, err := c.Verify(doc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.OK() {
		t.Errorf("expected warning not error for unpublished document, got errors %v", report.Errors)
	}
	if len(report.Warnings) == 0 {
		t.Error("expected a warning for the hash mismatch")
	}
}

func TestVerify_IncludeCycleHardFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tmd", renderMinimalDoc("A", "```include\npath: b.tmd\n```\n"))
	writeFile(t, dir, "b.tmd", renderMinimalDoc("B", "```include\npath: a.tmd\n```\n"))

	c := newCompiler(t, dir)
	doc, err := (&resolverHelper{}).parse(renderMinimalDoc("Root", "```include\npath: a.tmd\n```\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Verify(doc); err == nil {
		t.Error("expected CircularInclude hard failure")
	}
}

func TestVerify_DepthBombHardFails(t *testing.T) {
	dir := t.TempDir()
	// d0 -> d1 -> ... -> d6 (six hops) should exceed MaxIncludeDepth (5).
	const hops = 6
	for i := 0; i < hops; i++ {
		next := i + 1
		writeFile(t, dir, docName(next), renderMinimalDoc(docName(next), ""))
	}
	for i := hops - 1; i >= 0; i-- {
		writeFile(t, dir, docName(i), renderMinimalDoc(docName(i), includeFence(docName(i+1))))
	}

	c := newCompiler(t, dir)
	root, err := (&resolverHelper{}).parse(mustReadFile(t, dir, docName(0)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Verify(root); err == nil {
		t.Error("expected MaxRecursionDepth hard failure")
	}
}

func TestPublish_RefusesOnError(t *testing.T) {
	dir := t.TempDir()

	// An include is forbidden by policy regardless of doc_status, so this
	// is an unconditional error, unlike a trace mismatch on an unpublished
	// document (which is only ever a warning).
	doc := tmd.New("Report", includeFence("b.tmd"))
	doc.FrontMatter.Policy.AllowInclude = false
	kp, _ := tmd.GenerateKeyPair()

	c := newCompiler(t, dir)
	published, err := c.Publish(doc, kp)
	if err == nil {
		t.Fatal("expected Publish to return an error listing the verification errors")
	}
	if published.FrontMatter.DocStatus == tmd.Published {
		t.Error("expected Publish to refuse sealing a document with errors")
	}
}

func TestPublish_SealsOnSuccess(t *testing.T) {
	dir := t.TempDir()
	doc := tmd.New("Report", "All clear.")
	kp, _ := tmd.GenerateKeyPair()

	c := newCompiler(t, dir)
	published, err := c.Publish(doc, kp)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if published.FrontMatter.DocStatus != tmd.Published {
		t.Errorf("DocStatus = %q, want %q", published.FrontMatter.DocStatus, tmd.Published)
	}
}

func TestRevoke_SealsAsRevoked(t *testing.T) {
	dir := t.TempDir()
	doc := tmd.New("Report", "body")
	kp, _ := tmd.GenerateKeyPair()
	doc.Seal(kp)

	c := newCompiler(t, dir)
	revoked := c.Revoke(doc, kp)
	if revoked.FrontMatter.DocStatus != tmd.Revoked {
		t.Errorf("DocStatus = %q, want %q", revoked.FrontMatter.DocStatus, tmd.Revoked)
	}
	if revoked.FrontMatter.Signature == "" {
		t.Error("expected revoked document to remain signed")
	}
}

// ---- helpers ----

func docName(i int) string { return "d" + itoa(i) + ".tmd" }

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := ""
	for i > 0 {
		digits = string(rune('0'+i%10)) + digits
		i /= 10
	}
	return digits
}

func includeFence(path string) string {
	return "```include\npath: " + path + "\n```\n"
}

func renderMinimalDoc(title, body string) string {
	doc := tmd.New(title, body)
	rendered, err := doc.Render()
	if err != nil {
		panic(err)
	}
	return rendered
}

type resolverHelper struct{}

func (resolverHelper) parse(text string) (*tmd.TracedDocument, error) {
	return tmd.ParseTMD(text)
}

func mustReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
