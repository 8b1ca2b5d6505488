package vault_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tracemd/tmd/internal/tmd"
	"github.com/tracemd/tmd/internal/vault"
)

func TestInit_WritesMetaAndCommits(t *testing.T) {
	dir := t.TempDir()
	kp, err := tmd.GenerateKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	v, err := vault.Init(dir, vault.Meta{Name: "research", Description: "claims"}, kp)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	meta, err := v.ReadMeta()
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if meta.Name != "research" {
		t.Errorf("Name = %q, want %q", meta.Name, "research")
	}
	if meta.AdminPubkey == "" {
		t.Error("expected AdminPubkey to be populated from the keypair")
	}
}

func TestOpen_ReopensExistingVault(t *testing.T) {
	dir := t.TempDir()
	kp, _ := tmd.GenerateKeyPair()
	if _, err := vault.Init(dir, vault.Meta{Name: "v"}, kp); err != nil {
		t.Fatal(err)
	}

	v, err := vault.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := v.ReadMeta(); err != nil {
		t.Fatalf("ReadMeta after reopen: %v", err)
	}
}

func TestCommitDocument_WritesFileUnderVault(t *testing.T) {
	dir := t.TempDir()
	kp, _ := tmd.GenerateKeyPair()
	v, err := vault.Init(dir, vault.Meta{Name: "v"}, kp)
	if err != nil {
		t.Fatal(err)
	}

	doc := tmd.New("Claim", "body")
	doc.Seal(kp)

	if err := v.CommitDocument(kp, "claims/report.tmd", doc); err != nil {
		t.Fatalf("CommitDocument: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "claims", "report.tmd"))
	if err != nil {
		t.Fatalf("expected committed file on disk: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty rendered document")
	}
}
