package keystore_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/tracemd/tmd/internal/keystore"
)

func TestGenerate_PersistsAndReloads(t *testing.T) {
	ks, err := keystore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	kp, err := ks.Generate("alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	loaded, err := ks.Load("alice")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(loaded.Public, kp.Public) {
		t.Error("reloaded public key does not match generated one")
	}
	if !bytes.Equal(loaded.Private, kp.Private) {
		t.Error("reloaded private key does not match generated one")
	}
}

func TestGenerate_RejectsDuplicateName(t *testing.T) {
	ks, err := keystore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ks.Generate("bob"); err != nil {
		t.Fatal(err)
	}
	if _, err := ks.Generate("bob"); err == nil {
		t.Error("expected error regenerating an existing identity name")
	}
}

func TestSave_FilePermissionsAreOwnerOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file permissions only")
	}
	dir := t.TempDir()
	ks, err := keystore.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ks.Generate("carol"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(dir, "carol.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("identity file mode = %o, want %o", perm, 0o600)
	}
}

func TestLoadOrCreate_CreatesThenReuses(t *testing.T) {
	ks, err := keystore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	kp1, created, err := ks.LoadOrCreate("dave")
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("expected first LoadOrCreate call to create a new identity")
	}

	kp2, created, err := ks.LoadOrCreate("dave")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("expected second LoadOrCreate call to reuse the existing identity")
	}
	if !bytes.Equal(kp1.Public, kp2.Public) {
		t.Error("LoadOrCreate returned a different key on the second call")
	}
}

func TestList_ReturnsStoredNames(t *testing.T) {
	ks, err := keystore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"eve", "frank"} {
		if _, err := ks.Generate(name); err != nil {
			t.Fatal(err)
		}
	}
	names, err := ks.List()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "eve" || names[1] != "frank" {
		t.Errorf("List() = %v, want [eve frank]", names)
	}
}

func TestLoad_MissingIdentityFails(t *testing.T) {
	ks, err := keystore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ks.Load("nobody"); err == nil {
		t.Error("expected error loading a nonexistent identity")
	}
}
