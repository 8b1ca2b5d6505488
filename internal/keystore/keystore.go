// Package keystore persists named Ed25519 identities as TOML files, the
// ambient key-storage collaborator the core document model defers to
// callers.
package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tracemd/tmd/internal/tmd"
)

// identityFile is the on-disk TOML representation of one named key.
type identityFile struct {
	Name       string `toml:"name"`
	PublicKey  string `toml:"public_key"`  // base64-encoded
	PrivateKey string `toml:"private_key"` // base64-encoded
}

// Keystore is a directory of <name>.toml identity files.
type Keystore struct {
	dir string
}

// DefaultDir returns the platform-appropriate keystore directory,
// respecting XDG_CONFIG_HOME and falling back to $HOME/.config.
func DefaultDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			base = "."
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, "tmd", "keys")
}

// Open returns a Keystore rooted at dir, creating it if necessary.
func Open(dir string) (*Keystore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, tmd.ErrIo("create keystore dir", err)
	}
	return &Keystore{dir: dir}, nil
}

func (k *Keystore) path(name string) string {
	return filepath.Join(k.dir, name+".toml")
}

// Generate creates a new named identity, persists it, and returns its
// keypair. It fails if name already exists.
func (k *Keystore) Generate(name string) (tmd.KeyPair, error) {
	path := k.path(name)
	if _, err := os.Stat(path); err == nil {
		return tmd.KeyPair{}, tmd.ErrIo(fmt.Sprintf("key %q already exists", name), nil)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return tmd.KeyPair{}, tmd.ErrCrypto("generate keypair", err)
	}
	kp := tmd.KeyPair{Private: priv, Public: pub}
	if err := k.save(name, kp); err != nil {
		return tmd.KeyPair{}, err
	}
	return kp, nil
}

func (k *Keystore) save(name string, kp tmd.KeyPair) error {
	f, err := os.OpenFile(k.path(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return tmd.ErrIo("open identity file", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	err = enc.Encode(identityFile{
		Name:       name,
		PublicKey:  base64.StdEncoding.EncodeToString(kp.Public),
		PrivateKey: base64.StdEncoding.EncodeToString(kp.Private),
	})
	if err != nil {
		return tmd.ErrSerialization("encode identity file", err)
	}
	return nil
}

// Load reads the named identity's keypair.
func (k *Keystore) Load(name string) (tmd.KeyPair, error) {
	var f identityFile
	if _, err := toml.DecodeFile(k.path(name), &f); err != nil {
		return tmd.KeyPair{}, tmd.ErrIo("load identity "+name, err)
	}

	pub, err := base64.StdEncoding.DecodeString(f.PublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return tmd.KeyPair{}, tmd.ErrFormat("identity " + name + ": malformed public key")
	}
	priv, err := base64.StdEncoding.DecodeString(f.PrivateKey)
	if err != nil || len(priv) != ed25519.PrivateKeySize {
		return tmd.KeyPair{}, tmd.ErrFormat("identity " + name + ": malformed private key")
	}
	return tmd.KeyPair{Private: ed25519.PrivateKey(priv), Public: ed25519.PublicKey(pub)}, nil
}

// LoadOrCreate loads name's keypair, generating and persisting a fresh one
// if it does not yet exist. The bool result reports whether a new keypair
// was created.
func (k *Keystore) LoadOrCreate(name string) (tmd.KeyPair, bool, error) {
	if _, err := os.Stat(k.path(name)); err == nil {
		kp, err := k.Load(name)
		return kp, false, err
	} else if !os.IsNotExist(err) {
		return tmd.KeyPair{}, false, tmd.ErrIo("stat identity file", err)
	}
	kp, err := k.Generate(name)
	return kp, true, err
}

// List returns the names of every identity stored in the keystore.
func (k *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(k.dir)
	if err != nil {
		return nil, tmd.ErrIo("list keystore", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".toml" {
			continue
		}
		names = append(names, e.Name()[:len(e.Name())-len(ext)])
	}
	return names, nil
}
