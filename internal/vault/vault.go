// Package vault wraps go-git to give a directory of traced documents an
// independent, append-only commit trail, alongside the in-document
// prev_version_hash chain.
package vault

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/BurntSushi/toml"

	"github.com/tracemd/tmd/internal/tmd"
)

const gitTimeout = 30 * time.Second

// Meta is the data stored in VAULT.toml at the vault root.
type Meta struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	AdminPubkey string `toml:"admin_pubkey"`
}

// Vault wraps a go-git working tree that holds sealed documents.
type Vault struct {
	Path string
	git  *gogit.Repository
}

// Init creates a new vault at path: git-inits the directory, writes
// VAULT.toml, and makes the first commit.
func Init(path string, meta Meta, kp tmd.KeyPair) (*Vault, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, tmd.ErrIo("create vault dir", err)
	}

	gr, err := gogit.PlainInit(path, false)
	if err != nil {
		return nil, tmd.ErrIo("git init", err)
	}
	v := &Vault{Path: path, git: gr}

	meta.AdminPubkey = hex.EncodeToString(kp.Public)
	if err := v.writeMeta(meta); err != nil {
		return nil, err
	}
	if err := v.commitFiles(kp, "init: initialize vault", "VAULT.toml"); err != nil {
		return nil, err
	}
	return v, nil
}

// Open opens an existing vault at path.
func Open(path string) (*Vault, error) {
	gr, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, tmd.ErrIo("open vault at "+path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, tmd.ErrIo("resolve vault path", err)
	}
	return &Vault{Path: abs, git: gr}, nil
}

// ReadMeta reads VAULT.toml.
func (v *Vault) ReadMeta() (*Meta, error) {
	var m Meta
	if _, err := toml.DecodeFile(v.metaPath(), &m); err != nil {
		return nil, tmd.ErrIo("read VAULT.toml", err)
	}
	return &m, nil
}

// CommitDocument renders doc, writes it to relPath under the vault, and
// commits the change with author and committer named after kp's public
// key fingerprint. The commit itself is not cryptographically signed.
func (v *Vault) CommitDocument(kp tmd.KeyPair, relPath string, doc *tmd.TracedDocument) error {
	rendered, err := doc.Render()
	if err != nil {
		return err
	}

	absPath := filepath.Join(v.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return tmd.ErrIo("create dirs for "+relPath, err)
	}
	if err := os.WriteFile(absPath, []byte(rendered), 0o644); err != nil {
		return tmd.ErrIo("write document "+relPath, err)
	}

	wt, err := v.git.Worktree()
	if err != nil {
		return tmd.ErrIo("worktree", err)
	}
	if _, err := wt.Add(relPath); err != nil {
		return tmd.ErrIo("git add "+relPath, err)
	}

	message := fmt.Sprintf("seal: %s @ v%d", relPath, doc.FrontMatter.DocVersion)
	sig := v.signature(kp)
	if _, err := wt.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return tmd.ErrIo("git commit", err)
	}
	return nil
}

// Pull fetches and fast-forward merges from the origin remote, when one is
// configured. It is never invoked automatically by any vault or compiler
// operation — a caller opts in explicitly.
func (v *Vault) Pull(ctx context.Context) error {
	cfg, err := v.git.Config()
	if err != nil {
		return tmd.ErrIo("read git config", err)
	}
	if _, ok := cfg.Remotes["origin"]; !ok {
		return nil
	}
	head, err := v.git.Head()
	if err != nil {
		return tmd.ErrIo("head", err)
	}
	wt, err := v.git.Worktree()
	if err != nil {
		return tmd.ErrIo("worktree", err)
	}
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()
	err = wt.PullContext(ctx, &gogit.PullOptions{RemoteName: "origin", ReferenceName: head.Name()})
	if err == gogit.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return tmd.ErrIo("git pull", err)
	}
	return nil
}

// Push pushes to the origin remote, when one is configured. Like Pull, it
// is never called from inside this package's own operations.
func (v *Vault) Push(ctx context.Context) error {
	cfg, err := v.git.Config()
	if err != nil {
		return tmd.ErrIo("read git config", err)
	}
	if _, ok := cfg.Remotes["origin"]; !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()
	err = v.git.PushContext(ctx, &gogit.PushOptions{RemoteName: "origin"})
	if err == nil || err == gogit.NoErrAlreadyUpToDate {
		return nil
	}
	return tmd.ErrIo("git push", err)
}

func (v *Vault) metaPath() string { return filepath.Join(v.Path, "VAULT.toml") }

func (v *Vault) writeMeta(meta Meta) error {
	f, err := os.Create(v.metaPath())
	if err != nil {
		return tmd.ErrIo("create VAULT.toml", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(meta); err != nil {
		return tmd.ErrSerialization("encode VAULT.toml", err)
	}
	return nil
}

func (v *Vault) commitFiles(kp tmd.KeyPair, message string, relPaths ...string) error {
	wt, err := v.git.Worktree()
	if err != nil {
		return tmd.ErrIo("worktree", err)
	}
	for _, p := range relPaths {
		if _, err := wt.Add(p); err != nil {
			return tmd.ErrIo("git add "+p, err)
		}
	}
	sig := v.signature(kp)
	if _, err := wt.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return tmd.ErrIo("git commit", err)
	}
	return nil
}

func (v *Vault) signature(kp tmd.KeyPair) *object.Signature {
	fingerprint := hex.EncodeToString(kp.Public)[:8]
	return &object.Signature{
		Name:  fingerprint,
		Email: fingerprint + "@tmd.local",
		When:  time.Now(),
	}
}
