// Package resolver implements the root-confined, path-traversal-free
// filesystem view (C4) that trace and include blocks read evidence and
// other documents through.
package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tracemd/tmd/internal/tmd"
)

// Resolver maps a relative source reference to bytes or a parsed document,
// confined to a canonicalized root directory.
type Resolver struct {
	root string
}

// New constructs a Resolver rooted at root. root is canonicalized
// immediately; construction fails if it does not exist.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, tmd.ErrIo("resolve root path", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, tmd.ErrIo("root does not exist: "+root, err)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the resolver's canonicalized root directory.
func (r *Resolver) Root() string { return r.root }

// ResolveBytes reads the file at root/source.
func (r *Resolver) ResolveBytes(source string) ([]byte, error) {
	path, err := r.validatePath(source)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tmd.ErrIo("read "+source, err)
	}
	return data, nil
}

// ResolveDocument reads and parses the .tmd document at root/source.
func (r *Resolver) ResolveDocument(source string) (*tmd.TracedDocument, error) {
	data, err := r.ResolveBytes(source)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, tmd.ErrFormat("invalid UTF-8 in document: " + source)
	}
	doc, err := tmd.ParseTMD(string(data))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// validatePath implements spec.md §4.3's path-traversal check: reject
// absolute sources, reject any prefix whose running ".." depth counter
// drops below zero, then join and re-canonicalize an existing result to
// defend against a symlink escaping root.
func (r *Resolver) validatePath(source string) (string, error) {
	if filepath.IsAbs(source) || strings.HasPrefix(source, "/") {
		return "", tmd.ErrPathTraversal(source, r.root)
	}

	depth := 0
	for _, part := range strings.Split(filepath.ToSlash(source), "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			depth--
			if depth < 0 {
				return "", tmd.ErrPathTraversal(source, r.root)
			}
		default:
			depth++
		}
	}

	full := filepath.Join(r.root, source)
	if _, err := os.Stat(full); err == nil {
		canonical, err := filepath.EvalSymlinks(full)
		if err != nil {
			return "", tmd.ErrIo("resolve "+source, err)
		}
		if !withinRoot(canonical, r.root) {
			return "", tmd.ErrPathTraversal(canonical, r.root)
		}
		return canonical, nil
	}
	return full, nil
}

func withinRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && rel != "..")
}
