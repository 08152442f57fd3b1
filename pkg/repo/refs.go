package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/grit-scm/grit/pkg/object"
)

// ErrReferenceCycle reports a symbolic ref chain that loops back on itself.
var ErrReferenceCycle = errors.New("reference cycle")

const symRefPrefix = "ref: "

func cutRefPrefix(s string) (string, bool) {
	return strings.CutPrefix(s, symRefPrefix)
}

// ResolveRef resolves a ref name (a path under the gitdir, e.g. "HEAD" or
// "refs/heads/master") to an object hash, following "ref: " indirection. A
// ref whose file does not exist resolves to the empty hash with no error;
// absence is an ordinary outcome during candidate gathering. The chain is
// walked iteratively with a visited set, so a cyclic ref pair fails with
// ErrReferenceCycle instead of recursing forever.
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	seen := make(map[string]bool)
	for {
		if seen[name] {
			return "", fmt.Errorf("resolve ref %q: %w", name, ErrReferenceCycle)
		}
		seen[name] = true

		path := filepath.Join(r.GitDir, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("resolve ref %q: %w", name, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("resolve ref %q: %w", name, err)
		}
		text := strings.TrimSpace(string(data))

		if target, ok := cutRefPrefix(text); ok {
			name = target
			continue
		}
		return object.Hash(text), nil
	}
}

// RefEntry is one node of a tree-shaped ref listing. A leaf carries the
// resolved hash; a directory carries its children, lexically ordered.
type RefEntry struct {
	Name string
	Hash object.Hash // leaf refs only
	Refs []RefEntry  // subdirectories only
}

// IsDir reports whether the entry mirrors a refs subdirectory.
func (e RefEntry) IsDir() bool {
	return e.Refs != nil
}

// ListRefs walks the refs directory (or the given subpath of it) in lexical
// filename order, resolving leaf files and recursing into subdirectories.
// The result mirrors the directory structure.
func (r *Repo) ListRefs(subpath string) ([]RefEntry, error) {
	rel := "refs"
	if strings.TrimSpace(subpath) != "" {
		rel = "refs/" + strings.Trim(subpath, "/")
	}
	return r.listRefDir(rel)
}

func (r *Repo) listRefDir(rel string) ([]RefEntry, error) {
	dir := filepath.Join(r.GitDir, filepath.FromSlash(rel))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list refs %q: %w", rel, err)
	}

	// os.ReadDir returns entries sorted by filename.
	out := make([]RefEntry, 0, len(entries))
	for _, e := range entries {
		child := rel + "/" + e.Name()
		if e.IsDir() {
			sub, err := r.listRefDir(child)
			if err != nil {
				return nil, err
			}
			if sub == nil {
				sub = []RefEntry{}
			}
			out = append(out, RefEntry{Name: e.Name(), Refs: sub})
			continue
		}
		h, err := r.ResolveRef(child)
		if err != nil {
			return nil, err
		}
		out = append(out, RefEntry{Name: e.Name(), Hash: h})
	}
	return out, nil
}

// CreateRef writes hash followed by a newline to the ref's storage path,
// creating parent directories as needed. An existing ref is overwritten
// silently; that is how branches and tags move. The write is atomic.
func (r *Repo) CreateRef(name string, h object.Hash) error {
	path := filepath.Join(r.GitDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create ref %q: mkdir: %w", name, err)
	}
	if err := renameio.WriteFile(path, []byte(string(h)+"\n"), 0o644); err != nil {
		return fmt.Errorf("create ref %q: %w", name, err)
	}
	return nil
}

// CreateBranch points refs/heads/<name> at the given hash.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("create branch: name is required")
	}
	if err := r.CreateRef("refs/heads/"+name, target); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}
