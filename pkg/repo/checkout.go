package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/grit-scm/grit/pkg/object"
)

var (
	// ErrDestinationNotEmpty reports a checkout target directory that
	// already has contents.
	ErrDestinationNotEmpty = errors.New("destination not empty")

	// ErrDestinationNotADirectory reports a checkout target that exists
	// but is not a directory.
	ErrDestinationNotADirectory = errors.New("destination not a directory")
)

// Checkout materializes the tree named by a tree-ish (a tree, a commit, or
// a tag chain ending in one) into dest. The destination must not exist, or
// must be an empty directory; the check happens before any write. Traversal
// uses an explicit work list rather than recursion, so pathological nesting
// cannot exhaust the stack.
func (r *Repo) Checkout(name, dest string) error {
	treeHash, err := r.FindObject(name, object.TypeTree, true)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if info, err := os.Stat(dest); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("checkout %q: %w", dest, ErrDestinationNotADirectory)
		}
		entries, err := os.ReadDir(dest)
		if err != nil {
			return fmt.Errorf("checkout %q: %w", dest, err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("checkout %q: %w", dest, ErrDestinationNotEmpty)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir %q: %w", dest, err)
		}
	} else {
		return fmt.Errorf("checkout %q: %w", dest, err)
	}

	type workItem struct {
		tree object.Hash
		dir  string
	}
	work := []workItem{{tree: treeHash, dir: dest}}

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		tree, err := r.Store.ReadTree(item.tree)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}

		for _, entry := range tree.Entries {
			target := filepath.Join(item.dir, entry.Name)

			switch ClassifyMode(entry.Mode) {
			case object.TypeTree:
				if err := os.Mkdir(target, 0o755); err != nil {
					return fmt.Errorf("checkout: mkdir %q: %w", target, err)
				}
				work = append(work, workItem{tree: entry.Hash, dir: target})

			case object.TypeBlob:
				blob, err := r.Store.ReadBlob(entry.Hash)
				if err != nil {
					return fmt.Errorf("checkout: read blob for %q: %w", entry.Name, err)
				}
				if entry.Mode == object.ModeSymlink {
					if err := os.Symlink(string(blob.Data), target); err != nil {
						return fmt.Errorf("checkout: symlink %q: %w", target, err)
					}
					continue
				}
				perm := os.FileMode(0o644)
				if entry.Mode == object.ModeExecutable {
					perm = 0o755
				}
				if err := os.WriteFile(target, blob.Data, perm); err != nil {
					return fmt.Errorf("checkout: write %q: %w", target, err)
				}

			case object.TypeCommit:
				return fmt.Errorf("checkout: entry %q is a submodule link, which this engine does not materialize", entry.Name)

			default:
				return fmt.Errorf("checkout: entry %q has unrecognized mode %q", entry.Name, entry.Mode)
			}
		}
	}
	return nil
}

// ClassifyMode maps a tree entry mode to the object kind it references:
// "04" subtrees, "10"/"12" blobs (regular files and symlinks), "16"
// submodule gitlinks. An unrecognized prefix returns the empty type.
func ClassifyMode(mode string) object.Type {
	switch {
	case strings.HasPrefix(mode, "04"):
		return object.TypeTree
	case strings.HasPrefix(mode, "10"), strings.HasPrefix(mode, "12"):
		return object.TypeBlob
	case strings.HasPrefix(mode, "16"):
		return object.TypeCommit
	default:
		return ""
	}
}
