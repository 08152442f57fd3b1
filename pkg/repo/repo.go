package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grit-scm/grit/pkg/object"
)

// ErrNotARepository reports that no gitdir was found at or above a path.
var ErrNotARepository = errors.New("not a grit repository")

const gitDirName = ".git"

// Repo represents an opened repository: the bound triple of worktree,
// gitdir and config, plus the object store scoped to the gitdir.
type Repo struct {
	WorkDir string        // working directory root
	GitDir  string        // .git/ directory
	Config  *Config       // repository configuration
	Store   *object.Store // content-addressed object store
}

// Init creates a new repository at path. The worktree may already exist (it
// must then be a directory); the gitdir must be absent or empty. The
// scaffold matches the storage engine's on-disk contract: objects/,
// refs/heads/, refs/tags/, branches/, description, HEAD and a default
// config.
func Init(path string) (*Repo, error) {
	gitDir := filepath.Join(path, gitDirName)

	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("init: %s is not a directory", path)
		}
		if entries, err := os.ReadDir(gitDir); err == nil && len(entries) > 0 {
			return nil, fmt.Errorf("init: %s is not empty", gitDir)
		}
	} else if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir worktree: %w", err)
	}

	dirs := []string{
		filepath.Join(gitDir, "branches"),
		filepath.Join(gitDir, "objects"),
		filepath.Join(gitDir, "refs", "tags"),
		filepath.Join(gitDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	description := "Unnamed repository; edit this file 'description' to name the repository.\n"
	if err := os.WriteFile(filepath.Join(gitDir, "description"), []byte(description), 0o644); err != nil {
		return nil, fmt.Errorf("init: write description: %w", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/master\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	cfg := DefaultConfig()
	if err := writeConfig(gitDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	return &Repo{
		WorkDir: path,
		GitDir:  gitDir,
		Config:  cfg,
		Store:   object.NewStore(gitDir),
	}, nil
}

// Open searches upward from path for a gitdir and opens the repository. The
// repository config is read and its format version checked. Returns
// ErrNotARepository if the walk reaches the filesystem root without a hit.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gitDir := filepath.Join(cur, gitDirName)
		info, err := os.Stat(gitDir)
		if err == nil && info.IsDir() {
			cfg, err := readConfig(gitDir)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", cur, err)
			}
			if v := cfg.Core.RepositoryFormatVersion; v != 0 {
				return nil, fmt.Errorf("open %s: unsupported repositoryformatversion %d", cur, v)
			}
			return &Repo{
				WorkDir: cur,
				GitDir:  gitDir,
				Config:  cfg,
				Store:   object.NewStore(gitDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", path, ErrNotARepository)
		}
		cur = parent
	}
}

// Head reads HEAD. If the content is a symbolic ref it returns the target
// ref name (e.g. "refs/heads/master"); otherwise the raw detached hash.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := string(data)
	for len(content) > 0 && content[len(content)-1] == '\n' {
		content = content[:len(content)-1]
	}
	if target, ok := cutRefPrefix(content); ok {
		return target, nil
	}
	return content, nil
}
