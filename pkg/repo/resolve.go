package repo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/grit-scm/grit/pkg/object"
)

// ErrNoSuchReference reports a name that resolved to zero candidates.
var ErrNoSuchReference = errors.New("no such reference")

// ErrWrongObjectType reports a name that resolved to an object that is
// not, and cannot be coerced to, the requested kind.
var ErrWrongObjectType = errors.New("object is not of the requested type")

// AmbiguousRefError reports a name that resolved to more than one object.
// The message enumerates every candidate so the caller can disambiguate.
type AmbiguousRefError struct {
	Name       string
	Candidates []object.Hash
}

func (e *AmbiguousRefError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ambiguous reference %q: candidates are:", e.Name)
	for _, c := range e.Candidates {
		b.WriteString("\n - ")
		b.WriteString(string(c))
	}
	return b.String()
}

var hashPattern = regexp.MustCompile(`^[0-9A-Fa-f]{4,40}$`)

// ResolveName gathers every object a user-supplied name could mean: the
// literal "HEAD", a full or abbreviated hex digest matched against the
// loose-object fan-out, and the name read as a tag, branch, or remote
// branch. Candidates are deduplicated preserving order; genuinely distinct
// matches all survive so that FindObject can surface the ambiguity.
// Gathering never fails on a miss — an unresolvable name yields no
// candidates.
func (r *Repo) ResolveName(name string) ([]object.Hash, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	if name == "HEAD" {
		h, err := r.ResolveRef("HEAD")
		if err != nil {
			return nil, err
		}
		if h == "" {
			return nil, nil
		}
		return []object.Hash{h}, nil
	}

	var candidates []object.Hash

	if hashPattern.MatchString(name) {
		matches, err := r.Store.ScanPrefix(strings.ToLower(name))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, matches...)
	}

	for _, prefix := range []string{"refs/tags/", "refs/heads/", "refs/remotes/"} {
		h, err := r.ResolveRef(prefix + name)
		if err != nil {
			return nil, err
		}
		if h != "" {
			candidates = append(candidates, h)
		}
	}

	seen := make(map[object.Hash]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// FindObject resolves a name to exactly one object hash. Zero candidates is
// ErrNoSuchReference; more than one is an AmbiguousRefError. When want names
// a type, the candidate is coerced: a tag follows its "object" header, a
// commit follows its "tree" header when a tree is wanted. A candidate with
// no coercion path, or any mismatch when follow is unset, is
// ErrWrongObjectType.
func (r *Repo) FindObject(name string, want object.Type, follow bool) (object.Hash, error) {
	candidates, err := r.ResolveName(name)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("find %q: %w", name, ErrNoSuchReference)
	}
	if len(candidates) > 1 {
		return "", &AmbiguousRefError{Name: name, Candidates: candidates}
	}

	h := candidates[0]
	if want == "" {
		return h, nil
	}

	for {
		t, payload, err := r.Store.Read(h)
		if err != nil {
			return "", fmt.Errorf("find %q: %w", name, err)
		}
		if t == want {
			return h, nil
		}
		if !follow {
			return "", fmt.Errorf("find %q: is a %s, not a %s: %w", name, t, want, ErrWrongObjectType)
		}

		switch {
		case t == object.TypeTag:
			tag, err := object.UnmarshalTag(payload)
			if err != nil {
				return "", fmt.Errorf("find %q: %w", name, err)
			}
			h = tag.Target()
		case t == object.TypeCommit && want == object.TypeTree:
			commit, err := object.UnmarshalCommit(payload)
			if err != nil {
				return "", fmt.Errorf("find %q: %w", name, err)
			}
			h = commit.Tree()
		default:
			return "", fmt.Errorf("find %q: is a %s, not a %s: %w", name, t, want, ErrWrongObjectType)
		}
	}
}
