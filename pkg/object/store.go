package object

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Each file holds the
// zlib-compressed envelope "type len\0payload".
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory (the gitdir). The
// objects/ fan-out is created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given hash. The hash must
// already be validated: callers check Valid before slicing into it.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
// An ill-formed hash is simply absent.
func (s *Store) Has(h Hash) bool {
	if !h.Valid() {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write computes the content hash of an object and, when persist is set,
// stores its compressed frame. An already-present object is trusted and left
// untouched; new objects land atomically via temp file + rename, so two
// writers racing on the same hash both succeed.
func (s *Store) Write(t Type, payload []byte, persist bool) (Hash, error) {
	framed := Frame(t, payload)
	h := HashBytes(framed)

	if !persist || s.Has(h) {
		return h, nil
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	compressed, err := Compress(framed)
	if err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}
	if err := renameio.WriteFile(s.objectPath(h), compressed, 0o644); err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}
	return h, nil
}

// Read retrieves an object by hash, returning its type and payload. The
// frame header is validated: a declared length that does not match the
// remaining bytes is malformed, and a type tag outside the four recognized
// kinds is unknown. An ill-formed hash never reaches the filesystem;
// degenerate hashes turn up in hand-edited ref files and in tag objects
// missing their target header.
func (s *Store) Read(h Hash) (Type, []byte, error) {
	if !h.Valid() {
		return "", nil, fmt.Errorf("object read: invalid digest %q: %w", h, ErrMalformedObject)
	}
	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	raw, err := Decompress(compressed)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("object read %s: no header terminator: %w", h, ErrMalformedObject)
	}
	header := string(raw[:nul])
	payload := raw[nul+1:]

	typeName, lenText, ok := strings.Cut(header, " ")
	if !ok {
		return "", nil, fmt.Errorf("object read %s: header %q: %w", h, header, ErrMalformedObject)
	}
	length, err := strconv.Atoi(lenText)
	if err != nil || length != len(payload) {
		return "", nil, fmt.Errorf("object read %s: declared length %q, actual %d: %w", h, lenText, len(payload), ErrMalformedObject)
	}

	t := Type(typeName)
	switch t {
	case TypeBlob, TypeTree, TypeCommit, TypeTag:
	default:
		return "", nil, fmt.Errorf("object read %s: type %q: %w", h, typeName, ErrUnknownType)
	}
	return t, payload, nil
}

// ScanPrefix lists the hashes of loose objects whose hex form starts with
// prefix. The prefix must be lowercase hex of at least two characters: the
// first two select the fan-out directory, the rest filter its filenames.
func (s *Store) ScanPrefix(prefix string) ([]Hash, error) {
	if len(prefix) < 2 {
		return nil, fmt.Errorf("scan prefix %q: need at least two characters", prefix)
	}
	dir := filepath.Join(s.root, "objects", prefix[:2])
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
	}

	var out []Hash
	for _, e := range entries {
		name := e.Name()
		// Skip in-flight temp files and anything else that is not a
		// 38-character digest suffix.
		if e.IsDir() || len(name) != 38 {
			continue
		}
		if strings.HasPrefix(name, prefix[2:]) {
			out = append(out, Hash(prefix[:2]+name))
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes a Blob and writes it when persist is set.
func (s *Store) WriteBlob(b *Blob, persist bool) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b), persist)
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	payload, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	return UnmarshalBlob(payload)
}

// WriteTree serializes a Tree in canonical order and writes it when persist
// is set.
func (s *Store) WriteTree(tr *Tree, persist bool) (Hash, error) {
	payload, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, payload, persist)
}

// ReadTree reads and deserializes a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	payload, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(payload)
}

// WriteCommit serializes a Commit and writes it when persist is set.
func (s *Store) WriteCommit(c *Commit, persist bool) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c), persist)
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	payload, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(payload)
}

// WriteTag serializes a Tag and writes it when persist is set.
func (s *Store) WriteTag(t *Tag, persist bool) (Hash, error) {
	return s.Write(TypeTag, MarshalTag(t), persist)
}

// ReadTag reads and deserializes a Tag.
func (s *Store) ReadTag(h Hash) (*Tag, error) {
	payload, err := s.readTyped(h, TypeTag)
	if err != nil {
		return nil, err
	}
	return UnmarshalTag(payload)
}

func (s *Store) readTyped(h Hash, want Type) ([]byte, error) {
	t, payload, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if t != want {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", h, t, want)
	}
	return payload, nil
}
