package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	payloads := map[Type][]byte{
		TypeBlob:   []byte("file contents\n"),
		TypeCommit: []byte("tree " + string(hashA) + "\n\nmsg\n"),
		TypeTag:    []byte("object " + string(hashA) + "\ntype commit\n\nnote\n"),
	}

	for typ, payload := range payloads {
		h, err := s.Write(typ, payload, true)
		if err != nil {
			t.Fatalf("Write(%s): %v", typ, err)
		}
		gotType, gotPayload, err := s.Read(h)
		if err != nil {
			t.Fatalf("Read(%s): %v", h, err)
		}
		if gotType != typ {
			t.Errorf("type = %q, want %q", gotType, typ)
		}
		if !bytes.Equal(gotPayload, payload) {
			t.Errorf("payload = %q, want %q", gotPayload, payload)
		}
	}
}

// Digests are stable, git-compatible values.
func TestStore_KnownDigests(t *testing.T) {
	s := NewStore(t.TempDir())

	cases := []struct {
		typ     Type
		payload []byte
		want    Hash
	}{
		{TypeBlob, []byte("what is up, doc?"), "bd9dbf5aae1a3862dd1526723246b20206e5fc37"},
		{TypeBlob, nil, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{TypeTree, nil, "4b825dc642cb6eb9a060e54bf8d69288fbee4904"},
	}
	for _, tc := range cases {
		h, err := s.Write(tc.typ, tc.payload, false)
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if h != tc.want {
			t.Errorf("%s %q: hash = %s, want %s", tc.typ, tc.payload, h, tc.want)
		}
		if h != HashObject(tc.typ, tc.payload) {
			t.Errorf("Write and HashObject disagree for %q", tc.payload)
		}
	}
}

func TestStore_PersistFlag(t *testing.T) {
	s := NewStore(t.TempDir())

	h, err := s.Write(TypeBlob, []byte("dry run"), false)
	if err != nil {
		t.Fatalf("Write(persist=false): %v", err)
	}
	if s.Has(h) {
		t.Error("persist=false stored the object")
	}

	h2, err := s.Write(TypeBlob, []byte("dry run"), true)
	if err != nil {
		t.Fatalf("Write(persist=true): %v", err)
	}
	if h2 != h {
		t.Errorf("hash differs across persist modes: %s vs %s", h2, h)
	}
	if !s.Has(h) {
		t.Error("persist=true did not store the object")
	}
}

// Writing the same content twice yields the same digest and one stored file.
func TestStore_IdempotentWrite(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	h1, err := s.Write(TypeBlob, []byte("dup"), true)
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	h2, err := s.Write(TypeBlob, []byte("dup"), true)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("hashes differ: %s vs %s", h1, h2)
	}

	fanout := filepath.Join(dir, "objects", string(h1[:2]))
	entries, err := os.ReadDir(fanout)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("fan-out holds %d files, want 1", len(entries))
	}
}

// plant writes pre-compressed frame bytes at an arbitrary hash's path.
func plant(t *testing.T, dir string, h Hash, frame []byte, compress bool) {
	t.Helper()
	data := frame
	if compress {
		var err error
		data, err = Compress(frame)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
	}
	objDir := filepath.Join(dir, "objects", string(h[:2]))
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(objDir, string(h[2:])), data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestStore_ReadErrors(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	plant(t, dir, hashA, []byte("blob 5\x00abc"), true)
	if _, _, err := s.Read(hashA); !errors.Is(err, ErrMalformedObject) {
		t.Errorf("length mismatch: err = %v, want ErrMalformedObject", err)
	}

	plant(t, dir, hashB, []byte("widget 3\x00abc"), true)
	if _, _, err := s.Read(hashB); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown type: err = %v, want ErrUnknownType", err)
	}

	junk := Hash("cccccccccccccccccccccccccccccccccccccccc")
	plant(t, dir, junk, []byte("this is not a zlib stream"), false)
	if _, _, err := s.Read(junk); !errors.Is(err, ErrCorruptObject) {
		t.Errorf("corrupt stream: err = %v, want ErrCorruptObject", err)
	}
}

// Ill-formed digests must be rejected before they touch the filesystem;
// they come out of hand-edited ref files and tag objects missing headers.
func TestStore_IllFormedDigest(t *testing.T) {
	s := NewStore(t.TempDir())

	for _, h := range []Hash{
		"",
		"a",
		"abc123",
		Hash(strings.Repeat("a", 39)),
		Hash(strings.Repeat("a", 41)),
		Hash(strings.Repeat("z", 40)),
		Hash(strings.Repeat("A", 40)),
	} {
		if _, _, err := s.Read(h); !errors.Is(err, ErrMalformedObject) {
			t.Errorf("Read(%q): err = %v, want ErrMalformedObject", h, err)
		}
		if s.Has(h) {
			t.Errorf("Has(%q) = true, want false", h)
		}
	}

	if !hashA.Valid() {
		t.Errorf("Valid(%q) = false, want true", hashA)
	}
}

func TestStore_ScanPrefix(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	one := Hash("a1b2" + strings.Repeat("0", 36))
	two := Hash("a1b2" + strings.Repeat("1", 36))
	other := Hash("a1ff" + strings.Repeat("2", 36))
	for _, h := range []Hash{one, two, other} {
		plant(t, dir, h, []byte("blob 0\x00"), true)
	}

	matches, err := s.ScanPrefix("a1b2")
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %v, want two a1b2 hashes", matches)
	}

	matches, err = s.ScanPrefix(string(other))
	if err != nil {
		t.Fatalf("ScanPrefix(full): %v", err)
	}
	if len(matches) != 1 || matches[0] != other {
		t.Errorf("full-length scan = %v, want [%s]", matches, other)
	}

	matches, err = s.ScanPrefix("d00d")
	if err != nil {
		t.Fatalf("ScanPrefix(miss): %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("miss scan = %v, want none", matches)
	}
}

func TestStore_TypedHelpers(t *testing.T) {
	s := NewStore(t.TempDir())

	blobHash, err := s.WriteBlob(&Blob{Data: []byte("content")}, true)
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	tree := &Tree{Entries: []TreeEntry{{Mode: ModeFile, Name: "f", Hash: blobHash}}}
	treeHash, err := s.WriteTree(tree, true)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	fields := NewKVLM()
	fields.Add("tree", []byte(treeHash))
	fields.Message = []byte("c\n")
	commitHash, err := s.WriteCommit(&Commit{Fields: fields}, true)
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	gotCommit, err := s.ReadCommit(commitHash)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if gotCommit.Tree() != treeHash {
		t.Errorf("commit tree = %s, want %s", gotCommit.Tree(), treeHash)
	}

	gotTree, err := s.ReadTree(treeHash)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if gotTree.Entries[0].Hash != blobHash {
		t.Errorf("tree entry = %s, want %s", gotTree.Entries[0].Hash, blobHash)
	}

	// Reading through the wrong typed helper is a type mismatch.
	if _, err := s.ReadBlob(treeHash); err == nil {
		t.Error("ReadBlob(tree hash) should fail")
	}
}
