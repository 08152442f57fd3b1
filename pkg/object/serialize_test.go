package object

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const (
	hashA = Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	hashB = Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
)

func TestMarshalUnmarshalBlob(t *testing.T) {
	orig := &Blob{Data: []byte("hello world\nline two")}
	got, err := UnmarshalBlob(MarshalBlob(orig))
	if err != nil {
		t.Fatalf("UnmarshalBlob: %v", err)
	}
	if !bytes.Equal(got.Data, orig.Data) {
		t.Errorf("Blob round-trip mismatch: got %q, want %q", got.Data, orig.Data)
	}
}

func TestMarshalUnmarshalTree(t *testing.T) {
	orig := &Tree{Entries: []TreeEntry{
		{Mode: ModeFile, Name: "main.go", Hash: hashA},
		{Mode: ModeDir, Name: "pkg", Hash: hashB},
	}}

	data, err := MarshalTree(orig)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(got.Entries))
	}
	for i, want := range orig.Entries {
		if got.Entries[i] != want {
			t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], want)
		}
	}
}

// Directories sort as if a separator followed the name, so "foo.c" comes
// before the directory "foo".
func TestMarshalTree_CanonicalOrder(t *testing.T) {
	tr := &Tree{Entries: []TreeEntry{
		{Mode: ModeDir, Name: "foo", Hash: hashA},
		{Mode: ModeFile, Name: "foo.c", Hash: hashB},
	}}

	data, err := MarshalTree(tr)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	got, err := UnmarshalTree(data)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if got.Entries[0].Name != "foo.c" || got.Entries[1].Name != "foo" {
		t.Errorf("order = %q, %q; want foo.c, foo", got.Entries[0].Name, got.Entries[1].Name)
	}

	// In-memory order of the input is untouched.
	if tr.Entries[0].Name != "foo" {
		t.Error("MarshalTree mutated its input")
	}
}

func TestUnmarshalTree_FiveDigitModePadding(t *testing.T) {
	raw := []byte("40000 sub\x00")
	raw = append(raw, bytes.Repeat([]byte{0xaa}, 20)...)

	tr, err := UnmarshalTree(raw)
	if err != nil {
		t.Fatalf("UnmarshalTree: %v", err)
	}
	if tr.Entries[0].Mode != ModeDir {
		t.Errorf("mode = %q, want %q", tr.Entries[0].Mode, ModeDir)
	}
	if tr.Entries[0].Hash != hashA {
		t.Errorf("hash = %q, want %q", tr.Entries[0].Hash, hashA)
	}
}

func TestUnmarshalTree_Malformed(t *testing.T) {
	sha := bytes.Repeat([]byte{0xbb}, 20)

	cases := map[string][]byte{
		"bad mode width":   append([]byte("1006 f\x00"), sha...),
		"missing nul":      []byte("100644 orphan"),
		"truncated digest": append([]byte("100644 f\x00"), sha[:7]...),
	}
	for name, raw := range cases {
		if _, err := UnmarshalTree(raw); !errors.Is(err, ErrMalformedObject) {
			t.Errorf("%s: err = %v, want ErrMalformedObject", name, err)
		}
	}
}

func TestMarshalTree_BadDigest(t *testing.T) {
	tr := &Tree{Entries: []TreeEntry{{Mode: ModeFile, Name: "f", Hash: "nothex"}}}
	if _, err := MarshalTree(tr); !errors.Is(err, ErrMalformedObject) {
		t.Errorf("err = %v, want ErrMalformedObject", err)
	}
}

func TestCommitAccessors(t *testing.T) {
	raw := strings.Join([]string{
		"tree " + string(hashA),
		"parent " + string(hashB),
		"author A U Thor <a@example.com> 1700000000 +0000",
		"",
		"initial commit\n",
	}, "\n")

	c, err := UnmarshalCommit([]byte(raw))
	if err != nil {
		t.Fatalf("UnmarshalCommit: %v", err)
	}
	if c.Tree() != hashA {
		t.Errorf("Tree = %q, want %q", c.Tree(), hashA)
	}
	if parents := c.Parents(); len(parents) != 1 || parents[0] != hashB {
		t.Errorf("Parents = %v", parents)
	}
	if string(c.Message()) != "initial commit\n" {
		t.Errorf("Message = %q", c.Message())
	}

	if out := MarshalCommit(c); !bytes.Equal(out, []byte(raw)) {
		t.Errorf("MarshalCommit round trip:\n got %q\nwant %q", out, raw)
	}
}

func TestTagAccessors(t *testing.T) {
	fields := NewKVLM()
	fields.Add("object", []byte(hashA))
	fields.Add("type", []byte(TypeCommit))
	fields.Add("tag", []byte("v1.0"))
	fields.Message = []byte("release\n")
	tag := &Tag{Fields: fields}

	got, err := UnmarshalTag(MarshalTag(tag))
	if err != nil {
		t.Fatalf("UnmarshalTag: %v", err)
	}
	if got.Target() != hashA {
		t.Errorf("Target = %q, want %q", got.Target(), hashA)
	}
	if got.TargetType() != TypeCommit {
		t.Errorf("TargetType = %q, want commit", got.TargetType())
	}
	if got.Name() != "v1.0" {
		t.Errorf("Name = %q, want v1.0", got.Name())
	}
}
