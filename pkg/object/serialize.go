package object

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// UnmarshalTree parses the binary tree encoding: for each entry a mode of
// five or six ASCII digits (five-digit modes are left-padded to six), a
// space, the entry name up to a NUL, then 20 raw digest bytes. A buffer that
// ends mid-entry is malformed.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	pos := 0
	for pos < len(data) {
		spc := bytes.IndexByte(data[pos:], ' ')
		if spc < 0 {
			return nil, fmt.Errorf("unmarshal tree: entry at offset %d has no mode terminator: %w", pos, ErrMalformedObject)
		}
		if spc != 5 && spc != 6 {
			return nil, fmt.Errorf("unmarshal tree: mode width %d at offset %d: %w", spc, pos, ErrMalformedObject)
		}
		mode := string(data[pos : pos+spc])
		if spc == 5 {
			mode = "0" + mode
		}

		rest := data[pos+spc+1:]
		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: entry at offset %d has no name terminator: %w", pos, ErrMalformedObject)
		}
		name := string(rest[:nul])

		shaStart := pos + spc + 1 + nul + 1
		if shaStart+20 > len(data) {
			return nil, fmt.Errorf("unmarshal tree: truncated digest for %q: %w", name, ErrMalformedObject)
		}
		sha := Hash(hex.EncodeToString(data[shaStart : shaStart+20]))

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: sha})
		pos = shaStart + 20
	}
	return tr, nil
}

// treeSortKey is the canonical ordering key: regular files sort by name,
// everything else (directories, symlinks, gitlinks) sorts as if a path
// separator followed the name. Required for deterministic digests.
func treeSortKey(e TreeEntry) string {
	if len(e.Mode) >= 2 && e.Mode[:2] == "10" {
		return e.Name
	}
	return e.Name + "/"
}

// MarshalTree serializes a Tree. Entries are emitted in canonical order; the
// input slice is left untouched. An entry whose digest is not 40 hex
// characters cannot be encoded and is malformed.
func MarshalTree(tr *Tree) ([]byte, error) {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return treeSortKey(sorted[i]) < treeSortKey(sorted[j])
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != 20 {
			return nil, fmt.Errorf("marshal tree: entry %q has digest %q: %w", e.Name, e.Hash, ErrMalformedObject)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit through its KVLM fields.
func MarshalCommit(c *Commit) []byte {
	return c.Fields.Marshal()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	fields, err := ParseKVLM(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: %w", err)
	}
	return &Commit{Fields: fields}, nil
}

// ---------------------------------------------------------------------------
// Tag
// ---------------------------------------------------------------------------

// MarshalTag serializes a Tag through its KVLM fields.
func MarshalTag(t *Tag) []byte {
	return t.Fields.Marshal()
}

// UnmarshalTag parses a Tag from its serialized form.
func UnmarshalTag(data []byte) (*Tag, error) {
	fields, err := ParseKVLM(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tag: %w", err)
	}
	return &Tag{Fields: fields}, nil
}
