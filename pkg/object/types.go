package object

import "errors"

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// Valid reports whether h is a well-formed digest: exactly 40 lowercase
// hex characters.
func (h Hash) Valid() bool {
	if len(h) != 40 {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Type identifies the kind of object stored.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
	TypeTag    Type = "tag"
)

const (
	// Tree mode strings, normalized to six characters.
	ModeDir        = "040000"
	ModeFile       = "100644"
	ModeExecutable = "100755"
	ModeSymlink    = "120000"
	ModeGitlink    = "160000"
)

var (
	// ErrMalformedObject reports a structurally invalid encoding: a bad
	// frame header, a truncated tree entry, or unbalanced commit/tag
	// header lines.
	ErrMalformedObject = errors.New("malformed object")

	// ErrUnknownType reports a frame whose type tag is not one of the
	// four recognized kinds.
	ErrUnknownType = errors.New("unknown object type")

	// ErrCorruptObject reports a loose object whose compressed stream
	// cannot be decoded.
	ErrCorruptObject = errors.New("corrupt object")
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one (mode, path segment, digest) triple in a tree object.
type TreeEntry struct {
	Mode string // six-character mode string
	Name string // single path segment, no separators
	Hash Hash
}

// Tree holds an ordered list of tree entries. MarshalTree establishes the
// canonical order; in-memory order is whatever the caller built.
type Tree struct {
	Entries []TreeEntry
}

// Commit wraps the key-value header list and trailing message of a commit.
// Unknown headers survive a parse/serialize round trip untouched.
type Commit struct {
	Fields *KVLM
}

// Tag wraps the header list and message of an annotated tag object.
type Tag struct {
	Fields *KVLM
}

// Tree returns the hash named by the commit's "tree" header.
func (c *Commit) Tree() Hash {
	v, _ := c.Fields.Get("tree")
	return Hash(v)
}

// Parents returns the hashes of all "parent" headers in file order.
func (c *Commit) Parents() []Hash {
	vals := c.Fields.Values("parent")
	out := make([]Hash, len(vals))
	for i, v := range vals {
		out[i] = Hash(v)
	}
	return out
}

// Message returns the commit's trailing message.
func (c *Commit) Message() []byte {
	return c.Fields.Message
}

// Target returns the hash named by the tag's "object" header.
func (t *Tag) Target() Hash {
	v, _ := t.Fields.Get("object")
	return Hash(v)
}

// TargetType returns the object type named by the tag's "type" header.
func (t *Tag) TargetType() Type {
	v, _ := t.Fields.Get("type")
	return Type(v)
}

// Name returns the tag name from the "tag" header.
func (t *Tag) Name() string {
	v, _ := t.Fields.Get("tag")
	return string(v)
}
