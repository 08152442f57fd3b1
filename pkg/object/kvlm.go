package object

import (
	"bytes"
	"fmt"
)

// KVLM is the key-value-list-with-message encoding shared by commits and
// annotated tags: a run of "key value" header lines, a blank line, then a
// free-form message. Values may span lines; continuation lines start with a
// single space. A repeated key (e.g. "parent") accumulates values in file
// order. Header keys keep first-insertion order so that a parse/serialize
// round trip is byte-identical.
type KVLM struct {
	headers []kvlmHeader
	index   map[string]int

	// Message is everything after the first blank line, verbatim.
	Message []byte
}

type kvlmHeader struct {
	key    string
	values [][]byte
}

// NewKVLM returns an empty header list with an empty message.
func NewKVLM() *KVLM {
	return &KVLM{index: make(map[string]int)}
}

// Get returns the first value stored under key.
func (k *KVLM) Get(key string) ([]byte, bool) {
	i, ok := k.index[key]
	if !ok {
		return nil, false
	}
	return k.headers[i].values[0], true
}

// Values returns all values stored under key, in insertion order.
func (k *KVLM) Values(key string) [][]byte {
	i, ok := k.index[key]
	if !ok {
		return nil
	}
	return k.headers[i].values
}

// Add appends a value under key, creating the key at the end of the header
// order if it is new.
func (k *KVLM) Add(key string, value []byte) {
	if i, ok := k.index[key]; ok {
		k.headers[i].values = append(k.headers[i].values, value)
		return
	}
	k.index[key] = len(k.headers)
	k.headers = append(k.headers, kvlmHeader{key: key, values: [][]byte{value}})
}

// Set replaces all values under key with the single given value.
func (k *KVLM) Set(key string, value []byte) {
	if i, ok := k.index[key]; ok {
		k.headers[i].values = [][]byte{value}
		return
	}
	k.Add(key, value)
}

// Keys returns header keys in insertion order.
func (k *KVLM) Keys() []string {
	out := make([]string, len(k.headers))
	for i, h := range k.headers {
		out[i] = h.key
	}
	return out
}

// ParseKVLM decodes a header list and trailing message. The scan is
// iterative: at each offset a header line runs up to the first newline not
// followed by a space; the first empty line ends the headers and everything
// after it is the message.
func ParseKVLM(raw []byte) (*KVLM, error) {
	k := NewKVLM()
	pos := 0
	for {
		rest := raw[pos:]
		spc := bytes.IndexByte(rest, ' ')
		nl := bytes.IndexByte(rest, '\n')

		// No space before the next newline: the header section is over.
		if spc < 0 || (nl >= 0 && nl < spc) {
			if nl != 0 {
				return nil, fmt.Errorf("parse kvlm: header line without separator at offset %d: %w", pos, ErrMalformedObject)
			}
			k.Message = append([]byte(nil), raw[pos+1:]...)
			return k, nil
		}

		key := string(rest[:spc])

		// The value ends at the first newline whose successor is not a
		// space. Continuation lines fold by dropping the leading space.
		end := pos + spc
		for {
			off := bytes.IndexByte(raw[end+1:], '\n')
			if off < 0 {
				return nil, fmt.Errorf("parse kvlm: unterminated value for %q: %w", key, ErrMalformedObject)
			}
			end += 1 + off
			if end+1 >= len(raw) {
				return nil, fmt.Errorf("parse kvlm: missing message separator after %q: %w", key, ErrMalformedObject)
			}
			if raw[end+1] != ' ' {
				break
			}
		}

		value := bytes.ReplaceAll(raw[pos+spc+1:end], []byte("\n "), []byte("\n"))
		k.Add(key, value)
		pos = end + 1
	}
}

// Marshal encodes the header list followed by a blank line and the message.
// Every value of a key is emitted under that key in insertion order, with
// internal newlines escaped as "\n ".
func (k *KVLM) Marshal() []byte {
	var buf bytes.Buffer
	for _, h := range k.headers {
		for _, v := range h.values {
			buf.WriteString(h.key)
			buf.WriteByte(' ')
			buf.Write(bytes.ReplaceAll(v, []byte("\n"), []byte("\n ")))
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
	buf.Write(k.Message)
	return buf.Bytes()
}
