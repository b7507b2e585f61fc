package op

import (
	"bytes"
	"encoding/json"
)

// Document is a JSON value carried through the fold. A nil Document
// represents the "absent" (Option::None) state from spec §3; a non-nil,
// zero-length or literal "null" Document is a present JSON null.
type Document []byte

// Entry is a single RFC-6902 patch operation.
type Entry struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
	From  string      `json:"from,omitempty"`
}

// Patch is an ordered RFC-6902 sequence. A nil Patch is valid and used by
// READ and DELETE operations, which never carry one.
type Patch []Entry

// Canonical returns a deterministic textual form of p, used as the final
// tie-breaker in Compare. READ and DELETE (nil patch) canonicalize to the
// empty string per spec §4.B.
func (p Patch) Canonical() string {
	if len(p) == 0 {
		return ""
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	// Re-encode through a generic value: encoding/json marshals map values
	// with sorted keys, so object members come out in the same order whether
	// an entry's Value was built from a map, a struct or pre-encoded JSON.
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return string(b)
	}
	nb, err := json.Marshal(generic)
	if err != nil {
		return string(b)
	}
	return string(nb)
}

// Equal reports whether p and q are value-equal via their canonical form.
func (p Patch) Equal(q Patch) bool {
	return p.Canonical() == q.Canonical()
}

// Copy returns a shallow clone of p's entries. Entry values are themselves
// copied; Value is not deep-cloned, matching the immutability contract the
// fold engine relies on (patches are never mutated in place once built).
func (p Patch) Copy() Patch {
	if p == nil {
		return nil
	}
	out := make(Patch, len(p))
	copy(out, p)
	return out
}
