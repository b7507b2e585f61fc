package jsonpatch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/wI2L/jsondiff"

	"github.com/d4rkang3l/json-crdt/op"
)

// Patcher is the default op.Patcher plus the diff half of the external
// mapper contract (spec §6.1: diff/apply). Diff is grounded on
// github.com/wI2L/jsondiff (used the same way by gihan9a-braid-mock to
// compute resource patches for its braid subscription protocol). Apply is
// grounded on github.com/tidwall/{gjson,sjson}, present in that same
// repository's dependency graph but never exercised by its own code —
// promoted here to direct use for RFC-6902 patch application, since no
// example in the retrieval pack applies patches at all.
type Patcher struct{}

// Default is the package-level Patcher instance most callers should use.
var Default = Patcher{}

// Diff produces the RFC-6902 patch that transforms before into after.
// A nil before is treated as the JSON literal null, matching CREATE's
// "document absent or empty" base case (spec §4.A).
func (Patcher) Diff(before, after op.Document) (op.Patch, error) {
	b := before
	if len(b) == 0 {
		b = op.Document("null")
	}
	a := after
	if len(a) == 0 {
		a = op.Document("null")
	}
	patch, err := jsondiff.CompareJSON(b, a)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: diff failed: %w", err)
	}
	// jsondiff.Patch already marshals to the standard {op,path,value,from}
	// shape; round-tripping through our own Entry type keeps this package
	// decoupled from jsondiff's exact struct layout.
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("jsonpatch: diff marshal failed: %w", err)
	}
	var entries op.Patch
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("jsonpatch: diff unmarshal failed: %w", err)
	}
	return entries, nil
}

// Apply applies patch to doc, returning the resulting document. A nil doc
// is treated as the JSON literal null. Supports "add", "replace", "remove"
// and "test"; "test" only checks that the path exists and does not compare
// its value. "move" and "copy" are rejected since Diff calls
// jsondiff.CompareJSON without its factorizing option, so it never emits
// them.
func (Patcher) Apply(doc op.Document, patch op.Patch) (op.Document, error) {
	cur := []byte(doc)
	if len(cur) == 0 {
		cur = []byte("null")
	}
	for _, e := range patch {
		var err error
		switch e.Op {
		case "add", "replace":
			if e.Path == "" || e.Path == "/" {
				cur, err = json.Marshal(e.Value)
				break
			}
			cur, err = sjson.SetBytes(cur, pointerToPath(e.Path), e.Value)
		case "remove":
			if e.Path == "" || e.Path == "/" {
				cur = []byte("null")
				break
			}
			cur, err = sjson.DeleteBytes(cur, pointerToPath(e.Path))
		case "test":
			if !gjson.GetBytes(cur, pointerToPath(e.Path)).Exists() {
				err = fmt.Errorf("test failed: path %q does not exist", e.Path)
			}
		default:
			err = fmt.Errorf("unsupported patch operation %q", e.Op)
		}
		if err != nil {
			return nil, fmt.Errorf("jsonpatch: apply %q %q: %w", e.Op, e.Path, err)
		}
	}
	return op.Document(cur), nil
}

// pointerToPath converts an RFC-6901 JSON Pointer ("/a/b~1c/0") into the
// dot-separated path syntax gjson/sjson expect ("a.b/c.0"), unescaping
// "~1" and "~0" per RFC-6901 §4. The RFC-6902 end-of-array segment "-"
// becomes sjson's append index "-1".
func pointerToPath(pointer string) string {
	p := strings.TrimPrefix(pointer, "/")
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		seg = strings.ReplaceAll(seg, "~1", "/")
		seg = strings.ReplaceAll(seg, "~0", "~")
		if seg == "-" {
			seg = "-1"
		}
		segments[i] = seg
	}
	return strings.Join(segments, ".")
}
