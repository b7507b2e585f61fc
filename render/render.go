// Package render produces the canonical textual serialization of a
// two-set store (spec §6.F): add_set, rem_set, and the effective op_set,
// each as a stable-ordered JSON array, suitable for equality assertions
// in tests and for diagnostic dumps.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/d4rkang3l/json-crdt/op"
	"github.com/d4rkang3l/json-crdt/store"
)

type opRecord struct {
	Kind      string `json:"kind"`
	Timestamp uint64 `json:"ts"`
	Patch     string `json:"patch,omitempty"`
}

func toRecords(ops []op.Operation) []opRecord {
	out := make([]opRecord, 0, len(ops))
	for _, o := range ops {
		out = append(out, opRecord{
			Kind:      o.Kind().String(),
			Timestamp: o.Timestamp(),
			Patch:     o.Patch().Canonical(),
		})
	}
	return out
}

// Store renders s as a single JSON object with "add_set", "rem_set" and
// "op_set" keys, each an array of operations in §4.B order. Key order is
// fixed so the output is stable across calls and suitable for direct
// string comparison in tests.
func Store(s *store.TwoSet) string {
	var buf bytes.Buffer
	buf.WriteString("{")
	writeField(&buf, "add_set", toRecords(s.AddSet()))
	buf.WriteString(",")
	writeField(&buf, "rem_set", toRecords(s.RemSet()))
	buf.WriteString(",")
	writeField(&buf, "op_set", toRecords(s.Effective()))
	buf.WriteString("}")
	return buf.String()
}

func writeField(buf *bytes.Buffer, name string, records []opRecord) {
	b, err := json.Marshal(records)
	if err != nil {
		// opRecord is always marshalable (plain strings/ints); a failure
		// here would mean a programming error, not a data error.
		panic(fmt.Sprintf("render: unexpected marshal failure: %v", err))
	}
	fmt.Fprintf(buf, "%q:%s", name, b)
}

// Operations renders a bare operation slice the same way Store renders
// one of its three fields, useful for an ad hoc operation list outside a
// TwoSet.
func Operations(ops []op.Operation) string {
	b, err := json.Marshal(toRecords(ops))
	if err != nil {
		panic(fmt.Sprintf("render: unexpected marshal failure: %v", err))
	}
	return string(b)
}
