package manager

import "github.com/d4rkang3l/json-crdt/op"

// MakeCreate builds a CREATE operation whose patch sets the document to
// value's JSON tree (spec §4.A: "add" at the document root).
func (m *Manager[T]) MakeCreate(ts uint64, value T) (op.Operation, error) {
	doc, err := m.mapper.ToTree(value)
	if err != nil {
		return op.Operation{}, err
	}
	return op.NewCreate(ts, op.Patch{{Op: "add", Path: "", Value: jsonRawValue(doc)}}), nil
}

// MakeCreateDefault builds a CREATE operation from the manager's schema
// default constructor (spec.md Design Notes: explicit default capability
// in place of reflective instantiation).
func (m *Manager[T]) MakeCreateDefault(ts uint64) (op.Operation, error) {
	v, err := m.schema.Construct()
	if err != nil {
		return op.Operation{}, err
	}
	return m.MakeCreate(ts, v)
}

// MakeRead builds a READ operation at ts (no patch, observational only).
func (m *Manager[T]) MakeRead(ts uint64) op.Operation {
	return op.NewRead(ts)
}

// MakeUpdate builds an UPDATE operation whose patch is computed by
// diffing the manager's current materialized document against value's
// JSON tree (spec §4.E: "make_update computes a patch by diffing the
// current materialized JSON against the new value").
func (m *Manager[T]) MakeUpdate(ts uint64, value T) (op.Operation, error) {
	after, err := m.mapper.ToTree(value)
	if err != nil {
		return op.Operation{}, err
	}
	before := m.Document()
	patch, err := m.opts.Differ.Diff(before, after)
	if err != nil {
		return op.Operation{}, err
	}
	return op.NewUpdate(ts, patch), nil
}

// MakeDelete builds a DELETE operation at ts (no patch; seals the fold).
func (m *Manager[T]) MakeDelete(ts uint64) op.Operation {
	return op.NewDelete(ts)
}

// jsonRawValue lets a pre-encoded document slot directly into a Patch
// Entry's Value field without being re-escaped as a JSON string.
func jsonRawValue(doc op.Document) interface{} {
	return rawJSON(doc)
}

type rawJSON []byte

func (r rawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return []byte(r), nil
}
