package jsonpatch_test

import (
	"errors"
	"testing"

	"github.com/d4rkang3l/json-crdt/jsonpatch"
	"github.com/d4rkang3l/json-crdt/op"
)

type widget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMapperRoundTrip(t *testing.T) {
	m := jsonpatch.Mapper[widget]{}
	want := widget{Name: "bolt", Count: 3}

	doc, err := m.ToTree(want)
	if err != nil {
		t.Fatalf("ToTree failed: %v", err)
	}
	if doc == nil {
		t.Fatalf("expected a non-nil document")
	}

	got, err := m.FromTree(doc)
	if err != nil {
		t.Fatalf("FromTree failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMapperFromTreeEmptyDocumentErrors(t *testing.T) {
	m := jsonpatch.Mapper[widget]{}
	_, err := m.FromTree(nil)
	if err == nil {
		t.Fatalf("expected an error for an empty document")
	}
	var mapErr *jsonpatch.MapperError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected a *MapperError, got %T", err)
	}
}

func TestMapperFromTreeShapeMismatchErrors(t *testing.T) {
	m := jsonpatch.Mapper[widget]{}
	_, err := m.FromTree(op.Document(`"not an object"`))
	if err == nil {
		t.Fatalf("expected an error for a shape mismatch")
	}
	var mapErr *jsonpatch.MapperError
	if !errors.As(err, &mapErr) {
		t.Fatalf("expected a *MapperError, got %T", err)
	}
}
