package render_test

import (
	"strings"
	"testing"

	"github.com/d4rkang3l/json-crdt/op"
	"github.com/d4rkang3l/json-crdt/render"
	"github.com/d4rkang3l/json-crdt/store"
)

func TestStoreRendersAllThreeSets(t *testing.T) {
	s := store.New()
	c := op.NewCreate(10, op.Patch{{Op: "add", Path: "", Value: 1}})
	d := op.NewDelete(20)
	s.Add(c)
	s.Add(d)

	out := render.Store(s)
	for _, key := range []string{`"add_set"`, `"rem_set"`, `"op_set"`} {
		if !strings.Contains(out, key) {
			t.Fatalf("expected rendered output to contain %s, got %s", key, out)
		}
	}
}

func TestStoreIsStableAcrossCalls(t *testing.T) {
	s := store.New()
	s.Add(op.NewCreate(10, op.Patch{{Op: "add", Path: "", Value: 1}}))
	s.Add(op.NewUpdate(20, op.Patch{{Op: "replace", Path: "/n", Value: 2}}))

	a := render.Store(s)
	b := render.Store(s)
	if a != b {
		t.Fatalf("expected repeated renders to be identical, got %q vs %q", a, b)
	}
}

func TestOperationsRendersKindAndTimestamp(t *testing.T) {
	out := render.Operations([]op.Operation{op.NewRead(5)})
	if !strings.Contains(out, `"read"`) || !strings.Contains(out, `"ts":5`) {
		t.Fatalf("expected kind and timestamp in output, got %q", out)
	}
}
