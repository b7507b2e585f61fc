package store_test

import (
	"testing"

	"github.com/d4rkang3l/json-crdt/op"
	"github.com/d4rkang3l/json-crdt/store"
)

func TestAddIdempotent(t *testing.T) {
	s := store.New()
	o := op.NewCreate(10, op.Patch{{Op: "add", Path: "", Value: map[string]int{"n": 1}}})
	if !s.Add(o) {
		t.Fatalf("expected first add to change the store")
	}
	if s.Add(o) {
		t.Fatalf("expected duplicate add to be a no-op")
	}
	if s.Count(op.KindCreate) != 1 {
		t.Fatalf("expected exactly one effective CREATE, got %d", s.Count(op.KindCreate))
	}
}

func TestRemoveDominatesRegardlessOfOrder(t *testing.T) {
	o := op.NewUpdate(20, op.Patch{{Op: "replace", Path: "/n", Value: 2}})

	addThenRemove := store.New()
	addThenRemove.Add(o)
	addThenRemove.Remove(o)

	removeThenAdd := store.New()
	removeThenAdd.Remove(o)
	removeThenAdd.Add(o)

	for name, s := range map[string]*store.TwoSet{"add-then-remove": addThenRemove, "remove-then-add": removeThenAdd} {
		for _, e := range s.Effective() {
			if op.Equal(e, o) {
				t.Fatalf("%s: expected o to be absent from the effective set", name)
			}
		}
	}
}

func TestRemoveWithoutPriorAdd(t *testing.T) {
	s := store.New()
	o := op.NewDelete(5)
	if !s.Remove(o) {
		t.Fatalf("expected remove-set insertion to report a change even without a matching add")
	}
	if !s.IsEmpty() {
		t.Fatalf("expected empty effective set")
	}
}

func TestMergeCommutativeAssociativeIdempotent(t *testing.T) {
	a := store.New()
	a.Add(op.NewCreate(10, op.Patch{{Op: "add", Path: "", Value: map[string]int{"a": 1}}}))
	b := store.New()
	b.Add(op.NewUpdate(20, op.Patch{{Op: "replace", Path: "/a", Value: 2}}))
	c := store.New()
	c.Add(op.NewDelete(30))

	ab := store.Merge(a, b)
	ba := store.Merge(b, a)
	if !ab.Equal(ba) {
		t.Fatalf("expected merge to be commutative")
	}

	abc1 := store.Merge(store.Merge(a, b), c)
	abc2 := store.Merge(a, store.Merge(b, c))
	if !abc1.Equal(abc2) {
		t.Fatalf("expected merge to be associative")
	}

	self := store.Merge(a, a)
	if !self.Equal(a) {
		t.Fatalf("expected merge to be idempotent")
	}
}

func TestClear(t *testing.T) {
	s := store.New()
	s.Add(op.NewRead(1))
	s.Clear()
	if !s.IsEmpty() {
		t.Fatalf("expected store to be empty after Clear")
	}
}
