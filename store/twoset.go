// Package store implements the two-set operation store of spec §4.C: an
// add-set and a remove-set whose difference is the effective set folded
// into a document. Adapted from the teacher's crdt.ORSet (add-tag /
// remove-tag map pair), generalized from a single-element add/remove-wins
// set to an ordered set of whole Operation values under op.Compare.
package store

import (
	"github.com/d4rkang3l/json-crdt/op"
	"github.com/d4rkang3l/json-crdt/orderedset"
)

// TwoSet is the add-set/remove-set operation store. The zero value is not
// usable; construct with New.
type TwoSet struct {
	addSet *orderedset.Set[op.Operation]
	remSet *orderedset.Set[op.Operation]
}

// New returns an empty two-set store.
func New() *TwoSet {
	return &TwoSet{
		addSet: orderedset.New(op.Less, op.Equal),
		remSet: orderedset.New(op.Less, op.Equal),
	}
}

// Add inserts o into the add-set. Returns whether the add-set changed.
func (s *TwoSet) Add(o op.Operation) bool {
	return s.addSet.Add(o)
}

// Remove inserts o into the remove-set (a tombstone). It does not require
// o to already be present in the add-set, since deletes may arrive out of
// order. Returns whether the remove-set changed.
func (s *TwoSet) Remove(o op.Operation) bool {
	return s.remSet.Add(o)
}

// Effective returns add-set \ rem-set, in §4.B order. It is recomputed on
// every call — the effective set is never cached mutably.
func (s *TwoSet) Effective() []op.Operation {
	items := s.addSet.Items()
	out := make([]op.Operation, 0, len(items))
	for _, o := range items {
		if !s.remSet.Contains(o) {
			out = append(out, o)
		}
	}
	return out
}

// Clear empties both sets.
func (s *TwoSet) Clear() {
	s.addSet = orderedset.New(op.Less, op.Equal)
	s.remSet = orderedset.New(op.Less, op.Equal)
}

// IsEmpty reports whether the effective set is empty.
func (s *TwoSet) IsEmpty() bool {
	return len(s.Effective()) == 0
}

// Count returns the number of operations of the given kind in the
// effective set.
func (s *TwoSet) Count(kind op.Kind) int {
	n := 0
	for _, o := range s.Effective() {
		if o.Kind() == kind {
			n++
		}
	}
	return n
}

// Merge returns a new store that is the set-union of both add-sets and
// both remove-sets of a and b. Merge is commutative, associative and
// idempotent: it is purely a function of the two unions, never of
// insertion order.
func Merge(a, b *TwoSet) *TwoSet {
	return &TwoSet{
		addSet: orderedset.Union(a.addSet, b.addSet),
		remSet: orderedset.Union(a.remSet, b.remSet),
	}
}

// Merge is the method form of the package-level Merge, merging other into
// a freshly returned store without mutating s or other.
func (s *TwoSet) Merge(other *TwoSet) *TwoSet {
	return Merge(s, other)
}

// AddSet returns the raw add-set contents, in §4.B order. Exposed for
// render.Store and tests; this is the underlying ordered set's live
// backing slice (orderedset.Set.Items), not a copy — callers must not
// mutate it.
func (s *TwoSet) AddSet() []op.Operation { return s.addSet.Items() }

// RemSet returns the raw remove-set contents, in §4.B order. Same
// must-not-mutate contract as AddSet.
func (s *TwoSet) RemSet() []op.Operation { return s.remSet.Items() }

// Equal reports whether s and other have value-equal add-sets and
// remove-sets (same elements under op.Equal, order is implied by the
// shared total order).
func (s *TwoSet) Equal(other *TwoSet) bool {
	return sameElements(s.addSet.Items(), other.addSet.Items()) &&
		sameElements(s.remSet.Items(), other.remSet.Items())
}

func sameElements(a, b []op.Operation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !op.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
