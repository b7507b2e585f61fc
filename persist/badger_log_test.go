package persist_test

import (
	"path/filepath"
	"testing"

	"github.com/d4rkang3l/json-crdt/op"
	"github.com/d4rkang3l/json-crdt/persist"
)

func TestAppendThenLoadReplaysEffectiveSet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "doc1")
	log, err := persist.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer log.Close()

	c := op.NewCreate(10, op.Patch{{Op: "add", Path: "", Value: map[string]int{"n": 1}}})
	u := op.NewUpdate(20, op.Patch{{Op: "replace", Path: "/n", Value: 2}})
	if err := log.Append(c, false); err != nil {
		t.Fatalf("append CREATE failed: %v", err)
	}
	if err := log.Append(u, false); err != nil {
		t.Fatalf("append UPDATE failed: %v", err)
	}

	s, err := log.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Count(op.KindCreate) != 1 || s.Count(op.KindUpdate) != 1 {
		t.Fatalf("expected one CREATE and one UPDATE, got create=%d update=%d",
			s.Count(op.KindCreate), s.Count(op.KindUpdate))
	}
}

func TestAppendTombstoneRemovesFromEffectiveSet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "doc2")
	log, err := persist.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer log.Close()

	c := op.NewCreate(10, op.Patch{{Op: "add", Path: "", Value: map[string]int{"n": 1}}})
	if err := log.Append(c, false); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := log.Append(c, true); err != nil {
		t.Fatalf("append tombstone failed: %v", err)
	}

	s, err := log.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.IsEmpty() {
		t.Fatalf("expected the tombstoned operation to be excluded from the effective set")
	}
}

func TestReopenPreservesLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "doc3")
	log, err := persist.Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	c := op.NewCreate(5, op.Patch{{Op: "add", Path: "", Value: 1}})
	if err := log.Append(c, false); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened, err := persist.Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	s, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if s.Count(op.KindCreate) != 1 {
		t.Fatalf("expected the persisted CREATE to survive a reopen")
	}
}
