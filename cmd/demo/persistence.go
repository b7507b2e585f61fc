package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/d4rkang3l/json-crdt/manager"
	"github.com/d4rkang3l/json-crdt/persist"
	"github.com/d4rkang3l/json-crdt/render"
)

// persistAndReload writes m's operation log to a Badger database under
// dir, closes it, reopens it, and replays it into a fresh manager to
// prove the round trip is lossless. It prints the canonical rendering of
// both stores so a diff would surface any divergence.
func persistAndReload(dir string, m *manager.Manager[Note]) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("preparing persist dir: %w", err)
	}
	path := filepath.Join(dir, "note-log")

	log, err := persist.Open(path)
	if err != nil {
		return fmt.Errorf("opening operation log: %w", err)
	}

	before := m.Store()
	for _, o := range before.AddSet() {
		if err := log.Append(o, false); err != nil {
			log.Close()
			return fmt.Errorf("appending add-set entry: %w", err)
		}
	}
	for _, o := range before.RemSet() {
		if err := log.Append(o, true); err != nil {
			log.Close()
			return fmt.Errorf("appending rem-set entry: %w", err)
		}
	}
	if err := log.Close(); err != nil {
		return fmt.Errorf("closing operation log: %w", err)
	}

	reopened, err := persist.Open(path)
	if err != nil {
		return fmt.Errorf("reopening operation log: %w", err)
	}
	defer reopened.Close()

	restored, err := reopened.Load()
	if err != nil {
		return fmt.Errorf("replaying operation log: %w", err)
	}

	fmt.Println("store before persistence round trip:")
	fmt.Println(" ", render.Store(before))
	fmt.Println("store after replay from disk:")
	fmt.Println(" ", render.Store(restored))

	if !before.Equal(restored) {
		return fmt.Errorf("persistence round trip lost operations")
	}
	return nil
}
