// Package manager provides the typed façade over the CRDT engine: a
// Manager[T] wraps a store.TwoSet and a schema.Schema[T], exposing the
// value-level operations callers actually want (Append/Retract/Merge/
// Value) instead of the raw operation and fold primitives.
package manager

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/d4rkang3l/json-crdt/fold"
	"github.com/d4rkang3l/json-crdt/jsonpatch"
	"github.com/d4rkang3l/json-crdt/op"
	"github.com/d4rkang3l/json-crdt/schema"
	"github.com/d4rkang3l/json-crdt/store"
)

// Options configures a Manager at construction time. There is no
// package-level mutable state; every knob lives on the value returned by
// New.
type Options struct {
	// ReplicaID is an opaque, caller-supplied label used only for
	// diagnostics and logging. It plays no role in operation ordering.
	ReplicaID string
	// LogMapperErrors routes PatchApplyError diagnostics from folds
	// through Logger instead of discarding them.
	LogMapperErrors bool
	// Strict makes Merge reject a peer whose schema ID differs from this
	// Manager's, instead of merging anyway.
	Strict bool
	// Logger receives diagnostics when LogMapperErrors is set. Defaults
	// to slog.Default() when nil.
	Logger *slog.Logger
	// Patcher applies patches during a fold. Defaults to jsonpatch.Default.
	Patcher op.Patcher
	// Differ computes the patch MakeUpdate appends, by diffing the current
	// materialized document against the caller's new value (spec §4.E).
	// Defaults to jsonpatch.Default.
	Differ Differ
}

// Differ computes the RFC-6902 patch that transforms before into after.
// jsonpatch.Patcher satisfies this alongside op.Patcher's Apply, which is
// how MakeUpdate reaches github.com/wI2L/jsondiff without the fold engine
// (which only ever applies, never diffs) needing to know about it.
type Differ interface {
	Diff(before, after op.Document) (op.Patch, error)
}

// Manager is the generic typed façade over a two-set operation store. It
// is safe for concurrent use.
type Manager[T any] struct {
	mu     sync.RWMutex
	schema schema.Schema[T]
	store  *store.TwoSet
	opts   Options
	mapper jsonpatch.Mapper[T]
}

// New builds an empty Manager for the given schema.
func New[T any](sc schema.Schema[T], opts Options) *Manager[T] {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Patcher == nil {
		opts.Patcher = jsonpatch.Default
	}
	if opts.Differ == nil {
		opts.Differ = jsonpatch.Default
	}
	return &Manager[T]{
		schema: sc,
		store:  store.New(),
		opts:   opts,
	}
}

// ReplicaID returns the manager's diagnostic replica label.
func (m *Manager[T]) ReplicaID() string { return m.opts.ReplicaID }

// SchemaID returns the identity of the schema this manager was built with.
func (m *Manager[T]) SchemaID() string { return m.schema.ID }

// Store returns a snapshot of the manager's underlying two-set store, for
// callers that need to hand it to render.Store or a persist.BadgerLog.
// Mutating the returned store never affects m.
func (m *Manager[T]) Store() *store.TwoSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Merge(store.New())
}

// LoadStore replaces m's store outright, the counterpart to Store used
// when restoring from a persist.BadgerLog.Load result.
func (m *Manager[T]) LoadStore(s *store.TwoSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = s
}

// Append adds o to the add-set. Idempotent: appending the same operation
// twice has no additional effect (store.TwoSet.Add).
func (m *Manager[T]) Append(o op.Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Add(o)
}

// Retract adds o to the remove-set, taking it out of the effective set
// regardless of add/remove order (spec §3).
func (m *Manager[T]) Retract(o op.Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Remove(o)
}

// Clear empties both the add-set and the remove-set.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Clear()
}

// Merge unions other's store into m's, in place. If Options.Strict is set
// and the two managers carry different schema IDs, Merge returns an error
// instead of merging.
func (m *Manager[T]) Merge(other *Manager[T]) error {
	if other == nil {
		return nil
	}
	other.mu.RLock()
	otherSchemaID := other.schema.ID
	otherStore := other.store
	m.mu.RLock()
	if m.opts.Strict && m.schema.ID != otherSchemaID {
		mySchemaID := m.schema.ID
		m.mu.RUnlock()
		other.mu.RUnlock()
		return fmt.Errorf("manager: cannot merge schema %q into %q under strict mode", otherSchemaID, mySchemaID)
	}
	merged := store.Merge(m.store, otherStore)
	m.mu.RUnlock()
	other.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = merged
	return nil
}

// Count returns the number of operations of the given kind currently in
// the effective set.
func (m *Manager[T]) Count(k op.Kind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Count(k)
}

// IsEmpty reports whether the effective set has no operations at all.
func (m *Manager[T]) IsEmpty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.IsEmpty()
}

// Document folds the effective set to the latest document, logging any
// PatchApplyError diagnostics per Options.LogMapperErrors.
func (m *Manager[T]) Document() op.Document {
	doc, _ := m.documentAt(fold.Latest)
	return doc
}

// DocumentAt folds the effective set up to and including ts.
func (m *Manager[T]) DocumentAt(ts uint64) op.Document {
	doc, _ := m.documentAt(ts)
	return doc
}

// IsCreated reports whether the effective set contains any CREATE
// operation, independent of a later DELETE (matching the ground truth's
// OperationTwoSet.isCreated(): a seen CREATE stays true even after the
// document is sealed absent, unlike Document() != nil).
func (m *Manager[T]) IsCreated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Count(op.KindCreate) > 0
}

// IsDeleted reports whether the latest fold is sealed by a DELETE.
func (m *Manager[T]) IsDeleted() bool {
	_, sealed := m.documentAt(fold.Latest)
	return sealed
}

func (m *Manager[T]) documentAt(ts uint64) (op.Document, bool) {
	m.mu.RLock()
	effective := m.store.Effective()
	replica := m.opts.ReplicaID
	logDiag := m.opts.LogMapperErrors
	logger := m.opts.Logger
	patcher := m.opts.Patcher
	m.mu.RUnlock()

	doc, sealed, diagnostics := fold.Document(effective, ts, patcher)
	if logDiag {
		for _, d := range diagnostics {
			logger.Warn("fold diagnostic", "replica", replica, "error", d)
		}
	}
	return doc, sealed
}

// Value folds the latest document and maps it into T. ok is false if the
// document is absent (deleted or never created) or fails to map.
func (m *Manager[T]) Value() (v T, ok bool) {
	return m.valueAt(fold.Latest)
}

// ValueAt is Value at a specific timestamp bound (time travel, spec §5).
func (m *Manager[T]) ValueAt(ts uint64) (v T, ok bool) {
	return m.valueAt(ts)
}

func (m *Manager[T]) valueAt(ts uint64) (v T, ok bool) {
	doc, _ := m.documentAt(ts)
	if doc == nil {
		return v, false
	}
	val, err := m.mapper.FromTree(doc)
	if err != nil {
		if m.opts.LogMapperErrors {
			m.opts.Logger.Warn("mapper diagnostic", "replica", m.opts.ReplicaID, "error", err)
		}
		return v, false
	}
	return val, true
}

// Equal reports whether m and other have equal stores (same add-set and
// same remove-set) and the same schema identity (spec §4.E).
func (m *Manager[T]) Equal(other *Manager[T]) bool {
	if other == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()
	return m.schema.ID == other.schema.ID && m.store.Equal(other.store)
}
