package persist

import (
	"fmt"
	"hash/fnv"

	"github.com/dgraph-io/badger/v3"

	"github.com/d4rkang3l/json-crdt/op"
	"github.com/d4rkang3l/json-crdt/store"
)

// BadgerLog is a durable, append-only log of a single document's
// operations, keyed so that a full scan replays the add-set records and
// then the remove-set records, each in timestamp order. It is adapted from the teacher's store.BadgerStore (key/value
// Get/Set/Scan over *badger.DB) and manager.SaveOp's ops/<root>/<ts>_<n>
// key scheme, narrowed to a single document per BadgerLog instance.
type BadgerLog struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Badger database at path to back a
// single document's operation log.
func Open(path string) (*BadgerLog, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("persist: opening badger log at %q: %w", path, err)
	}
	return &BadgerLog{db: db}, nil
}

// Close releases the underlying Badger database.
func (l *BadgerLog) Close() error {
	return l.db.Close()
}

// Append persists o into the add-set log (or the remove-set log, when
// tombstone is true) as its own key so replaying the whole prefix
// reconstructs the two-set store via idempotent Add/Remove calls.
func (l *BadgerLog) Append(o op.Operation, tombstone bool) error {
	data, err := encodeOperation(o, tombstone)
	if err != nil {
		return fmt.Errorf("persist: encoding operation: %w", err)
	}
	key := recordKey(o, tombstone)
	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// Load replays every persisted record into a fresh store.TwoSet. Because
// store.TwoSet.Add and Remove are idempotent, replay order across the two
// prefixes (add records, then remove records) does not affect the result.
func (l *BadgerLog) Load() (*store.TwoSet, error) {
	s := store.New()
	err := l.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("reading record %q: %w", item.Key(), err)
			}
			o, tombstone, err := decodeOperation(data)
			if err != nil {
				return fmt.Errorf("decoding record %q: %w", item.Key(), err)
			}
			if tombstone {
				s.Remove(o)
			} else {
				s.Add(o)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// recordKey packs the timestamp big-endian-in-decimal so that Badger's
// natural key ordering matches operation timestamp order, the same
// zero-padded-decimal trick the teacher's SaveOp uses. The kind and a hash
// of the canonical patch follow, so operations sharing a timestamp get
// distinct keys.
func recordKey(o op.Operation, tombstone bool) []byte {
	prefix := "add"
	if tombstone {
		prefix = "rem"
	}
	h := fnv.New64a()
	h.Write([]byte(o.Patch().Canonical()))
	return []byte(fmt.Sprintf("%s/%020d/%s/%016x", prefix, o.Timestamp(), o.Kind(), h.Sum64()))
}
