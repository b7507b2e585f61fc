// Package persist adapts a Manager's in-memory two-set store onto a
// durable append-only Badger log, encoded with msgpack. It is an
// external collaborator in the sense of spec.md §1 ("only their
// interfaces are specified"): the core op/store/fold/manager packages
// have no dependency on persist, and never will.
package persist

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/d4rkang3l/json-crdt/op"
)

// record is the on-disk shape of a single stored operation, msgpack-tagged
// the way the teacher's RGA snapshot codec tags its state struct.
type record struct {
	Kind      uint8  `msgpack:"kind"`
	Timestamp uint64 `msgpack:"ts"`
	Patch     []byte `msgpack:"patch,omitempty"`
	Tombstone bool   `msgpack:"tomb,omitempty"`
}

func encodeOperation(o op.Operation, tombstone bool) ([]byte, error) {
	var patchJSON []byte
	if p := o.Patch(); len(p) > 0 {
		b, err := marshalPatch(p)
		if err != nil {
			return nil, err
		}
		patchJSON = b
	}
	r := record{
		Kind:      uint8(o.Kind()),
		Timestamp: o.Timestamp(),
		Patch:     patchJSON,
		Tombstone: tombstone,
	}
	return msgpack.Marshal(&r)
}

func decodeOperation(data []byte) (o op.Operation, tombstone bool, err error) {
	var r record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return op.Operation{}, false, err
	}
	kind := op.Kind(r.Kind)
	var patch op.Patch
	if len(r.Patch) > 0 {
		patch, err = unmarshalPatch(r.Patch)
		if err != nil {
			return op.Operation{}, false, err
		}
	}
	switch kind {
	case op.KindCreate:
		o = op.NewCreate(r.Timestamp, patch)
	case op.KindRead:
		o = op.NewRead(r.Timestamp)
	case op.KindUpdate:
		o = op.NewUpdate(r.Timestamp, patch)
	case op.KindDelete:
		o = op.NewDelete(r.Timestamp)
	}
	return o, r.Tombstone, nil
}
