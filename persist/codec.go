package persist

import (
	"encoding/json"

	"github.com/d4rkang3l/json-crdt/op"
)

// marshalPatch/unmarshalPatch round-trip a Patch through JSON rather than
// msgpack directly: Patch.Entry.Value can hold a json.Marshaler (see
// manager's rawJSON helper), and only encoding/json is guaranteed to
// invoke it. The JSON bytes are then stored inside the msgpack record as
// an opaque []byte field.
func marshalPatch(p op.Patch) ([]byte, error) {
	return json.Marshal(p)
}

func unmarshalPatch(data []byte) (op.Patch, error) {
	var p op.Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}
