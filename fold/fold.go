// Package fold implements the CRDT fold engine of spec §4.D: it
// materializes a JSON document from a two-set store's effective
// operations, applied in the §4.B total order up to an optional timestamp
// bound.
package fold

import (
	"fmt"
	"math"

	"github.com/d4rkang3l/json-crdt/op"
)

// PatchApplyError records a patch that failed to apply during a fold. Per
// spec §7 the fold recovers locally: the failing operation is skipped and
// folding continues. PatchApplyError values are never returned as the
// fold's error; they are only accumulated into the diagnostics slice.
type PatchApplyError struct {
	Timestamp uint64
	Kind      op.Kind
	Cause     error
}

func (e *PatchApplyError) Error() string {
	return fmt.Sprintf("fold: %s operation at ts=%d failed to apply: %v", e.Kind, e.Timestamp, e.Cause)
}

func (e *PatchApplyError) Unwrap() error { return e.Cause }

// Latest is the tsLimit value meaning "no bound".
const Latest uint64 = math.MaxUint64

// Document materializes the document from effective, an already-sorted
// (§4.B order) slice of effective operations — typically store.TwoSet.
// Effective() — considering only operations with timestamp <= tsLimit.
// It returns the resulting document (nil if absent), whether the fold was
// sealed by a DELETE, and any PatchApplyErrors encountered along the way
// (never returned as a Go error; see spec §7).
func Document(effective []op.Operation, tsLimit uint64, patcher op.Patcher) (doc op.Document, sealed bool, diagnostics []error) {
	for _, o := range effective {
		if o.Timestamp() > tsLimit {
			continue
		}
		switch o.Kind() {
		case op.KindCreate:
			if doc != nil {
				// A CREATE after the document already exists is a no-op:
				// only the first CREATE in order wins.
				continue
			}
			next, err := o.Process(nil, patcher)
			if err != nil {
				diagnostics = append(diagnostics, &PatchApplyError{Timestamp: o.Timestamp(), Kind: o.Kind(), Cause: err})
				continue
			}
			doc = next
		case op.KindUpdate:
			if doc == nil {
				// Update against an absent document is silently dropped.
				continue
			}
			next, err := o.Process(doc, patcher)
			if err != nil {
				diagnostics = append(diagnostics, &PatchApplyError{Timestamp: o.Timestamp(), Kind: o.Kind(), Cause: err})
				continue
			}
			doc = next
		case op.KindRead:
			// Observational only; no effect on doc.
		case op.KindDelete:
			doc = nil
			sealed = true
			return doc, sealed, diagnostics
		}
	}
	return doc, sealed, diagnostics
}

// DocumentLatest is Document with tsLimit = Latest.
func DocumentLatest(effective []op.Operation, patcher op.Patcher) (op.Document, bool, []error) {
	return Document(effective, Latest, patcher)
}
