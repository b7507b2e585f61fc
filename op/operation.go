// Package op defines the operation value types and the total order used to
// fold them into a materialized document.
package op

// Kind identifies which of the four operation variants an Operation is.
type Kind uint8

const (
	KindCreate Kind = iota
	KindRead
	KindUpdate
	KindDelete
)

// rank is the tie-break order used by Compare: CREATE < READ < UPDATE < DELETE.
func (k Kind) rank() int {
	switch k {
	case KindCreate:
		return 0
	case KindRead:
		return 1
	case KindUpdate:
		return 2
	case KindDelete:
		return 3
	default:
		return 99
	}
}

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindRead:
		return "read"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is an immutable, timestamped descriptor of a CREATE, READ,
// UPDATE or DELETE against the shared document. READ and DELETE never carry
// a patch; CREATE and UPDATE always do.
type Operation struct {
	kind  Kind
	ts    uint64
	patch Patch
}

// NewCreate seeds the document from the empty value.
func NewCreate(ts uint64, patch Patch) Operation {
	return Operation{kind: KindCreate, ts: ts, patch: patch}
}

// NewRead is purely observational; it contributes nothing to the
// materialized value but participates in ordering and counts.
func NewRead(ts uint64) Operation {
	return Operation{kind: KindRead, ts: ts}
}

// NewUpdate transforms the document via patch.
func NewUpdate(ts uint64, patch Patch) Operation {
	return Operation{kind: KindUpdate, ts: ts, patch: patch}
}

// NewDelete marks the document absent from ts onward, sealing any fold
// window that reaches it.
func NewDelete(ts uint64) Operation {
	return Operation{kind: KindDelete, ts: ts}
}

func (o Operation) Timestamp() uint64 { return o.ts }
func (o Operation) Kind() Kind        { return o.kind }
func (o Operation) Patch() Patch      { return o.patch }
func (o Operation) IsCreated() bool   { return o.kind == KindCreate }
func (o Operation) IsDeleted() bool   { return o.kind == KindDelete }

// Copy returns a structural clone of o. Operation is a value type, so this
// exists only for API symmetry with callers that expect an explicit copy
// step before mutating a retrieved patch slice.
func (o Operation) Copy() Operation {
	return Operation{kind: o.kind, ts: o.ts, patch: o.patch.Copy()}
}

// Patcher applies a JSON patch to a document. It is the Process step's only
// dependency on the outside world; see jsonpatch.Patcher for the concrete
// adapter.
type Patcher interface {
	Apply(doc Document, patch Patch) (Document, error)
}

// Process executes the fold step for a single operation (spec §4.A).
// DELETE always returns an absent document. READ returns doc unchanged.
// CREATE and UPDATE both delegate to patcher against the given base
// document; the fold engine (package fold) is responsible for only calling
// Process with a base appropriate to the operation's kind (nil for CREATE,
// present for UPDATE).
func (o Operation) Process(doc Document, patcher Patcher) (Document, error) {
	switch o.kind {
	case KindDelete:
		return nil, nil
	case KindRead:
		return doc, nil
	case KindCreate, KindUpdate:
		return patcher.Apply(doc, o.patch)
	default:
		return doc, nil
	}
}

// Equal reports whether a and b are value-equal: same kind, same
// timestamp, and value-equal patches.
func Equal(a, b Operation) bool {
	return a.kind == b.kind && a.ts == b.ts && a.patch.Equal(b.patch)
}

// Compare implements the total order of spec §4.B: timestamp ascending,
// then kind rank, then lexicographic comparison of the canonical patch
// string. It returns -1, 0 or 1 the way sort.Compare-style functions do.
func Compare(a, b Operation) int {
	if a.ts != b.ts {
		if a.ts < b.ts {
			return -1
		}
		return 1
	}
	ar, br := a.kind.rank(), b.kind.rank()
	if ar != br {
		if ar < br {
			return -1
		}
		return 1
	}
	ac, bc := a.patch.Canonical(), b.patch.Canonical()
	if ac == bc {
		return 0
	}
	if ac < bc {
		return -1
	}
	return 1
}

// Less is Compare expressed as the boolean form orderedset.Set requires.
func Less(a, b Operation) bool {
	return Compare(a, b) < 0
}
