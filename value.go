package guccomposite

// Kind is the runtime shape of a Value: one of the four atoms or one of
// the two composite constructors. It mirrors DescKind one-to-one but lives
// on the value rather than the descriptor, so a *Value can be inspected
// without a registry lookup.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindReal
	KindString
	KindRecord
	KindFixedArray
	KindDynamicArray
)

// Value is the in-memory representation of a parsed or constructed
// composite value. It is a small tagged tree, not a raw byte buffer: the
// Layout Engine (layout.go) computes the C-compatible size/align/offset
// numbers a host would need to cast a real C struct, but this tree is
// what the rest of the package actually walks, clones, compares and
// frees. See DESIGN.md for why no unsafe-addressed arena is used.
type Value struct {
	Kind Kind

	// Atoms.
	BoolVal   bool
	IntVal    int64
	RealVal   float64
	StringVal string
	// IsNull marks a KindString value as the bare "nil" sentinel rather
	// than an empty string; only meaningful when Kind == KindString.
	IsNull bool

	// Record: Elems is ordered the same as the descriptor's Fields.
	// FixedArray / DynamicArray: Elems holds the element values; for a
	// DynamicArray len(Elems) is the runtime length (no separate
	// capacity field is tracked, matching Go slice semantics).
	Elems []*Value
}

// NewBool, NewInt, NewReal and NewString build atomic values.
func NewBool(b bool) *Value     { return &Value{Kind: KindBool, BoolVal: b} }
func NewInt(i int64) *Value     { return &Value{Kind: KindInt, IntVal: i} }
func NewReal(r float64) *Value  { return &Value{Kind: KindReal, RealVal: r} }
func NewString(s string) *Value { return &Value{Kind: KindString, StringVal: s} }

// NewNullString returns the bare "nil" sentinel string value.
func NewNullString() *Value { return &Value{Kind: KindString, IsNull: true} }

// NewRecord and NewArray build composite values from already-constructed
// children. The caller is responsible for matching the shape implied by
// the corresponding Descriptor.
func NewRecord(fields []*Value) *Value {
	return &Value{Kind: KindRecord, Elems: fields}
}

func NewFixedArray(elems []*Value) *Value {
	return &Value{Kind: KindFixedArray, Elems: elems}
}

func NewDynamicArray(elems []*Value) *Value {
	return &Value{Kind: KindDynamicArray, Elems: elems}
}
