package guccomposite

import (
	"strconv"
	"strings"
)

// DescKind is the shape a registered Descriptor describes.
type DescKind int

const (
	DescAtom DescKind = iota
	DescRecord
	DescFixedArray
	DescDynamicArray
)

// AtomKind distinguishes the four built-in scalar types.
type AtomKind int

const (
	AtomBool AtomKind = iota
	AtomInt
	AtomReal
	AtomString
)

var atomNames = map[string]AtomKind{
	"bool":   AtomBool,
	"int":    AtomInt,
	"real":   AtomReal,
	"string": AtomString,
}

// Field is one named, ordered member of a record Descriptor.
type Field struct {
	Name     string
	TypeName string
}

// Descriptor is a registered composite (or built-in atomic) type. Array
// descriptors are synthesized on demand by Lookup from their textual form
// ("base[N]" / "base[]") rather than stored in the registry directly,
// exactly as the original implementation resolves array types by
// stripping brackets off the type name instead of pre-registering every
// array shape anyone might write.
type Descriptor struct {
	Name string
	Kind DescKind

	Atom AtomKind // valid when Kind == DescAtom

	Fields []Field // valid when Kind == DescRecord

	ElemTypeName string // valid when Kind is one of the array kinds
	ArrayLen     int     // valid when Kind == DescFixedArray
}

// VariableContext and VariableFlags are opaque to the core: a host
// assigns them whatever meaning its own configuration-context model
// needs. The subsystem stores but never interprets them.
type VariableContext int
type VariableFlags int

// VariableHooks groups the optional callbacks a host may supply when
// defining a composite-typed variable, mirroring the check/assign/show
// hook triple of the system this subsystem is modeled on.
type VariableHooks struct {
	Check  func(newVal *Value) error
	Assign func(newVal *Value)
	Show   func(val *Value) string
}

type variableEntry struct {
	Name      string
	ShortDesc string
	LongDesc  string
	TypeName  string
	Slot      **Value
	Boot      *Value
	Context   VariableContext
	Flags     VariableFlags
	Hooks     VariableHooks
}

// Registry is the single collaborator every exported function in this
// package operates through. A Registry starts out mutable (DefineType /
// DefineVariable may be called) and is expected to be frozen by the host
// (by simply no longer calling either) before concurrent reads begin — see
// SPEC_FULL.md §5 for the concurrency contract.
type Registry struct {
	types     map[string]*Descriptor
	variables map[string]*variableEntry

	// ExpandThreshold is the dynamic-array length at or above which the
	// serializer switches to the expanded {size:, data:} form. Matches
	// the original system's expand_array_view_thd tunable.
	ExpandThreshold int

	// Diagnostics receives every ParseError returned by ParseComposite on
	// this registry. NewRegistry sets it to DefaultDiagnostics(); when nil,
	// nothing is reported.
	Diagnostics Diagnostics
}

// NewRegistry returns a Registry with the four built-in atoms already
// registered and a default ExpandThreshold of 16.
func NewRegistry() *Registry {
	r := &Registry{
		types:           make(map[string]*Descriptor),
		variables:       make(map[string]*variableEntry),
		ExpandThreshold: 16,
		Diagnostics:     DefaultDiagnostics(),
	}
	for name, atom := range atomNames {
		r.types[name] = &Descriptor{Name: name, Kind: DescAtom, Atom: atom}
	}
	return r
}

// DefineType registers a named composite type from a signature string of
// the form "<type> <name>; <type> <name>; ...". Each field's type must
// already be registered (including array types, which resolve via
// Lookup). Registration is monotonic: redefining an existing name fails.
func (r *Registry) DefineType(name, signature string) error {
	if _, exists := r.types[name]; exists {
		return newParseError(RegistryError, HintNone, "type %q is already registered", name)
	}
	clauses := splitNonEmpty(signature, ';')
	if len(clauses) == 0 {
		return newParseError(RegistryError, HintNone, "signature for %q has no field declarations", name)
	}
	var fields []Field
	for _, clause := range clauses {
		toks := strings.Fields(clause)
		if len(toks) != 2 {
			return newParseError(RegistryError, HintNone,
				"malformed field clause %q in signature for %q", clause, name)
		}
		typeName, fieldName := toks[0], toks[1]
		if _, ok := r.Lookup(typeName); !ok {
			return newParseError(RegistryError, HintNone,
				"field %q of %q refers to unknown type %q", fieldName, name, typeName)
		}
		fields = append(fields, Field{Name: fieldName, TypeName: typeName})
	}
	r.types[name] = &Descriptor{Name: name, Kind: DescRecord, Fields: fields}
	return nil
}

// Lookup resolves a type name to its Descriptor. Plain names resolve
// against the registry directly; "base[N]" and "base[]" / "base[0]"
// resolve recursively against the stripped base name, synthesizing a
// fixed or dynamic array Descriptor without requiring it to have been
// separately registered.
func (r *Registry) Lookup(typeName string) (*Descriptor, bool) {
	typeName = strings.TrimSpace(typeName)
	if d, ok := r.types[typeName]; ok {
		return d, true
	}
	open := strings.IndexByte(typeName, '[')
	if open < 0 || !strings.HasSuffix(typeName, "]") {
		return nil, false
	}
	base := strings.TrimSpace(typeName[:open])
	inner := strings.TrimSpace(typeName[open+1 : len(typeName)-1])
	if _, ok := r.Lookup(base); !ok {
		return nil, false
	}
	if inner == "" || inner == "0" {
		return &Descriptor{Name: typeName, Kind: DescDynamicArray, ElemTypeName: base}, true
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n <= 0 {
		return nil, false
	}
	return &Descriptor{Name: typeName, Kind: DescFixedArray, ElemTypeName: base, ArrayLen: n}, true
}

// DefineVariable registers a host-visible variable of a composite type.
// It stores the slot pointer, boot default and metadata; it does not
// populate *slot — the caller applies the boot value through Clone or
// ParseComposite, matching the contract that only Structural Ops ever
// write through a value slot.
func (r *Registry) DefineVariable(name, shortDesc, longDesc, typeName string, slot **Value, boot *Value,
	context VariableContext, flags VariableFlags, hooks VariableHooks) error {
	if _, ok := r.Lookup(typeName); !ok {
		return newParseError(RegistryError, HintNone, "variable %q refers to unknown type %q", name, typeName)
	}
	if _, exists := r.variables[name]; exists {
		return newParseError(RegistryError, HintNone, "variable %q is already registered", name)
	}
	r.variables[name] = &variableEntry{
		Name: name, ShortDesc: shortDesc, LongDesc: longDesc, TypeName: typeName,
		Slot: slot, Boot: boot, Context: context, Flags: flags, Hooks: hooks,
	}
	return nil
}

// splitNonEmpty splits s on sep and drops empty/whitespace-only segments,
// matching the original signature tokenizer's tolerance for a trailing
// separator.
func splitNonEmpty(s string, sep byte) []string {
	var out []string
	for _, part := range strings.Split(s, string(sep)) {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}
