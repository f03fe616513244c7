package guccomposite

import "strings"

// Clone returns an independent deep copy of v, schema-driven by
// typeName. An unknown typeName or a nil v yields nil. Because Value is a
// plain Go tree with no external allocator, "free" of a cloned
// predecessor is simply letting it become unreachable — FreeValue below still
// exists to keep the structural-operations quartet complete and to give
// callers an explicit place to release resources a Diagnostics sink or a
// future non-GC'd backing store might hold.
func (r *Registry) Clone(v *Value, typeName string) *Value {
	if v == nil {
		return nil
	}
	desc, ok := r.Lookup(typeName)
	if !ok {
		return nil
	}
	return r.cloneByDesc(v, desc)
}

func (r *Registry) cloneByDesc(v *Value, desc *Descriptor) *Value {
	switch v.Kind {
	case KindBool, KindInt, KindReal, KindString:
		copy := *v
		return &copy
	case KindRecord:
		elems := make([]*Value, len(v.Elems))
		for i, child := range v.Elems {
			var fd *Descriptor
			if desc != nil && desc.Kind == DescRecord && i < len(desc.Fields) {
				fd, _ = r.Lookup(desc.Fields[i].TypeName)
			}
			elems[i] = r.cloneByDesc(child, fd)
		}
		return &Value{Kind: KindRecord, Elems: elems}
	case KindFixedArray, KindDynamicArray:
		elems := make([]*Value, len(v.Elems))
		var elemDesc *Descriptor
		if desc != nil && (desc.Kind == DescFixedArray || desc.Kind == DescDynamicArray) {
			elemDesc, _ = r.Lookup(desc.ElemTypeName)
		}
		for i, child := range v.Elems {
			elems[i] = r.cloneByDesc(child, elemDesc)
		}
		return &Value{Kind: v.Kind, Elems: elems}
	default:
		copy := *v
		return &copy
	}
}

// Compare returns -1/0/+1 for an ordered difference, or 2 ("types
// disagree / not comparable") when typeName is unknown or a or b is nil
// while the other is not. Atom comparisons are normalized to exactly
// {-1,0,+1}; composite comparisons are lexicographic over the schema's
// field/element order, short-circuiting at the first differing member.
func (r *Registry) Compare(a, b *Value, typeName string) int {
	desc, ok := r.Lookup(typeName)
	if !ok {
		return 2
	}
	return r.compareByDesc(a, b, desc)
}

func (r *Registry) compareByDesc(a, b *Value, desc *Descriptor) int {
	if a == nil || b == nil {
		if a == b {
			return 0
		}
		return 2
	}
	if a.Kind != b.Kind {
		return 2
	}
	switch a.Kind {
	case KindBool:
		return cmpBool(a.BoolVal, b.BoolVal)
	case KindInt:
		return cmpInt(a.IntVal, b.IntVal)
	case KindReal:
		return cmpReal(a.RealVal, b.RealVal)
	case KindString:
		if a.IsNull != b.IsNull {
			// the null sentinel orders before any non-null string
			if a.IsNull {
				return -1
			}
			return 1
		}
		if a.IsNull {
			return 0
		}
		return cmpInt(int64(strings.Compare(a.StringVal, b.StringVal)), 0)
	case KindRecord:
		if len(a.Elems) != len(b.Elems) {
			return 2
		}
		for i := range a.Elems {
			var fd *Descriptor
			if desc != nil && desc.Kind == DescRecord && i < len(desc.Fields) {
				fd, _ = r.Lookup(desc.Fields[i].TypeName)
			}
			if c := r.compareByDesc(a.Elems[i], b.Elems[i], fd); c != 0 {
				return c
			}
		}
		return 0
	case KindFixedArray:
		if len(a.Elems) != len(b.Elems) {
			return 2
		}
		var elemDesc *Descriptor
		if desc != nil && desc.Kind == DescFixedArray {
			elemDesc, _ = r.Lookup(desc.ElemTypeName)
		}
		for i := range a.Elems {
			if c := r.compareByDesc(a.Elems[i], b.Elems[i], elemDesc); c != 0 {
				return c
			}
		}
		return 0
	case KindDynamicArray:
		// Dynamic arrays compare length first, then data — an ordered
		// result, not the type-mismatch sentinel, since differing length
		// is an ordinary outcome for a resizable array.
		if c := cmpInt(int64(len(a.Elems)), int64(len(b.Elems))); c != 0 {
			return c
		}
		var elemDesc *Descriptor
		if desc != nil && desc.Kind == DescDynamicArray {
			elemDesc, _ = r.Lookup(desc.ElemTypeName)
		}
		for i := range a.Elems {
			if c := r.compareByDesc(a.Elems[i], b.Elems[i], elemDesc); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 2
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpReal(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FreeValue releases v's resources. Under Go's GC this is a no-op beyond
// letting v become unreachable, but it keeps the structural-operations
// quartet (clone/compare/free/nested-path) explicit at call sites that
// are ported directly from code that managed memory manually.
func (r *Registry) FreeValue(v *Value, typeName string) {
	_ = v
	_ = typeName
}

// NestedFieldPtr walks path (tokenized the same way ConvertPath tokenizes
// a patch path, minus the host-variable-name token) through v, returning
// the *Value at that location. A numeric path token indexes into an
// array; when the current position is a dynamic array, a numeric token
// implicitly dereferences through "data" first, unless the token is
// literally "data" or "size".
func (r *Registry) NestedFieldPtr(v *Value, typeName, path string) (*Value, error) {
	desc, ok := r.Lookup(typeName)
	if !ok {
		return nil, newParseError(NameError, HintNone, "unknown type %q", typeName)
	}
	tokens := tokenizePath(path)
	if len(tokens) > 1 {
		tokens = tokens[1:]
	}
	cur, curDesc := v, desc
	for _, tok := range tokens {
		next, nextDesc, err := stepField(r, cur, curDesc, tok)
		if err != nil {
			return nil, err
		}
		cur, curDesc = next, nextDesc
	}
	return cur, nil
}

// NestedFieldType returns the type name found at path within typeName,
// without requiring a value — useful for validating a path before it is
// ever applied.
func (r *Registry) NestedFieldType(typeName, path string) (string, error) {
	tokens := tokenizePath(path)
	if len(tokens) > 1 {
		tokens = tokens[1:]
	}
	cur := typeName
	for _, tok := range tokens {
		next, err := r.FieldType(cur, tok)
		if err != nil {
			return "", err
		}
		cur = next
	}
	return cur, nil
}

func stepField(r *Registry, v *Value, desc *Descriptor, tok string) (*Value, *Descriptor, error) {
	if desc == nil {
		return nil, nil, newParseError(ShapeError, HintNone, "cannot descend into untyped value")
	}
	switch desc.Kind {
	case DescRecord:
		idx := fieldIndex(desc, tok)
		if idx < 0 {
			return nil, nil, newParseError(NameError, HintUnknownField, "no field %q on type %q", tok, desc.Name)
		}
		fd, _ := r.Lookup(desc.Fields[idx].TypeName)
		if v == nil || idx >= len(v.Elems) {
			return nil, fd, nil
		}
		return v.Elems[idx], fd, nil
	case DescFixedArray:
		idx, ok := isNumericField(tok)
		if !ok {
			return nil, nil, newParseError(BoundsError, HintBadIndex, "expected array index, got %q", tok)
		}
		if idx >= desc.ArrayLen {
			return nil, nil, newParseError(BoundsError, HintIndexOutOfBounds, "index %d exceeds capacity %d", idx, desc.ArrayLen)
		}
		elemDesc, _ := r.Lookup(desc.ElemTypeName)
		if v == nil || idx >= len(v.Elems) {
			return nil, elemDesc, nil
		}
		return v.Elems[idx], elemDesc, nil
	case DescDynamicArray:
		switch tok {
		case "data":
			return v, desc, nil
		case "size":
			n := 0
			if v != nil {
				n = len(v.Elems)
			}
			return NewInt(int64(n)), &Descriptor{Name: "int", Kind: DescAtom, Atom: AtomInt}, nil
		default:
			idx, ok := isNumericField(tok)
			if !ok {
				return nil, nil, newParseError(BoundsError, HintBadIndex, "expected array index, got %q", tok)
			}
			elemDesc, _ := r.Lookup(desc.ElemTypeName)
			if v == nil || idx >= len(v.Elems) {
				return nil, nil, newParseError(BoundsError, HintIndexOutOfBounds, "index %d exceeds length", idx)
			}
			return v.Elems[idx], elemDesc, nil
		}
	default:
		return nil, nil, newParseError(ShapeError, HintNone, "type %q has no addressable fields", desc.Name)
	}
}
