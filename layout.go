package guccomposite

// Layout Engine: pure, idempotent functions over a Descriptor's shape.
// None of these allocate or inspect a Value — they exist so a host could
// cast a real C buffer against these numbers. The in-process Value tree
// (value.go) does not itself depend on them.

const sizeofPtr = 8 // matches a 64-bit host; the only assumption this engine makes about the target ABI

func builtinAtomLayout(a AtomKind) (size, align int) {
	switch a {
	case AtomBool:
		return 1, 1
	case AtomInt:
		return 4, 4
	case AtomReal:
		return 8, 8
	case AtomString:
		return sizeofPtr, sizeofPtr
	default:
		return 0, 1
	}
}

// alignUp rounds n up to the next multiple of align.
func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// Size returns the in-struct footprint of typeName.
func (r *Registry) Size(typeName string) (int, error) {
	d, ok := r.Lookup(typeName)
	if !ok {
		return 0, newParseError(NameError, HintNone, "unknown type %q", typeName)
	}
	return r.size(d)
}

func (r *Registry) size(d *Descriptor) (int, error) {
	switch d.Kind {
	case DescAtom:
		s, _ := builtinAtomLayout(d.Atom)
		return s, nil
	case DescRecord:
		off := 0
		maxAlign := 1
		for _, f := range d.Fields {
			fd, ok := r.Lookup(f.TypeName)
			if !ok {
				return 0, newParseError(NameError, HintNone, "unknown field type %q", f.TypeName)
			}
			fa, err := r.align(fd)
			if err != nil {
				return 0, err
			}
			fs, err := r.size(fd)
			if err != nil {
				return 0, err
			}
			off = alignUp(off, fa) + fs
			if fa > maxAlign {
				maxAlign = fa
			}
		}
		return alignUp(off, maxAlign), nil
	case DescFixedArray:
		stride, err := r.stride(d.ElemTypeName)
		if err != nil {
			return 0, err
		}
		return stride * d.ArrayLen, nil
	case DescDynamicArray:
		return 2 * sizeofPtr, nil
	default:
		return 0, newParseError(ShapeError, HintNone, "unrecognized descriptor kind")
	}
}

// Align returns the alignment requirement of typeName.
func (r *Registry) Align(typeName string) (int, error) {
	d, ok := r.Lookup(typeName)
	if !ok {
		return 0, newParseError(NameError, HintNone, "unknown type %q", typeName)
	}
	return r.align(d)
}

func (r *Registry) align(d *Descriptor) (int, error) {
	switch d.Kind {
	case DescAtom:
		_, a := builtinAtomLayout(d.Atom)
		return a, nil
	case DescRecord:
		maxAlign := 1
		for _, f := range d.Fields {
			fd, ok := r.Lookup(f.TypeName)
			if !ok {
				return 0, newParseError(NameError, HintNone, "unknown field type %q", f.TypeName)
			}
			fa, err := r.align(fd)
			if err != nil {
				return 0, err
			}
			if fa > maxAlign {
				maxAlign = fa
			}
		}
		return maxAlign, nil
	case DescFixedArray:
		return r.Align(d.ElemTypeName)
	case DescDynamicArray:
		return sizeofPtr, nil
	default:
		return 1, nil
	}
}

// stride returns the fixed-array element stride for elemType. This is
// deliberately NOT align-up: it is size + (size mod align), preserved
// verbatim from the system this engine is modeled on as a binary
// compatibility contract with an already-laid-out host struct. See
// DESIGN.md.
func (r *Registry) stride(elemType string) (int, error) {
	size, err := r.Size(elemType)
	if err != nil {
		return 0, err
	}
	align, err := r.Align(elemType)
	if err != nil {
		return 0, err
	}
	if align <= 0 {
		return size, nil
	}
	return size + size%align, nil
}

// FieldOffset returns the byte offset of a named field/index within
// typeName. For records, name must be a field name. For fixed arrays it
// must be a non-negative decimal index. For dynamic arrays it is either
// "data" (offset 0), "size" (offset sizeofPtr) or a decimal index (which
// implicitly dereferences through data, exactly as the parser's nested
// path resolution does).
func (r *Registry) FieldOffset(typeName, name string) (int, error) {
	d, ok := r.Lookup(typeName)
	if !ok {
		return 0, newParseError(NameError, HintNone, "unknown type %q", typeName)
	}
	switch d.Kind {
	case DescRecord:
		off := 0
		maxAlign := 1
		for _, f := range d.Fields {
			fd, ok := r.Lookup(f.TypeName)
			if !ok {
				return 0, newParseError(NameError, HintNone, "unknown field type %q", f.TypeName)
			}
			fa, err := r.align(fd)
			if err != nil {
				return 0, err
			}
			off = alignUp(off, fa)
			if f.Name == name {
				return off, nil
			}
			fs, err := r.size(fd)
			if err != nil {
				return 0, err
			}
			off += fs
			if fa > maxAlign {
				maxAlign = fa
			}
		}
		return 0, newParseError(NameError, HintUnknownField, "no field %q on type %q", name, typeName)
	case DescFixedArray:
		idx, err := requireIndex(name)
		if err != nil {
			return 0, err
		}
		stride, err := r.stride(d.ElemTypeName)
		if err != nil {
			return 0, err
		}
		return idx * stride, nil
	case DescDynamicArray:
		switch name {
		case "data":
			return 0, nil
		case "size":
			return sizeofPtr, nil
		default:
			idx, err := requireIndex(name)
			if err != nil {
				return 0, err
			}
			stride, err := r.stride(d.ElemTypeName)
			if err != nil {
				return 0, err
			}
			return idx * stride, nil
		}
	default:
		return 0, newParseError(ShapeError, HintNone, "type %q has no addressable fields", typeName)
	}
}

// FieldType returns the type name of a named field/index within
// typeName, following the same rules as FieldOffset.
func (r *Registry) FieldType(typeName, name string) (string, error) {
	d, ok := r.Lookup(typeName)
	if !ok {
		return "", newParseError(NameError, HintNone, "unknown type %q", typeName)
	}
	switch d.Kind {
	case DescRecord:
		for _, f := range d.Fields {
			if f.Name == name {
				return f.TypeName, nil
			}
		}
		return "", newParseError(NameError, HintUnknownField, "no field %q on type %q", name, typeName)
	case DescFixedArray:
		if _, err := requireIndex(name); err != nil {
			return "", err
		}
		return d.ElemTypeName, nil
	case DescDynamicArray:
		switch name {
		case "data":
			return typeName, nil
		case "size":
			return "int", nil
		default:
			if _, err := requireIndex(name); err != nil {
				return "", err
			}
			return d.ElemTypeName, nil
		}
	default:
		return "", newParseError(ShapeError, HintNone, "type %q has no addressable fields", typeName)
	}
}

func requireIndex(name string) (int, error) {
	idx, ok := isNumericField(name)
	if !ok {
		return 0, newParseError(BoundsError, HintBadIndex, "expected a non-negative integer index, got %q", name)
	}
	return idx, nil
}
