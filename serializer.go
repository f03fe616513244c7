package guccomposite

import (
	"strconv"
	"strings"
)

// SerializeMode selects the serializer's two output conventions.
type SerializeMode int

const (
	// ModeDisplay leaves non-string atoms unquoted and always quotes
	// strings except the null sentinel, which prints as unquoted nil.
	ModeDisplay SerializeMode = iota
	// ModeSerialize quotes every atom, including bools, ints and reals,
	// producing text that round-trips unambiguously through the parser.
	ModeSerialize
)

// Serialize renders v (of typeName) back to grammar text. Dynamic arrays
// at or above Registry.ExpandThreshold elements switch to the expanded
// "{size: N, data: [...]}" form; shorter ones use the compact "[...]"
// form.
func (r *Registry) Serialize(v *Value, typeName string, mode SerializeMode) (string, error) {
	desc, ok := r.Lookup(typeName)
	if !ok {
		return "", newParseError(NameError, HintNone, "unknown type %q", typeName)
	}
	var b strings.Builder
	if err := r.serializeInto(&b, v, desc, mode); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Registry) serializeInto(b *strings.Builder, v *Value, desc *Descriptor, mode SerializeMode) error {
	if v == nil {
		b.WriteString("nil")
		return nil
	}
	switch desc.Kind {
	case DescAtom:
		return serializeAtom(b, v, mode)
	case DescRecord:
		b.WriteByte('{')
		for i, f := range desc.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			fd, _ := r.Lookup(f.TypeName)
			var child *Value
			if i < len(v.Elems) {
				child = v.Elems[i]
			}
			if err := r.serializeInto(b, child, fd, mode); err != nil {
				return wrapErr(err, "in field "+f.Name).(*ParseError)
			}
		}
		b.WriteByte('}')
		return nil
	case DescFixedArray:
		elemDesc, _ := r.Lookup(desc.ElemTypeName)
		b.WriteByte('[')
		for i, child := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := r.serializeInto(b, child, elemDesc, mode); err != nil {
				return wrapErr(err, "in element "+strconv.Itoa(i)).(*ParseError)
			}
		}
		b.WriteByte(']')
		return nil
	case DescDynamicArray:
		elemDesc, _ := r.Lookup(desc.ElemTypeName)
		if len(v.Elems) >= r.ExpandThreshold {
			b.WriteString("{size: ")
			b.WriteString(strconv.Itoa(len(v.Elems)))
			b.WriteString(", data: [")
			for i, child := range v.Elems {
				if i > 0 {
					b.WriteString(", ")
				}
				if err := r.serializeInto(b, child, elemDesc, mode); err != nil {
					return wrapErr(err, "in element "+strconv.Itoa(i)).(*ParseError)
				}
			}
			b.WriteString("]}")
			return nil
		}
		b.WriteByte('[')
		for i, child := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := r.serializeInto(b, child, elemDesc, mode); err != nil {
				return wrapErr(err, "in element "+strconv.Itoa(i)).(*ParseError)
			}
		}
		b.WriteByte(']')
		return nil
	default:
		return newParseError(ShapeError, HintNone, "unrecognized descriptor kind")
	}
}

func serializeAtom(b *strings.Builder, v *Value, mode SerializeMode) error {
	switch v.Kind {
	case KindBool:
		s := "false"
		if v.BoolVal {
			s = "true"
		}
		if mode == ModeSerialize {
			b.WriteByte('\'')
			b.WriteString(s)
			b.WriteByte('\'')
		} else {
			b.WriteString(s)
		}
		return nil
	case KindInt:
		s := strconv.FormatInt(v.IntVal, 10)
		if mode == ModeSerialize {
			b.WriteByte('\'')
			b.WriteString(s)
			b.WriteByte('\'')
		} else {
			b.WriteString(s)
		}
		return nil
	case KindReal:
		s := strconv.FormatFloat(v.RealVal, 'f', RealPrecision, 64)
		if mode == ModeSerialize {
			b.WriteByte('\'')
			b.WriteString(s)
			b.WriteByte('\'')
		} else {
			b.WriteString(s)
		}
		return nil
	case KindString:
		if v.IsNull {
			b.WriteString("nil")
			return nil
		}
		b.WriteByte('\'')
		b.WriteString(escapeQuoted(v.StringVal))
		b.WriteByte('\'')
		return nil
	default:
		return newParseError(ShapeError, HintNone, "value is not an atom")
	}
}

// SerializedLength returns the exact length, in bytes, that Serialize
// would produce for v in ModeSerialize — the mode the original length
// estimator assumes, since it is the mode that must round-trip losslessly
// through storage. It builds that string with Serialize and returns its
// length; the function is kept for callers who pre-size a buffer of
// their own.
func (r *Registry) SerializedLength(v *Value, typeName string) (int, error) {
	s, err := r.Serialize(v, typeName, ModeSerialize)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

// NormalizeValue prepares value for ConvertPath ahead of a patch-list
// assignment. name is a field path, not a type name: a composite value
// couldn't be wrapped in quotes, so a path ending in "->" names a
// composite destination and value is passed through unescaped, while any
// other path names an atomic destination and value is escaped and
// quoted, since ParseComposite always deescapes atomic values and so
// requires them pre-escaped on the way back in.
func NormalizeValue(name, value string) string {
	isComposite := strings.HasSuffix(name, "->")
	prepared := value
	if !isComposite {
		prepared = "'" + escapeQuoted(value) + "'"
	}
	return ConvertPath(name, prepared)
}
