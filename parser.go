package guccomposite

import (
	"strconv"
	"strings"
)

// ParseFlags controls optional parser behavior. The zero value selects
// the default (no unit suffixes accepted on int atoms). Flags apply only
// when ParseComposite is given a full literal of an int type itself; ints
// nested in records or arrays, and every patch-list value, are parsed
// without unit suffixes.
type ParseFlags int

const (
	FlagNone ParseFlags = 0
	// FlagMemoryUnits accepts kB/MB/GB suffixes on int atoms.
	FlagMemoryUnits ParseFlags = 1 << iota
	// FlagDurationUnits accepts ms/s/min/h/d suffixes on int atoms.
	FlagDurationUnits
)

// ParseComposite is the single entry point for turning text into a
// *Value of typeName. text may be either a full value literal or a
// semicolon-terminated assignment list of "path=value" patches applied
// left-to-right against prev. On failure it returns the error, a closed
// hint string, and the last value that parsed successfully (prev itself
// if nothing did) — never a half-built value.
func (r *Registry) ParseComposite(text, typeName string, prev *Value, flags ParseFlags) (*Value, error, string) {
	desc, ok := r.Lookup(typeName)
	if !ok {
		err := newParseError(NameError, HintNone, "unknown type %q", typeName)
		return prev, err, err.Hint.String()
	}

	if isAssignmentList(text) {
		v, err := r.parsePlaceholderPatchList(text, desc, typeName, prev)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				r.report(pe)
				return v, pe, pe.Hint.String()
			}
			return v, err, ""
		}
		return v, nil, ""
	}

	v, perr := r.parseValue(text, desc, prev, flags)
	if perr != nil {
		perr = perr.wrap("in composite object: " + text)
		r.report(perr)
		return prev, perr, perr.Hint.String()
	}
	return v, nil, ""
}

func (r *Registry) report(err *ParseError) {
	if r.Diagnostics != nil {
		r.Diagnostics.Report(err)
	}
}

// isAssignmentList distinguishes a "path=value;..." patch list from a
// direct full-value literal. A full-value literal always starts with
// '{', '[' or a quote/atom token; a patch list's first same-level token
// is a bare field-path followed by '='.
func isAssignmentList(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if t[0] == '{' || t[0] == '[' || t[0] == '\'' {
		return false
	}
	eq := findSameLevelSymbol(t, 0, '=')
	semi := findSameLevelSymbol(t, 0, ';')
	if eq < 0 {
		return false
	}
	if semi >= 0 && semi < eq {
		return false
	}
	return true
}

// parsePlaceholderPatchList applies each "path=value" clause of text, in
// order, against a running deep clone seeded from prev. Each patch sees
// the effects of every prior one. The first patch to fail aborts the
// whole list; the function returns the last value that parsed
// successfully (the clone of prev, or the type's zero value when prev is
// nil, if the very first patch failed).
func (r *Registry) parsePlaceholderPatchList(text string, desc *Descriptor, typeName string, prev *Value) (*Value, error) {
	running := r.Clone(prev, typeName)
	if running == nil {
		running = r.zeroValue(desc)
	}
	for _, clause := range splitSameLevel(text, ';') {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		eq := findSameLevelSymbol(clause, 0, '=')
		if eq < 0 {
			return running, newParseError(SyntaxError, HintMissingColon, "patch clause %q is missing '='", clause)
		}
		path := strings.TrimSpace(clause[:eq])
		valueText := strings.TrimSpace(clause[eq+1:])
		wrapped := ConvertPath(path, valueText)
		next, perr := r.parseValue(wrapped, desc, running, FlagNone)
		if perr != nil {
			return running, perr.wrap("in patch " + clause)
		}
		running = next
	}
	return running, nil
}

// ConvertPath rewrites a "varname->field[idx]->field2" path and a raw
// value text into a full nested composite literal that, when parsed
// against the host type with the running value as prev, has the effect
// of assigning valueText at that path and leaving everything else
// unchanged. The first path token (the host variable name) is skipped.
func ConvertPath(path, valueText string) string {
	tokens := tokenizePath(path)
	if len(tokens) <= 1 {
		return valueText
	}
	tokens = tokens[1:] // drop host variable name
	text := valueText
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if n, ok := isNumericField(tok); ok {
			text = "[" + strconv.Itoa(n) + ": " + text + "]"
		} else {
			text = "{" + tok + ": " + text + "}"
		}
	}
	return text
}

func tokenizePath(path string) []string {
	var tokens []string
	var cur strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c == '-' && i+1 < len(path) && path[i+1] == '>':
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			i++
		case c == '[' || c == ']':
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// parseValue dispatches to the production matching desc.Kind. prev, when
// non-nil, supplies field/element values a partial literal does not
// mention — this is how patch literals built by ConvertPath can name a
// single nested field while leaving every sibling untouched.
func (r *Registry) parseValue(text string, desc *Descriptor, prev *Value, flags ParseFlags) (*Value, *ParseError) {
	switch desc.Kind {
	case DescAtom:
		return r.parseAtomicType(text, desc.Atom, flags)
	case DescRecord:
		return r.parseStructure(text, desc, prev)
	case DescFixedArray:
		return r.parseStaticArray(text, desc, prev)
	case DescDynamicArray:
		return r.parseDynamicArray(text, desc, prev)
	default:
		return nil, newParseError(ShapeError, HintNone, "unrecognized descriptor kind for %q", desc.Name)
	}
}

func (r *Registry) parseAtomicType(text string, atom AtomKind, flags ParseFlags) (*Value, *ParseError) {
	t := strings.TrimSpace(text)
	if inner, ok := checkBraces(t, '\'', '\''); ok && atom != AtomString {
		t = inner
	}
	switch atom {
	case AtomBool:
		b, ok := ParseBool(t)
		if !ok {
			return nil, newParseError(AtomError, HintBadBool, "%q is not a valid boolean", t)
		}
		return NewBool(b), nil
	case AtomInt:
		family := UnitNone
		if flags&FlagMemoryUnits != 0 {
			family = UnitMemory
		} else if flags&FlagDurationUnits != 0 {
			family = UnitDuration
		}
		n, ok := ParseUnitInt(t, family)
		if !ok {
			return nil, newParseError(AtomError, HintBadUnit, "%q is not a valid integer", t)
		}
		return NewInt(n), nil
	case AtomReal:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, newParseError(AtomError, HintNone, "%q is not a valid real number", t)
		}
		return NewReal(f), nil
	case AtomString:
		if t == "nil" {
			return NewNullString(), nil
		}
		inner, ok := checkBraces(t, '\'', '\'')
		if !ok {
			return nil, newParseError(SyntaxError, HintUnterminatedQuote, "string atom %q is not quoted", t)
		}
		return NewString(unescapeQuoted(inner)), nil
	default:
		return nil, newParseError(ShapeError, HintNone, "unrecognized atom kind")
	}
}

// parseStructure parses a "{field: value, ...}" record literal. Fields
// absent from the literal keep their value from prev (or the type's
// zero value if prev is nil), which is what makes patch literals work:
// a literal naming only one field still produces a complete value.
func (r *Registry) parseStructure(text string, desc *Descriptor, prev *Value) (*Value, *ParseError) {
	inner, ok := checkBraces(text, '{', '}')
	if !ok {
		return nil, newParseError(SyntaxError, HintUnterminatedContainer, "expected '{...}' for composite %q, got %q", desc.Name, text)
	}

	result := r.cloneOrZeroRecord(desc, prev)

	if strings.TrimSpace(inner) == "" {
		return result, nil
	}

	seen := make(map[string]bool)
	for _, clause := range splitSameLevel(inner, ',') {
		name, valStart, status, perr := getName(clause)
		if status == statusErr {
			return nil, perr
		}
		if status == statusNotFound {
			return nil, newParseError(SyntaxError, HintBadName, "expected '<field>: <value>' clause, got %q", clause)
		}
		idx := fieldIndex(desc, name)
		if idx < 0 {
			return nil, newParseError(NameError, HintUnknownField, "no field %q on type %q", name, desc.Name)
		}
		if seen[name] {
			return nil, newParseError(ShapeError, HintExcessFields, "field %q assigned more than once", name)
		}
		seen[name] = true
		valueText := clause[valStart:]
		fieldDesc, ok := r.Lookup(desc.Fields[idx].TypeName)
		if !ok {
			return nil, newParseError(NameError, HintNone, "unknown type %q for field %q", desc.Fields[idx].TypeName, name)
		}
		var prevChild *Value
		if prev != nil && idx < len(prev.Elems) {
			prevChild = prev.Elems[idx]
		}
		child, perr := r.parseValue(valueText, fieldDesc, prevChild, FlagNone)
		if perr != nil {
			return nil, perr.wrap("in field " + name)
		}
		result.Elems[idx] = child
	}
	return result, nil
}

func fieldIndex(desc *Descriptor, name string) int {
	for i, f := range desc.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (r *Registry) cloneOrZeroRecord(desc *Descriptor, prev *Value) *Value {
	if prev != nil && prev.Kind == KindRecord && len(prev.Elems) == len(desc.Fields) {
		return r.Clone(prev, desc.Name)
	}
	elems := make([]*Value, len(desc.Fields))
	for i, f := range desc.Fields {
		fd, _ := r.Lookup(f.TypeName)
		elems[i] = r.zeroValue(fd)
	}
	return &Value{Kind: KindRecord, Elems: elems}
}

// parseStaticArray parses a "[elem, elem, ...]" or "[idx:elem, ...]"
// fixed-size array literal. Elements are either all indexed or all bare
// (the uniform-indexing invariant); bare elements are numbered by
// textual position. The maximum assigned index must be strictly less
// than the array's declared capacity.
func (r *Registry) parseStaticArray(text string, desc *Descriptor, prev *Value) (*Value, *ParseError) {
	inner, ok := checkBraces(text, '[', ']')
	if !ok {
		return nil, newParseError(SyntaxError, HintUnterminatedContainer, "expected '[...]' for array %q, got %q", desc.Name, text)
	}

	elemDesc, ok := r.Lookup(desc.ElemTypeName)
	if !ok {
		return nil, newParseError(NameError, HintNone, "unknown element type %q", desc.ElemTypeName)
	}

	elems := make([]*Value, desc.ArrayLen)
	for i := range elems {
		if prev != nil && i < len(prev.Elems) {
			elems[i] = prev.Elems[i]
		} else {
			elems[i] = r.zeroValue(elemDesc)
		}
	}

	if isEmptyArray(inner) {
		return &Value{Kind: KindFixedArray, Elems: elems}, nil
	}

	clauses := splitSameLevel(inner, ',')
	maxIdx, gerr := getMaxIndex(clauses)
	if gerr != nil {
		return nil, gerr.(*ParseError)
	}
	if maxIdx >= desc.ArrayLen {
		return nil, newParseError(BoundsError, HintIndexOutOfBounds,
			"max assigned index %d exceeds capacity %d of %q", maxIdx, desc.ArrayLen, desc.Name)
	}

	sawIndexed, sawBare := false, false
	next := 0
	for _, clause := range clauses {
		idx, valStart, status, perr := getIndex(clause)
		if status == statusErr {
			return nil, perr
		}
		if status == statusOK {
			sawIndexed = true
		} else {
			sawBare = true
			idx = next
			valStart = 0
		}
		if sawIndexed && sawBare {
			return nil, newParseError(SyntaxError, HintUniformIndexing,
				"array elements must be consistently indexed or consistently bare")
		}
		next = idx + 1
		valueText := clause[valStart:]
		var prevChild *Value
		if idx < len(elems) {
			prevChild = elems[idx]
		}
		child, perr2 := r.parseValue(valueText, elemDesc, prevChild, FlagNone)
		if perr2 != nil {
			return nil, perr2.wrap("in element " + strconv.Itoa(idx))
		}
		elems[idx] = child
	}
	return &Value{Kind: KindFixedArray, Elems: elems}, nil
}

// parseDynamicArray parses either the short form "[elem, ...]" (whose
// length is the larger of prev's length and the highest assigned index
// + 1, with elements not assigned kept from prev or zeroed) or the
// extended form "{size: N, data: [...]}" which can declare a length
// independent of the number of initializers given.
func (r *Registry) parseDynamicArray(text string, desc *Descriptor, prev *Value) (*Value, *ParseError) {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "{") {
		return r.parseExtendedDynamicArray(t, desc, prev)
	}

	inner, ok := checkBraces(t, '[', ']')
	if !ok {
		return nil, newParseError(SyntaxError, HintUnterminatedContainer, "expected '[...]' for dynamic array %q, got %q", desc.Name, t)
	}
	elemDesc, ok := r.Lookup(desc.ElemTypeName)
	if !ok {
		return nil, newParseError(NameError, HintNone, "unknown element type %q", desc.ElemTypeName)
	}
	if isEmptyArray(inner) {
		v := &Value{Kind: KindDynamicArray}
		if prev != nil {
			v.Elems = append([]*Value(nil), prev.Elems...)
		}
		return v, nil
	}
	clauses := splitSameLevel(inner, ',')
	maxIdx, gerr := getMaxIndex(clauses)
	if gerr != nil {
		return nil, gerr.(*ParseError)
	}
	length := maxIdx + 1
	if prev != nil && len(prev.Elems) > length {
		length = len(prev.Elems)
	}
	elems := make([]*Value, length)
	for i := range elems {
		if prev != nil && i < len(prev.Elems) {
			elems[i] = prev.Elems[i]
		} else {
			elems[i] = r.zeroValue(elemDesc)
		}
	}
	sawIndexed, sawBare := false, false
	next := 0
	for _, clause := range clauses {
		idx, valStart, status, perr := getIndex(clause)
		if status == statusErr {
			return nil, perr
		}
		if status == statusOK {
			sawIndexed = true
		} else {
			sawBare = true
			idx = next
			valStart = 0
		}
		if sawIndexed && sawBare {
			return nil, newParseError(SyntaxError, HintUniformIndexing,
				"array elements must be consistently indexed or consistently bare")
		}
		next = idx + 1
		valueText := clause[valStart:]
		var prevChild *Value
		if idx < len(elems) {
			prevChild = elems[idx]
		}
		child, perr2 := r.parseValue(valueText, elemDesc, prevChild, FlagNone)
		if perr2 != nil {
			return nil, perr2.wrap("in element " + strconv.Itoa(idx))
		}
		elems[idx] = child
	}
	return &Value{Kind: KindDynamicArray, Elems: elems}, nil
}

// parseExtendedDynamicArray parses "{size: N, data: [elem, ...]}". The
// declared size must be strictly positive; data may supply fewer
// elements than size, with the remainder kept from prev or zeroed.
func (r *Registry) parseExtendedDynamicArray(text string, desc *Descriptor, prev *Value) (*Value, *ParseError) {
	inner, ok := checkBraces(text, '{', '}')
	if !ok {
		return nil, newParseError(SyntaxError, HintUnterminatedContainer, "expected '{size:, data:}' form, got %q", text)
	}
	if isEmptyArray(inner) {
		return nil, newParseError(ShapeError, HintEmptyExtendedArray, "dynamic array has neither 'size' nor 'data' field")
	}
	var size = -1
	var dataText string
	haveData := false
	for _, clause := range splitSameLevel(inner, ',') {
		name, valStart, status, perr := getName(clause)
		if status == statusErr {
			return nil, perr
		}
		if status == statusNotFound {
			return nil, newParseError(SyntaxError, HintBadName, "expected 'size:' or 'data:' clause, got %q", clause)
		}
		valueText := strings.TrimSpace(clause[valStart:])
		switch name {
		case "size":
			n, ok := ParseUnitInt(valueText, UnitNone)
			if !ok {
				return nil, newParseError(AtomError, HintNone, "invalid size %q", valueText)
			}
			size = int(n)
		case "data":
			dataText = valueText
			haveData = true
		default:
			return nil, newParseError(NameError, HintUnknownField, "unexpected clause %q in extended array form", name)
		}
	}
	if size < 0 && !haveData {
		return nil, newParseError(ShapeError, HintEmptyExtendedArray, "extended array form requires at least one of 'size' or 'data'")
	}
	if size < 0 {
		// size omitted, data given: length defaults to the larger of the
		// previous length and the highest index data assigns.
		dataInner, ok := checkBraces(dataText, '[', ']')
		if !ok {
			return nil, newParseError(SyntaxError, HintUnterminatedContainer, "expected '[...]' for data, got %q", dataText)
		}
		maxIdx := -1
		if !isEmptyArray(dataInner) {
			m, err := getMaxIndex(splitSameLevel(dataInner, ','))
			if err != nil {
				return nil, err.(*ParseError)
			}
			maxIdx = m
		}
		size = maxIdx + 1
		if prev != nil && len(prev.Elems) > size {
			size = len(prev.Elems)
		}
	}
	elemDesc, ok := r.Lookup(desc.ElemTypeName)
	if !ok {
		return nil, newParseError(NameError, HintNone, "unknown element type %q", desc.ElemTypeName)
	}
	elems := make([]*Value, size)
	for i := range elems {
		if prev != nil && i < len(prev.Elems) {
			elems[i] = prev.Elems[i]
		} else {
			elems[i] = r.zeroValue(elemDesc)
		}
	}
	if haveData {
		dataInner, ok := checkBraces(dataText, '[', ']')
		if !ok {
			return nil, newParseError(SyntaxError, HintUnterminatedContainer, "expected '[...]' for data, got %q", dataText)
		}
		if !isEmptyArray(dataInner) {
			next := 0
			for _, clause := range splitSameLevel(dataInner, ',') {
				idx, valStart, status, perr := getIndex(clause)
				if status == statusErr {
					return nil, perr
				}
				if status == statusNotFound {
					idx, valStart = next, 0
				}
				next = idx + 1
				if idx >= size {
					return nil, newParseError(BoundsError, HintIndexOutOfBounds,
						"data index %d exceeds declared size %d", idx, size)
				}
				valueText := clause[valStart:]
				child, perr2 := r.parseValue(valueText, elemDesc, elems[idx], FlagNone)
				if perr2 != nil {
					return nil, perr2.wrap("in element " + strconv.Itoa(idx))
				}
				elems[idx] = child
			}
		}
	}
	return &Value{Kind: KindDynamicArray, Elems: elems}, nil
}

// zeroValue constructs the default value for a descriptor: the
// appropriate atomic zero, an all-zero record, an array of zeroed
// elements (fixed at its declared capacity, dynamic at length zero).
func (r *Registry) zeroValue(desc *Descriptor) *Value {
	if desc == nil {
		return NewInt(0)
	}
	switch desc.Kind {
	case DescAtom:
		switch desc.Atom {
		case AtomBool:
			return NewBool(false)
		case AtomInt:
			return NewInt(0)
		case AtomReal:
			return NewReal(0)
		case AtomString:
			return NewString("")
		}
	case DescRecord:
		elems := make([]*Value, len(desc.Fields))
		for i, f := range desc.Fields {
			fd, _ := r.Lookup(f.TypeName)
			elems[i] = r.zeroValue(fd)
		}
		return &Value{Kind: KindRecord, Elems: elems}
	case DescFixedArray:
		elemDesc, _ := r.Lookup(desc.ElemTypeName)
		elems := make([]*Value, desc.ArrayLen)
		for i := range elems {
			elems[i] = r.zeroValue(elemDesc)
		}
		return &Value{Kind: KindFixedArray, Elems: elems}
	case DescDynamicArray:
		return &Value{Kind: KindDynamicArray}
	}
	return NewInt(0)
}
