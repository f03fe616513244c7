package guccomposite

import (
	"strconv"
	"strings"
)

// RealPrecision is the fixed number of decimal digits the serializer
// emits for a real atom, matching the "%f-style, 6 decimals" contract.
const RealPrecision = 6

// ParseBool accepts the host's permissive boolean token set (not just the
// two canonical serialized spellings): "true"/"false", "yes"/"no",
// "on"/"off", "1"/"0", matched case-insensitively. This mirrors the
// original system's delegation to its own general-purpose boolean parser
// for *parsing*, while the serializer still only ever emits 'true'/'false'
// (see Serialize).
func ParseBool(tok string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	default:
		return false, false
	}
}

// memUnits and durUnits are the two unit-suffix families ParseUnitInt
// recognizes, matching the common GUC unit suffixes for memory and time.
var memUnits = map[string]int64{
	"":   1,
	"kB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

var durUnits = map[string]int64{
	"":    1,
	"ms":  1,
	"s":   1000,
	"min": 60 * 1000,
	"h":   60 * 60 * 1000,
	"d":   24 * 60 * 60 * 1000,
}

// UnitFamily selects which unit-suffix table ParseUnitInt consults.
type UnitFamily int

const (
	UnitNone UnitFamily = iota
	UnitMemory
	UnitDuration
)

// ParseUnitInt parses a decimal integer optionally followed by a unit
// suffix from family, returning the value normalized to the family's base
// unit (bytes, or milliseconds). UnitNone rejects any suffix.
func ParseUnitInt(tok string, family UnitFamily) (int64, bool) {
	tok = strings.TrimSpace(tok)
	i := 0
	if i < len(tok) && (tok[i] == '-' || tok[i] == '+') {
		i++
	}
	start := i
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.ParseInt(tok[:i], 10, 64)
	if err != nil {
		return 0, false
	}
	suffix := strings.TrimSpace(tok[i:])
	if suffix == "" {
		return n, true
	}
	var table map[string]int64
	switch family {
	case UnitMemory:
		table = memUnits
	case UnitDuration:
		table = durUnits
	default:
		return 0, false
	}
	mult, ok := table[suffix]
	if !ok {
		return 0, false
	}
	return n * mult, true
}

// unescapeQuoted reverses the doubled-quote escaping rule ('' -> ') of a
// quoted string atom's inner text.
func unescapeQuoted(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}

// escapeQuoted applies the doubled-quote escaping rule (' -> '') when
// serializing a string atom.
func escapeQuoted(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
