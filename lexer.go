package guccomposite

import "strings"

// findSameLevelSymbol scans s starting at pos for target, tracking
// {}/[] nesting depth and single-quoted-string state (doubled '' is the
// escape for a literal quote inside a string, so it must not be mistaken
// for the closing quote). It returns the index of the first occurrence of
// target at nesting depth 0 outside of a quoted string, or -1 if none is
// found before the end of s or before a '}' or ']' with no matching open.
func findSameLevelSymbol(s string, pos int, target byte) int {
	depth := 0
	inQuote := false
	for i := pos; i < len(s); i++ {
		c := s[i]
		if inQuote {
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++ // doubled quote: escaped, stays inside the string
					continue
				}
				inQuote = false
			}
			continue
		}
		switch c {
		case '\'':
			inQuote = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		default:
			if depth == 0 && c == target {
				return i
			}
		}
		if depth < 0 {
			// A close brace/bracket with no matching open means the
			// enclosing container ended here; anything past this point
			// belongs to whatever comes after it, not to this scan.
			return -1
		}
	}
	return -1
}

// isNumericField reports whether token is a bare, whitespace-tolerant
// non-negative decimal integer, as used to tell an array index apart
// from a record field name in a nested path.
func isNumericField(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	n := 0
	for _, c := range token {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// getIndex extracts the leading numeric prefix of a "<index>:<value>"
// clause, returning the index and the byte offset of the value following
// the colon. status is statusNotFound if clause does not start with a
// digit, or starts with digits not followed by a colon (a bare,
// unindexed element); it never returns statusErr.
func getIndex(clause string) (idx int, valueStart int, status parseStatus, err *ParseError) {
	i := 0
	for i < len(clause) && clause[i] == ' ' {
		i++
	}
	start := i
	for i < len(clause) && clause[i] >= '0' && clause[i] <= '9' {
		i++
	}
	if i == start {
		return 0, 0, statusNotFound, nil
	}
	n, _ := isNumericField(clause[start:i])
	j := i
	for j < len(clause) && clause[j] == ' ' {
		j++
	}
	if j >= len(clause) || clause[j] != ':' {
		// Leading digits not followed by ':' is not an index prefix —
		// it's the start of a bare numeric value (e.g. an int element).
		return 0, 0, statusNotFound, nil
	}
	return n, j + 1, statusOK, nil
}

// getName extracts the leading "<identifier>:" prefix of a record field
// clause, returning the name and the byte offset of the value following
// the colon. status is statusNotFound if clause does not start with an
// identifier character.
func getName(clause string) (name string, valueStart int, status parseStatus, err *ParseError) {
	i := 0
	for i < len(clause) && clause[i] == ' ' {
		i++
	}
	start := i
	for i < len(clause) && (isIdentByte(clause[i])) {
		i++
	}
	if i == start {
		return "", 0, statusNotFound, nil
	}
	name = clause[start:i]
	j := i
	for j < len(clause) && clause[j] == ' ' {
		j++
	}
	if j >= len(clause) || clause[j] != ':' {
		// An identifier not followed by ':' is not a field-name prefix —
		// it's the start of a bare bool/nil-like value.
		return "", 0, statusNotFound, nil
	}
	return name, j + 1, statusOK, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// getMaxIndex returns the highest explicit index found across a set of
// already-split array-element clauses, used to validate fixed-array
// bounds and to size a dynamic array's backing slice while parsing.
// Bare (unindexed) clauses are numbered sequentially starting at the
// previous explicit index + 1, matching the grammar's rule that indices
// may be omitted when assigned in ascending textual order.
func getMaxIndex(clauses []string) (int, error) {
	max := -1
	next := 0
	for _, c := range clauses {
		idx, _, status, err := getIndex(c)
		if status == statusErr {
			return 0, err
		}
		if status == statusNotFound {
			idx = next
		}
		if idx > max {
			max = idx
		}
		next = idx + 1
	}
	return max, nil
}

// checkBraces reports whether s, trimmed of surrounding whitespace,
// starts with open and ends with close, returning the trimmed text
// between them (which may be empty). Balance of the inner text is not
// checked. It is
// used to distinguish a composite/array literal from an atom before
// committing to one parse path.
func checkBraces(s string, open, close byte) (inner string, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return "", false
	}
	return strings.TrimSpace(s[1 : len(s)-1]), true
}

// isEmptyArray reports whether a bracketed array literal's inner text is
// empty (after trimming), i.e. "[]" or "[ ]".
func isEmptyArray(inner string) bool {
	return strings.TrimSpace(inner) == ""
}

// splitSameLevel splits s on every occurrence of sep found by
// findSameLevelSymbol, i.e. only at nesting depth 0 outside quotes.
func splitSameLevel(s string, sep byte) []string {
	var parts []string
	pos := 0
	for {
		idx := findSameLevelSymbol(s, pos, sep)
		if idx < 0 {
			parts = append(parts, s[pos:])
			return parts
		}
		parts = append(parts, s[pos:idx])
		pos = idx + 1
	}
}

// findField returns the offset of the clause naming field within the
// same-level comma-separated clauses of body (a record literal's inner
// text), or -1 if no clause names that field. ConvertPath does not use
// it; it always builds a new nested literal.
func findField(body, field string) int {
	pos := 0
	for {
		idx := findSameLevelSymbol(body, pos, ',')
		var clause string
		if idx < 0 {
			clause = body[pos:]
		} else {
			clause = body[pos:idx]
		}
		if name, _, status, _ := getName(clause); status == statusOK && name == field {
			return pos
		}
		if idx < 0 {
			return -1
		}
		pos = idx + 1
	}
}
