package guccomposite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSameLevelSymbolSkipsNesting(t *testing.T) {
	s := "{a: 1, b: [1, 2]}, next"
	idx := findSameLevelSymbol(s, 0, ',')
	assert.Equal(t, len(s)-len(", next"), idx)
}

func TestFindSameLevelSymbolSkipsQuotedString(t *testing.T) {
	s := "'a, b', c"
	idx := findSameLevelSymbol(s, 0, ',')
	assert.Equal(t, 6, idx)
}

func TestFindSameLevelSymbolHandlesDoubledQuoteEscape(t *testing.T) {
	s := "'it''s, fine', c"
	idx := findSameLevelSymbol(s, 0, ',')
	assert.Equal(t, len("'it''s, fine'"), idx)
}

func TestFindSameLevelSymbolStopsOnNegativeDepth(t *testing.T) {
	idx := findSameLevelSymbol("a}[,]", 0, ',')
	assert.Equal(t, -1, idx)
}

func TestIsNumericField(t *testing.T) {
	n, ok := isNumericField("  42 ")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = isNumericField("4a")
	assert.False(t, ok)

	_, ok = isNumericField("")
	assert.False(t, ok)
}

func TestGetIndex(t *testing.T) {
	idx, start, status, err := getIndex("3: value")
	assert.Nil(t, err)
	assert.Equal(t, statusOK, status)
	assert.Equal(t, 3, idx)
	assert.Equal(t, "value", strings.TrimSpace("3: value"[start:]))

	_, _, status, _ = getIndex("not indexed")
	assert.Equal(t, statusNotFound, status)

	_, _, status, err = getIndex("3 value")
	assert.Equal(t, statusNotFound, status)
	assert.Nil(t, err)
}

func TestGetName(t *testing.T) {
	name, start, status, err := getName("name: 'bob'")
	assert.Nil(t, err)
	assert.Equal(t, statusOK, status)
	assert.Equal(t, "name", name)
	assert.Equal(t, "'bob'", strings.TrimSpace("name: 'bob'"[start:]))
}

func TestGetMaxIndexExplicitAndBareSequential(t *testing.T) {
	max, err := getMaxIndex([]string{"1:'a'", "2:'b'"})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, max)

	max, err = getMaxIndex([]string{"'a'", "'b'", "'c'"})
	assert.NoError(err)
	assert.Equal(2, max)
}

func TestCheckBracesAndEmptyArray(t *testing.T) {
	inner, ok := checkBraces("{ a: 1 }", '{', '}')
	assert.True(t, ok)
	assert.Equal(t, "a: 1", inner)

	_, ok = checkBraces("[a]", '{', '}')
	assert.False(t, ok)

	assert.True(t, isEmptyArray("  "))
	assert.False(t, isEmptyArray("1"))
}

func TestFindField(t *testing.T) {
	body := "name: 'bob', state: 1"
	idx := findField(body, "state")
	assert.Equal(t, len("name: 'bob',"), idx)

	assert.Equal(t, -1, findField(body, "nope"))
}
