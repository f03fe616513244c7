package guccomposite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeRegistry(t *testing.T) *Registry {
	r := NewRegistry()
	require.NoError(t, r.DefineType("node", "string name; int state"))
	require.NoError(t, r.DefineType("cluster", "string name; int size; node[10] nodes"))
	return r
}

func TestParseRecordLiteral(t *testing.T) {
	r := nodeRegistry(t)
	v, err, _ := r.ParseComposite("{name: 'alice', state: 1}", "node", nil, FlagNone)
	require.NoError(t, err)
	require.Equal(t, KindRecord, v.Kind)
	assert.Equal(t, "alice", v.Elems[0].StringVal)
	assert.Equal(t, int64(1), v.Elems[1].IntVal)
}

func TestParseRecordRejectsUnknownField(t *testing.T) {
	r := nodeRegistry(t)
	_, err, hint := r.ParseComposite("{name: 'alice', nope: 1}", "node", nil, FlagNone)
	require.Error(t, err)
	assert.Equal(t, HintUnknownField.String(), hint)
}

func TestParseRecordRejectsDuplicateField(t *testing.T) {
	r := nodeRegistry(t)
	_, err, _ := r.ParseComposite("{name: 'alice', name: 'bob'}", "node", nil, FlagNone)
	require.Error(t, err)
}

func TestParseFixedArrayBareSequential(t *testing.T) {
	r := NewRegistry()
	v, err, _ := r.ParseComposite("[1, 2, 3]", "int[5]", nil, FlagNone)
	require.NoError(t, err)
	require.Len(t, v.Elems, 5)
	for i, want := range []int64{1, 2, 3, 0, 0} {
		assert.Equal(t, want, v.Elems[i].IntVal)
	}
}

func TestParseFixedArrayIndexOutOfBounds(t *testing.T) {
	r := NewRegistry()
	_, err, hint := r.ParseComposite("[5: 1]", "int[5]", nil, FlagNone)
	require.Error(t, err)
	assert.Equal(t, HintIndexOutOfBounds.String(), hint)
}

func TestParseFixedArrayRejectsMixedIndexing(t *testing.T) {
	r := NewRegistry()
	_, err, hint := r.ParseComposite("[0: 1, 2]", "int[5]", nil, FlagNone)
	require.Error(t, err)
	assert.Equal(t, HintUniformIndexing.String(), hint)
}

func TestParseDynamicArrayShortForm(t *testing.T) {
	r := NewRegistry()
	v, err, _ := r.ParseComposite("[1, 2, 3]", "int[]", nil, FlagNone)
	require.NoError(t, err)
	require.Len(t, v.Elems, 3)
	assert.Equal(t, int64(2), v.Elems[1].IntVal)
}

func TestParseDynamicArrayExtendedForm(t *testing.T) {
	r := NewRegistry()
	v, err, _ := r.ParseComposite("{size: 5, data: [1, 2]}", "int[]", nil, FlagNone)
	require.NoError(t, err)
	require.Len(t, v.Elems, 5)
	assert.Equal(t, int64(1), v.Elems[0].IntVal)
	assert.Equal(t, int64(2), v.Elems[1].IntVal)
	assert.Equal(t, int64(0), v.Elems[2].IntVal)
}

func TestParseDynamicArrayExtendedFormAllowsExplicitZeroSize(t *testing.T) {
	r := NewRegistry()
	v, err, _ := r.ParseComposite("{size: 0, data: []}", "int[]", nil, FlagNone)
	require.NoError(t, err)
	assert.Len(t, v.Elems, 0)
}

func TestParseDynamicArrayExtendedFormRejectsNeitherField(t *testing.T) {
	r := NewRegistry()
	_, err, hint := r.ParseComposite("{}", "int[]", nil, FlagNone)
	require.Error(t, err)
	assert.Equal(t, HintEmptyExtendedArray.String(), hint)
}

func TestParseDynamicArrayExtendedFormDefaultsSizeFromData(t *testing.T) {
	r := NewRegistry()
	v, err, _ := r.ParseComposite("{data: [0: 1, 2: 3]}", "int[]", nil, FlagNone)
	require.NoError(t, err)
	require.Len(t, v.Elems, 3)
	assert.Equal(t, int64(1), v.Elems[0].IntVal)
	assert.Equal(t, int64(3), v.Elems[2].IntVal)
}

func TestParseDynamicArrayExtendedFormDefaultsSizeFromPrevWhenLonger(t *testing.T) {
	r := NewRegistry()
	prev, err, _ := r.ParseComposite("[9, 9, 9, 9]", "int[]", nil, FlagNone)
	require.NoError(t, err)

	v, err, _ := r.ParseComposite("{data: [0: 1]}", "int[]", prev, FlagNone)
	require.NoError(t, err)
	require.Len(t, v.Elems, 4)
	assert.Equal(t, int64(1), v.Elems[0].IntVal)
	assert.Equal(t, int64(9), v.Elems[3].IntVal)
}

func TestParseBoolStringRealAtoms(t *testing.T) {
	r := NewRegistry()

	b, err, _ := r.ParseComposite("yes", "bool", nil, FlagNone)
	require.NoError(t, err)
	assert.True(t, b.BoolVal)

	s, err, _ := r.ParseComposite("'it''s fine'", "string", nil, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, "it's fine", s.StringVal)

	n, err, _ := r.ParseComposite("nil", "string", nil, FlagNone)
	require.NoError(t, err)
	assert.True(t, n.IsNull)

	f, err, _ := r.ParseComposite("3.5", "real", nil, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, 3.5, f.RealVal)
}

func TestConvertPathWrapsFieldAssignment(t *testing.T) {
	got := ConvertPath("v->state", "2")
	assert.Equal(t, "{state: 2}", got)

	got = ConvertPath("v->nodes[0]->state", "2")
	assert.Equal(t, "{nodes: [0: {state: 2}]}", got)
}

func TestParsePatchListAppliesLeftToRight(t *testing.T) {
	r := nodeRegistry(t)
	initial, err, _ := r.ParseComposite("{name: 'alice', state: 1}", "node", nil, FlagNone)
	require.NoError(t, err)

	patched, err, _ := r.ParseComposite("v->state=2;", "node", initial, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, "alice", patched.Elems[0].StringVal)
	assert.Equal(t, int64(2), patched.Elems[1].IntVal)

	patched2, err, _ := r.ParseComposite("v->state=3; v->name='bob';", "node", patched, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, "bob", patched2.Elems[0].StringVal)
	assert.Equal(t, int64(3), patched2.Elems[1].IntVal)
}

func TestParsePatchListAbortsOnFirstFailureKeepsRunningValue(t *testing.T) {
	r := nodeRegistry(t)
	initial, err, _ := r.ParseComposite("{name: 'alice', state: 1}", "node", nil, FlagNone)
	require.NoError(t, err)

	patched, err, _ := r.ParseComposite("v->state=2; v->nope=9;", "node", initial, FlagNone)
	require.Error(t, err)
	assert.Equal(t, int64(2), patched.Elems[1].IntVal, "the successful first patch must survive")
	assert.Equal(t, "alice", patched.Elems[0].StringVal)
}

func TestParseComposeNestedClusterPatch(t *testing.T) {
	r := nodeRegistry(t)
	initial, err, _ := r.ParseComposite(
		"{name: 'c1', size: 1, nodes: [0: {name: 'alice', state: 1}]}", "cluster", nil, FlagNone)
	require.NoError(t, err)

	patched, err, _ := r.ParseComposite("v->nodes[0]->state=5;", "cluster", initial, FlagNone)
	require.NoError(t, err)
	assert.Equal(t, int64(5), patched.Elems[2].Elems[0].Elems[1].IntVal)
	assert.Equal(t, "alice", patched.Elems[2].Elems[0].Elems[0].StringVal)
}
