package natives

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppyne/lx/env"
	"github.com/ppyne/lx/value"
)

func call(t *testing.T, tbl *Table, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := tbl.Lookup(name)
	require.True(t, ok, "native %q not registered", name)
	return fn(env.New(nil), args)
}

func TestPrintWritesToRedirectedOutput(t *testing.T) {
	tbl := NewTable()
	var buf bytes.Buffer
	tbl.SetOutput(&buf)
	call(t, tbl, "print", value.StringVal("hi"), value.IntVal(1))
	assert.Equal(t, "hi1", buf.String())
}

func TestSprintfBasicVerbs(t *testing.T) {
	tbl := NewTable()
	got := call(t, tbl, "sprintf", value.StringVal("%s=%d"), value.StringVal("x"), value.IntVal(5))
	assert.Equal(t, "x=5", got.Str)
}

func TestStringHelpers(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, int64(5), call(t, tbl, "strlen", value.StringVal("hello")).Int)
	assert.Equal(t, "ell", call(t, tbl, "substr", value.StringVal("hello"), value.IntVal(1), value.IntVal(3)).Str)
	assert.True(t, call(t, tbl, "starts_with", value.StringVal("hello"), value.StringVal("he")).Bool)
	assert.True(t, call(t, tbl, "str_contains", value.StringVal("hello"), value.StringVal("ell")).Bool)
}

func TestArrayPushPopShiftUnshift(t *testing.T) {
	tbl := NewTable()
	a := value.New()
	av := value.ArrayVal(a)

	call(t, tbl, "push", av, value.IntVal(1), value.IntVal(2), value.IntVal(3))
	assert.Equal(t, 3, a.Len())

	popped := call(t, tbl, "pop", av)
	assert.Equal(t, int64(3), popped.Int)
	assert.Equal(t, 2, a.Len())

	call(t, tbl, "unshift", av, value.IntVal(0))
	assert.Equal(t, int64(0), a.Get(value.IntKey(0)).Int)

	shifted := call(t, tbl, "shift", av)
	assert.Equal(t, int64(0), shifted.Int)
}

func TestArraySortFamily(t *testing.T) {
	tbl := NewTable()
	a := value.New()
	a.Set(value.IntKey(0), value.IntVal(3))
	a.Set(value.IntKey(1), value.IntVal(1))
	a.Set(value.IntKey(2), value.IntVal(2))
	av := value.ArrayVal(a)

	call(t, tbl, "sort", av)
	var got []int64
	for _, e := range a.Entries() {
		got = append(got, e.Val.Int)
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestCountKeysValues(t *testing.T) {
	tbl := NewTable()
	a := value.New()
	a.Set(value.StringKey("a"), value.IntVal(1))
	a.Set(value.StringKey("b"), value.IntVal(2))
	av := value.ArrayVal(a)

	assert.Equal(t, int64(2), call(t, tbl, "count", av).Int)
	keys := call(t, tbl, "keys", av)
	assert.Equal(t, 2, keys.Arr.Len())
}

func TestBase64AndCrc32(t *testing.T) {
	tbl := NewTable()
	enc := call(t, tbl, "base64_encode", value.StringVal("hi"))
	assert.Equal(t, "aGk=", enc.Str)
	dec := call(t, tbl, "base64_decode", enc)
	assert.Equal(t, "hi", dec.Str)
	assert.NotEqual(t, int64(0), call(t, tbl, "crc32", value.StringVal("hi")).Int)
}

func TestMinMax(t *testing.T) {
	tbl := NewTable()
	assert.Equal(t, int64(1), call(t, tbl, "min", value.IntVal(3), value.IntVal(1), value.IntVal(2)).Int)
	assert.Equal(t, int64(3), call(t, tbl, "max", value.IntVal(3), value.IntVal(1), value.IntVal(2)).Int)
}
