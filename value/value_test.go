package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppyne/lx/diag"
)

func TestIsTrueFalseSet(t *testing.T) {
	falsy := []Value{
		Undefined(), Void(), Null(), BoolVal(false), IntVal(0), FloatVal(0),
		ByteVal(0), StringVal(""), ArrayVal(New()),
	}
	for _, v := range falsy {
		assert.Falsef(t, IsTrue(v), "expected %v to be falsy", v.Kind)
	}

	a := New()
	a.Set(IntKey(0), IntVal(1))
	truthy := []Value{
		BoolVal(true), IntVal(1), FloatVal(0.1), ByteVal(1), StringVal("x"),
		ArrayVal(a),
	}
	for _, v := range truthy {
		assert.Truef(t, IsTrue(v), "expected %v to be truthy", v.Kind)
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.0", FormatFloat(0))
	assert.Equal(t, "-0.0", FormatFloat(math.Copysign(0, -1)))
	assert.Equal(t, "2.0", FormatFloat(2))
	assert.Equal(t, "nan", FormatFloat(math.NaN()))
	assert.Equal(t, "inf", FormatFloat(math.Inf(1)))
	assert.Equal(t, "-inf", FormatFloat(math.Inf(-1)))
	assert.Equal(t, "0.5", FormatFloat(0.5))
}

func TestStringNumericCoercion(t *testing.T) {
	assert.Equal(t, int64(42), ToInt(StringVal("42")))
	assert.Equal(t, int64(0), ToInt(StringVal("42abc")))
	assert.InDelta(t, 3.5, ToFloat(StringVal("3.5")), 1e-9)
}

func TestArraySetGetUnset(t *testing.T) {
	diag.Clear()
	a := New()
	a.Set(StringKey("x"), IntVal(1))
	require.Equal(t, int64(1), a.Get(StringKey("x")).Int)

	a.Unset(StringKey("x"))
	assert.Equal(t, KindUndefined, a.Get(StringKey("x")).Kind)
}

func TestArrayNextIndex(t *testing.T) {
	a := New()
	assert.Equal(t, int64(0), a.NextIndex())
	a.Set(IntKey(0), IntVal(1))
	a.Set(IntKey(1), IntVal(2))
	assert.Equal(t, int64(2), a.NextIndex())
	a.Set(IntKey(5), IntVal(3))
	assert.Equal(t, int64(6), a.NextIndex())
}

func TestArrayInsertionOrderPreserved(t *testing.T) {
	a := New()
	a.Set(StringKey("b"), IntVal(2))
	a.Set(StringKey("a"), IntVal(1))
	a.Set(StringKey("b"), IntVal(20)) // overwrite keeps position
	keys := a.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, "b", keys[0].S)
	assert.Equal(t, "a", keys[1].S)
	assert.Equal(t, int64(20), a.Get(StringKey("b")).Int)
}

func TestCyclicArrayRejected(t *testing.T) {
	diag.Clear()
	a := New()
	b := New()
	a.Set(StringKey("b"), ArrayVal(b))

	b.Set(StringKey("a"), ArrayVal(a)) // would close a -> b -> a cycle
	assert.True(t, diag.Present())
	assert.Equal(t, diag.CyclicArray, diag.Current().Code)
	assert.Equal(t, KindUndefined, b.Get(StringKey("a")).Kind)
}
