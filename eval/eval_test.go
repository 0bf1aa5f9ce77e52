package eval

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppyne/lx/diag"
	"github.com/ppyne/lx/value"
)

func run(t *testing.T, src string) (*Interpreter, value.Value) {
	t.Helper()
	diag.Clear()
	it := New("test.lx")
	v := it.Run(src)
	return it, v
}

func runOK(t *testing.T, src string) value.Value {
	t.Helper()
	_, v := run(t, src)
	require.False(t, diag.Present(), "unexpected diagnostic: %s", diag.Format())
	return v
}

func TestArithmeticPromotion(t *testing.T) {
	v := runOK(t, "1 + 2 * 3;")
	assert.Equal(t, int64(7), v.Int)

	v = runOK(t, "1 + 2.5;")
	assert.Equal(t, value.KindFloat, v.Kind)
	assert.Equal(t, 3.5, v.Float)

	v = runOK(t, `"3" + 4;`)
	assert.Equal(t, value.KindFloat, v.Kind)
	assert.Equal(t, 7.0, v.Float)
}

func TestDivisionByZeroSetsDiagnostic(t *testing.T) {
	_, v := run(t, "1 / 0;")
	assert.True(t, diag.Present())
	assert.Equal(t, diag.DivByZero, diag.Current().Code)
	assert.Equal(t, value.KindUndefined, v.Kind)
}

func TestModuloByZeroSetsDiagnostic(t *testing.T) {
	run(t, "1 % 0;")
	assert.Equal(t, diag.ModByZero, diag.Current().Code)
}

func TestStringConcatenation(t *testing.T) {
	v := runOK(t, `"foo" . "bar";`)
	assert.Equal(t, "foobar", v.Str)
}

func TestLooseVsStrictEquality(t *testing.T) {
	assert.True(t, runOK(t, `"5" == 5;`).Bool)
	assert.False(t, runOK(t, `"5" === 5;`).Bool)
	assert.True(t, runOK(t, "null == null;").Bool)
}

func TestComparisonOperators(t *testing.T) {
	assert.True(t, runOK(t, "3 < 5;").Bool)
	assert.True(t, runOK(t, `"abc" < "abd";`).Bool)
}

func TestVariableAssignmentAndCompoundOps(t *testing.T) {
	v := runOK(t, "$x = 1; $x += 4; $x;")
	assert.Equal(t, int64(5), v.Int)

	v = runOK(t, `$s = "a"; $s .= "b"; $s;`)
	assert.Equal(t, "ab", v.Str)

	v = runOK(t, "$y; $y += 3; $y;")
	assert.Equal(t, int64(3), v.Int)
}

func TestIncDecOnLvalue(t *testing.T) {
	v := runOK(t, "$x = 5; $x++;")
	assert.Equal(t, int64(5), v.Int, "postfix returns the old value")

	v = runOK(t, "$x = 5; ++$x;")
	assert.Equal(t, int64(6), v.Int, "prefix returns the new value")

	v = runOK(t, "$x--;")
	assert.Equal(t, int64(0), v.Int, "undefined promotes to Int(0) before the decrement")
}

func TestTernaryAndNullCoalesce(t *testing.T) {
	assert.Equal(t, int64(1), runOK(t, "true ? 1 : 2;").Int)
	assert.Equal(t, int64(2), runOK(t, "false ? 1 : 2;").Int)
	assert.Equal(t, int64(9), runOK(t, "$missing ?? 9;").Int)
	assert.Equal(t, int64(3), runOK(t, "$x = 3; $x ?? 9;").Int)
}

func TestArrayLiteralAutoIndexCursor(t *testing.T) {
	it, v := run(t, `$a = [10, "k" => 20, 30]; $a;`)
	require.False(t, diag.Present())
	require.Equal(t, value.KindArray, v.Kind)
	assert.Equal(t, int64(10), v.Arr.Get(value.IntKey(0)).Int)
	assert.Equal(t, int64(20), v.Arr.Get(value.StringKey("k")).Int)
	assert.Equal(t, int64(30), v.Arr.Get(value.IntKey(1)).Int)
	_ = it
}

func TestNestedIndexAssignAutoVivifies(t *testing.T) {
	v := runOK(t, "$a[0][1] = 7; $a[0][1];")
	assert.Equal(t, int64(7), v.Int)
}

func TestIndexAssignOnNonArrayIsDiagnosed(t *testing.T) {
	run(t, "$x = 5; $x[0] = 1;")
	assert.Equal(t, diag.IndexAssignTarget, diag.Current().Code)
}

func TestCyclicArrayAssignmentIsRejected(t *testing.T) {
	run(t, "$a = []; $a[0] = $a;")
	assert.Equal(t, diag.CyclicArray, diag.Current().Code)
}

func TestWhileBreakContinue(t *testing.T) {
	v := runOK(t, `
		$i = 0; $sum = 0;
		while ($i < 10) {
			$i += 1;
			if ($i == 5) { continue; }
			if ($i > 8) { break; }
			$sum += $i;
		}
		$sum;
	`)
	assert.Equal(t, int64(1+2+3+4+6+7+8), v.Int)
}

func TestForeachOverArrayAndString(t *testing.T) {
	v := runOK(t, `
		$a = [1, 2, 3];
		$sum = 0;
		foreach ($a as $k => $x) { $sum += $x + $k; }
		$sum;
	`)
	assert.Equal(t, int64(1+2+3+0+1+2), v.Int)

	v = runOK(t, `
		$count = 0;
		foreach ("abc" as $ch) { $count += 1; }
		$count;
	`)
	assert.Equal(t, int64(3), v.Int)
}

func TestSwitchFallthroughAndDefault(t *testing.T) {
	v := runOK(t, `
		$x = 2;
		$out = "";
		switch ($x) {
			case 1:
				$out .= "a";
			case 2:
				$out .= "b";
			case 3:
				$out .= "c";
				break;
			default:
				$out .= "d";
		}
		$out;
	`)
	assert.Equal(t, "bc", v.Str)

	v = runOK(t, `
		$x = 99;
		$out = "";
		switch ($x) {
			case 1:
				$out .= "a";
				break;
			default:
				$out .= "d";
		}
		$out;
	`)
	assert.Equal(t, "d", v.Str)
}

func TestUserFunctionCallWithDefaultsAndReturn(t *testing.T) {
	v := runOK(t, `
		function add($a, $b = 10) {
			return $a + $b;
		}
		add(1, 2) + add(5);
	`)
	assert.Equal(t, int64(1+2+5+10), v.Int)
}

func TestUndefinedFunctionIsDiagnosed(t *testing.T) {
	run(t, "nope_such_function(1);")
	assert.Equal(t, diag.UndefinedFunction, diag.Current().Code)
}

func TestGlobalPromotesToRootFrame(t *testing.T) {
	v := runOK(t, `
		$counter = 0;
		function bump() {
			global $counter;
			$counter += 1;
		}
		bump(); bump(); bump();
		$counter;
	`)
	assert.Equal(t, int64(3), v.Int)
}

func TestUnsetRemovesBindingAndArrayEntry(t *testing.T) {
	v := runOK(t, "$x = 1; unset($x); $x ?? 42;")
	assert.Equal(t, int64(42), v.Int)

	v = runOK(t, `$a = ["k" => 1]; unset($a["k"]); count($a);`)
	assert.Equal(t, int64(0), v.Int)
}

func TestDestructuringAssignmentWithSkip(t *testing.T) {
	v := runOK(t, "[$a, , $c] = [1, 2, 3]; $a + $c;")
	assert.Equal(t, int64(4), v.Int)
}

func TestNativeFunctionDispatchAndOutputRedirection(t *testing.T) {
	it := New("test.lx")
	var buf bytes.Buffer
	it.Natives.SetOutput(&buf)
	it.Run(`print("hi ", 1);`)
	assert.Equal(t, "hi 1", buf.String())
}

func TestBreakOutsideLoopInsideFunctionIsDiagnosed(t *testing.T) {
	run(t, `
		function f() {
			break;
		}
		f();
	`)
	assert.Equal(t, diag.BreakContinueOutsideLoop, diag.Current().Code)
}

func TestDynamicVariable(t *testing.T) {
	v := runOK(t, `$name = "x"; $x = 42; $$name;`)
	assert.Equal(t, int64(42), v.Int)
}

func TestInterpolatedString(t *testing.T) {
	v := runOK(t, `$name = "world"; "hello $name!";`)
	assert.Equal(t, "hello world!", v.Str)
}
