package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppyne/lx/ast"
	"github.com/ppyne/lx/diag"
	"github.com/ppyne/lx/lexer"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	diag.Clear()
	p := New(lexer.New(src), "test.lx")
	prog := p.ParseProgram()
	require.False(t, diag.Present(), "unexpected diagnostic: %s", diag.Format())
	return prog
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := parseSource(t, "1 + 2 * 3;")
	require.Len(t, prog.Statements, 1)
	es := prog.Statements[0].(*ast.ExpressionStatement)
	bin := es.Expr.(*ast.BinaryExpression)
	assert.Equal(t, "+", bin.Operator)
	assert.Equal(t, int64(1), bin.Left.(*ast.IntegerLiteral).Value)
	rhs := bin.Right.(*ast.BinaryExpression)
	assert.Equal(t, "*", rhs.Operator)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	prog := parseSource(t, "2 ** 3 ** 2;")
	es := prog.Statements[0].(*ast.ExpressionStatement)
	bin := es.Expr.(*ast.BinaryExpression)
	assert.Equal(t, "**", bin.Operator)
	assert.Equal(t, int64(2), bin.Left.(*ast.IntegerLiteral).Value)
	rhs := bin.Right.(*ast.BinaryExpression)
	assert.Equal(t, "**", rhs.Operator)
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	prog := parseSource(t, "$a = $b = 1;")
	es := prog.Statements[0].(*ast.ExpressionStatement)
	assign := es.Expr.(*ast.AssignExpression)
	assert.Equal(t, "a", assign.Target.(*ast.Variable).Name)
	inner := assign.Value.(*ast.AssignExpression)
	assert.Equal(t, "b", inner.Target.(*ast.Variable).Name)
}

func TestParseFunctionDeclarationWithDefaults(t *testing.T) {
	prog := parseSource(t, "function add($a, $b = 1) { return $a + $b; }")
	fn := prog.Statements[0].(*ast.FunctionDeclaration)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Nil(t, fn.Params[0].Default)
	assert.NotNil(t, fn.Params[1].Default)
}

func TestParseFunctionRejectsNonDefaultAfterDefault(t *testing.T) {
	diag.Clear()
	p := New(lexer.New("function f($a = 1, $b) { }"), "test.lx")
	p.ParseProgram()
	assert.True(t, diag.Present())
	assert.Equal(t, diag.Parse, diag.Current().Code)
}

func TestParseIfElseIf(t *testing.T) {
	prog := parseSource(t, `
		if ($a == 1) { $x = 1; }
		else if ($a == 2) { $x = 2; }
		else { $x = 3; }
	`)
	ifs := prog.Statements[0].(*ast.IfStatement)
	require.NotNil(t, ifs.Alternative)
	elseIf, ok := ifs.Alternative.(*ast.IfStatement)
	require.True(t, ok)
	require.NotNil(t, elseIf.Alternative)
}

func TestParseForeachWithKeyAndValue(t *testing.T) {
	prog := parseSource(t, "foreach ($arr as $k => $v) { print($v); }")
	fe := prog.Statements[0].(*ast.ForeachStatement)
	require.NotNil(t, fe.KeyVar)
	assert.Equal(t, "k", fe.KeyVar.Name)
	assert.Equal(t, "v", fe.ValueVar.Name)
}

func TestParseSwitchStatement(t *testing.T) {
	prog := parseSource(t, `
		switch ($x) {
			case 1:
				$y = 1;
				break;
			default:
				$y = 0;
		}
	`)
	sw := prog.Statements[0].(*ast.SwitchStatement)
	require.Len(t, sw.Cases, 2)
	assert.NotNil(t, sw.Cases[0].Expr)
	assert.Nil(t, sw.Cases[1].Expr)
}

func TestParseDestructuringAssignmentWithSkip(t *testing.T) {
	prog := parseSource(t, "[$a, , $c] = $src;")
	es := prog.Statements[0].(*ast.ExpressionStatement)
	d := es.Expr.(*ast.DestructureAssignExpression)
	require.Len(t, d.Targets, 3)
	assert.Nil(t, d.Targets[1])
	assert.Equal(t, "a", d.Targets[0].(*ast.Variable).Name)
}

func TestParseArrayLiteralMixedKeys(t *testing.T) {
	prog := parseSource(t, `["x" => 1, 2, 3];`)
	es := prog.Statements[0].(*ast.ExpressionStatement)
	arr := es.Expr.(*ast.ArrayLiteral)
	require.Len(t, arr.Pairs, 3)
	assert.NotNil(t, arr.Pairs[0].Key)
	assert.Nil(t, arr.Pairs[1].Key)
}

func TestParseIndexAssignment(t *testing.T) {
	prog := parseSource(t, `$arr["k"][0] = 5;`)
	es := prog.Statements[0].(*ast.ExpressionStatement)
	assign := es.Expr.(*ast.AssignExpression)
	idx := assign.Target.(*ast.IndexExpression)
	assert.Equal(t, int64(0), idx.Index.(*ast.IntegerLiteral).Value)
	outer := idx.Left.(*ast.IndexExpression)
	assert.Equal(t, "k", outer.Index.(*ast.StringLiteral).Value)
}

func TestParseDoubleQuotedInterpolation(t *testing.T) {
	prog := parseSource(t, `"hello $name, total: ${1 + 2}\n";`)
	es := prog.Statements[0].(*ast.ExpressionStatement)
	s := es.Expr.(*ast.InterpolatedString)
	require.True(t, len(s.Parts) >= 3)
	found := false
	for _, part := range s.Parts {
		if v, ok := part.(*ast.Variable); ok && v.Name == "name" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestParseTernaryAndNullCoalesce(t *testing.T) {
	prog := parseSource(t, "$x = $a ? $b : $c ?? $d;")
	es := prog.Statements[0].(*ast.ExpressionStatement)
	assign := es.Expr.(*ast.AssignExpression)
	tern := assign.Value.(*ast.TernaryExpression)
	_, ok := tern.Else.(*ast.NullCoalesceExpression)
	assert.True(t, ok)
}

func TestParsePostfixAndPrefixIncDec(t *testing.T) {
	prog := parseSource(t, "$x++; --$y;")
	post := prog.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.IncDecExpression)
	assert.False(t, post.Prefix)
	pre := prog.Statements[1].(*ast.ExpressionStatement).Expr.(*ast.IncDecExpression)
	assert.True(t, pre.Prefix)
}

func TestParseMagicConstantAndCall(t *testing.T) {
	prog := parseSource(t, `print(__LINE__);`)
	call := prog.Statements[0].(*ast.ExpressionStatement).Expr.(*ast.CallExpression)
	assert.Equal(t, "print", call.Function)
	_, ok := call.Args[0].(*ast.MagicConstant)
	assert.True(t, ok)
}

func TestParseForStatement(t *testing.T) {
	prog := parseSource(t, "for ($i = 0; $i < 10; $i = $i + 1) { print($i); }")
	f := prog.Statements[0].(*ast.ForStatement)
	require.Len(t, f.Init, 1)
	require.Len(t, f.Step, 1)
	assert.NotNil(t, f.Condition)
}
