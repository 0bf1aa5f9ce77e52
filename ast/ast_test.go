package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppyne/lx/token"
)

func tok(k token.Kind, lit string) token.Token {
	return token.Token{Kind: k, Literal: lit, Line: 1, Col: 1}
}

func TestProgramString(t *testing.T) {
	p := &Program{
		Statements: []Statement{
			&ExpressionStatement{
				Base: Base{Tok: tok(token.VARIABLE, "x")},
				Expr: &Variable{Base: Base{Tok: tok(token.VARIABLE, "x")}, Name: "x"},
			},
		},
	}
	assert.Equal(t, "$x;\n", p.String())
	assert.Equal(t, "x", p.TokenLiteral())
}

func TestAssignExpressionString(t *testing.T) {
	a := &AssignExpression{
		Base:     Base{Tok: tok(token.ASSIGN, "=")},
		Target:   &Variable{Name: "x"},
		Operator: "=",
		Value:    &IntegerLiteral{Value: 5},
	}
	assert.Equal(t, "$x = 5", a.String())
}

func TestIndexExpressionString(t *testing.T) {
	i := &IndexExpression{
		Left:  &Variable{Name: "arr"},
		Index: &IntegerLiteral{Value: 0},
	}
	assert.Equal(t, "$arr[0]", i.String())
}

func TestArrayLiteralString(t *testing.T) {
	a := &ArrayLiteral{
		Pairs: []ArrayPair{
			{Value: &IntegerLiteral{Value: 1}},
			{Key: &StringLiteral{Value: "k"}, Value: &IntegerLiteral{Value: 2}},
		},
	}
	assert.Equal(t, `[1, "k" => 2]`, a.String())
}

func TestIncDecExpressionString(t *testing.T) {
	pre := &IncDecExpression{Operator: "++", Operand: &Variable{Name: "x"}, Prefix: true}
	post := &IncDecExpression{Operator: "++", Operand: &Variable{Name: "x"}, Prefix: false}
	assert.Equal(t, "++$x", pre.String())
	assert.Equal(t, "$x++", post.String())
}

func TestDestructureAssignExpressionString(t *testing.T) {
	d := &DestructureAssignExpression{
		Targets: []Expression{&Variable{Name: "a"}, nil, &Variable{Name: "c"}},
		Value:   &Variable{Name: "src"},
	}
	assert.Equal(t, "[$a, , $c] = $src", d.String())
}

func TestIfStatementWithElseString(t *testing.T) {
	i := &IfStatement{
		Condition:   &BoolLiteral{Value: true},
		Consequence: &BlockStatement{Statements: []Statement{}},
		Alternative: &BlockStatement{Statements: []Statement{}},
	}
	assert.Equal(t, "if (true) { } else { }", i.String())
}

func TestForeachStatementString(t *testing.T) {
	f := &ForeachStatement{
		Iterable: &Variable{Name: "arr"},
		KeyVar:   &Variable{Name: "k"},
		ValueVar: &Variable{Name: "v"},
		Body:     &BlockStatement{Statements: []Statement{}},
	}
	assert.Equal(t, "foreach ($arr as $k => $v) { }", f.String())
}

func TestFunctionDeclarationString(t *testing.T) {
	fn := &FunctionDeclaration{
		Name: "add",
		Params: []Param{
			{Name: "a"},
			{Name: "b", Default: &IntegerLiteral{Value: 1}},
		},
		Body: &BlockStatement{Statements: []Statement{}},
	}
	assert.Equal(t, "function add($a, $b = 1) { }", fn.String())
}
