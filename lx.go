// Package lx provides a tree-walking interpreter for Lx, a small
// PHP-flavored dynamically-typed scripting language.
//
// Example usage:
//
//	result, msg := lx.Eval("script.lx", `$x = 1; $x + 2;`)
//	if msg != "" {
//	    // handle the diagnostic
//	}
//	fmt.Println(lx.ToString(result))
package lx

import (
	"github.com/ppyne/lx/ast"
	"github.com/ppyne/lx/diag"
	"github.com/ppyne/lx/eval"
	"github.com/ppyne/lx/lexer"
	"github.com/ppyne/lx/parser"
	"github.com/ppyne/lx/token"
	"github.com/ppyne/lx/value"
)

// Parse clears the diagnostic slot, parses src and returns the resulting
// program together with the formatted diagnostic, which is the empty
// string if parsing succeeded. filename only reaches the nested parsers
// used for `${...}` interpolation.
func Parse(filename, src string) (*ast.Program, string) {
	diag.Clear()
	p := parser.New(lexer.New(src), filename)
	prog := p.ParseProgram()
	return prog, diag.Format()
}

// Tokenize returns every token the lexer produces from src, ending with
// the EOF token, or with the first ILLEGAL token, after which lexing stops.
func Tokenize(src string) []token.Token {
	return lexer.Tokenize(src)
}

// Eval parses and evaluates src as a standalone script and returns the
// value of its final expression statement along with any diagnostic
// message produced along the way.
func Eval(filename, src string) (value.Value, string) {
	it := New(filename)
	v := it.Run(src)
	return v, diag.Format()
}

// New returns a fresh Interpreter, ready to run one or more scripts (via
// repeated Run calls) against a shared global environment — the shape a
// REPL or templating host needs.
func New(filename string) *Interpreter {
	return eval.New(filename)
}

// Re-export types for convenience.
type (
	Interpreter = eval.Interpreter
	Program     = ast.Program
	Statement   = ast.Statement
	Expression  = ast.Expression
	Token       = token.Token
	Value       = value.Value
)

// Node types most often inspected by callers walking a parsed program.
type (
	FunctionDeclaration         = ast.FunctionDeclaration
	IfStatement                 = ast.IfStatement
	WhileStatement               = ast.WhileStatement
	ForStatement                 = ast.ForStatement
	ForeachStatement             = ast.ForeachStatement
	SwitchStatement               = ast.SwitchStatement
	ReturnStatement               = ast.ReturnStatement
	ExpressionStatement           = ast.ExpressionStatement
	Variable                      = ast.Variable
	CallExpression                = ast.CallExpression
	BinaryExpression              = ast.BinaryExpression
	AssignExpression              = ast.AssignExpression
	ArrayLiteral                  = ast.ArrayLiteral
	IndexExpression               = ast.IndexExpression
	DestructureAssignExpression   = ast.DestructureAssignExpression
)

// ToString renders v per the language's scalar-to-string coercion rules
// (used by print/sprintf and by callers formatting a returned Value).
func ToString(v value.Value) string { return value.ToString(v) }

// IsTrue reports v's truthiness per the language's falsy-value set.
func IsTrue(v value.Value) bool { return value.IsTrue(v) }

// Visitor inspects AST nodes during a Walk, the way an analyzer or
// formatter would traverse a parsed program without needing to know the
// full node-type switch itself.
type Visitor interface {
	Visit(node ast.Node) Visitor
}

// Walk traverses an AST in depth-first order, calling v.Visit for every
// node reached. Traversal stops descending into a subtree when Visit
// returns nil.
func Walk(v Visitor, node ast.Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Statements {
			Walk(v, s)
		}
	case *ast.BlockStatement:
		for _, s := range n.Statements {
			Walk(v, s)
		}
	case *ast.ExpressionStatement:
		if n.Expr != nil {
			Walk(v, n.Expr)
		}
	case *ast.FunctionDeclaration:
		for _, p := range n.Params {
			if p.Default != nil {
				Walk(v, p.Default)
			}
		}
		Walk(v, n.Body)
	case *ast.ReturnStatement:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *ast.IfStatement:
		Walk(v, n.Condition)
		Walk(v, n.Consequence)
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *ast.WhileStatement:
		Walk(v, n.Condition)
		Walk(v, n.Body)
	case *ast.DoWhileStatement:
		Walk(v, n.Body)
		Walk(v, n.Condition)
	case *ast.ForStatement:
		for _, e := range n.Init {
			Walk(v, e)
		}
		if n.Condition != nil {
			Walk(v, n.Condition)
		}
		for _, e := range n.Step {
			Walk(v, e)
		}
		Walk(v, n.Body)
	case *ast.ForeachStatement:
		Walk(v, n.Iterable)
		Walk(v, n.Body)
	case *ast.SwitchStatement:
		Walk(v, n.Scrutinee)
		for _, c := range n.Cases {
			if c.Expr != nil {
				Walk(v, c.Expr)
			}
			for _, s := range c.Body {
				Walk(v, s)
			}
		}
	case *ast.BinaryExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *ast.UnaryExpression:
		Walk(v, n.Operand)
	case *ast.IncDecExpression:
		Walk(v, n.Operand)
	case *ast.TernaryExpression:
		Walk(v, n.Condition)
		Walk(v, n.Then)
		Walk(v, n.Else)
	case *ast.NullCoalesceExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *ast.AssignExpression:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *ast.DestructureAssignExpression:
		for _, t := range n.Targets {
			if t != nil {
				Walk(v, t)
			}
		}
		Walk(v, n.Value)
	case *ast.CallExpression:
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *ast.IndexExpression:
		Walk(v, n.Left)
		Walk(v, n.Index)
	case *ast.ArrayLiteral:
		for _, p := range n.Pairs {
			if p.Key != nil {
				Walk(v, p.Key)
			}
			Walk(v, p.Value)
		}
	case *ast.InterpolatedString:
		for _, p := range n.Parts {
			Walk(v, p)
		}
	}
}
