// Package eval implements the tree-walking evaluator: the control-flow
// protocol, operator semantics, lvalue/auto-vivification machinery, and
// call dispatch between native and user-defined functions.
package eval

import (
	"os"
	"path/filepath"

	"github.com/ppyne/lx/ast"
	"github.com/ppyne/lx/diag"
	"github.com/ppyne/lx/env"
	"github.com/ppyne/lx/gc"
	"github.com/ppyne/lx/lexer"
	"github.com/ppyne/lx/natives"
	"github.com/ppyne/lx/parser"
	"github.com/ppyne/lx/value"
)

// Flow tags the control-flow outcome of executing a statement.
type Flow int

const (
	FlowNormal Flow = iota
	FlowReturn
	FlowBreak
	FlowContinue
)

// Result is what every statement evaluates to.
type Result struct {
	Flow  Flow
	Value value.Value
}

func normal() Result { return Result{Flow: FlowNormal} }

// userFunction is a function declared in the running script.
type userFunction struct {
	decl *ast.FunctionDeclaration
}

// Interpreter owns the process-wide tables the language spec calls
// shared resources: the user-function table, the native registry, the
// collector, and the include-once path set. None of it is synchronized,
// matching the single-threaded model.
type Interpreter struct {
	Root      *env.Environment
	Natives   *natives.Table
	collector *gc.Collector

	functions map[string]*userFunction
	included  map[string]bool

	callStack []string // function names, for __FUNCTION__
	filename  string
}

// New constructs an Interpreter with a fresh root environment, the core
// native table, a collector, and empty function and include-once tables.
// include/include_once are keyword statements handled by includeFile.
func New(filename string) *Interpreter {
	it := &Interpreter{
		Root:      env.New(nil),
		Natives:   natives.NewTable(),
		collector: gc.New(),
		functions: make(map[string]*userFunction),
		included:  make(map[string]bool),
		filename:  filename,
	}
	return it
}

func (it *Interpreter) includeFile(e *env.Environment, path string, once bool) value.Value {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if once && it.included[abs] {
		return value.BoolVal(true)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		diag.Set(diag.Runtime, 0, 0, "include: cannot read %q: %v", path, err)
		return value.BoolVal(false)
	}
	it.included[abs] = true

	prevFilename := it.filename
	it.filename = path
	defer func() { it.filename = prevFilename }()

	p := parser.New(lexer.New(string(src)), path)
	prog := p.ParseProgram()
	if diag.Present() {
		return value.BoolVal(false)
	}
	result := it.evalBlock(prog.Statements, e)
	if result.Flow == FlowReturn {
		return result.Value
	}
	return value.BoolVal(true)
}

// Run parses src under filename and evaluates it against the root
// environment, returning the final expression-statement value (if any)
// much like a script's trailing return.
func (it *Interpreter) Run(src string) value.Value {
	p := parser.New(lexer.New(src), it.filename)
	prog := p.ParseProgram()
	if diag.Present() {
		return value.Undefined()
	}
	result := it.evalBlock(prog.Statements, it.Root)
	return result.Value
}

// -----------------------------------------------------------------------
// statements
// -----------------------------------------------------------------------

func (it *Interpreter) evalBlock(stmts []ast.Statement, e *env.Environment) Result {
	last := normal()
	for _, s := range stmts {
		it.collector.MaybeCollect(e)
		if diag.Present() {
			return normal()
		}
		r := it.evalStatement(s, e)
		if r.Flow != FlowNormal {
			return r
		}
		last = r
	}
	return last
}

func (it *Interpreter) evalStatement(s ast.Statement, e *env.Environment) Result {
	if diag.Present() {
		return normal()
	}
	switch n := s.(type) {
	case *ast.BlockStatement:
		return it.evalBlock(n.Statements, e)
	case *ast.ExpressionStatement:
		if n.Expr == nil {
			return normal()
		}
		v, ok := it.evalExpression(n.Expr, e)
		if !ok {
			return normal()
		}
		return Result{Flow: FlowNormal, Value: v}
	case *ast.FunctionDeclaration:
		it.functions[n.Name] = &userFunction{decl: n}
		return normal()
	case *ast.ReturnStatement:
		if n.Value == nil {
			return Result{Flow: FlowReturn, Value: value.Null()}
		}
		v, ok := it.evalExpression(n.Value, e)
		if !ok {
			return normal()
		}
		return Result{Flow: FlowReturn, Value: v}
	case *ast.BreakStatement:
		return Result{Flow: FlowBreak}
	case *ast.ContinueStatement:
		return Result{Flow: FlowContinue}
	case *ast.UnsetStatement:
		it.evalUnset(n.Target, e)
		return normal()
	case *ast.GlobalStatement:
		for _, name := range n.Names {
			e.AddGlobal(name)
		}
		return normal()
	case *ast.IfStatement:
		return it.evalIf(n, e)
	case *ast.WhileStatement:
		return it.evalWhile(n, e)
	case *ast.DoWhileStatement:
		return it.evalDoWhile(n, e)
	case *ast.ForStatement:
		return it.evalFor(n, e)
	case *ast.ForeachStatement:
		return it.evalForeach(n, e)
	case *ast.SwitchStatement:
		return it.evalSwitch(n, e)
	case *ast.IncludeStatement:
		path, ok := it.evalExpression(n.Path, e)
		if !ok {
			return normal()
		}
		it.includeFile(e, value.ToString(path), n.Once)
		return normal()
	default:
		diag.Set(diag.Internal, 0, 0, "unhandled statement type %T", s)
		return normal()
	}
}

func (it *Interpreter) evalIf(n *ast.IfStatement, e *env.Environment) Result {
	cond, ok := it.evalExpression(n.Condition, e)
	if !ok {
		return normal()
	}
	if value.IsTrue(cond) {
		return it.evalStatement(n.Consequence, e)
	}
	if n.Alternative != nil {
		return it.evalStatement(n.Alternative, e)
	}
	return normal()
}

func (it *Interpreter) evalWhile(n *ast.WhileStatement, e *env.Environment) Result {
	for {
		cond, ok := it.evalExpression(n.Condition, e)
		if !ok || !value.IsTrue(cond) {
			return normal()
		}
		r := it.evalStatement(n.Body, e)
		switch r.Flow {
		case FlowBreak:
			return normal()
		case FlowReturn:
			return r
		}
		if diag.Present() {
			return normal()
		}
	}
}

func (it *Interpreter) evalDoWhile(n *ast.DoWhileStatement, e *env.Environment) Result {
	for {
		r := it.evalStatement(n.Body, e)
		switch r.Flow {
		case FlowBreak:
			return normal()
		case FlowReturn:
			return r
		}
		if diag.Present() {
			return normal()
		}
		cond, ok := it.evalExpression(n.Condition, e)
		if !ok || !value.IsTrue(cond) {
			return normal()
		}
	}
}

func (it *Interpreter) evalFor(n *ast.ForStatement, e *env.Environment) Result {
	for _, initExpr := range n.Init {
		if _, ok := it.evalExpression(initExpr, e); !ok {
			return normal()
		}
	}
	for {
		if n.Condition != nil {
			cond, ok := it.evalExpression(n.Condition, e)
			if !ok || !value.IsTrue(cond) {
				return normal()
			}
		}
		r := it.evalStatement(n.Body, e)
		switch r.Flow {
		case FlowBreak:
			return normal()
		case FlowReturn:
			return r
		}
		if diag.Present() {
			return normal()
		}
		for _, stepExpr := range n.Step {
			if _, ok := it.evalExpression(stepExpr, e); !ok {
				return normal()
			}
		}
	}
}

func (it *Interpreter) evalForeach(n *ast.ForeachStatement, e *env.Environment) Result {
	iterable, ok := it.evalExpression(n.Iterable, e)
	if !ok {
		return normal()
	}
	switch iterable.Kind {
	case value.KindArray:
		for _, ent := range iterable.Arr.Entries() {
			if n.KeyVar != nil {
				e.Set(n.KeyVar.Name, keyToValue(ent.Key))
			}
			e.Set(n.ValueVar.Name, ent.Val)
			r := it.evalStatement(n.Body, e)
			switch r.Flow {
			case FlowBreak:
				return normal()
			case FlowReturn:
				return r
			}
			if diag.Present() {
				return normal()
			}
		}
	case value.KindString:
		s := iterable.Str
		for i := 0; i < len(s); i++ {
			if n.KeyVar != nil {
				e.Set(n.KeyVar.Name, value.IntVal(int64(i)))
			}
			e.Set(n.ValueVar.Name, value.ByteVal(s[i]))
			r := it.evalStatement(n.Body, e)
			switch r.Flow {
			case FlowBreak:
				return normal()
			case FlowReturn:
				return r
			}
			if diag.Present() {
				return normal()
			}
		}
	}
	return normal()
}

func (it *Interpreter) evalSwitch(n *ast.SwitchStatement, e *env.Environment) Result {
	scrutinee, ok := it.evalExpression(n.Scrutinee, e)
	if !ok {
		return normal()
	}
	start := -1
	defaultIdx := -1
	for i, c := range n.Cases {
		if c.Expr == nil {
			if defaultIdx == -1 {
				defaultIdx = i
			}
			continue
		}
		cv, ok := it.evalExpression(c.Expr, e)
		if !ok {
			return normal()
		}
		if looseEqual(scrutinee, cv) {
			start = i
			break
		}
	}
	if start == -1 {
		start = defaultIdx
	}
	if start == -1 {
		return normal()
	}
	for i := start; i < len(n.Cases); i++ {
		r := it.evalBlock(n.Cases[i].Body, e)
		switch r.Flow {
		case FlowBreak:
			return normal()
		case FlowReturn, FlowContinue:
			return r
		}
		if diag.Present() {
			return normal()
		}
	}
	return normal()
}

func keyToValue(k value.Key) value.Value {
	if k.Kind == value.KeyInt {
		return value.IntVal(k.I)
	}
	return value.StringVal(k.S)
}
