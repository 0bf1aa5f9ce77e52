package eval

import (
	"math"
	"strconv"
	"strings"

	"github.com/ppyne/lx/ast"
	"github.com/ppyne/lx/diag"
	"github.com/ppyne/lx/env"
	"github.com/ppyne/lx/value"
)

// evalExpression evaluates n, returning ok=false whenever the diagnostic
// slot has been set, which callers must propagate without further work.
func (it *Interpreter) evalExpression(n ast.Expression, e *env.Environment) (value.Value, bool) {
	if diag.Present() {
		return value.Undefined(), false
	}
	switch node := n.(type) {
	case *ast.IntegerLiteral:
		return value.IntVal(node.Value), true
	case *ast.MagicIntLiteral:
		return value.IntVal(node.Value), true
	case *ast.FloatLiteral:
		return value.FloatVal(node.Value), true
	case *ast.MagicFloatLiteral:
		return value.FloatVal(node.Value), true
	case *ast.StringLiteral:
		return value.StringVal(node.Value), true
	case *ast.BoolLiteral:
		return value.BoolVal(node.Value), true
	case *ast.NullLiteral:
		return value.Null(), true
	case *ast.UndefinedLiteral:
		return value.Undefined(), true
	case *ast.VoidLiteral:
		return value.Void(), true
	case *ast.MagicConstant:
		return it.evalMagicConstant(node, e), true
	case *ast.Identifier:
		// A bare identifier outside call position denotes an
		// unresolved constant; the language has none besides the
		// lex-time magic constants, so it evaluates to its own name.
		return value.StringVal(node.Value), true
	case *ast.Variable:
		return e.Get(node.Name), true
	case *ast.DynamicVariable:
		name, ok := it.evalExpression(node.NameExpr, e)
		if !ok {
			return value.Undefined(), false
		}
		return e.Get(value.ToString(name)), true
	case *ast.InterpolatedString:
		return it.evalInterpolatedString(node, e)
	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(node, e)
	case *ast.IndexExpression:
		return it.evalIndexRead(node, e)
	case *ast.UnaryExpression:
		return it.evalUnary(node, e)
	case *ast.BinaryExpression:
		return it.evalBinary(node, e)
	case *ast.IncDecExpression:
		return it.evalIncDec(node, e)
	case *ast.TernaryExpression:
		return it.evalTernary(node, e)
	case *ast.NullCoalesceExpression:
		return it.evalNullCoalesce(node, e)
	case *ast.AssignExpression:
		return it.evalAssign(node, e)
	case *ast.DestructureAssignExpression:
		return it.evalDestructureAssign(node, e)
	case *ast.CallExpression:
		return it.evalCall(node, e)
	default:
		diag.Set(diag.Internal, n.Pos().Line, n.Pos().Col, "unhandled expression type %T", n)
		return value.Undefined(), false
	}
}

func (it *Interpreter) evalMagicConstant(n *ast.MagicConstant, e *env.Environment) value.Value {
	switch n.Name {
	case "__LINE__":
		return value.IntVal(int64(n.Pos().Line))
	case "__FILE__":
		return value.StringVal(it.filename)
	case "__DIR__":
		dir := it.filename
		if i := strings.LastIndexByte(dir, '/'); i >= 0 {
			dir = dir[:i]
		} else {
			dir = "."
		}
		return value.StringVal(dir)
	case "__FUNCTION__":
		if len(it.callStack) == 0 {
			return value.StringVal("")
		}
		return value.StringVal(it.callStack[len(it.callStack)-1])
	default:
		return value.Undefined()
	}
}

func (it *Interpreter) evalInterpolatedString(n *ast.InterpolatedString, e *env.Environment) (value.Value, bool) {
	var out strings.Builder
	for _, part := range n.Parts {
		v, ok := it.evalExpression(part, e)
		if !ok {
			return value.Undefined(), false
		}
		out.WriteString(value.ToString(v))
	}
	return value.StringVal(out.String()), true
}

// evalArrayLiteral implements the auto-index cursor rule: unkeyed entries
// get key_int(next++); explicit integer keys advance next to max(next,
// key+1); string keys never move the cursor.
func (it *Interpreter) evalArrayLiteral(n *ast.ArrayLiteral, e *env.Environment) (value.Value, bool) {
	arr := value.New()
	next := int64(0)
	for _, pair := range n.Pairs {
		var key value.Key
		if pair.Key != nil {
			kv, ok := it.evalExpression(pair.Key, e)
			if !ok {
				return value.Undefined(), false
			}
			if kv.Kind == value.KindString {
				key = value.StringKey(kv.Str)
			} else {
				ik := value.ToInt(kv)
				key = value.IntKey(ik)
				if ik+1 > next {
					next = ik + 1
				}
			}
		} else {
			key = value.IntKey(next)
			next++
		}
		v, ok := it.evalExpression(pair.Value, e)
		if !ok {
			return value.Undefined(), false
		}
		arr.Set(key, v)
		if diag.Present() {
			return value.Undefined(), false
		}
	}
	return value.ArrayVal(arr), true
}

func (it *Interpreter) evalIndexRead(n *ast.IndexExpression, e *env.Environment) (value.Value, bool) {
	left, ok := it.evalExpression(n.Left, e)
	if !ok {
		return value.Undefined(), false
	}
	idx, ok := it.evalExpression(n.Index, e)
	if !ok {
		return value.Undefined(), false
	}
	if left.Kind != value.KindArray {
		return value.Undefined(), true
	}
	return left.Arr.Get(indexKey(idx)), true
}

func indexKey(v value.Value) value.Key {
	if v.Kind == value.KindString {
		return value.StringKey(v.Str)
	}
	return value.IntKey(value.ToInt(v))
}

// -----------------------------------------------------------------------
// lvalue resolution
// -----------------------------------------------------------------------

// resolveRef returns a pointer to the mutable slot denoted by n,
// auto-vivifying array containers along an index chain. An intermediate
// that is already non-Undefined/Null and not an array is a diagnosed
// error.
func (it *Interpreter) resolveRef(n ast.Expression, e *env.Environment) (*value.Value, bool) {
	switch node := n.(type) {
	case *ast.Variable:
		return e.GetRef(node.Name), true
	case *ast.DynamicVariable:
		name, ok := it.evalExpression(node.NameExpr, e)
		if !ok {
			return nil, false
		}
		return e.GetRef(value.ToString(name)), true
	case *ast.IndexExpression:
		parentRef, ok := it.resolveRef(node.Left, e)
		if !ok {
			return nil, false
		}
		if parentRef.Kind == value.KindUndefined || parentRef.Kind == value.KindNull {
			*parentRef = value.ArrayVal(value.New())
		}
		if parentRef.Kind != value.KindArray {
			diag.Set(diag.IndexAssignTarget, node.Pos().Line, node.Pos().Col, "index assignment on non-array")
			return nil, false
		}
		idx, ok := it.evalExpression(node.Index, e)
		if !ok {
			return nil, false
		}
		return parentRef.Arr.GetRef(indexKey(idx)), true
	default:
		diag.Set(diag.IndexAssignTarget, n.Pos().Line, n.Pos().Col, "invalid assignment target")
		return nil, false
	}
}

func (it *Interpreter) evalUnset(target ast.Expression, e *env.Environment) {
	switch node := target.(type) {
	case *ast.Variable:
		e.Unset(node.Name)
	case *ast.DynamicVariable:
		name, ok := it.evalExpression(node.NameExpr, e)
		if !ok {
			return
		}
		e.Unset(value.ToString(name))
	case *ast.IndexExpression:
		leftRef, ok := it.resolveRef(node.Left, e)
		if !ok || leftRef.Kind != value.KindArray {
			return
		}
		idx, ok := it.evalExpression(node.Index, e)
		if !ok {
			return
		}
		leftRef.Arr.Unset(indexKey(idx))
	default:
		diag.Set(diag.UnsetTarget, target.Pos().Line, target.Pos().Col, "invalid unset target")
	}
}

// -----------------------------------------------------------------------
// operators
// -----------------------------------------------------------------------

func (it *Interpreter) evalUnary(n *ast.UnaryExpression, e *env.Environment) (value.Value, bool) {
	operand, ok := it.evalExpression(n.Operand, e)
	if !ok {
		return value.Undefined(), false
	}
	switch n.Operator {
	case "!":
		return value.BoolVal(!value.IsTrue(operand)), true
	case "~":
		return value.IntVal(^value.ToInt(operand)), true
	case "-":
		if operand.Kind == value.KindFloat {
			return value.FloatVal(-operand.Float), true
		}
		return value.IntVal(-value.ToInt(operand)), true
	case "+":
		if operand.Kind == value.KindFloat {
			return value.FloatVal(operand.Float), true
		}
		return value.IntVal(value.ToInt(operand)), true
	default:
		diag.Set(diag.Internal, n.Pos().Line, n.Pos().Col, "unknown unary operator %q", n.Operator)
		return value.Undefined(), false
	}
}

func (it *Interpreter) evalBinary(n *ast.BinaryExpression, e *env.Environment) (value.Value, bool) {
	// Short-circuit operators must not evaluate their right operand
	// when the left side already decides the result.
	if n.Operator == "&&" || n.Operator == "||" {
		left, ok := it.evalExpression(n.Left, e)
		if !ok {
			return value.Undefined(), false
		}
		lt := value.IsTrue(left)
		if n.Operator == "&&" && !lt {
			return value.BoolVal(false), true
		}
		if n.Operator == "||" && lt {
			return value.BoolVal(true), true
		}
		right, ok := it.evalExpression(n.Right, e)
		if !ok {
			return value.Undefined(), false
		}
		return value.BoolVal(value.IsTrue(right)), true
	}

	left, ok := it.evalExpression(n.Left, e)
	if !ok {
		return value.Undefined(), false
	}
	right, ok := it.evalExpression(n.Right, e)
	if !ok {
		return value.Undefined(), false
	}
	pos := n.Pos()
	return it.applyBinary(n.Operator, left, right, pos.Line, pos.Col)
}

func (it *Interpreter) applyBinary(op string, left, right value.Value, line, col int) (value.Value, bool) {
	switch op {
	case ".":
		return value.StringVal(value.ToString(left) + value.ToString(right)), true
	case "+", "-", "*":
		return arithmetic(op, left, right), true
	case "/":
		return it.divide(left, right, line, col)
	case "%":
		return it.modulo(left, right, line, col)
	case "**":
		return value.FloatVal(math.Pow(value.ToFloat(left), value.ToFloat(right))), true
	case "==":
		return value.BoolVal(looseEqual(left, right)), true
	case "!=":
		return value.BoolVal(!looseEqual(left, right)), true
	case "===":
		return value.BoolVal(strictEqual(left, right)), true
	case "!==":
		return value.BoolVal(!strictEqual(left, right)), true
	case "<", "<=", ">", ">=":
		return value.BoolVal(compare(op, left, right)), true
	case "&":
		return value.IntVal(value.ToInt(left) & value.ToInt(right)), true
	case "|":
		return value.IntVal(value.ToInt(left) | value.ToInt(right)), true
	case "^":
		return value.IntVal(value.ToInt(left) ^ value.ToInt(right)), true
	case "<<":
		return value.IntVal(value.ToInt(left) << uint(value.ToInt(right))), true
	case ">>":
		return value.IntVal(value.ToInt(left) >> uint(value.ToInt(right))), true
	default:
		diag.Set(diag.Internal, 0, 0, "unknown binary operator %q", op)
		return value.Undefined(), false
	}
}

// arithmetic implements the + - * numeric-promotion rule: string operands
// force float coercion, else either-float promotes to float, else both
// stay integer.
func arithmetic(op string, left, right value.Value) value.Value {
	useFloat := left.Kind == value.KindString || right.Kind == value.KindString ||
		left.Kind == value.KindFloat || right.Kind == value.KindFloat
	if useFloat {
		a, b := value.ToFloat(left), value.ToFloat(right)
		switch op {
		case "+":
			return value.FloatVal(a + b)
		case "-":
			return value.FloatVal(a - b)
		case "*":
			return value.FloatVal(a * b)
		}
	}
	a, b := value.ToInt(left), value.ToInt(right)
	switch op {
	case "+":
		return value.IntVal(a + b)
	case "-":
		return value.IntVal(a - b)
	case "*":
		return value.IntVal(a * b)
	}
	return value.Undefined()
}

func (it *Interpreter) divide(left, right value.Value, line, col int) (value.Value, bool) {
	useFloat := left.Kind == value.KindString || right.Kind == value.KindString || left.Kind == value.KindFloat || right.Kind == value.KindFloat
	if useFloat {
		b := value.ToFloat(right)
		if b == 0 {
			diag.Set(diag.DivByZero, line, col, "division by zero")
			return value.Null(), false
		}
		return value.FloatVal(value.ToFloat(left) / b), true
	}
	b := value.ToInt(right)
	if b == 0 {
		diag.Set(diag.DivByZero, line, col, "division by zero")
		return value.Null(), false
	}
	return value.IntVal(value.ToInt(left) / b), true
}

func (it *Interpreter) modulo(left, right value.Value, line, col int) (value.Value, bool) {
	useFloat := left.Kind == value.KindFloat || right.Kind == value.KindFloat
	if useFloat {
		b := value.ToFloat(right)
		if b == 0 {
			diag.Set(diag.ModByZero, line, col, "modulo by zero")
			return value.Null(), false
		}
		return value.FloatVal(math.Mod(value.ToFloat(left), b)), true
	}
	b := value.ToInt(right)
	if b == 0 {
		diag.Set(diag.ModByZero, line, col, "modulo by zero")
		return value.Null(), false
	}
	return value.IntVal(value.ToInt(left) % b), true
}

func numericOf(v value.Value) (float64, bool) {
	if value.IsNumber(v) {
		return value.ToFloat(v), true
	}
	if v.Kind == value.KindString {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func looseEqual(a, b value.Value) bool {
	if a.Kind == value.KindNull && b.Kind == value.KindNull {
		return true
	}
	if !(a.Kind == value.KindString && b.Kind == value.KindString) {
		if an, aok := numericOf(a); aok {
			if bn, bok := numericOf(b); bok {
				return an == bn
			}
		}
	}
	if a.Kind == value.KindBool || b.Kind == value.KindBool {
		return value.IsTrue(a) == value.IsTrue(b)
	}
	return value.ToString(a) == value.ToString(b)
}

func strictEqual(a, b value.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case value.KindBool:
		return a.Bool == b.Bool
	case value.KindInt:
		return a.Int == b.Int
	case value.KindFloat:
		return a.Float == b.Float
	case value.KindByte:
		return a.Byte == b.Byte
	case value.KindString:
		return a.Str == b.Str
	case value.KindArray:
		return a.Arr == b.Arr
	case value.KindBlob:
		return a.Blob == b.Blob
	case value.KindNull, value.KindUndefined, value.KindVoid:
		return true
	default:
		return false
	}
}

func compare(op string, a, b value.Value) bool {
	if value.IsNumber(a) && value.IsNumber(b) {
		return numCompare(op, value.ToFloat(a), value.ToFloat(b))
	}
	as, bs := value.ToString(a), value.ToString(b)
	c := strings.Compare(as, bs)
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	}
	return false
}

func numCompare(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

// evalIncDec implements pre/post increment/decrement on an lvalue slot:
// Undefined/Null/Void promotes to Int(0) before the adjustment.
func (it *Interpreter) evalIncDec(n *ast.IncDecExpression, e *env.Environment) (value.Value, bool) {
	ref, ok := it.resolveRef(n.Operand, e)
	if !ok {
		return value.Undefined(), false
	}
	old := *ref
	if old.Kind == value.KindUndefined || old.Kind == value.KindNull || old.Kind == value.KindVoid {
		old = value.IntVal(0)
	}
	var next value.Value
	delta := int64(1)
	if n.Operator == "--" {
		delta = -1
	}
	if old.Kind == value.KindFloat {
		next = value.FloatVal(old.Float + float64(delta))
	} else {
		next = value.IntVal(value.ToInt(old) + delta)
	}
	value.Release(*ref)
	*ref = value.Retain(next)
	if n.Prefix {
		return next, true
	}
	return old, true
}

func (it *Interpreter) evalTernary(n *ast.TernaryExpression, e *env.Environment) (value.Value, bool) {
	cond, ok := it.evalExpression(n.Condition, e)
	if !ok {
		return value.Undefined(), false
	}
	if value.IsTrue(cond) {
		return it.evalExpression(n.Then, e)
	}
	return it.evalExpression(n.Else, e)
}

func (it *Interpreter) evalNullCoalesce(n *ast.NullCoalesceExpression, e *env.Environment) (value.Value, bool) {
	left, ok := it.evalExpression(n.Left, e)
	if !ok {
		return value.Undefined(), false
	}
	if left.Kind != value.KindUndefined && left.Kind != value.KindNull {
		return left, true
	}
	return it.evalExpression(n.Right, e)
}

// evalAssign implements `=` and the compound forms. Compound OP_CONCAT
// treats a missing/Null lhs as "", every other compound op treats it as
// Int(0).
func (it *Interpreter) evalAssign(n *ast.AssignExpression, e *env.Environment) (value.Value, bool) {
	ref, ok := it.resolveRef(n.Target, e)
	if !ok {
		return value.Undefined(), false
	}
	rhs, ok := it.evalExpression(n.Value, e)
	if !ok {
		return value.Undefined(), false
	}
	var result value.Value
	switch n.Operator {
	case "=":
		result = rhs
	case "+=", "-=", "*=":
		cur := *ref
		if cur.Kind == value.KindUndefined || cur.Kind == value.KindNull || cur.Kind == value.KindVoid {
			cur = value.IntVal(0)
		}
		op := strings.TrimSuffix(n.Operator, "=")
		result = arithmetic(op, cur, rhs)
	case "/=":
		cur := *ref
		if cur.Kind == value.KindUndefined || cur.Kind == value.KindNull || cur.Kind == value.KindVoid {
			cur = value.IntVal(0)
		}
		var divOk bool
		pos := n.Pos()
		result, divOk = it.divide(cur, rhs, pos.Line, pos.Col)
		if !divOk {
			return value.Undefined(), false
		}
	case ".=":
		cur := *ref
		if cur.Kind == value.KindUndefined || cur.Kind == value.KindNull || cur.Kind == value.KindVoid {
			cur = value.StringVal("")
		}
		result = value.StringVal(value.ToString(cur) + value.ToString(rhs))
	default:
		diag.Set(diag.Internal, n.Pos().Line, n.Pos().Col, "unknown compound operator %q", n.Operator)
		return value.Undefined(), false
	}
	value.Release(*ref)
	*ref = value.Retain(result)
	return result, true
}

func (it *Interpreter) evalDestructureAssign(n *ast.DestructureAssignExpression, e *env.Environment) (value.Value, bool) {
	rhs, ok := it.evalExpression(n.Value, e)
	if !ok {
		return value.Undefined(), false
	}
	if rhs.Kind != value.KindArray {
		return rhs, true
	}
	for i, target := range n.Targets {
		if target == nil {
			continue
		}
		ref, ok := it.resolveRef(target, e)
		if !ok {
			return value.Undefined(), false
		}
		v := rhs.Arr.Get(value.IntKey(int64(i)))
		value.Release(*ref)
		*ref = value.Retain(v)
	}
	return rhs, true
}

// -----------------------------------------------------------------------
// call dispatch
// -----------------------------------------------------------------------

// evalCall resolves n.Function against the native table first, then the
// user-function table, and diagnoses an UndefinedFunction error if
// neither claims the name. Arguments are evaluated left-to-right before
// either kind of call is attempted.
func (it *Interpreter) evalCall(n *ast.CallExpression, e *env.Environment) (value.Value, bool) {
	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, ok := it.evalExpression(a, e)
		if !ok {
			return value.Undefined(), false
		}
		args = append(args, v)
	}
	if fn, ok := it.Natives.Lookup(n.Function); ok {
		return fn(e, args), true
	}
	if fn, ok := it.functions[n.Function]; ok {
		return it.callUser(fn, args, n)
	}
	pos := n.Pos()
	diag.Set(diag.UndefinedFunction, pos.Line, pos.Col, "undefined function %q", n.Function)
	return value.Undefined(), false
}

// callUser binds args positionally into a fresh frame parented at the
// script root (so `global` promotion inside the body reaches it), runs
// the body, and collapses a trailing Return into a plain value. A
// Break/Continue escaping the body is a diagnosed error: the parser
// accepts them anywhere, and one that is not inside a loop of this body
// reaches here.
func (it *Interpreter) callUser(fn *userFunction, args []value.Value, call *ast.CallExpression) (value.Value, bool) {
	frame := env.New(it.Root)
	for i, p := range fn.decl.Params {
		var v value.Value
		switch {
		case i < len(args):
			v = args[i]
		case p.Default != nil:
			dv, ok := it.evalExpression(p.Default, frame)
			if !ok {
				return value.Undefined(), false
			}
			v = dv
		default:
			v = value.Null()
		}
		frame.Set(p.Name, v)
	}
	it.callStack = append(it.callStack, fn.decl.Name)
	result := it.evalBlock(fn.decl.Body.Statements, frame)
	it.callStack = it.callStack[:len(it.callStack)-1]
	if diag.Present() {
		return value.Undefined(), false
	}
	switch result.Flow {
	case FlowReturn:
		return result.Value, true
	case FlowBreak, FlowContinue:
		pos := call.Pos()
		diag.Set(diag.BreakContinueOutsideLoop, pos.Line, pos.Col, "break/continue outside loop")
		return value.Undefined(), false
	default:
		return value.Null(), true
	}
}
