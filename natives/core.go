package natives

import (
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/ppyne/lx/env"
	"github.com/ppyne/lx/value"
)

var prng = rand.New(rand.NewSource(1))

func registerCore(t *Table) {
	registerOutput(t)
	registerTypeChecks(t)
	registerStrings(t)
	registerMath(t)
	registerArrays(t)
	registerConversions(t)
	registerEncoding(t)
}

// -----------------------------------------------------------------------
// argument helpers
// -----------------------------------------------------------------------

func arg(args []value.Value, i int) value.Value {
	if i < 0 || i >= len(args) {
		return value.Undefined()
	}
	return args[i]
}

func argStr(args []value.Value, i int) string  { return value.ToString(arg(args, i)) }
func argInt(args []value.Value, i int) int64   { return value.ToInt(arg(args, i)) }
func argFloat(args []value.Value, i int) float64 { return value.ToFloat(arg(args, i)) }

// -----------------------------------------------------------------------
// output: print, printf, sprintf, print_r, var_dump, type
// -----------------------------------------------------------------------

func registerOutput(t *Table) {
	t.Register("print", func(e *env.Environment, args []value.Value) value.Value {
		for _, a := range args {
			fmt.Fprint(t.Output(), value.ToString(a))
		}
		return value.Void()
	})
	t.Register("printf", func(e *env.Environment, args []value.Value) value.Value {
		if len(args) == 0 {
			return value.Void()
		}
		fmt.Fprint(t.Output(), phpSprintf(value.ToString(args[0]), args[1:]))
		return value.Void()
	})
	t.Register("sprintf", func(e *env.Environment, args []value.Value) value.Value {
		if len(args) == 0 {
			return value.StringVal("")
		}
		return value.StringVal(phpSprintf(value.ToString(args[0]), args[1:]))
	})
	t.Register("print_r", func(e *env.Environment, args []value.Value) value.Value {
		s := printR(arg(args, 0), 0)
		fmt.Fprint(t.Output(), s)
		return value.Void()
	})
	t.Register("var_dump", func(e *env.Environment, args []value.Value) value.Value {
		for _, a := range args {
			fmt.Fprint(t.Output(), varDump(a, 0))
		}
		return value.Void()
	})
	t.Register("type", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(value.TypeName(arg(args, 0)))
	})
}

// phpSprintf supports the small subset of printf verbs the natives table
// needs: %d %f %s %x %o %b %%, with no width/precision flags.
func phpSprintf(format string, args []value.Value) string {
	var out strings.Builder
	ai := 0
	next := func() value.Value {
		if ai < len(args) {
			v := args[ai]
			ai++
			return v
		}
		return value.Undefined()
	}
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' || i+1 >= len(format) {
			out.WriteByte(ch)
			continue
		}
		i++
		switch format[i] {
		case '%':
			out.WriteByte('%')
		case 'd':
			out.WriteString(strconv.FormatInt(value.ToInt(next()), 10))
		case 'f':
			out.WriteString(strconv.FormatFloat(value.ToFloat(next()), 'f', 6, 64))
		case 's':
			out.WriteString(value.ToString(next()))
		case 'x':
			out.WriteString(strconv.FormatInt(value.ToInt(next()), 16))
		case 'o':
			out.WriteString(strconv.FormatInt(value.ToInt(next()), 8))
		case 'b':
			out.WriteString(strconv.FormatInt(value.ToInt(next()), 2))
		default:
			out.WriteByte('%')
			out.WriteByte(format[i])
		}
	}
	return out.String()
}

func printR(v value.Value, indent int) string {
	pad := strings.Repeat("    ", indent)
	if v.Kind != value.KindArray {
		return value.ToString(v)
	}
	var out strings.Builder
	out.WriteString("Array\n" + pad + "(\n")
	for _, e := range v.Arr.Entries() {
		out.WriteString(fmt.Sprintf("%s    [%s] => %s\n", pad, e.Key.String(), printR(e.Val, indent+1)))
	}
	out.WriteString(pad + ")\n")
	return out.String()
}

func varDump(v value.Value, indent int) string {
	pad := strings.Repeat("  ", indent)
	switch v.Kind {
	case value.KindArray:
		var out strings.Builder
		out.WriteString(fmt.Sprintf("%sarray(%d) {\n", pad, v.Arr.Len()))
		for _, e := range v.Arr.Entries() {
			out.WriteString(fmt.Sprintf("%s  [%s]=>\n%s", pad, e.Key.String(), varDump(e.Val, indent+1)))
		}
		out.WriteString(pad + "}\n")
		return out.String()
	case value.KindString:
		return fmt.Sprintf("%sstring(%d) %q\n", pad, len(v.Str), v.Str)
	case value.KindInt:
		return fmt.Sprintf("%sint(%d)\n", pad, v.Int)
	case value.KindFloat:
		return fmt.Sprintf("%sfloat(%s)\n", pad, value.FormatFloat(v.Float))
	case value.KindBool:
		return fmt.Sprintf("%sbool(%t)\n", pad, v.Bool)
	case value.KindNull:
		return pad + "NULL\n"
	default:
		return fmt.Sprintf("%s%s(%s)\n", pad, value.TypeName(v), value.ToString(v))
	}
}

// -----------------------------------------------------------------------
// type predicates
// -----------------------------------------------------------------------

func registerTypeChecks(t *Table) {
	predicate := func(k value.Kind) Func {
		return func(e *env.Environment, args []value.Value) value.Value {
			return value.BoolVal(arg(args, 0).Kind == k)
		}
	}
	t.Register("is_null", predicate(value.KindNull))
	t.Register("is_bool", predicate(value.KindBool))
	t.Register("is_int", predicate(value.KindInt))
	t.Register("is_float", predicate(value.KindFloat))
	t.Register("is_string", predicate(value.KindString))
	t.Register("is_array", predicate(value.KindArray))
	t.Register("is_defined", func(e *env.Environment, args []value.Value) value.Value {
		return value.BoolVal(arg(args, 0).Kind != value.KindUndefined)
	})
	t.Register("is_undefined", predicate(value.KindUndefined))
	t.Register("is_void", predicate(value.KindVoid))
}

// -----------------------------------------------------------------------
// strings
// -----------------------------------------------------------------------

func registerStrings(t *Table) {
	t.Register("strlen", func(e *env.Environment, args []value.Value) value.Value {
		return value.IntVal(int64(len(argStr(args, 0))))
	})
	t.Register("substr", func(e *env.Environment, args []value.Value) value.Value {
		s := argStr(args, 0)
		start := clampIndex(int(argInt(args, 1)), len(s))
		length := len(s) - start
		if len(args) > 2 {
			length = int(argInt(args, 2))
			if length < 0 {
				length = len(s) - start + length
			}
		}
		end := start + length
		if end > len(s) {
			end = len(s)
		}
		if end < start {
			end = start
		}
		return value.StringVal(s[start:end])
	})
	t.Register("trim", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(strings.TrimSpace(argStr(args, 0)))
	})
	t.Register("ltrim", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(strings.TrimLeft(argStr(args, 0), " \t\n\r\x00\x0B"))
	})
	t.Register("rtrim", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(strings.TrimRight(argStr(args, 0), " \t\n\r\x00\x0B"))
	})
	t.Register("strtolower", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(strings.ToLower(argStr(args, 0)))
	})
	t.Register("strtoupper", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(strings.ToUpper(argStr(args, 0)))
	})
	t.Register("ucfirst", func(e *env.Environment, args []value.Value) value.Value {
		s := argStr(args, 0)
		if s == "" {
			return value.StringVal(s)
		}
		return value.StringVal(strings.ToUpper(s[:1]) + s[1:])
	})
	t.Register("strpos", func(e *env.Environment, args []value.Value) value.Value {
		i := strings.Index(argStr(args, 0), argStr(args, 1))
		if i < 0 {
			return value.BoolVal(false)
		}
		return value.IntVal(int64(i))
	})
	t.Register("strrpos", func(e *env.Environment, args []value.Value) value.Value {
		i := strings.LastIndex(argStr(args, 0), argStr(args, 1))
		if i < 0 {
			return value.BoolVal(false)
		}
		return value.IntVal(int64(i))
	})
	t.Register("strcmp", func(e *env.Environment, args []value.Value) value.Value {
		return value.IntVal(int64(strings.Compare(argStr(args, 0), argStr(args, 1))))
	})
	t.Register("str_replace", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(strings.ReplaceAll(argStr(args, 2), argStr(args, 0), argStr(args, 1)))
	})
	t.Register("str_contains", func(e *env.Environment, args []value.Value) value.Value {
		return value.BoolVal(strings.Contains(argStr(args, 0), argStr(args, 1)))
	})
	t.Register("starts_with", func(e *env.Environment, args []value.Value) value.Value {
		return value.BoolVal(strings.HasPrefix(argStr(args, 0), argStr(args, 1)))
	})
	t.Register("ends_with", func(e *env.Environment, args []value.Value) value.Value {
		return value.BoolVal(strings.HasSuffix(argStr(args, 0), argStr(args, 1)))
	})
	t.Register("split", func(e *env.Environment, args []value.Value) value.Value {
		parts := strings.Split(argStr(args, 1), argStr(args, 0))
		a := value.New()
		for i, p := range parts {
			a.Set(value.IntKey(int64(i)), value.StringVal(p))
		}
		return value.ArrayVal(a)
	})
	t.Register("join", func(e *env.Environment, args []value.Value) value.Value {
		sep := argStr(args, 0)
		arrv := arg(args, 1)
		if arrv.Kind != value.KindArray {
			return value.StringVal("")
		}
		var parts []string
		for _, ent := range arrv.Arr.Entries() {
			parts = append(parts, value.ToString(ent.Val))
		}
		return value.StringVal(strings.Join(parts, sep))
	})
}

func clampIndex(i, length int) int {
	if i < 0 {
		i = length + i
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}

// -----------------------------------------------------------------------
// math
// -----------------------------------------------------------------------

func registerMath(t *Table) {
	unary := func(fn func(float64) float64) Func {
		return func(e *env.Environment, args []value.Value) value.Value {
			return value.FloatVal(fn(argFloat(args, 0)))
		}
	}
	t.Register("abs", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind == value.KindInt {
			if v.Int < 0 {
				return value.IntVal(-v.Int)
			}
			return v
		}
		return value.FloatVal(math.Abs(value.ToFloat(v)))
	})
	t.Register("min", func(e *env.Environment, args []value.Value) value.Value { return extremum(args, false) })
	t.Register("max", func(e *env.Environment, args []value.Value) value.Value { return extremum(args, true) })
	t.Register("round", func(e *env.Environment, args []value.Value) value.Value {
		return value.FloatVal(math.Round(argFloat(args, 0)))
	})
	t.Register("floor", unary(math.Floor))
	t.Register("ceil", unary(math.Ceil))
	t.Register("sqrt", unary(math.Sqrt))
	t.Register("exp", unary(math.Exp))
	t.Register("log", unary(math.Log))
	t.Register("sin", unary(math.Sin))
	t.Register("cos", unary(math.Cos))
	t.Register("tan", unary(math.Tan))
	t.Register("asin", unary(math.Asin))
	t.Register("acos", unary(math.Acos))
	t.Register("atan", unary(math.Atan))
	t.Register("atan2", func(e *env.Environment, args []value.Value) value.Value {
		return value.FloatVal(math.Atan2(argFloat(args, 0), argFloat(args, 1)))
	})
	t.Register("pow", func(e *env.Environment, args []value.Value) value.Value {
		return value.FloatVal(math.Pow(argFloat(args, 0), argFloat(args, 1)))
	})
	t.Register("sign", func(e *env.Environment, args []value.Value) value.Value {
		f := argFloat(args, 0)
		switch {
		case f > 0:
			return value.IntVal(1)
		case f < 0:
			return value.IntVal(-1)
		default:
			return value.IntVal(0)
		}
	})
	t.Register("clamp", func(e *env.Environment, args []value.Value) value.Value {
		v, lo, hi := argFloat(args, 0), argFloat(args, 1), argFloat(args, 2)
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		return value.FloatVal(v)
	})
	t.Register("deg2rad", unary(func(d float64) float64 { return d * math.Pi / 180 }))
	t.Register("rad2deg", unary(func(r float64) float64 { return r * 180 / math.Pi }))
	t.Register("pi", func(e *env.Environment, args []value.Value) value.Value { return value.FloatVal(math.Pi) })
	t.Register("rand", func(e *env.Environment, args []value.Value) value.Value {
		if len(args) >= 2 {
			lo, hi := argInt(args, 0), argInt(args, 1)
			if hi < lo {
				lo, hi = hi, lo
			}
			return value.IntVal(lo + prng.Int63n(hi-lo+1))
		}
		return value.IntVal(prng.Int63())
	})
	t.Register("srand", func(e *env.Environment, args []value.Value) value.Value {
		prng = rand.New(rand.NewSource(argInt(args, 0)))
		return value.Void()
	})
}

func extremum(args []value.Value, wantMax bool) value.Value {
	if len(args) == 0 {
		return value.Undefined()
	}
	values := args
	if len(args) == 1 && args[0].Kind == value.KindArray {
		var vs []value.Value
		for _, e := range args[0].Arr.Entries() {
			vs = append(vs, e.Val)
		}
		values = vs
	}
	best := values[0]
	for _, v := range values[1:] {
		if wantMax == (value.ToFloat(v) > value.ToFloat(best)) {
			best = v
		}
	}
	return best
}

// -----------------------------------------------------------------------
// arrays
// -----------------------------------------------------------------------

func registerArrays(t *Table) {
	t.Register("count", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray {
			return value.IntVal(0)
		}
		return value.IntVal(int64(v.Arr.Len()))
	})
	t.Register("keys", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		out := value.New()
		if v.Kind == value.KindArray {
			for i, k := range v.Arr.Keys() {
				out.Set(value.IntKey(int64(i)), keyToValue(k))
			}
		}
		return value.ArrayVal(out)
	})
	t.Register("values", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		out := value.New()
		if v.Kind == value.KindArray {
			for i, ent := range v.Arr.Entries() {
				out.Set(value.IntKey(int64(i)), ent.Val)
			}
		}
		return value.ArrayVal(out)
	})
	t.Register("key_exists", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 1)
		if v.Kind != value.KindArray {
			return value.BoolVal(false)
		}
		return value.BoolVal(v.Arr.Has(valueToKey(arg(args, 0))))
	})
	t.Register("in_array", func(e *env.Environment, args []value.Value) value.Value {
		needle := arg(args, 0)
		hay := arg(args, 1)
		if hay.Kind != value.KindArray {
			return value.BoolVal(false)
		}
		for _, ent := range hay.Arr.Entries() {
			if looseEqual(needle, ent.Val) {
				return value.BoolVal(true)
			}
		}
		return value.BoolVal(false)
	})
	t.Register("push", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray {
			return value.IntVal(0)
		}
		for _, x := range args[1:] {
			v.Arr.Set(value.IntKey(v.Arr.NextIndex()), x)
		}
		return value.IntVal(int64(v.Arr.Len()))
	})
	t.Register("pop", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray || v.Arr.Len() == 0 {
			return value.Undefined()
		}
		entries := v.Arr.Entries()
		last := entries[len(entries)-1]
		v.Arr.Unset(last.Key)
		return last.Val
	})
	t.Register("shift", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray || v.Arr.Len() == 0 {
			return value.Undefined()
		}
		entries := v.Arr.Entries()
		first := entries[0]
		rest := rebuildRenumbered(entries[1:])
		v.Arr.ReplaceWith(rest)
		return first.Val
	})
	t.Register("unshift", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray {
			return value.IntVal(0)
		}
		scratch := value.New()
		next := int64(0)
		for _, x := range args[1:] {
			scratch.Set(value.IntKey(next), x)
			next++
		}
		for _, ent := range v.Arr.Entries() {
			if ent.Key.Kind == value.KeyInt {
				scratch.Set(value.IntKey(next), ent.Val)
				next++
			} else {
				scratch.Set(ent.Key, ent.Val)
			}
		}
		v.Arr.ReplaceWith(scratch)
		return value.IntVal(int64(v.Arr.Len()))
	})
	t.Register("merge", func(e *env.Environment, args []value.Value) value.Value {
		out := value.New()
		next := int64(0)
		for _, v := range args {
			if v.Kind != value.KindArray {
				continue
			}
			for _, ent := range v.Arr.Entries() {
				if ent.Key.Kind == value.KeyInt {
					out.Set(value.IntKey(next), ent.Val)
					next++
				} else {
					out.Set(ent.Key, ent.Val)
				}
			}
		}
		return value.ArrayVal(out)
	})
	t.Register("slice", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray {
			return value.ArrayVal(value.New())
		}
		entries := v.Arr.Entries()
		start := clampIndex(int(argInt(args, 1)), len(entries))
		end := len(entries)
		if len(args) > 2 {
			length := int(argInt(args, 2))
			if length < 0 {
				end = len(entries) + length
			} else {
				end = start + length
			}
		}
		if end > len(entries) {
			end = len(entries)
		}
		if end < start {
			end = start
		}
		return value.ArrayVal(rebuildRenumbered(entries[start:end]))
	})
	t.Register("splice", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray {
			return value.ArrayVal(value.New())
		}
		entries := v.Arr.Entries()
		start := clampIndex(int(argInt(args, 1)), len(entries))
		length := len(entries) - start
		if len(args) > 2 {
			length = int(argInt(args, 2))
			if length < 0 {
				length = len(entries) - start + length
			}
		}
		end := start + length
		if end > len(entries) {
			end = len(entries)
		}
		if end < start {
			end = start
		}
		removed := rebuildRenumbered(entries[start:end])

		var repl []value.Value
		if len(args) > 3 {
			r := arg(args, 3)
			if r.Kind == value.KindArray {
				for _, ent := range r.Arr.Entries() {
					repl = append(repl, ent.Val)
				}
			} else {
				repl = append(repl, r)
			}
		}
		scratch := value.New()
		next := int64(0)
		appendSeq := func(vals []value.Value) {
			for _, x := range vals {
				scratch.Set(value.IntKey(next), x)
				next++
			}
		}
		appendEntries := func(es []struct {
			Key value.Key
			Val value.Value
		}) {
			for _, ent := range es {
				if ent.Key.Kind == value.KeyInt {
					scratch.Set(value.IntKey(next), ent.Val)
					next++
				} else {
					scratch.Set(ent.Key, ent.Val)
				}
			}
		}
		appendEntries(entries[:start])
		appendSeq(repl)
		appendEntries(entries[end:])
		v.Arr.ReplaceWith(scratch)
		return value.ArrayVal(removed)
	})
	t.Register("reverse", func(e *env.Environment, args []value.Value) value.Value {
		v := arg(args, 0)
		if v.Kind != value.KindArray {
			return value.ArrayVal(value.New())
		}
		entries := v.Arr.Entries()
		rev := make([]struct {
			Key value.Key
			Val value.Value
		}, len(entries))
		for i, e := range entries {
			rev[len(entries)-1-i] = e
		}
		return value.ArrayVal(rebuildRenumbered(rev))
	})
	sortNative := func(byKey, descending, preserveKeys bool) Func {
		return func(e *env.Environment, args []value.Value) value.Value {
			v := arg(args, 0)
			if v.Kind != value.KindArray {
				return value.BoolVal(false)
			}
			entries := v.Arr.Entries()
			sort.SliceStable(entries, func(i, j int) bool {
				var cmp int
				if byKey {
					cmp = compareKeys(entries[i].Key, entries[j].Key)
				} else {
					cmp = compareValues(entries[i].Val, entries[j].Val)
				}
				if descending {
					return cmp > 0
				}
				return cmp < 0
			})
			var out *value.Array
			if preserveKeys {
				scratch := value.New()
				for _, ent := range entries {
					scratch.Set(ent.Key, ent.Val)
				}
				out = scratch
			} else {
				out = rebuildRenumbered(entries)
			}
			v.Arr.ReplaceWith(out)
			return value.BoolVal(true)
		}
	}
	t.Register("sort", sortNative(false, false, false))
	t.Register("rsort", sortNative(false, true, false))
	t.Register("asort", sortNative(false, false, true))
	t.Register("arsort", sortNative(false, true, true))
	t.Register("ksort", sortNative(true, false, true))
	t.Register("krsort", sortNative(true, true, true))
}

func rebuildRenumbered(entries []struct {
	Key value.Key
	Val value.Value
}) *value.Array {
	out := value.New()
	next := int64(0)
	for _, ent := range entries {
		if ent.Key.Kind == value.KeyInt {
			out.Set(value.IntKey(next), ent.Val)
			next++
		} else {
			out.Set(ent.Key, ent.Val)
		}
	}
	return out
}

func keyToValue(k value.Key) value.Value {
	if k.Kind == value.KeyInt {
		return value.IntVal(k.I)
	}
	return value.StringVal(k.S)
}

func valueToKey(v value.Value) value.Key {
	if v.Kind == value.KindString {
		return value.StringKey(v.Str)
	}
	return value.IntKey(value.ToInt(v))
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

func compareValues(a, b value.Value) int {
	if value.IsNumber(a) && value.IsNumber(b) {
		an, bn := value.ToFloat(a), value.ToFloat(b)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(value.ToString(a), value.ToString(b))
}

func compareKeys(a, b value.Key) int {
	if a.Kind == value.KeyInt && b.Kind == value.KeyInt {
		switch {
		case a.I < b.I:
			return -1
		case a.I > b.I:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(), b.String())
}

// looseEqual mirrors the evaluator's == operator for the subset natives
// need (in_array); it is duplicated rather than imported from eval to
// avoid a natives<->eval import cycle.
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

// -----------------------------------------------------------------------
// conversions
// -----------------------------------------------------------------------

func registerConversions(t *Table) {
	t.Register("int", func(e *env.Environment, args []value.Value) value.Value {
		return value.IntVal(value.ToInt(arg(args, 0)))
	})
	t.Register("float", func(e *env.Environment, args []value.Value) value.Value {
		return value.FloatVal(value.ToFloat(arg(args, 0)))
	})
	t.Register("str", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(value.ToString(arg(args, 0)))
	})
	t.Register("ord", func(e *env.Environment, args []value.Value) value.Value {
		s := argStr(args, 0)
		if s == "" {
			return value.IntVal(0)
		}
		return value.IntVal(int64(s[0]))
	})
	t.Register("chr", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(string(rune(byte(argInt(args, 0)))))
	})
}

// -----------------------------------------------------------------------
// encoding
// -----------------------------------------------------------------------

func registerEncoding(t *Table) {
	t.Register("base64_encode", func(e *env.Environment, args []value.Value) value.Value {
		return value.StringVal(base64.StdEncoding.EncodeToString([]byte(argStr(args, 0))))
	})
	t.Register("base64_decode", func(e *env.Environment, args []value.Value) value.Value {
		b, err := base64.StdEncoding.DecodeString(argStr(args, 0))
		if err != nil {
			return value.BoolVal(false)
		}
		return value.StringVal(string(b))
	})
	t.Register("crc32", func(e *env.Environment, args []value.Value) value.Value {
		return value.IntVal(int64(int32(crc32.ChecksumIEEE([]byte(argStr(args, 0))))))
	})
	t.Register("crc32u", func(e *env.Environment, args []value.Value) value.Value {
		return value.IntVal(int64(crc32.ChecksumIEEE([]byte(argStr(args, 0)))))
	})
}
