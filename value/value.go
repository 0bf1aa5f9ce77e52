// Package value implements the Lx runtime value model: tagged-union
// scalars plus reference-counted handles to blobs and associative arrays.
//
// Array and the GC registry live in this package rather than a separate
// one because, like the reference implementation's array.h, an Array's
// mark bit and GC-list link are fields of the array itself — splitting
// them into another package would just reintroduce the same coupling
// through an import cycle.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the live member of a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindVoid
	KindNull
	KindBool
	KindInt
	KindFloat
	KindByte
	KindString
	KindBlob
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindByte:
		return "byte"
	case KindString:
		return "string"
	case KindBlob:
		return "blob"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is the sum type every Lx expression evaluates to. Only the field
// matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Byte  byte
	Str   string
	Blob  *Blob
	Arr   *Array
}

func Undefined() Value            { return Value{Kind: KindUndefined} }
func Void() Value                 { return Value{Kind: KindVoid} }
func Null() Value                 { return Value{Kind: KindNull} }
func BoolVal(b bool) Value        { return Value{Kind: KindBool, Bool: b} }
func IntVal(i int64) Value        { return Value{Kind: KindInt, Int: i} }
func FloatVal(f float64) Value    { return Value{Kind: KindFloat, Float: f} }
func ByteVal(b byte) Value        { return Value{Kind: KindByte, Byte: b} }
func StringVal(s string) Value    { return Value{Kind: KindString, Str: s} }
func BlobVal(b *Blob) Value       { return Value{Kind: KindBlob, Blob: b} }
func ArrayVal(a *Array) Value     { return Value{Kind: KindArray, Arr: a} }

// Retain returns v after bumping the refcount of any shared handle it
// carries (array or blob). This is the Go analogue of the reference
// implementation's value_copy: scalars and strings need no action since
// Go values and strings already copy/share safely by assignment.
func Retain(v Value) Value {
	switch v.Kind {
	case KindArray:
		v.Arr.Retain()
	case KindBlob:
		v.Blob.Retain()
	}
	return v
}

// Release drops a reference a slot held to v's shared handle, if any. It
// must be called whenever a binding or array entry holding v is
// overwritten or removed.
func Release(v Value) {
	switch v.Kind {
	case KindArray:
		v.Arr.Free()
	case KindBlob:
		v.Blob.Release()
	}
}

// IsTrue reports v's truthiness: Undefined, Void, Null, false, 0, 0.0,
// byte 0, "", an empty blob and an empty array are falsy; every other
// value is truthy.
func IsTrue(v Value) bool {
	switch v.Kind {
	case KindUndefined, KindVoid, KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindByte:
		return v.Byte != 0
	case KindString:
		return v.Str != ""
	case KindBlob:
		return v.Blob != nil && len(v.Blob.data) > 0
	case KindArray:
		return v.Arr != nil && v.Arr.Len() > 0
	default:
		return true
	}
}

// IsNumber reports whether v's kind participates directly in arithmetic
// without string coercion.
func IsNumber(v Value) bool {
	switch v.Kind {
	case KindInt, KindFloat, KindByte, KindBool:
		return true
	default:
		return false
	}
}

// looksNumeric reports whether s is the full C-style decimal/float
// representation of a number (optionally signed), per the coercion rule
// in the language spec: a string parses as a number iff it is *entirely*
// consumed by the numeric grammar.
func looksNumeric(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToInt coerces v following the numeric-promotion rules used by arithmetic
// operators and explicit int() conversion.
func ToInt(v Value) int64 {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return int64(v.Float)
	case KindByte:
		return int64(v.Byte)
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindString:
		if f, ok := looksNumeric(v.Str); ok {
			return int64(f)
		}
		return 0
	case KindBlob:
		if f, ok := looksNumeric(ToString(v)); ok {
			return int64(f)
		}
		return 0
	default:
		return 0
	}
}

// ToFloat coerces v to a double per the same rule as ToInt.
func ToFloat(v Value) float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	case KindByte:
		return float64(v.Byte)
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindString:
		if f, ok := looksNumeric(v.Str); ok {
			return f
		}
		return 0
	case KindBlob:
		if f, ok := looksNumeric(ToString(v)); ok {
			return f
		}
		return 0
	default:
		return 0
	}
}

// AsDouble is an alias of ToFloat kept distinct in naming to mirror the
// reference implementation's as_double helper, used where the caller
// wants to stress that no int-narrowing path is taken.
func AsDouble(v Value) float64 { return ToFloat(v) }

// ToString coerces v to its textual representation. Blob -> string
// truncates at the first NUL byte, matching the documented byte-safety
// trade-off: strings carry an explicit length but blob-to-string
// conversion stops at the terminator.
func ToString(v Value) string {
	switch v.Kind {
	case KindUndefined, KindVoid:
		return ""
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "1"
		}
		return ""
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return FormatFloat(v.Float)
	case KindByte:
		return string(rune(v.Byte))
	case KindString:
		return v.Str
	case KindBlob:
		if v.Blob == nil {
			return ""
		}
		if i := indexByte(v.Blob.data, 0); i >= 0 {
			return string(v.Blob.data[:i])
		}
		return string(v.Blob.data)
	case KindArray:
		return "Array"
	default:
		return ""
	}
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// FormatFloat renders f per the language's float-formatting rules: named
// forms for NaN/Inf, a trailing ".0" for whole values, %.15g otherwise,
// with a leading zero inserted before a bare leading decimal point.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}
	return s
}

// TypeName returns the name the `type`/`var_dump` natives report for v.
func TypeName(v Value) string { return v.Kind.String() }

// DebugString is a terse repr: strings are quoted, every other kind
// renders as ToString does. Arrays are not expanded; print_r/var_dump
// are implemented in natives.
func DebugString(v Value) string {
	switch v.Kind {
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	default:
		return ToString(v)
	}
}
