package frame

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Numeric reports whether k is KindInt or KindFloat.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Value is a single cell. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
}

func Null() Value            { return Value{kind: KindNull} }
func NaN() Value             { return Value{kind: KindFloat, f: math.NaN()} }
func Bool(v bool) Value      { return Value{kind: KindBool, b: v} }
func Int(v int64) Value      { return Value{kind: KindInt, i: v} }
func Float(v float64) Value  { return Value{kind: KindFloat, f: v} }
func String(v string) Value  { return Value{kind: KindString, s: v} }
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

func (v Value) Kind() Kind      { return v.norm() }
func (v Value) IsNull() bool    { return v.norm() == KindNull }
func (v Value) IsNumeric() bool { return v.kind.Numeric() }

func (v Value) norm() Kind {
	if v.kind == KindInvalid {
		return KindNull
	}
	return v.kind
}

// IsNaN reports whether v is a Float holding NaN.
func (v Value) IsNaN() bool { return v.kind == KindFloat && math.IsNaN(v.f) }

// Of converts a Go scalar into a Value. nil becomes Null.
func Of(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Float(float64(t)), nil
		}
		return Int(int64(t)), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case time.Time:
		return Time(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported cell type %T", x)
	}
}

// MustOf is like Of but panics on unsupported types.
func MustOf(x any) Value {
	v, err := Of(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Float returns the numeric payload as float64; ok is false for non-numeric values.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Int returns the payload as int64. Floats are accepted only when integral.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) && math.Abs(v.f) < 1<<63 {
			return int64(v.f), true
		}
	}
	return 0, false
}

func (v Value) Str() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

func (v Value) Time() (time.Time, bool) {
	if v.kind == KindTime {
		return v.t, true
	}
	return time.Time{}, false
}

// Any returns the payload as a plain Go value (nil for Null).
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// Equal is ordinary equality: Int and Float compare numerically, NaN equals
// nothing, and Null equals Null.
func (v Value) Equal(o Value) bool {
	if v.kind.Numeric() && o.kind.Numeric() {
		if v.kind == KindInt && o.kind == KindInt {
			return v.i == o.i
		}
		a, _ := v.Float()
		b, _ := o.Float()
		return a == b
	}
	if v.norm() != o.norm() {
		return false
	}
	switch v.norm() {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return "<null>"
	}
}

// Key is a comparable identity for counting values. Int and Float cells with
// the same numeric value share a key, and all NaNs share one key.
type Key struct {
	kind Kind
	nan  bool
	i    int64
	f    float64
	s    string
	b    bool
}

func (v Value) Key() Key {
	switch v.kind {
	case KindInt:
		if f := float64(v.i); int64(f) == v.i {
			return Key{kind: KindFloat, f: f}
		}
		return Key{kind: KindInt, i: v.i}
	case KindFloat:
		if math.IsNaN(v.f) {
			return Key{kind: KindFloat, nan: true}
		}
		return Key{kind: KindFloat, f: v.f}
	case KindString:
		return Key{kind: KindString, s: v.s}
	case KindBool:
		return Key{kind: KindBool, b: v.b}
	case KindTime:
		return Key{kind: KindTime, s: v.t.UTC().Format(time.RFC3339Nano)}
	default:
		return Key{kind: KindNull}
	}
}
