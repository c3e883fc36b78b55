package runtime

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	fmt.Stringer
}

type NilValue struct{}

func (NilValue) Kind() Kind     { return KindNil }
func (NilValue) String() string { return "nil" }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind     { return KindBool }
func (v BoolValue) String() string { return strconv.FormatBool(v.Val) }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

// String drops the fractional part of integral values, so 3.0 renders as "3".
func (v NumberValue) String() string {
	switch {
	case math.IsInf(v.Val, 1):
		return "Infinity"
	case math.IsInf(v.Val, -1):
		return "-Infinity"
	case math.IsNaN(v.Val):
		return "NaN"
	}
	return strconv.FormatFloat(v.Val, 'f', -1, 64)
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind     { return KindString }
func (v StringValue) String() string { return v.Val }

// FromLiteral converts a literal payload (nil, bool, float64, string) to a Value.
func FromLiteral(literal any) (Value, error) {
	switch v := literal.(type) {
	case nil:
		return NilValue{}, nil
	case bool:
		return BoolValue{Val: v}, nil
	case float64:
		return NumberValue{Val: v}, nil
	case string:
		return StringValue{Val: v}, nil
	default:
		return nil, fmt.Errorf("unsupported literal %T", literal)
	}
}

// IsTruthy reports the truthiness of v: nil and false are falsey, everything else is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Equal compares values without coercion. Values of different kinds are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	}
	return false
}
