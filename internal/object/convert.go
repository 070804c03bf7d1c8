package object

import (
	"fmt"
	"math"

	"ox/internal/heap"
	"ox/internal/rex"
)

const (
	methodToString = "$to_str"
	methodToNumber = "$to_num"
)

// ToString implements spec.md §4.4: try $to_str; else if $to_num is
// defined, try that and format the number; else fall back to
// "Object:<kind>", where <kind> is the heap object's Ops.Kind (e.g.
// "Object:object"). The class name is not part of that text.
func ToString(caller Caller, v heap.Value) (string, error) {
	switch v.Kind() {
	case heap.KindNull:
		return "null", nil
	case heap.KindBool:
		return fmt.Sprintf("%v", v.Bool()), nil
	case heap.KindNumber:
		return formatNumber(v.Num()), nil
	}

	if s, ok := AsString(v); ok {
		return s.Text, nil
	}
	if re, ok := rex.AsRegex(v); ok {
		return re.String(), nil
	}

	obj, ok := asGettable(v)
	if !ok {
		return fallbackName(v), nil
	}
	if obj.Has(methodToString) {
		result, err := callMethod(caller, v, obj, methodToString, nil)
		if err != nil {
			return "", err
		}
		if s, ok := AsString(result); ok {
			return s.Text, nil
		}
		return ToString(caller, result)
	}
	if obj.Has(methodToNumber) {
		n, err := ToNumber(caller, v)
		if err != nil {
			return "", err
		}
		return formatNumber(n), nil
	}
	return fallbackName(v), nil
}

// ToNumber implements spec.md §4.4: try $to_num, else NaN.
func ToNumber(caller Caller, v heap.Value) (float64, error) {
	if v.Kind() == heap.KindNumber {
		return v.Num(), nil
	}
	if v.Kind() == heap.KindBool {
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	obj, ok := asGettable(v)
	if !ok || !obj.Has(methodToNumber) {
		return math.NaN(), nil
	}
	result, err := callMethod(caller, v, obj, methodToNumber, nil)
	if err != nil {
		return math.NaN(), err
	}
	if result.Kind() == heap.KindNumber {
		return result.Num(), nil
	}
	return math.NaN(), nil
}

// Equal implements spec.md §3's equality: string-content first, then
// number (including cross-type numeric comparison, which here is just
// IEEE equality since there is only one number kind), then heap
// reference identity.
func Equal(a, b heap.Value) bool {
	if sa, ok := AsString(a); ok {
		if sb, ok := AsString(b); ok {
			return sa.Text == sb.Text
		}
		return false
	}
	if a.Kind() == heap.KindNumber && b.Kind() == heap.KindNumber {
		return a.Num() == b.Num()
	}
	return a.Equal(b)
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "nan"
	}
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return fmt.Sprintf("%.0f", n)
	}
	return fmt.Sprintf("%g", n)
}

func fallbackName(v heap.Value) string {
	if !v.IsRef() || v.Object() == nil {
		return "null"
	}
	return fmt.Sprintf("Object:%s", v.Object().Ops.Kind)
}

// asGettable returns v's *Object payload for the lookups ToString/
// ToNumber need. Only plain objects (including class instances) qualify;
// a Class or Interface value is reported as not gettable.
func asGettable(v heap.Value) (*Object, bool) {
	if !v.IsRef() || v.Object() == nil {
		return nil, false
	}
	obj, ok := v.Object().Data.(*Object)
	return obj, ok
}

func callMethod(caller Caller, this heap.Value, obj *Object, name string, args []heap.Value) (heap.Value, error) {
	fn, err := obj.Get(caller, this, name)
	if err != nil {
		return heap.Null(), err
	}
	return caller.Call(fn, this, args)
}
