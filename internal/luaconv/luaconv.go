// Package luaconv converts between moonbind values and gopher-lua stack
// slots. It covers the scalar kinds only; object references are marshaled by
// the script package, which owns the per-type metatables.
package luaconv

import (
	"fmt"
	"math"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
)

// ToLua converts a scalar value to its Lua representation. Integers are
// coerced to Lua's float number representation; the VM has no integer
// subtype. Object references are rejected: a weak tag cannot re-enter the
// script as a live object.
func ToLua(v moonbind.Value) (lua.LValue, error) {
	switch v.Kind() {
	case moonbind.KindNil:
		return lua.LNil, nil
	case moonbind.KindBool:
		b, _ := v.Bool()
		return lua.LBool(b), nil
	case moonbind.KindInt:
		i, _ := v.Int()
		return lua.LNumber(float64(i)), nil
	case moonbind.KindFloat:
		f, _ := v.Float()
		return lua.LNumber(f), nil
	case moonbind.KindString:
		s, _ := v.Str()
		return lua.LString(s), nil
	}
	return nil, fmt.Errorf("cannot convert %s value to script", v.Kind())
}

// FromLua converts a dynamic Lua value to a moonbind value. Numbers become
// integers when exactly integral and representable, floats otherwise.
// Userdata becomes a weak object reference. Anything else (tables,
// functions, threads) is a marshaling failure.
func FromLua(lv lua.LValue) (moonbind.Value, error) {
	switch x := lv.(type) {
	case *lua.LNilType:
		return moonbind.Nil(), nil
	case lua.LBool:
		return moonbind.Bool(bool(x)), nil
	case lua.LNumber:
		f := float64(x)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return moonbind.Int(int64(f)), nil
		}
		return moonbind.Float(f), nil
	case lua.LString:
		return moonbind.String(string(x)), nil
	case *lua.LUserData:
		rv := reflect.ValueOf(x.Value)
		if x.Value == nil || rv.Kind() != reflect.Pointer {
			return moonbind.Value{}, fmt.Errorf("userdata does not hold a native object")
		}
		return moonbind.Object(moonbind.ObjectRef{Type: rv.Type(), Addr: rv.Pointer()}), nil
	}
	return moonbind.Value{}, fmt.Errorf("unsupported script value of type %s", lv.Type())
}

// Integer reads the slot at idx as an integer. The slot must be a number;
// numeric strings are not coerced. Fractional numbers are truncated.
func Integer(l *lua.LState, idx int) (int64, error) {
	n, ok := l.Get(idx).(lua.LNumber)
	if !ok {
		return 0, typeError(idx, "number", l.Get(idx))
	}
	return int64(float64(n)), nil
}

// Float reads the slot at idx as a float. The slot must be a number.
func Float(l *lua.LState, idx int) (float64, error) {
	n, ok := l.Get(idx).(lua.LNumber)
	if !ok {
		return 0, typeError(idx, "number", l.Get(idx))
	}
	return float64(n), nil
}

// Str reads the slot at idx as a string. The slot must be a string; numbers
// are not coerced.
func Str(l *lua.LState, idx int) (string, error) {
	s, ok := l.Get(idx).(lua.LString)
	if !ok {
		return "", typeError(idx, "string", l.Get(idx))
	}
	return string(s), nil
}

// Boolean reads the slot at idx as a boolean.
func Boolean(l *lua.LState, idx int) (bool, error) {
	b, ok := l.Get(idx).(lua.LBool)
	if !ok {
		return false, typeError(idx, "boolean", l.Get(idx))
	}
	return bool(b), nil
}

// CheckArity verifies that exactly fixed arguments occupy the stack starting
// at slot first. Both missing and surplus arguments are failures; calls are
// never padded or truncated.
func CheckArity(l *lua.LState, first, fixed int) error {
	got := l.GetTop() - (first - 1)
	if got != fixed {
		return fmt.Errorf("function expects %d arguments, got %d", fixed, got)
	}
	return nil
}

// Variadic reads every slot from first through the top of the stack into a
// value slice. An exhausted stack yields an empty slice, not nil.
func Variadic(l *lua.LState, first int) ([]moonbind.Value, error) {
	top := l.GetTop()
	out := make([]moonbind.Value, 0, top-first+1)
	for i := first; i <= top; i++ {
		v, err := FromLua(l.Get(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func typeError(idx int, want string, got lua.LValue) error {
	return fmt.Errorf("argument %d: expected %s, got %s", idx, want, got.Type())
}
