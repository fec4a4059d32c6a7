package registry

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
	"github.com/moonbind/moonbind/internal/luaconv"
)

// Callback is the type-erased form of every native callable reachable from a
// script. Invoke reads arguments off the interpreter stack, calls the native
// target and pushes its result, returning the number of results (0 or 1).
//
// Implementations are produced by the Func* and Method* adapters; Invoke is
// the single dispatch point the script trampoline goes through.
type Callback interface {
	Invoke(l *lua.LState, env Env) (int, error)
}

// Env gives callbacks access to the owning script instance's object
// marshaling. It is implemented by *script.Script and passed through the
// trampoline, so callbacks that return native objects can wrap them with the
// right method table.
type Env interface {
	// PushObject pushes obj onto the stack as a new strong container
	// carrying the method table registered for its type.
	PushObject(l *lua.LState, obj any) error
}

// Method is a Callback that dispatches against a native object receiver in
// argument slot 1. The set of implementations is closed; use the Method*
// adapters to build one.
type Method interface {
	Callback

	receiverType() reflect.Type
	dispatch(l *lua.LState, env Env, recv any) (int, error)
}

// Scalar constrains the parameter types the argument adapters can decode
// from a script call.
type Scalar interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | string | bool
}

func readArg[T Scalar](l *lua.LState, idx int) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *int:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = int(v)
	case *int8:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = int8(v)
	case *int16:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = int16(v)
	case *int32:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = int32(v)
	case *int64:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = v
	case *uint:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = uint(v)
	case *uint8:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = uint8(v)
	case *uint16:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = uint16(v)
	case *uint32:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = uint32(v)
	case *uint64:
		v, err := luaconv.Integer(l, idx)
		if err != nil {
			return out, err
		}
		*p = uint64(v)
	case *float32:
		v, err := luaconv.Float(l, idx)
		if err != nil {
			return out, err
		}
		*p = float32(v)
	case *float64:
		v, err := luaconv.Float(l, idx)
		if err != nil {
			return out, err
		}
		*p = v
	case *string:
		v, err := luaconv.Str(l, idx)
		if err != nil {
			return out, err
		}
		*p = v
	case *bool:
		v, err := luaconv.Boolean(l, idx)
		if err != nil {
			return out, err
		}
		*p = v
	}
	return out, nil
}

// pushResult pushes a native return value. Scalars and moonbind.Value map
// directly; anything else is treated as a registered native object and
// wrapped through env.
func pushResult(l *lua.LState, env Env, rv any) (int, error) {
	switch x := rv.(type) {
	case nil:
		l.Push(lua.LNil)
	case moonbind.Value:
		lv, err := luaconv.ToLua(x)
		if err != nil {
			return 0, err
		}
		l.Push(lv)
	case bool:
		l.Push(lua.LBool(x))
	case int:
		l.Push(lua.LNumber(x))
	case int8:
		l.Push(lua.LNumber(x))
	case int16:
		l.Push(lua.LNumber(x))
	case int32:
		l.Push(lua.LNumber(x))
	case int64:
		l.Push(lua.LNumber(x))
	case uint:
		l.Push(lua.LNumber(x))
	case uint8:
		l.Push(lua.LNumber(x))
	case uint16:
		l.Push(lua.LNumber(x))
	case uint32:
		l.Push(lua.LNumber(x))
	case uint64:
		l.Push(lua.LNumber(x))
	case float32:
		l.Push(lua.LNumber(x))
	case float64:
		l.Push(lua.LNumber(x))
	case string:
		l.Push(lua.LString(x))
	default:
		if err := env.PushObject(l, rv); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

var errType = reflect.TypeFor[error]()

// isErrorResult reports whether the R of a Func*R adapter is the error type,
// in which case a non-nil result raises instead of being pushed.
func isErrorResult[R any]() bool {
	return reflect.TypeFor[R]() == errType
}

func finishResult(l *lua.LState, env Env, rv any, isErr bool) (int, error) {
	if isErr {
		if rv == nil {
			return 0, nil
		}
		return 0, rv.(error)
	}
	return pushResult(l, env, rv)
}

func receiver[T any](l *lua.LState) (*T, error) {
	ud, ok := l.Get(1).(*lua.LUserData)
	if !ok {
		return nil, fmt.Errorf("method receiver is not a native object (got %s)", l.Get(1).Type())
	}
	recv, ok := ud.Value.(*T)
	if !ok {
		return nil, fmt.Errorf("method receiver has type %T, want %s", ud.Value, reflect.TypeFor[*T]())
	}
	return recv, nil
}
