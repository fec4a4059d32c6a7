package registry

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
	"github.com/moonbind/moonbind/internal/luaconv"
)

// Unbound method adapters. Argument slot 1 must hold a container of the
// registered receiver type; the remaining arguments start at slot 2. A
// receiver of the wrong type (or a plain value, as in `obj.foo(2)` instead
// of `obj:foo()`) is a marshaling failure, never an unchecked access.

type method0[T any] struct{ fn func(*T) }

func (m method0[T]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method0[T]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method0[T]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 0); err != nil {
		return 0, err
	}
	m.fn(recv.(*T))
	return 0, nil
}

// Method0 adapts a niladic method on *T.
func Method0[T any](fn func(*T)) Method { return method0[T]{fn} }

type method1[T any, A1 Scalar] struct{ fn func(*T, A1) }

func (m method1[T, A1]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method1[T, A1]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method1[T, A1]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 1); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 2)
	if err != nil {
		return 0, err
	}
	m.fn(recv.(*T), a1)
	return 0, nil
}

// Method1 adapts a one-argument method on *T.
func Method1[T any, A1 Scalar](fn func(*T, A1)) Method { return method1[T, A1]{fn} }

type method2[T any, A1, A2 Scalar] struct{ fn func(*T, A1, A2) }

func (m method2[T, A1, A2]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method2[T, A1, A2]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method2[T, A1, A2]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 2); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 2)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 3)
	if err != nil {
		return 0, err
	}
	m.fn(recv.(*T), a1, a2)
	return 0, nil
}

// Method2 adapts a two-argument method on *T.
func Method2[T any, A1, A2 Scalar](fn func(*T, A1, A2)) Method { return method2[T, A1, A2]{fn} }

type method3[T any, A1, A2, A3 Scalar] struct{ fn func(*T, A1, A2, A3) }

func (m method3[T, A1, A2, A3]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method3[T, A1, A2, A3]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method3[T, A1, A2, A3]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 3); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 2)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 3)
	if err != nil {
		return 0, err
	}
	a3, err := readArg[A3](l, 4)
	if err != nil {
		return 0, err
	}
	m.fn(recv.(*T), a1, a2, a3)
	return 0, nil
}

// Method3 adapts a three-argument method on *T.
func Method3[T any, A1, A2, A3 Scalar](fn func(*T, A1, A2, A3)) Method {
	return method3[T, A1, A2, A3]{fn}
}

type method4[T any, A1, A2, A3, A4 Scalar] struct{ fn func(*T, A1, A2, A3, A4) }

func (m method4[T, A1, A2, A3, A4]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method4[T, A1, A2, A3, A4]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method4[T, A1, A2, A3, A4]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 4); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 2)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 3)
	if err != nil {
		return 0, err
	}
	a3, err := readArg[A3](l, 4)
	if err != nil {
		return 0, err
	}
	a4, err := readArg[A4](l, 5)
	if err != nil {
		return 0, err
	}
	m.fn(recv.(*T), a1, a2, a3, a4)
	return 0, nil
}

// Method4 adapts a four-argument method on *T.
func Method4[T any, A1, A2, A3, A4 Scalar](fn func(*T, A1, A2, A3, A4)) Method {
	return method4[T, A1, A2, A3, A4]{fn}
}

type method0R[T, R any] struct {
	fn    func(*T) R
	isErr bool
}

func (m method0R[T, R]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method0R[T, R]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method0R[T, R]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 0); err != nil {
		return 0, err
	}
	return finishResult(l, env, m.fn(recv.(*T)), m.isErr)
}

// Method0R adapts a niladic method on *T returning one value.
func Method0R[T, R any](fn func(*T) R) Method { return method0R[T, R]{fn, isErrorResult[R]()} }

type method1R[T any, A1 Scalar, R any] struct {
	fn    func(*T, A1) R
	isErr bool
}

func (m method1R[T, A1, R]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method1R[T, A1, R]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method1R[T, A1, R]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 1); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 2)
	if err != nil {
		return 0, err
	}
	return finishResult(l, env, m.fn(recv.(*T), a1), m.isErr)
}

// Method1R adapts a one-argument method on *T returning one value.
func Method1R[T any, A1 Scalar, R any](fn func(*T, A1) R) Method {
	return method1R[T, A1, R]{fn, isErrorResult[R]()}
}

type method2R[T any, A1, A2 Scalar, R any] struct {
	fn    func(*T, A1, A2) R
	isErr bool
}

func (m method2R[T, A1, A2, R]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method2R[T, A1, A2, R]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method2R[T, A1, A2, R]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if err := luaconv.CheckArity(l, 2, 2); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 2)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 3)
	if err != nil {
		return 0, err
	}
	return finishResult(l, env, m.fn(recv.(*T), a1, a2), m.isErr)
}

// Method2R adapts a two-argument method on *T returning one value.
func Method2R[T any, A1, A2 Scalar, R any](fn func(*T, A1, A2) R) Method {
	return method2R[T, A1, A2, R]{fn, isErrorResult[R]()}
}

type methodV[T any] struct{ fn func(*T, []moonbind.Value) }

func (m methodV[T]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m methodV[T]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m methodV[T]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	rest, err := luaconv.Variadic(l, 2)
	if err != nil {
		return 0, err
	}
	m.fn(recv.(*T), rest)
	return 0, nil
}

// MethodV adapts a method on *T taking every argument as a value slice.
func MethodV[T any](fn func(*T, []moonbind.Value)) Method { return methodV[T]{fn} }

type method1V[T any, A1 Scalar] struct{ fn func(*T, A1, []moonbind.Value) }

func (m method1V[T, A1]) receiverType() reflect.Type { return reflect.TypeFor[*T]() }

func (m method1V[T, A1]) Invoke(l *lua.LState, env Env) (int, error) {
	recv, err := receiver[T](l)
	if err != nil {
		return 0, err
	}
	return m.dispatch(l, env, recv)
}

func (m method1V[T, A1]) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	if l.GetTop() < 2 {
		return 0, luaconv.CheckArity(l, 2, 1)
	}
	a1, err := readArg[A1](l, 2)
	if err != nil {
		return 0, err
	}
	rest, err := luaconv.Variadic(l, 3)
	if err != nil {
		return 0, err
	}
	m.fn(recv.(*T), a1, rest)
	return 0, nil
}

// Method1V adapts a method on *T with one fixed argument and a variadic tail.
func Method1V[T any, A1 Scalar](fn func(*T, A1, []moonbind.Value)) Method {
	return method1V[T, A1]{fn}
}

// inheritedMethod re-dispatches a base type's method against a derived
// receiver. Created when an object type registers with a base; the base's
// method table is copied at registration time, so later changes to the base
// are not reflected.
type inheritedMethod struct {
	derived reflect.Type
	cast    func(any) any
	target  Method
}

func (m inheritedMethod) receiverType() reflect.Type { return m.derived }

func (m inheritedMethod) Invoke(l *lua.LState, env Env) (int, error) {
	ud, ok := l.Get(1).(*lua.LUserData)
	if !ok {
		return 0, fmt.Errorf("method receiver is not a native object (got %s)", l.Get(1).Type())
	}
	if reflect.TypeOf(ud.Value) != m.derived {
		return 0, fmt.Errorf("method receiver has type %T, want %s", ud.Value, m.derived)
	}
	return m.dispatch(l, env, ud.Value)
}

func (m inheritedMethod) dispatch(l *lua.LState, env Env, recv any) (int, error) {
	return m.target.dispatch(l, env, m.cast(recv))
}
