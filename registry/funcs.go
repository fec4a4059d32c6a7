package registry

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
	"github.com/moonbind/moonbind/internal/luaconv"
)

// Free function adapters. Each captures the native argument list at
// registration time; decoding checks the call's arity and types against it.
// A Go method value (obj.Method) binds its receiver and registers like any
// other function. The Func*R variants push a single result; when R is the
// error type a non-nil result raises a script error instead.

type func0 struct{ fn func() }

func (c func0) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 0); err != nil {
		return 0, err
	}
	c.fn()
	return 0, nil
}

// Func0 adapts a niladic function.
func Func0(fn func()) Callback { return func0{fn} }

type func1[A1 Scalar] struct{ fn func(A1) }

func (c func1[A1]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 1); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	c.fn(a1)
	return 0, nil
}

// Func1 adapts a one-argument function.
func Func1[A1 Scalar](fn func(A1)) Callback { return func1[A1]{fn} }

type func2[A1, A2 Scalar] struct{ fn func(A1, A2) }

func (c func2[A1, A2]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 2); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 2)
	if err != nil {
		return 0, err
	}
	c.fn(a1, a2)
	return 0, nil
}

// Func2 adapts a two-argument function.
func Func2[A1, A2 Scalar](fn func(A1, A2)) Callback { return func2[A1, A2]{fn} }

type func3[A1, A2, A3 Scalar] struct{ fn func(A1, A2, A3) }

func (c func3[A1, A2, A3]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 3); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 2)
	if err != nil {
		return 0, err
	}
	a3, err := readArg[A3](l, 3)
	if err != nil {
		return 0, err
	}
	c.fn(a1, a2, a3)
	return 0, nil
}

// Func3 adapts a three-argument function.
func Func3[A1, A2, A3 Scalar](fn func(A1, A2, A3)) Callback { return func3[A1, A2, A3]{fn} }

type func4[A1, A2, A3, A4 Scalar] struct{ fn func(A1, A2, A3, A4) }

func (c func4[A1, A2, A3, A4]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 4); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 2)
	if err != nil {
		return 0, err
	}
	a3, err := readArg[A3](l, 3)
	if err != nil {
		return 0, err
	}
	a4, err := readArg[A4](l, 4)
	if err != nil {
		return 0, err
	}
	c.fn(a1, a2, a3, a4)
	return 0, nil
}

// Func4 adapts a four-argument function.
func Func4[A1, A2, A3, A4 Scalar](fn func(A1, A2, A3, A4)) Callback {
	return func4[A1, A2, A3, A4]{fn}
}

type func5[A1, A2, A3, A4, A5 Scalar] struct{ fn func(A1, A2, A3, A4, A5) }

func (c func5[A1, A2, A3, A4, A5]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 5); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 2)
	if err != nil {
		return 0, err
	}
	a3, err := readArg[A3](l, 3)
	if err != nil {
		return 0, err
	}
	a4, err := readArg[A4](l, 4)
	if err != nil {
		return 0, err
	}
	a5, err := readArg[A5](l, 5)
	if err != nil {
		return 0, err
	}
	c.fn(a1, a2, a3, a4, a5)
	return 0, nil
}

// Func5 adapts a five-argument function.
func Func5[A1, A2, A3, A4, A5 Scalar](fn func(A1, A2, A3, A4, A5)) Callback {
	return func5[A1, A2, A3, A4, A5]{fn}
}

type func0R[R any] struct {
	fn    func() R
	isErr bool
}

func (c func0R[R]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 0); err != nil {
		return 0, err
	}
	return finishResult(l, env, c.fn(), c.isErr)
}

// Func0R adapts a niladic function returning one value.
func Func0R[R any](fn func() R) Callback { return func0R[R]{fn, isErrorResult[R]()} }

type func1R[A1 Scalar, R any] struct {
	fn    func(A1) R
	isErr bool
}

func (c func1R[A1, R]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 1); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	return finishResult(l, env, c.fn(a1), c.isErr)
}

// Func1R adapts a one-argument function returning one value.
func Func1R[A1 Scalar, R any](fn func(A1) R) Callback {
	return func1R[A1, R]{fn, isErrorResult[R]()}
}

type func2R[A1, A2 Scalar, R any] struct {
	fn    func(A1, A2) R
	isErr bool
}

func (c func2R[A1, A2, R]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 2); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 2)
	if err != nil {
		return 0, err
	}
	return finishResult(l, env, c.fn(a1, a2), c.isErr)
}

// Func2R adapts a two-argument function returning one value.
func Func2R[A1, A2 Scalar, R any](fn func(A1, A2) R) Callback {
	return func2R[A1, A2, R]{fn, isErrorResult[R]()}
}

type func3R[A1, A2, A3 Scalar, R any] struct {
	fn    func(A1, A2, A3) R
	isErr bool
}

func (c func3R[A1, A2, A3, R]) Invoke(l *lua.LState, env Env) (int, error) {
	if err := luaconv.CheckArity(l, 1, 3); err != nil {
		return 0, err
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 2)
	if err != nil {
		return 0, err
	}
	a3, err := readArg[A3](l, 3)
	if err != nil {
		return 0, err
	}
	return finishResult(l, env, c.fn(a1, a2, a3), c.isErr)
}

// Func3R adapts a three-argument function returning one value.
func Func3R[A1, A2, A3 Scalar, R any](fn func(A1, A2, A3) R) Callback {
	return func3R[A1, A2, A3, R]{fn, isErrorResult[R]()}
}

type funcV struct{ fn func([]moonbind.Value) }

func (c funcV) Invoke(l *lua.LState, env Env) (int, error) {
	rest, err := luaconv.Variadic(l, 1)
	if err != nil {
		return 0, err
	}
	c.fn(rest)
	return 0, nil
}

// FuncV adapts a function taking every argument as a value slice. The slice
// is empty, never nil, when the call supplies no arguments.
func FuncV(fn func([]moonbind.Value)) Callback { return funcV{fn} }

type func1V[A1 Scalar] struct{ fn func(A1, []moonbind.Value) }

func (c func1V[A1]) Invoke(l *lua.LState, env Env) (int, error) {
	if l.GetTop() < 1 {
		return 0, luaconv.CheckArity(l, 1, 1)
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	rest, err := luaconv.Variadic(l, 2)
	if err != nil {
		return 0, err
	}
	c.fn(a1, rest)
	return 0, nil
}

// Func1V adapts a function with one fixed argument and a variadic tail.
func Func1V[A1 Scalar](fn func(A1, []moonbind.Value)) Callback { return func1V[A1]{fn} }

type func2V[A1, A2 Scalar] struct{ fn func(A1, A2, []moonbind.Value) }

func (c func2V[A1, A2]) Invoke(l *lua.LState, env Env) (int, error) {
	if l.GetTop() < 2 {
		return 0, luaconv.CheckArity(l, 1, 2)
	}
	a1, err := readArg[A1](l, 1)
	if err != nil {
		return 0, err
	}
	a2, err := readArg[A2](l, 2)
	if err != nil {
		return 0, err
	}
	rest, err := luaconv.Variadic(l, 3)
	if err != nil {
		return 0, err
	}
	c.fn(a1, a2, rest)
	return 0, nil
}

// Func2V adapts a function with two fixed arguments and a variadic tail.
func Func2V[A1, A2 Scalar](fn func(A1, A2, []moonbind.Value)) Callback {
	return func2V[A1, A2]{fn}
}
