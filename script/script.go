package script

import (
	"bytes"
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
	"github.com/moonbind/moonbind/internal/luaconv"
	"github.com/moonbind/moonbind/registry"
)

// Script is one loaded program with its own interpreter state and sandboxed
// environment. A script and the threads spawned from it belong to a single
// goroutine; create one script per concurrent unit rather than sharing.
type Script struct {
	name   string
	l      *lua.LState
	cfg    config
	loaded map[string]struct{}
	closed bool
}

// New parses and runs source as the script's top-level chunk. The chunk
// executes inside the sandbox with the registry's free functions installed
// as globals. A parse failure is a SyntaxError, a failure while the chunk
// runs a RuntimeError; either way no script is returned.
func New(name string, source []byte, opts ...Option) (*Script, error) {
	s := build(name, opts)
	fn, err := s.l.Load(bytes.NewReader(source), name)
	if err != nil {
		werr := s.wrapError(err)
		s.l.Close()
		return nil, werr
	}
	if err := s.run(fn); err != nil {
		s.l.Close()
		return nil, err
	}
	return s, nil
}

func build(name string, opts []Option) *Script {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Script{
		name:   name,
		l:      lua.NewState(lua.Options{SkipOpenLibs: true}),
		cfg:    cfg,
		loaded: make(map[string]struct{}),
	}
	s.installSandbox()
	if cfg.registry != nil {
		for fname, cb := range cfg.registry.All() {
			s.l.SetGlobal(fname, s.l.NewFunction(s.trampoline(cb)))
		}
	}
	return s
}

// run executes fn on the main state, discarding results.
func (s *Script) run(fn *lua.LFunction) error {
	s.l.Push(fn)
	if err := s.l.PCall(0, 0, nil); err != nil {
		return s.wrapError(err)
	}
	return nil
}

// Exec runs a further chunk in the script's environment. Globals it assigns
// stay visible to later calls.
func (s *Script) Exec(source []byte) error {
	if s.closed {
		return ErrClosed
	}
	fn, err := s.l.Load(bytes.NewReader(source), s.name)
	if err != nil {
		return s.wrapError(err)
	}
	return s.run(fn)
}

// Eval runs a chunk in the script's environment and returns its first
// result, or a nil value when the chunk returns nothing.
func (s *Script) Eval(source []byte) (moonbind.Value, error) {
	if s.closed {
		return moonbind.Nil(), ErrClosed
	}
	fn, err := s.l.Load(bytes.NewReader(source), s.name)
	if err != nil {
		return moonbind.Nil(), s.wrapError(err)
	}

	base := s.l.GetTop()
	s.l.Push(fn)
	if err := s.l.PCall(0, lua.MultRet, nil); err != nil {
		return moonbind.Nil(), s.wrapError(err)
	}
	nret := s.l.GetTop() - base
	defer s.l.SetTop(base)
	if nret == 0 {
		return moonbind.Nil(), nil
	}
	v, err := luaconv.FromLua(s.l.Get(base + 1))
	if err != nil {
		return moonbind.Nil(), &RuntimeError{Script: s.name, Msg: err.Error()}
	}
	return v, nil
}

// Call invokes the named script function and waits for it to finish,
// returning its first result. Yields inside the function are driven by a
// private cooperative executor, so a yielding function still runs to
// completion.
func (s *Script) Call(name string, args ...any) (moonbind.Value, error) {
	ex := NewCooperative()
	fut, err := s.CallAsync(ex, name, args...)
	if err != nil {
		return moonbind.Nil(), err
	}
	ex.Run()
	return fut.Get()
}

// CallAsync creates a coroutine for the named script function, hands it to
// ex, and returns the future its result will resolve. The name must be bound
// to a function in the script's globals; anything else fails here, before
// the thread is created. Arguments may be Go scalars, moonbind values, or
// pointers to registered object types.
func (s *Script) CallAsync(ex Executor, name string, args ...any) (*Future, error) {
	if s.closed {
		return nil, ErrClosed
	}
	fn, ok := s.l.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil, &RuntimeError{Script: s.name, Msg: fmt.Sprintf("%q is not a script function", name)}
	}

	lvs := make([]lua.LValue, len(args))
	for i, arg := range args {
		lv, err := s.toLValue(arg)
		if err != nil {
			return nil, &RuntimeError{Script: s.name, Msg: fmt.Sprintf("argument %d: %s", i+1, err)}
		}
		lvs[i] = lv
	}

	co, cancel := s.l.NewThread()
	t := &Thread{
		script:  s,
		co:      co,
		cancel:  cancel,
		fn:      fn,
		pending: lvs,
		fut:     newFuture(),
	}
	ex.Add(t)
	return t.fut, nil
}

// Close releases the interpreter state. Further operations return ErrClosed;
// closing twice is a no-op.
func (s *Script) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.l.Close()
	return nil
}

// trampoline is the single entry point for every native callback. Panics in
// the callback are recovered (error panics keep their message) and, like
// returned errors, re-raised as script errors at the call site.
func (s *Script) trampoline(cb registry.Callback) lua.LGFunction {
	return func(l *lua.LState) int {
		n, err := s.invoke(l, cb)
		if err != nil {
			l.RaiseError("%s", err.Error())
		}
		return n
	}
}

func (s *Script) invoke(l *lua.LState, cb registry.Callback) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("unknown error: %v", r)
			}
		}
	}()
	return cb.Invoke(l, scriptEnv{s})
}

// scriptEnv lets value-returning callbacks push registered objects back to
// the script.
type scriptEnv struct {
	s *Script
}

func (e scriptEnv) PushObject(l *lua.LState, obj any) error {
	lv, err := e.s.wrapObject(obj)
	if err != nil {
		return err
	}
	l.Push(lv)
	return nil
}

// toLValue converts a native call argument. Scalars and moonbind values map
// directly; any other pointer is wrapped as a registered object.
func (s *Script) toLValue(arg any) (lua.LValue, error) {
	switch v := arg.(type) {
	case nil:
		return lua.LNil, nil
	case moonbind.Value:
		return luaconv.ToLua(v)
	case bool:
		return lua.LBool(v), nil
	case int:
		return lua.LNumber(v), nil
	case int32:
		return lua.LNumber(v), nil
	case int64:
		return lua.LNumber(v), nil
	case float32:
		return lua.LNumber(v), nil
	case float64:
		return lua.LNumber(v), nil
	case string:
		return lua.LString(v), nil
	default:
		return s.wrapObject(arg)
	}
}

// wrapObject creates a strong userdata container for a pointer to a
// registered object type, attaching the type's method table. The table is
// built on first use and cached in the interpreter's type registry, which
// the script's coroutines share.
func (s *Script) wrapObject(obj any) (lua.LValue, error) {
	if s.cfg.registry == nil {
		return nil, fmt.Errorf("cannot pass %T: script has no registry", obj)
	}
	info, ok := s.cfg.registry.ObjectType(reflect.TypeOf(obj))
	if !ok {
		return nil, fmt.Errorf("cannot pass %T: object type not registered", obj)
	}

	mt := s.l.GetTypeMetatable(info.MetatableName())
	if mt == lua.LNil {
		tbl := s.l.NewTypeMetatable(info.MetatableName())
		s.l.SetField(tbl, "__index", tbl)
		for mname, m := range info.Methods() {
			s.l.SetField(tbl, mname, s.l.NewFunction(s.trampoline(m)))
		}
		mt = tbl
	}

	ud := s.l.NewUserData()
	ud.Value = obj
	s.l.SetMetatable(ud, mt)
	return ud, nil
}
