package registry_test

import (
	"errors"
	"fmt"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
	"github.com/moonbind/moonbind/registry"
)

type nopEnv struct{}

func (nopEnv) PushObject(l *lua.LState, obj any) error {
	return fmt.Errorf("no object marshaling in this test")
}

func newState(t *testing.T) *lua.LState {
	t.Helper()
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	t.Cleanup(l.Close)
	return l
}

func TestAddFuncDuplicate(t *testing.T) {
	reg := registry.New()
	if err := reg.AddFunc("foo", registry.Func0(func() {})); err != nil {
		t.Fatalf("first AddFunc: %v", err)
	}
	err := reg.AddFunc("foo", registry.Func0(func() {}))
	if !errors.Is(err, registry.ErrDuplicateFunction) {
		t.Errorf("duplicate AddFunc = %v, want ErrDuplicateFunction", err)
	}
}

func TestFuncLookup(t *testing.T) {
	reg := registry.New()
	reg.AddFunc("foo", registry.Func0(func() {}))

	if _, ok := reg.Func("foo"); !ok {
		t.Error("registered function not found")
	}
	if _, ok := reg.Func("bar"); ok {
		t.Error("unregistered function found")
	}

	names := map[string]bool{}
	for name := range reg.All() {
		names[name] = true
	}
	if !names["foo"] || len(names) != 1 {
		t.Errorf("All() yielded %v, want just foo", names)
	}
}

func TestFuncInvokeScalars(t *testing.T) {
	l := newState(t)

	var gotA int64
	var gotB string
	cb := registry.Func2(func(a int64, b string) {
		gotA, gotB = a, b
	})

	l.Push(lua.LNumber(42))
	l.Push(lua.LString("hi"))
	n, err := cb.Invoke(l, nopEnv{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if n != 0 {
		t.Errorf("result count = %d, want 0", n)
	}
	if gotA != 42 || gotB != "hi" {
		t.Errorf("callback saw (%d, %q)", gotA, gotB)
	}
}

func TestFuncInvokeArity(t *testing.T) {
	l := newState(t)
	cb := registry.Func1(func(string) {})

	if _, err := cb.Invoke(l, nopEnv{}); err == nil {
		t.Error("zero arguments accepted by one-argument function")
	}

	l.SetTop(0)
	l.Push(lua.LString("a"))
	l.Push(lua.LString("b"))
	if _, err := cb.Invoke(l, nopEnv{}); err == nil {
		t.Error("two arguments accepted by one-argument function")
	}
}

func TestFuncInvokeNoCoercion(t *testing.T) {
	l := newState(t)

	intFn := registry.Func1(func(int64) {})
	l.Push(lua.LString("2"))
	if _, err := intFn.Invoke(l, nopEnv{}); err == nil {
		t.Error("numeric string accepted as integer argument")
	}

	l.SetTop(0)
	strFn := registry.Func1(func(string) {})
	l.Push(lua.LNumber(2))
	if _, err := strFn.Invoke(l, nopEnv{}); err == nil {
		t.Error("number accepted as string argument")
	}
}

func TestFuncInvokeResult(t *testing.T) {
	l := newState(t)
	cb := registry.Func2R(func(a, b int64) int64 { return a + b })

	l.Push(lua.LNumber(1))
	l.Push(lua.LNumber(2))
	n, err := cb.Invoke(l, nopEnv{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if n != 1 {
		t.Fatalf("result count = %d, want 1", n)
	}
	if got := l.Get(l.GetTop()); got != lua.LNumber(3) {
		t.Errorf("pushed result = %v, want 3", got)
	}
}

func TestFuncInvokeErrorResult(t *testing.T) {
	l := newState(t)

	fail := registry.Func0R(func() error { return errors.New("boom") })
	if _, err := fail.Invoke(l, nopEnv{}); err == nil || err.Error() != "boom" {
		t.Errorf("error result = %v, want boom", err)
	}

	ok := registry.Func0R(func() error { return nil })
	n, err := ok.Invoke(l, nopEnv{})
	if err != nil {
		t.Fatalf("nil error result raised: %v", err)
	}
	if n != 0 {
		t.Errorf("nil error result pushed %d values", n)
	}
}

func TestFuncInvokeVariadic(t *testing.T) {
	l := newState(t)

	var fixed int64
	var rest []moonbind.Value
	cb := registry.Func1V(func(a int64, vs []moonbind.Value) {
		fixed, rest = a, vs
	})

	l.Push(lua.LNumber(42))
	l.Push(lua.LString("Hi"))
	l.Push(lua.LNumber(2))
	l.Push(lua.LNumber(4.51))
	if _, err := cb.Invoke(l, nopEnv{}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := []moonbind.Value{moonbind.String("Hi"), moonbind.Int(2), moonbind.Float(4.51)}
	if fixed != 42 || len(rest) != len(want) {
		t.Fatalf("callback saw (%d, %v)", fixed, rest)
	}
	for i := range want {
		if !rest[i].Equal(want[i]) {
			t.Errorf("rest[%d] = %v, want %v", i, rest[i], want[i])
		}
	}

	// The tail may be empty, but never short of the fixed prefix.
	l.SetTop(0)
	l.Push(lua.LNumber(7))
	if _, err := cb.Invoke(l, nopEnv{}); err != nil {
		t.Fatalf("Invoke with empty tail: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("empty tail captured %v", rest)
	}
	l.SetTop(0)
	if _, err := cb.Invoke(l, nopEnv{}); err == nil {
		t.Error("missing fixed prefix accepted")
	}
}

type counter struct {
	n int64
}

func TestMethodDispatch(t *testing.T) {
	l := newState(t)

	add := registry.Method1(func(c *counter, n int64) { c.n += n })
	total := registry.Method0R(func(c *counter) int64 { return c.n })

	c := &counter{}
	ud := l.NewUserData()
	ud.Value = c

	l.Push(ud)
	l.Push(lua.LNumber(5))
	if _, err := add.Invoke(l, nopEnv{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.n != 5 {
		t.Errorf("receiver not mutated, n = %d", c.n)
	}

	l.SetTop(0)
	l.Push(ud)
	n, err := total.Invoke(l, nopEnv{})
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if n != 1 || l.Get(l.GetTop()) != lua.LNumber(5) {
		t.Errorf("total pushed (%d, %v)", n, l.Get(l.GetTop()))
	}
}

func TestMethodReceiverValidation(t *testing.T) {
	l := newState(t)
	m := registry.Method0(func(*counter) {})

	// Plain value instead of a receiver.
	l.Push(lua.LNumber(2))
	if _, err := m.Invoke(l, nopEnv{}); err == nil {
		t.Error("number accepted as method receiver")
	}

	// Userdata of the wrong native type.
	type other struct{}
	l.SetTop(0)
	ud := l.NewUserData()
	ud.Value = &other{}
	l.Push(ud)
	if _, err := m.Invoke(l, nopEnv{}); err == nil {
		t.Error("wrong container type accepted as method receiver")
	}
}

func TestDescribeDuplicateMethod(t *testing.T) {
	reg := registry.New()
	desc := registry.Describe[counter]().
		WithMethod("foo", registry.Method0(func(*counter) {})).
		WithMethod("foo", registry.Method0(func(*counter) {}))

	err := reg.AddObjectType(desc)
	if !errors.Is(err, registry.ErrDuplicateMethod) {
		t.Errorf("AddObjectType = %v, want ErrDuplicateMethod", err)
	}
}

func TestAddObjectTypeDuplicate(t *testing.T) {
	reg := registry.New()
	if err := reg.AddObjectType(registry.Describe[counter]()); err != nil {
		t.Fatalf("first AddObjectType: %v", err)
	}
	err := reg.AddObjectType(registry.Describe[counter]())
	if !errors.Is(err, registry.ErrDuplicateType) {
		t.Errorf("duplicate AddObjectType = %v, want ErrDuplicateType", err)
	}
}

type base struct {
	calls []string
}

type derived struct {
	base
}

func TestBaseNotRegistered(t *testing.T) {
	reg := registry.New()
	desc := registry.WithBase(registry.Describe[derived](), func(d *derived) *base { return &d.base })
	err := reg.AddObjectType(desc)
	if !errors.Is(err, registry.ErrBaseNotRegistered) {
		t.Errorf("AddObjectType = %v, want ErrBaseNotRegistered", err)
	}
}

func TestBaseMethodInheritance(t *testing.T) {
	l := newState(t)
	reg := registry.New()

	if err := reg.AddObjectType(registry.Describe[base]().
		WithMethod("foo", registry.Method0(func(b *base) { b.calls = append(b.calls, "foo") }))); err != nil {
		t.Fatalf("register base: %v", err)
	}

	desc := registry.Describe[derived]().
		WithMethod("bar", registry.Method0(func(d *derived) { d.calls = append(d.calls, "bar") }))
	registry.WithBase(desc, func(d *derived) *base { return &d.base })
	if err := reg.AddObjectType(desc); err != nil {
		t.Fatalf("register derived: %v", err)
	}

	info, ok := reg.ObjectType(registry.Describe[derived]().Type())
	if !ok {
		t.Fatal("derived type not registered")
	}

	methods := map[string]registry.Method{}
	for name, m := range info.Methods() {
		methods[name] = m
	}
	if _, ok := methods["foo"]; !ok {
		t.Fatal("inherited method foo missing from derived table")
	}

	// The inherited entry must dispatch against a derived receiver.
	d := &derived{}
	ud := l.NewUserData()
	ud.Value = d
	l.Push(ud)
	if _, err := methods["foo"].Invoke(l, nopEnv{}); err != nil {
		t.Fatalf("inherited foo on derived receiver: %v", err)
	}
	if len(d.calls) != 1 || d.calls[0] != "foo" {
		t.Errorf("base implementation saw calls %v", d.calls)
	}
}

func TestInheritedNameCollision(t *testing.T) {
	for _, baseFirst := range []bool{true, false} {
		reg := registry.New()
		if err := reg.AddObjectType(registry.Describe[base]().
			WithMethod("foo", registry.Method0(func(*base) {}))); err != nil {
			t.Fatalf("register base: %v", err)
		}

		desc := registry.Describe[derived]()
		if baseFirst {
			registry.WithBase(desc, func(d *derived) *base { return &d.base })
			desc.WithMethod("foo", registry.Method0(func(*derived) {}))
		} else {
			desc.WithMethod("foo", registry.Method0(func(*derived) {}))
			registry.WithBase(desc, func(d *derived) *base { return &d.base })
		}

		err := reg.AddObjectType(desc)
		if !errors.Is(err, registry.ErrDuplicateMethod) {
			t.Errorf("baseFirst=%v: AddObjectType = %v, want ErrDuplicateMethod", baseFirst, err)
		}
	}
}

func TestReceiverMismatchInBuilder(t *testing.T) {
	reg := registry.New()
	desc := registry.Describe[base]().
		WithMethod("foo", registry.Method0(func(*derived) {}))
	if err := reg.AddObjectType(desc); err == nil {
		t.Error("receiver type mismatch not reported")
	}
}
