package luaconv

import (
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
)

func newState(t *testing.T) *lua.LState {
	t.Helper()
	l := lua.NewState(lua.Options{SkipOpenLibs: true})
	t.Cleanup(l.Close)
	return l
}

func TestScalarRoundTrip(t *testing.T) {
	tests := []moonbind.Value{
		moonbind.Nil(),
		moonbind.Bool(true),
		moonbind.Bool(false),
		moonbind.Int(0),
		moonbind.Int(42),
		moonbind.Int(-7),
		moonbind.Float(2.5),
		moonbind.Float(-0.125),
		moonbind.String(""),
		moonbind.String("Hello World"),
		moonbind.String("2"), // must stay a string, not become a number
	}

	for _, want := range tests {
		t.Run(want.String(), func(t *testing.T) {
			lv, err := ToLua(want)
			if err != nil {
				t.Fatalf("ToLua: %v", err)
			}
			got, err := FromLua(lv)
			if err != nil {
				t.Fatalf("FromLua: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("round trip = %v, want %v", got, want)
			}
		})
	}
}

func TestIntegralFloatReadsAsInteger(t *testing.T) {
	v, err := FromLua(lua.LNumber(3.0))
	if err != nil {
		t.Fatalf("FromLua: %v", err)
	}
	if i, ok := v.Int(); !ok || i != 3 {
		t.Errorf("FromLua(3.0) = %v, want Int(3)", v)
	}

	v, err = FromLua(lua.LNumber(3.5))
	if err != nil {
		t.Fatalf("FromLua: %v", err)
	}
	if f, ok := v.Float(); !ok || f != 3.5 {
		t.Errorf("FromLua(3.5) = %v, want Float(3.5)", v)
	}
}

func TestObjectWeakReference(t *testing.T) {
	type thing struct{ n int }
	obj := &thing{}

	l := newState(t)
	ud := l.NewUserData()
	ud.Value = obj

	v, err := FromLua(ud)
	if err != nil {
		t.Fatalf("FromLua: %v", err)
	}
	if !v.Equal(moonbind.ObjectOf(obj)) {
		t.Errorf("object reference = %v, want tag of %p", v, obj)
	}

	// Weak tags never travel back into the script.
	if _, err := ToLua(v); err == nil {
		t.Error("ToLua on object reference should fail")
	}
}

func TestFromLuaRejectsTables(t *testing.T) {
	l := newState(t)
	if _, err := FromLua(l.NewTable()); err == nil {
		t.Error("expected marshaling failure for table")
	}
}

func TestTypedReadersNoCoercion(t *testing.T) {
	l := newState(t)
	l.Push(lua.LString("2"))
	l.Push(lua.LNumber(2))

	if _, err := Integer(l, 1); err == nil {
		t.Error("numeric string read as integer")
	}
	if _, err := Str(l, 2); err == nil {
		t.Error("number read as string")
	}
	if n, err := Integer(l, 2); err != nil || n != 2 {
		t.Errorf("Integer = (%v, %v), want 2", n, err)
	}
	if s, err := Str(l, 1); err != nil || s != "2" {
		t.Errorf("Str = (%q, %v), want \"2\"", s, err)
	}
}

func TestCheckArity(t *testing.T) {
	l := newState(t)
	l.Push(lua.LNumber(1))
	l.Push(lua.LNumber(2))

	if err := CheckArity(l, 1, 2); err != nil {
		t.Errorf("exact arity rejected: %v", err)
	}
	if err := CheckArity(l, 1, 1); err == nil {
		t.Error("surplus argument accepted")
	}
	if err := CheckArity(l, 1, 3); err == nil {
		t.Error("missing argument accepted")
	}
	// Offset for a method receiver in slot 1.
	if err := CheckArity(l, 2, 1); err != nil {
		t.Errorf("receiver-relative arity rejected: %v", err)
	}
}

func TestVariadicEmpty(t *testing.T) {
	l := newState(t)
	l.Push(lua.LNumber(1))

	vals, err := Variadic(l, 2)
	if err != nil {
		t.Fatalf("Variadic: %v", err)
	}
	if vals == nil || len(vals) != 0 {
		t.Errorf("Variadic past top = %#v, want empty non-nil slice", vals)
	}
}
