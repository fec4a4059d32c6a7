package moonbind

import "testing"

func TestValueKinds(t *testing.T) {
	type dummy struct{ n int }
	obj := &dummy{}

	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"zero value", Value{}, KindNil},
		{"nil", Nil(), KindNil},
		{"bool", Bool(true), KindBool},
		{"int", Int(2), KindInt},
		{"float", Float(2.5), KindFloat},
		{"string", String("hello"), KindString},
		{"object", ObjectOf(obj), KindObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestValueAccessors(t *testing.T) {
	if b, ok := Bool(true).Bool(); !ok || !b {
		t.Errorf("Bool accessor = (%v, %v)", b, ok)
	}
	if i, ok := Int(42).Int(); !ok || i != 42 {
		t.Errorf("Int accessor = (%v, %v)", i, ok)
	}
	if f, ok := Float(2.5).Float(); !ok || f != 2.5 {
		t.Errorf("Float accessor = (%v, %v)", f, ok)
	}
	if s, ok := String("hi").Str(); !ok || s != "hi" {
		t.Errorf("Str accessor = (%v, %v)", s, ok)
	}
	if _, ok := Int(1).Str(); ok {
		t.Error("Str on integer value should report false")
	}
	if !Nil().IsNil() {
		t.Error("Nil().IsNil() = false")
	}
}

func TestValueEquality(t *testing.T) {
	type dummy struct{ n int }
	a, b := &dummy{}, &dummy{}

	if !Int(1).Equal(Int(1)) {
		t.Error("equal integers not equal")
	}
	if Int(1).Equal(Float(1)) {
		t.Error("integer equals float of same magnitude")
	}
	if Int(1).Equal(String("1")) {
		t.Error("integer equals numeric string")
	}
	if !ObjectOf(a).Equal(ObjectOf(a)) {
		t.Error("same object reference not equal")
	}
	if ObjectOf(a).Equal(ObjectOf(b)) {
		t.Error("distinct objects compare equal")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil(), "nil"},
		{Bool(true), "true"},
		{Int(42), "42"},
		{Float(2.5), "2.5"},
		{String("hi"), `"hi"`},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
