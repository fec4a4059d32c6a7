package moonbind

import (
	"fmt"
	"reflect"
	"strconv"
)

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// ObjectRef identifies a native object that crossed the script boundary.
// It is a weak tag (type identity plus address) used for identity checks
// and printing; it does not keep the object alive.
type ObjectRef struct {
	Type reflect.Type
	Addr uintptr
}

// Value is a closed tagged union over every type exchangeable with a script:
// nil, boolean, 64-bit integer, float, string, or an object reference.
// Values are immutable and comparable; two object references are equal when
// they share type identity and address.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	obj  ObjectRef
}

// Nil returns the nil value. The zero Value is also nil.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Object returns an object-reference value from an explicit tag.
func Object(ref ObjectRef) Value { return Value{kind: KindObject, obj: ref} }

// ObjectOf returns an object-reference value tagging the given native
// object. obj must be a non-nil pointer.
func ObjectOf(obj any) Value {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		panic("moonbind: ObjectOf requires a non-nil pointer")
	}
	return Object(ObjectRef{Type: rv.Type(), Addr: rv.Pointer()})
}

// Kind reports which member of the union is set.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Bool returns the boolean member, and whether the value is a boolean.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer member, and whether the value is an integer.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float member, and whether the value is a float.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Str returns the string member, and whether the value is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Object returns the object tag, and whether the value is an object
// reference.
func (v Value) Object() (ObjectRef, bool) { return v.obj, v.kind == KindObject }

// Equal reports structural equality. Object references compare by type
// identity and address, not by pointee content.
func (v Value) Equal(other Value) bool { return v == other }

// String renders the value for diagnostics. Strings are quoted so that
// String("1") and Int(1) render differently.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindObject:
		return fmt.Sprintf("%s@%#x", v.obj.Type, v.obj.Addr)
	}
	return "invalid"
}
