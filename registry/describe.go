package registry

import (
	"fmt"
	"reflect"
)

// Description accumulates the method table and base relations for an object
// type before registration. Builder misuse (duplicate method names, receiver
// mismatches) is recorded and reported by Registry.AddObjectType rather than
// silently overwriting.
type Description struct {
	typ     reflect.Type
	methods map[string]Method
	bases   []baseRef
	errs    []error
}

type baseRef struct {
	typ  reflect.Type
	cast func(any) any
}

// Describe starts a description of object type T. Scripts receive instances
// of T as *T.
func Describe[T any]() *Description {
	return &Description{
		typ:     reflect.TypeFor[*T](),
		methods: make(map[string]Method),
	}
}

// Type returns the pointer type identity the description registers under.
func (d *Description) Type() reflect.Type { return d.typ }

// WithMethod adds a named method built with one of the Method* adapters.
// The adapter's receiver type must match the described type, and each name
// may be declared at most once.
func (d *Description) WithMethod(name string, m Method) *Description {
	if rt := m.receiverType(); rt != d.typ {
		d.errs = append(d.errs, fmt.Errorf("method %q: receiver type %s does not match described type %s", name, rt, d.typ))
		return d
	}
	if _, ok := d.methods[name]; ok {
		d.errs = append(d.errs, fmt.Errorf("method %q: %w", name, ErrDuplicateMethod))
		return d
	}
	d.methods[name] = m
	return d
}

// WithBase declares B as a base type of D, with cast providing the upcast
// from a derived receiver. B must already be registered when the description
// is added; its method table is copied into D's at that point.
func WithBase[D, B any](d *Description, cast func(*D) *B) *Description {
	if want := reflect.TypeFor[*D](); d.typ != want {
		d.errs = append(d.errs, fmt.Errorf("base %s declared for %s, but description is for %s",
			reflect.TypeFor[*B](), want, d.typ))
		return d
	}
	d.bases = append(d.bases, baseRef{
		typ:  reflect.TypeFor[*B](),
		cast: func(v any) any { return cast(v.(*D)) },
	})
	return d
}
