// Package registry catalogs the native functions and object types a host
// exposes to its scripts. A Registry is built once, before any script is
// created, and shared read-only across script instances.
//
// Free functions become script globals. Object types carry a method table
// and optional base-type relations; passing a registered object into a
// script attaches that table, and declaring a base copies the base's
// methods into the derived table at registration time.
package registry

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"sync"
)

var (
	ErrDuplicateFunction = errors.New("function name already registered")
	ErrDuplicateMethod   = errors.New("method name already registered")
	ErrDuplicateType     = errors.New("object type already registered")
	ErrBaseNotRegistered = errors.New("base type not registered")
)

// ObjectTypeInfo is the registered form of an object type: its identity,
// the metatable name scripts see, and the complete method table including
// inherited entries. Immutable once registered.
type ObjectTypeInfo struct {
	typ       reflect.Type
	metatable string
	methods   map[string]Method
}

// Type returns the pointer type identity of the registered object type.
func (i *ObjectTypeInfo) Type() reflect.Type { return i.typ }

// MetatableName returns the per-type tag used for the script-side method
// table.
func (i *ObjectTypeInfo) MetatableName() string { return i.metatable }

// Methods iterates over the method table, inherited entries included.
func (i *ObjectTypeInfo) Methods() iter.Seq2[string, Method] {
	return maps.All(i.methods)
}

// Registry holds the host's exported functions and object types.
//
// Lookups take a read lock, so concurrent scripts may consult one registry;
// registration must still finish before the first script is created.
type Registry struct {
	mu      sync.RWMutex
	funcs   map[string]Callback
	objects map[reflect.Type]*ObjectTypeInfo
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		funcs:   make(map[string]Callback),
		objects: make(map[reflect.Type]*ObjectTypeInfo),
	}
}

// AddFunc registers a free function under name. Wrap the native callable
// with a Func* adapter; a Go method value binds its receiver and registers
// the same way. Registering a name twice is an error.
func (r *Registry) AddFunc(name string, cb Callback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateFunction)
	}
	r.funcs[name] = cb
	return nil
}

// Func returns the callback registered under name.
func (r *Registry) Func(name string) (Callback, bool) {
	r.mu.RLock()
	cb, ok := r.funcs[name]
	r.mu.RUnlock()
	return cb, ok
}

// All iterates over every registered free function.
func (r *Registry) All() iter.Seq2[string, Callback] {
	r.mu.RLock()
	snapshot := maps.Clone(r.funcs)
	r.mu.RUnlock()
	return maps.All(snapshot)
}

// AddObjectType registers the described object type. Any builder misuse
// recorded on the description is returned here. Declared bases must already
// be registered; their method tables are copied into the new type's table,
// re-dispatched through the description's upcast, and a name collision
// between local and inherited methods is an error.
func (r *Registry) AddObjectType(d *Description) error {
	if len(d.errs) > 0 {
		return errors.Join(d.errs...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.objects[d.typ]; ok {
		return fmt.Errorf("%s: %w", d.typ, ErrDuplicateType)
	}

	methods := maps.Clone(d.methods)
	for _, base := range d.bases {
		info, ok := r.objects[base.typ]
		if !ok {
			return fmt.Errorf("%s: %w", base.typ, ErrBaseNotRegistered)
		}
		for name, m := range info.methods {
			if _, exists := methods[name]; exists {
				return fmt.Errorf("method %q inherited from %s: %w", name, base.typ, ErrDuplicateMethod)
			}
			methods[name] = inheritedMethod{derived: d.typ, cast: base.cast, target: m}
		}
	}

	r.objects[d.typ] = &ObjectTypeInfo{
		typ:       d.typ,
		metatable: "ObjectType:" + d.typ.String(),
		methods:   methods,
	}
	return nil
}

// ObjectType returns the info registered for the given pointer type
// identity. Used when an object argument crosses into a script.
func (r *Registry) ObjectType(t reflect.Type) (*ObjectTypeInfo, bool) {
	r.mu.RLock()
	info, ok := r.objects[t]
	r.mu.RUnlock()
	return info, ok
}
