package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Entity is a heterogeneous bag of components. It holds at most one value per
// component kind, and its Shape always mirrors the set of kinds it holds.
type Entity struct {
	handle     Handle
	components map[Kind]any
	shape      Shape
}

// NewEntity creates an entity without components.
func NewEntity() *Entity {
	return &Entity{
		components: make(map[Kind]any),
	}
}

// With adds the component and returns the entity so calls can be chained.
// Pointers are dereferenced and the pointed-to value is copied.
func (e *Entity) With(component any) *Entity {
	e.Set(component)
	return e
}

// Set inserts or overwrites the component of the value's kind.
func (e *Entity) Set(component any) {
	kind, boxed := boxComponent(component)
	e.components[kind] = boxed
	e.shape.add(kind)
}

// Handle returns the arena handle of the entity, or zero if it was never inserted.
func (e *Entity) Handle() Handle {
	return e.handle
}

// Shape returns a copy of the entity's shape.
func (e *Entity) Shape() Shape {
	return e.shape.Clone()
}

// Matches reports whether the entity holds every kind in query.
func (e *Entity) Matches(query Shape) bool {
	return e.shape.Contains(query)
}

// Len returns the number of components on the entity.
func (e *Entity) Len() int {
	return len(e.components)
}

// Kinds returns the component kinds of the entity in ascending order.
func (e *Entity) Kinds() []Kind {
	return e.shape.Kinds()
}

// Component returns a pointer to the component of the given kind as an
// untyped value, or nil.
func (e *Entity) Component(kind Kind) any {
	return e.components[kind]
}

// RemoveKind deletes the component of the given kind.
func (e *Entity) RemoveKind(kind Kind) {
	delete(e.components, kind)
	e.shape.remove(kind)
}

// Get returns a pointer to the entity's T component, or nil if absent.
// The pointer stays valid while the component is attached.
func Get[T any](e *Entity) *T {
	v, ok := e.components[KindOf[T]()]
	if !ok {
		return nil
	}
	return v.(*T)
}

// Read returns a copy of the entity's T component.
func Read[T any](e *Entity) (T, bool) {
	if ptr := Get[T](e); ptr != nil {
		return *ptr, true
	}
	var zero T
	return zero, false
}

// Must returns the entity's T component and panics if it is absent.
func Must[T any](e *Entity) *T {
	ptr := Get[T](e)
	if ptr == nil {
		panic(eris.Wrapf(ErrComponentNotFound, "component %s on entity %s", reflect.TypeFor[T](), e.handle))
	}
	return ptr
}

// Has reports whether the entity holds a T component.
func Has[T any](e *Entity) bool {
	_, ok := e.components[KindOf[T]()]
	return ok
}

// Remove deletes the entity's T component, if any.
func Remove[T any](e *Entity) {
	e.RemoveKind(KindOf[T]())
}

// boxComponent copies the component into a freshly allocated value of its
// concrete type and returns the kind together with a pointer to the copy.
func boxComponent(component any) (Kind, any) {
	if component == nil {
		panic(eris.Wrap(ErrInvalidComponent, "component cannot be nil"))
	}

	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			panic(eris.Wrapf(ErrInvalidComponent, "nil %s", value.Type()))
		}
		value = value.Elem()
	}

	// Components can be structs or primitives (int, string, etc.)
	// But not pointers, maps, channels, or functions (those aren't value types)
	switch value.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic(eris.Wrapf(ErrInvalidComponent, "%s: components cannot be pointers, maps, channels, or functions", value.Type()))
	}

	boxed := reflect.New(value.Type())
	boxed.Elem().Set(value)
	return KindFor(value.Type()), boxed.Interface()
}
