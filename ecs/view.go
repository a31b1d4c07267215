package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View maps an entity's components onto a struct of component pointers.
// The type T should be a struct with embedded or named pointer fields for
// each component type. Named fields can be marked as optional using the
// `ecs:"optional"` struct tag:
//
//	type mover struct {
//		*Position
//		*Velocity
//		Health *Health `ecs:"optional"`
//	}
type View[T any] struct {
	kinds       []Kind
	optional    []bool
	fieldOffset []uintptr
	required    Shape
}

// NewView creates a view for the given struct type. It panics on structs
// with non-pointer fields or unknown tags.
func NewView[T any]() *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		kinds:       make([]Kind, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		kind := KindFor(fieldType.Elem())
		v.kinds = append(v.kinds, kind)
		v.fieldOffset = append(v.fieldOffset, field.Offset)

		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		v.optional = append(v.optional, isOptional)

		if !isOptional {
			v.required.add(kind)
		}
	}

	return v
}

// Shape returns the required kinds of the view.
func (v *View[T]) Shape() Shape {
	return v.required.Clone()
}

// Fill populates the struct behind ptr with the entity's components.
// Returns false if the entity is missing any required component.
// Optional components are set to nil if not present.
func (v *View[T]) Fill(e *Entity, ptr *T) bool {
	if !e.shape.Contains(v.required) {
		return false
	}

	// Use unsafe.Pointer to directly access the struct's memory
	// This avoids reflection overhead in the hot path
	structPtr := unsafe.Pointer(ptr)

	for i, kind := range v.kinds {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		component, ok := e.components[kind]
		if !ok {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// Components are stored as *C inside an interface; the data word is the pointer.
		componentPtr := (*iface)(unsafe.Pointer(&component)).data
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}

	return true
}

// Get returns a populated view struct for the entity, or nil if the entity
// doesn't have all the required components.
func (v *View[T]) Get(e *Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter returns an iterator over every live entity of the world that has the
// view's required components.
func (v *View[T]) Iter(w *World) iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		var result T
		for h, e := range w.arena.All() {
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(h, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs.
func (v *View[T]) Values(w *World) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter(w) {
			if !yield(value) {
				return
			}
		}
	}
}

// iface mirrors the runtime layout of an any value.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
