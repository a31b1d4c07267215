package ecs

import (
	"reflect"
	"strings"

	"github.com/kelindar/bitmap"
)

// Shape is an unordered, deduplicated set of component kinds. It describes
// both what an entity has and what a query requires. Shapes are values: a
// copy made with plain assignment never observes later Add or Remove calls on
// the original, and vice versa.
type Shape struct {
	bits bitmap.Bitmap
}

// Add inserts kind into the shape. Adding a kind twice is a no-op.
func (s *Shape) Add(kind Kind) {
	if s.Has(kind) {
		return
	}
	s.bits = s.bits.Clone(nil)
	s.add(kind)
}

// Remove deletes kind from the shape.
func (s *Shape) Remove(kind Kind) {
	if !s.Has(kind) {
		return
	}
	s.bits = s.bits.Clone(nil)
	s.remove(kind)
}

// With returns a copy of the shape that also holds kind.
func (s Shape) With(kind Kind) Shape {
	out := s.Clone()
	out.add(kind)
	return out
}

// add and remove mutate the backing words in place. They are only used on
// shapes whose bits are not shared, such as an entity's own shape.
func (s *Shape) add(kind Kind) {
	s.bits.Set(uint32(kind))
}

func (s *Shape) remove(kind Kind) {
	s.bits.Remove(uint32(kind))
}

// Has reports whether kind is part of the shape.
func (s Shape) Has(kind Kind) bool {
	return s.bits.Contains(uint32(kind))
}

// Contains reports whether every kind of query is also part of s.
// Kinds in s that the query does not mention are ignored.
func (s Shape) Contains(query Shape) bool {
	for i, word := range query.bits {
		if word == 0 {
			continue
		}
		if i >= len(s.bits) || word&^s.bits[i] != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both shapes hold exactly the same kinds.
func (s Shape) Equal(other Shape) bool {
	return s.Contains(other) && other.Contains(s)
}

// Len returns the number of kinds in the shape.
func (s Shape) Len() int {
	return s.bits.Count()
}

// IsEmpty reports whether the shape holds no kinds. An empty query matches
// every entity.
func (s Shape) IsEmpty() bool {
	return s.Len() == 0
}

// Kinds returns the kinds of the shape in ascending order.
func (s Shape) Kinds() []Kind {
	out := make([]Kind, 0, s.Len())
	s.bits.Range(func(x uint32) {
		out = append(out, Kind(x))
	})
	return out
}

// Types returns the Go types of the shape's kinds in ascending kind order.
func (s Shape) Types() []reflect.Type {
	kinds := s.Kinds()
	out := make([]reflect.Type, len(kinds))
	for i, k := range kinds {
		out[i] = k.Type()
	}
	return out
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	return Shape{bits: s.bits.Clone(nil)}
}

func (s Shape) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// ShapeBuilder accumulates kinds fluently:
//
//	query := ecs.NewShapeBuilder().
//		With(ecs.KindOf[Position]()).
//		With(ecs.KindOf[Velocity]()).
//		Build()
type ShapeBuilder struct {
	shape Shape
}

// NewShapeBuilder returns an empty builder.
func NewShapeBuilder() *ShapeBuilder {
	return &ShapeBuilder{}
}

// With adds a kind to the shape being built.
func (b *ShapeBuilder) With(kind Kind) *ShapeBuilder {
	b.shape.add(kind)
	return b
}

// WithType adds the kind of t to the shape being built.
func (b *ShapeBuilder) WithType(t reflect.Type) *ShapeBuilder {
	return b.With(KindFor(t))
}

// Build returns the accumulated shape. The builder can keep being used.
func (b *ShapeBuilder) Build() Shape {
	return b.shape.Clone()
}

// ShapeOf returns the required kinds of a view struct. See NewView for the
// accepted struct layout.
func ShapeOf[T any]() Shape {
	return NewView[T]().Shape()
}
