package ecs_test

import "github.com/plus3/phasecs/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Temperature float64

// Update channels used across tests
const (
	updateFPS ecs.UpdateKey = iota + 1
	updateAutosave
)

// recorder collects callback invocations in order.
type recorder struct {
	calls []string
}

func (r *recorder) service(name string) ecs.ServiceFunc {
	return func(*ecs.Resources, ecs.RunPhase) {
		r.calls = append(r.calls, name)
	}
}

func (r *recorder) system(name string) ecs.SystemFunc {
	return func(e *ecs.Entity, _ *ecs.Resources, _ ecs.RunPhase) {
		if n := ecs.Get[Name](e); n != nil {
			r.calls = append(r.calls, name+":"+n.Value)
			return
		}
		r.calls = append(r.calls, name)
	}
}

func shapeOf(kinds ...ecs.Kind) ecs.Shape {
	b := ecs.NewShapeBuilder()
	for _, k := range kinds {
		b.With(k)
	}
	return b.Build()
}

func named(value string, components ...any) *ecs.Entity {
	e := ecs.NewEntity().With(Name{Value: value})
	for _, c := range components {
		e.Set(c)
	}
	return e
}
