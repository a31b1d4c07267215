package main

import (
	"fmt"
	"math/rand"

	"github.com/plus3/phasecs/ecs"
)

// counter is the payload shared by every stress component.
type counter struct {
	Value float64
	Hits  int
}

func (c *counter) bump(d float64) {
	c.Value += d
	c.Hits++
}

type bumper interface {
	bump(d float64)
}

type (
	C00 struct{ counter }
	C01 struct{ counter }
	C02 struct{ counter }
	C03 struct{ counter }
	C04 struct{ counter }
	C05 struct{ counter }
	C06 struct{ counter }
	C07 struct{ counter }
	C08 struct{ counter }
	C09 struct{ counter }
	C10 struct{ counter }
	C11 struct{ counter }
	C12 struct{ counter }
	C13 struct{ counter }
	C14 struct{ counter }
	C15 struct{ counter }
)

var components = []func() any{
	func() any { return C00{} }, func() any { return C01{} },
	func() any { return C02{} }, func() any { return C03{} },
	func() any { return C04{} }, func() any { return C05{} },
	func() any { return C06{} }, func() any { return C07{} },
	func() any { return C08{} }, func() any { return C09{} },
	func() any { return C10{} }, func() any { return C11{} },
	func() any { return C12{} }, func() any { return C13{} },
	func() any { return C14{} }, func() any { return C15{} },
}

var componentKinds = []ecs.Kind{
	ecs.KindOf[C00](), ecs.KindOf[C01](), ecs.KindOf[C02](), ecs.KindOf[C03](),
	ecs.KindOf[C04](), ecs.KindOf[C05](), ecs.KindOf[C06](), ecs.KindOf[C07](),
	ecs.KindOf[C08](), ecs.KindOf[C09](), ecs.KindOf[C10](), ecs.KindOf[C11](),
	ecs.KindOf[C12](), ecs.KindOf[C13](), ecs.KindOf[C14](), ecs.KindOf[C15](),
}

// Update channels driven every frame. Systems registered for a key only run
// during that key's update pass.
const (
	updatePhysics ecs.UpdateKey = iota + 1
	updateAI
	updateNetwork
)

var updateKeys = []ecs.UpdateKey{updatePhysics, updateAI, updateNetwork}

// frameEvent is the payload of the synthetic event phase run each frame.
type frameEvent struct {
	Frame int64
}

// NewRandomEntity builds an entity with numComponents distinct random components.
func NewRandomEntity(rng *rand.Rand, numComponents int) *ecs.Entity {
	e := ecs.NewEntity()
	for _, i := range rng.Perm(len(components))[:numComponents] {
		e.Set(components[i]())
	}
	return e
}

// RegisterRandomSystems adds count systems with random one or two kind queries
// spread across every phase.
func RegisterRandomSystems(w *ecs.World, rng *rand.Rand, count int) {
	for i := 0; i < count; i++ {
		picks := rng.Perm(len(componentKinds))[:rng.Intn(2)+1]
		builder := ecs.NewShapeBuilder()
		for _, p := range picks {
			builder.With(componentKinds[p])
		}
		query := builder.Build()
		target := componentKinds[picks[0]]

		fn := func(entity *ecs.Entity, _ *ecs.Resources, _ ecs.RunPhase) {
			entity.Component(target).(bumper).bump(1)
		}

		var system ecs.System
		switch i % 4 {
		case 0:
			system = ecs.SystemAtUpdate(updateKeys[rng.Intn(len(updateKeys))], query, fn)
		case 1:
			system = ecs.SystemAtEvent(query, fn)
		case 2:
			system = ecs.SystemAtTick(query, fn)
		default:
			system = ecs.SystemAtRender(query, fn)
		}
		w.AddSystem(system.Named(fmt.Sprintf("stress.system%03d", i)))
	}
}

// churn replaces up to n random live entities per tick through Commands.
type churn struct {
	n       int
	rng     *rand.Rand
	handles []ecs.Handle
}

func (c *churn) service(resources *ecs.Resources, _ ecs.RunPhase) {
	if c.n == 0 || len(c.handles) == 0 {
		return
	}
	cmds := ecs.MustResource[ecs.Commands](resources)
	spawned := make([]*ecs.Entity, 0, c.n)
	for i := 0; i < c.n && len(c.handles) > 0; i++ {
		j := c.rng.Intn(len(c.handles))
		cmds.Despawn(c.handles[j])
		c.handles[j] = c.handles[len(c.handles)-1]
		c.handles = c.handles[:len(c.handles)-1]

		e := NewRandomEntity(c.rng, c.rng.Intn(5)+1)
		cmds.Spawn(e)
		spawned = append(spawned, e)
	}

	// Handles are assigned when the spawns are applied.
	cmds.Defer(func() {
		for _, e := range spawned {
			c.handles = append(c.handles, e.Handle())
		}
	})
}

// track records the handles of every live entity.
func (c *churn) track(w *ecs.World) {
	c.handles = c.handles[:0]
	for h := range w.Entities() {
		c.handles = append(c.handles, h)
	}
}
