package ecs_test

import (
	"fmt"

	"github.com/plus3/phasecs/ecs"
)

// ExampleCommands queues structural changes from inside a sweep. They are
// applied when the phase run completes.
func ExampleCommands() {
	world := ecs.NewWorld()

	world.AddSystem(ecs.SystemAtTick(ecs.ShapeOf[struct{ *Hitpoints }](), func(e *ecs.Entity, r *ecs.Resources, _ ecs.RunPhase) {
		if ecs.Get[Hitpoints](e).Current <= 0 {
			cmds := ecs.MustResource[ecs.Commands](r)
			cmds.Despawn(e.Handle())
			cmds.Spawn(ecs.NewEntity().With(Transform{}))
		}
	}))

	world.AddEntity(ecs.NewEntity().With(Hitpoints{Current: 0}))
	world.AddEntity(ecs.NewEntity().With(Hitpoints{Current: 5}))

	world.RunSystems(ecs.Tick())

	fmt.Println("entities:", world.Len())
	fmt.Println("with hitpoints:", len(world.QueryExact(ecs.ShapeOf[struct{ *Hitpoints }]())))

	// Output:
	// entities: 2
	// with hitpoints: 1
}
