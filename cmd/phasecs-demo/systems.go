package main

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/phasecs/ecs"
	"github.com/plus3/phasecs/ecs/debugui"
	debugui_ebiten "github.com/plus3/phasecs/ecs/debugui/ebiten"
	"github.com/plus3/phasecs/ecs/input"
	"github.com/plus3/phasecs/ecs/timing"
)

const (
	updateFPS ecs.UpdateKey = iota + 1
)

var pastelColors = []color.RGBA{
	{255, 179, 186, 255},
	{179, 229, 252, 255},
	{255, 223, 186, 255},
	{186, 255, 201, 255},
	{255, 200, 221, 255},
	{217, 186, 255, 255},
}

var moving = ecs.ShapeOf[struct {
	*Position
	*Velocity
}]()

var steered = ecs.ShapeOf[struct {
	*Velocity
	*Player
}]()

var drawable = ecs.ShapeOf[struct {
	*Position
	*Sprite
}]()

func newParticle(x, y float32) *ecs.Entity {
	return ecs.NewEntity().
		With(Position{X: x, Y: y}).
		With(Velocity{X: rand.Float32()*120 - 60, Y: rand.Float32()*120 - 60}).
		With(Sprite{Color: pastelColors[rand.IntN(len(pastelColors))], Radius: 2 + rand.Float32()*3})
}

func newPlayer(x, y float32) *ecs.Entity {
	return ecs.NewEntity().
		With(Position{X: x, Y: y}).
		With(Velocity{}).
		With(Sprite{Color: color.RGBA{255, 255, 255, 255}, Radius: 8}).
		With(Player{Speed: 200})
}

func handleWindowEvents(resources *ecs.Resources, phase ecs.RunPhase) {
	e, ok := input.From(phase)
	if !ok {
		return
	}
	switch e.Kind {
	case input.Resized:
		*ecs.MustResource[Bounds](resources) = Bounds{Width: float32(e.Width), Height: float32(e.Height)}
	case input.KeyPressed:
		switch e.Key {
		case "Escape":
			ecs.MustResource[debugui_ebiten.Quit](resources).Requested = true
		case "F1":
			if inspector := ecs.GetResource[debugui.Inspector](resources); inspector != nil {
				inspector.Toggle()
			}
		}
	}
}

// spawnBurst adds particles where the left mouse button was pressed.
func spawnBurst(resources *ecs.Resources, phase ecs.RunPhase) {
	e, ok := input.From(phase)
	if !ok || e.Kind != input.MousePressed || e.Button != input.MouseLeft {
		return
	}
	if state := ecs.GetResource[debugui.ImguiInputState](resources); state != nil && state.WantCaptureMouse {
		return
	}
	cmds := ecs.MustResource[ecs.Commands](resources)
	for i := 0; i < 20; i++ {
		cmds.Spawn(newParticle(float32(e.X), float32(e.Y)))
	}
}

func steer(entity *ecs.Entity, resources *ecs.Resources, _ ecs.RunPhase) {
	keyboard := ecs.MustResource[input.Keyboard](resources)
	player := ecs.Get[Player](entity)
	vel := ecs.Get[Velocity](entity)
	vel.X = float32(keyboard.Axis("ArrowLeft", "ArrowRight")) * player.Speed
	vel.Y = float32(keyboard.Axis("ArrowUp", "ArrowDown")) * player.Speed
}

func move(entity *ecs.Entity, resources *ecs.Resources, _ ecs.RunPhase) {
	dt := float32(ecs.MustResource[timing.Context](resources).DeltaSeconds())
	bounds := ecs.MustResource[Bounds](resources)
	pos := ecs.Get[Position](entity)
	vel := ecs.Get[Velocity](entity)

	pos.X += vel.X * dt
	pos.Y += vel.Y * dt

	if pos.X < 0 || pos.X > bounds.Width {
		vel.X = -vel.X
		pos.X = clamp(pos.X, 0, bounds.Width)
	}
	if pos.Y < 0 || pos.Y > bounds.Height {
		vel.Y = -vel.Y
		pos.Y = clamp(pos.Y, 0, bounds.Height)
	}
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}

func startCount(resources *ecs.Resources, _ ecs.RunPhase) {
	ecs.MustResource[Population](resources).counting = 0
}

// countEntity matches every entity through an empty query.
func countEntity(_ *ecs.Entity, resources *ecs.Resources, _ ecs.RunPhase) {
	ecs.MustResource[Population](resources).counting++
}

func publishCount(resources *ecs.Resources, _ ecs.RunPhase) {
	population := ecs.MustResource[Population](resources)
	population.Entities = population.counting
}

// refreshDebugInfo runs on the FPS update channel.
func refreshDebugInfo(resources *ecs.Resources, _ ecs.RunPhase) {
	tc := ecs.MustResource[timing.Context](resources)
	info := ecs.MustResource[DebugInfo](resources)
	info.Set("fps", fmt.Sprintf("%.1f", tc.FPS()))
	info.Set("frames", fmt.Sprintf("%d", tc.Frames()))
	info.Set("entities", fmt.Sprintf("%d", ecs.MustResource[Population](resources).Entities))
}

func clearScreen(resources *ecs.Resources, _ ecs.RunPhase) {
	ecs.MustResource[debugui_ebiten.Screen](resources).Image.Fill(color.RGBA{24, 24, 32, 255})
}

func draw(entity *ecs.Entity, resources *ecs.Resources, _ ecs.RunPhase) {
	screen := ecs.MustResource[debugui_ebiten.Screen](resources).Image
	pos := ecs.Get[Position](entity)
	sprite := ecs.Get[Sprite](entity)
	vector.DrawFilledCircle(screen, pos.X, pos.Y, sprite.Radius, sprite.Color, true)
}

func drawOverlay(resources *ecs.Resources, _ ecs.RunPhase) {
	screen := ecs.MustResource[debugui_ebiten.Screen](resources).Image
	ebitenutil.DebugPrint(screen, strings.Join(ecs.MustResource[DebugInfo](resources).Lines(), "\n"))
}

// debugInfoWindow lists DebugInfo inside the ImGui frame.
func debugInfoWindow(info *DebugInfo) func() {
	return func() {
		imgui.Begin("Debug Info")
		for _, line := range info.Lines() {
			imgui.BulletText(line)
		}
		imgui.End()
	}
}
