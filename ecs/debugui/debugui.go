// Package debugui provides Dear ImGui inspection windows for a running world.
// The windows are built during the tick phase, so the frame pump must open an
// ImGui frame before running ecs.Tick and close it afterwards.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/phasecs/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a resource.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Inspector is the resource holding the state of every debug window.
type Inspector struct {
	Visible bool

	world       *ecs.World
	browser     EntityBrowser
	components  ComponentInspector
	resources   ResourceViewer
	performance PerformanceStats
	queries     QueryDebugger
}

// NewInspector creates the window state for w.
func NewInspector(w *ecs.World) Inspector {
	return Inspector{
		Visible:     true,
		world:       w,
		browser:     NewEntityBrowser(100),
		components:  NewComponentInspector(),
		resources:   ResourceViewer{},
		performance: NewPerformanceStats(120),
		queries:     NewQueryDebugger(),
	}
}

// Toggle flips the visibility of the debug windows.
func (in *Inspector) Toggle() {
	in.Visible = !in.Visible
}

func (in *Inspector) render(deltaTime float32) {
	if !in.Visible || in.world == nil {
		return
	}
	in.browser.Render(in.world)
	in.components.Render(in.world, in.browser.Selected())
	in.resources.Render(in.world)
	in.performance.Render(in.world, deltaTime)
	in.queries.Render(in.world)
}

func captureInput(resources *ecs.Resources, _ ecs.RunPhase) {
	state := ecs.MustResource[ImguiInputState](resources)
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()
}

func renderItem(entity *ecs.Entity, _ *ecs.Resources, _ ecs.RunPhase) {
	if item := ecs.Get[ImguiItem](entity); item.Render != nil {
		item.Render()
	}
}

func renderWindows(resources *ecs.Resources, _ ecs.RunPhase) {
	deltaTime := float32(1.0 / 60.0)
	if delta := frameDelta(resources); delta > 0 {
		deltaTime = delta
	}
	ecs.MustResource[Inspector](resources).render(deltaTime)
}

// Module installs the Inspector and ImguiInputState resources, a tick system
// rendering every ImguiItem and an after-tick service drawing the windows.
func Module() ecs.Module {
	return ecs.Module{
		Name: "debugui",
		Load: func(w *ecs.World) error {
			ecs.SetResource(w.Resources, ImguiInputState{})
			ecs.SetResource(w.Resources, NewInspector(w))

			w.AddBeforeService(ecs.ServiceAtTick(captureInput).Named("debugui.captureInput"))
			w.AddSystem(ecs.SystemAtTick(
				ecs.ShapeOf[struct{ *ImguiItem }](),
				renderItem,
			).Named("debugui.renderItem"))
			w.AddAfterService(ecs.ServiceAtTick(renderWindows).Named("debugui.renderWindows"))
			return nil
		},
	}
}
