// Package ebiten drives a world from the Ebiten game loop and provides the
// Dear ImGui backend integration for the debug windows.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/phasecs/ecs"
	"github.com/plus3/phasecs/ecs/input"
	"github.com/plus3/phasecs/ecs/timer"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend and disables imgui.ini persistence.
func NewImguiBackend() ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}

// Screen is the render target resource, replaced before every render phase.
type Screen struct {
	Image *ebiten.Image
}

// Quit is a resource systems set to end the game after the current frame.
type Quit struct {
	Requested bool
}

// Game implements ebiten.Game on top of a world.
type Game struct {
	world   *ecs.World
	backend *ImguiBackend
	tracker inputTracker
	events  []input.Event
	keys    []ebiten.Key
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithImgui renders the Dear ImGui frame through backend. The debugui
// module builds its windows during the tick phase, inside that frame.
func WithImgui(backend ImguiBackend) GameOption {
	return func(g *Game) {
		g.backend = &backend
	}
}

// NewGame creates a Game for w and installs the Quit resource.
func NewGame(w *ecs.World, opts ...GameOption) *Game {
	g := &Game{world: w}
	for _, opt := range opts {
		opt(g)
	}
	ecs.SetResource(w.Resources, Quit{})
	return g
}

// Update runs one logic frame: every pending input event as an event phase,
// the update channels whose timers fired and finally a tick.
func (g *Game) Update() error {
	if g.backend != nil {
		g.backend.BeginFrame()
	}

	g.events = g.tracker.translate(g.poll(), g.events[:0])
	quit := false
	for _, e := range g.events {
		g.world.RunSystems(ecs.EventPhase(e))
		if e.Kind == input.CloseRequested {
			quit = true
		}
	}

	if ecs.HasResource[timer.Channel](g.world.Resources) {
		timer.Dispatch(g.world)
	}

	g.world.RunSystems(ecs.Tick())

	if g.backend != nil {
		g.backend.EndFrame()
	}

	if quit || ecs.MustResource[Quit](g.world.Resources).Requested {
		return ebiten.Termination
	}
	return nil
}

// Draw runs the render phase against screen and draws the ImGui overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	ecs.SetResource(g.world.Resources, Screen{Image: screen})
	g.world.RunSystems(ecs.Render())

	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	g.tracker.layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until the game ends. Closing the window is
// delivered to the world as an input.CloseRequested event.
func Run(g *Game, title string, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	return ebiten.RunGame(g)
}
