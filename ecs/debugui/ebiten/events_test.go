package ebiten

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/phasecs/ecs/input"
	"github.com/stretchr/testify/assert"
)

func TestTranslatePrimesOnFirstSample(t *testing.T) {
	var tracker inputTracker
	events := tracker.translate(frameInput{cursorX: 10, cursorY: 20, focused: true}, nil)
	assert.Empty(t, events)

	events = tracker.translate(frameInput{cursorX: 10, cursorY: 20, focused: true}, nil)
	assert.Empty(t, events)
}

func TestTranslateKeysAndMouse(t *testing.T) {
	var tracker inputTracker
	tracker.translate(frameInput{focused: true}, nil)

	events := tracker.translate(frameInput{
		pressed:  []ebiten.Key{ebiten.KeyA},
		released: []ebiten.Key{ebiten.KeyArrowUp},
		cursorX:  5,
		cursorY:  7,
		down:     []input.MouseButton{input.MouseLeft},
		focused:  true,
	}, nil)

	assert.Equal(t, []input.Event{
		{Kind: input.KeyPressed, Key: "A"},
		{Kind: input.KeyReleased, Key: "ArrowUp"},
		{Kind: input.MouseMoved, X: 5, Y: 7},
		{Kind: input.MousePressed, Button: input.MouseLeft, X: 5, Y: 7},
	}, events)
}

func TestTranslateWindowEvents(t *testing.T) {
	var tracker inputTracker
	tracker.translate(frameInput{focused: true}, nil)

	tracker.layout(800, 600)
	events := tracker.translate(frameInput{focused: false, closing: true}, nil)

	assert.Equal(t, []input.Event{
		{Kind: input.Resized, Width: 800, Height: 600},
		{Kind: input.FocusChanged, Focused: false},
		{Kind: input.CloseRequested},
	}, events)

	// Layout with an unchanged size does not produce another resize
	tracker.layout(800, 600)
	assert.Empty(t, tracker.translate(frameInput{focused: false}, nil))
}
