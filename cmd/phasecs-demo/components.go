package main

import (
	"image/color"
	"maps"
	"slices"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	X, Y float32
}

type Sprite struct {
	Color  color.RGBA
	Radius float32
}

// Player marks the particle steered with the arrow keys.
type Player struct {
	Speed float32
}

// Bounds is the playfield size, kept in sync with the window.
type Bounds struct {
	Width, Height float32
}

// Population is the number of live entities, recounted every tick.
type Population struct {
	Entities int
	counting int
}

// DebugInfo holds the lines shown in the overlay, keyed by label.
type DebugInfo struct {
	Values map[string]string
}

func (d *DebugInfo) Set(key, value string) {
	if d.Values == nil {
		d.Values = make(map[string]string)
	}
	d.Values[key] = value
}

// Lines returns "key: value" lines sorted by key.
func (d *DebugInfo) Lines() []string {
	keys := slices.Sorted(maps.Keys(d.Values))
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + ": " + d.Values[k]
	}
	return lines
}
