package ecs

import (
	"fmt"
	"iter"

	"github.com/rotisserie/eris"
)

// Handle encodes the slot generation (upper 32 bits) and the slot index
// (lower 32 bits) of an entity inside an Arena.
type Handle uint64

func newHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the handle.
func (h Handle) Index() uint32 {
	return uint32(h & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the handle.
func (h Handle) Generation() uint32 {
	return uint32(h >> 32)
}

// IsZero reports whether the handle was never issued.
func (h Handle) IsZero() bool {
	return h == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d@%d", h.Index(), h.Generation())
}

type slot struct {
	entity     *Entity
	generation uint32
}

// Arena owns entities in generational slots. Removing an entity bumps the
// slot generation so handles to the previous occupant become stale.
type Arena struct {
	slots []slot
	free  []uint32
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		slots: make([]slot, 0, 64),
	}
}

// Insert takes ownership of the entity and returns its handle.
func (a *Arena) Insert(e *Entity) Handle {
	if e == nil {
		panic(eris.Wrap(ErrInvalidComponent, "cannot insert nil entity"))
	}
	if !e.handle.IsZero() {
		panic(eris.Wrapf(ErrEntityOwned, "entity %s", e.handle))
	}

	var h Handle
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]

		s := &a.slots[index]
		s.entity = e
		h = newHandle(index, s.generation)
	} else {
		index := uint32(len(a.slots))
		a.slots = append(a.slots, slot{entity: e, generation: 1})
		h = newHandle(index, 1)
	}

	e.handle = h
	a.live++
	return h
}

// Get resolves a handle. It returns false for stale or unknown handles.
func (a *Arena) Get(h Handle) (*Entity, bool) {
	s := a.lookup(h)
	if s == nil {
		return nil, false
	}
	return s.entity, true
}

// Contains reports whether the handle refers to a live entity.
func (a *Arena) Contains(h Handle) bool {
	return a.lookup(h) != nil
}

// Remove releases the entity behind the handle and makes the handle stale.
func (a *Arena) Remove(h Handle) error {
	s := a.lookup(h)
	if s == nil {
		return eris.Wrapf(ErrStaleHandle, "handle %s", h)
	}

	s.entity.handle = 0
	s.entity = nil
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}

	a.free = append(a.free, h.Index())
	a.live--
	return nil
}

// Len returns the number of live entities.
func (a *Arena) Len() int {
	return a.live
}

// All iterates live entities in slot order. Slots appended while iterating
// are not visited. The order is not stable across inserts and removals.
func (a *Arena) All() iter.Seq2[Handle, *Entity] {
	return func(yield func(Handle, *Entity) bool) {
		n := len(a.slots)
		for i := 0; i < n; i++ {
			s := &a.slots[i]
			if s.entity == nil {
				continue
			}
			if !yield(newHandle(uint32(i), s.generation), s.entity) {
				return
			}
		}
	}
}

func (a *Arena) lookup(h Handle) *slot {
	index := int(h.Index())
	if h.IsZero() || index >= len(a.slots) {
		return nil
	}
	s := &a.slots[index]
	if s.entity == nil || s.generation != h.Generation() {
		return nil
	}
	return s
}
