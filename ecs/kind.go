package ecs

import (
	"reflect"
	"sync"
)

// Kind identifies a component, resource or tag type. Kinds are assigned on
// first use and stay stable for the life of the process. The zero Kind is
// never assigned to a type.
type Kind uint32

type kindCatalog struct {
	mu    sync.RWMutex
	ids   map[reflect.Type]Kind
	types []reflect.Type
}

var kinds = &kindCatalog{
	ids:   make(map[reflect.Type]Kind),
	types: []reflect.Type{nil},
}

func (c *kindCatalog) of(t reflect.Type) Kind {
	c.mu.RLock()
	k, ok := c.ids[t]
	c.mu.RUnlock()
	if ok {
		return k
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.ids[t]; ok {
		return k
	}

	k = Kind(len(c.types))
	c.ids[t] = k
	c.types = append(c.types, t)
	return k
}

func (c *kindCatalog) typeOf(k Kind) reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(k) >= len(c.types) {
		return nil
	}
	return c.types[k]
}

// KindOf returns the Kind for type T.
func KindOf[T any]() Kind {
	return kinds.of(reflect.TypeFor[T]())
}

// KindFor returns the Kind for the given type.
func KindFor(t reflect.Type) Kind {
	if t == nil {
		return 0
	}
	return kinds.of(t)
}

// Type returns the Go type this kind was assigned to, or nil for unknown kinds.
func (k Kind) Type() reflect.Type {
	return kinds.typeOf(k)
}

func (k Kind) String() string {
	if t := k.Type(); t != nil {
		return t.String()
	}
	return "<none>"
}
