package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// Resources stores singleton values shared by systems and services. Values are
// keyed by their type and, optionally, by an additional tag type so several
// values of the same type can coexist.
type Resources struct {
	values *intmap.Map[uint64, any]
	order  []uint64
}

// ResourceInfo describes a stored resource.
type ResourceInfo struct {
	Type reflect.Type
	Tag  reflect.Type
}

func (ri ResourceInfo) String() string {
	if ri.Tag == nil {
		return ri.Type.String()
	}
	return ri.Type.String() + "#" + ri.Tag.String()
}

// NewResources creates an empty registry.
func NewResources() *Resources {
	return &Resources{
		values: intmap.New[uint64, any](32),
	}
}

func resourceKey(base, tag Kind) uint64 {
	return uint64(base)<<32 | uint64(tag)
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return r.values.Len()
}

// Entries describes the stored resources in insertion order.
func (r *Resources) Entries() []ResourceInfo {
	out := make([]ResourceInfo, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, ResourceInfo{
			Type: Kind(key >> 32).Type(),
			Tag:  Kind(key & 0xFFFFFFFF).Type(),
		})
	}
	return out
}

// SetResource stores value as the T resource. An existing T resource is
// overwritten in place, so pointers obtained earlier observe the new value.
func SetResource[T any](r *Resources, value T) {
	setResource(r, resourceKey(KindOf[T](), 0), value)
}

// GetResource returns the T resource, or nil if it was never set.
func GetResource[T any](r *Resources) *T {
	return getResource[T](r, resourceKey(KindOf[T](), 0))
}

// HasResource reports whether a T resource is stored.
func HasResource[T any](r *Resources) bool {
	_, ok := r.values.Get(resourceKey(KindOf[T](), 0))
	return ok
}

// MustResource returns the T resource and panics if it was never set.
// Systems use it for resources that must be configured at startup.
func MustResource[T any](r *Resources) *T {
	ptr := GetResource[T](r)
	if ptr == nil {
		panic(eris.Wrapf(ErrResourceNotFound, "resource %s", reflect.TypeFor[T]()))
	}
	return ptr
}

// LookupResource returns the T resource or an ErrResourceNotFound error.
// Module loaders use it to report missing dependencies without panicking.
func LookupResource[T any](r *Resources) (*T, error) {
	ptr := GetResource[T](r)
	if ptr == nil {
		return nil, eris.Wrapf(ErrResourceNotFound, "resource %s", reflect.TypeFor[T]())
	}
	return ptr, nil
}

// RemoveResource deletes the T resource.
func RemoveResource[T any](r *Resources) {
	r.remove(resourceKey(KindOf[T](), 0))
}

// SetTagged stores value as the T resource distinguished by Tag.
func SetTagged[Tag, T any](r *Resources, value T) {
	setResource(r, resourceKey(KindOf[T](), KindOf[Tag]()), value)
}

// GetTagged returns the T resource tagged with Tag, or nil.
func GetTagged[Tag, T any](r *Resources) *T {
	return getResource[T](r, resourceKey(KindOf[T](), KindOf[Tag]()))
}

// HasTagged reports whether a T resource tagged with Tag is stored.
func HasTagged[Tag, T any](r *Resources) bool {
	_, ok := r.values.Get(resourceKey(KindOf[T](), KindOf[Tag]()))
	return ok
}

// MustTagged returns the T resource tagged with Tag and panics if absent.
func MustTagged[Tag, T any](r *Resources) *T {
	ptr := GetTagged[Tag, T](r)
	if ptr == nil {
		panic(eris.Wrapf(ErrResourceNotFound, "resource %s tagged %s", reflect.TypeFor[T](), reflect.TypeFor[Tag]()))
	}
	return ptr
}

// RemoveTagged deletes the T resource tagged with Tag.
func RemoveTagged[Tag, T any](r *Resources) {
	r.remove(resourceKey(KindOf[T](), KindOf[Tag]()))
}

func setResource[T any](r *Resources, key uint64, value T) {
	if existing, ok := r.values.Get(key); ok {
		*existing.(*T) = value
		return
	}

	ptr := new(T)
	*ptr = value
	r.values.Put(key, ptr)
	r.order = append(r.order, key)
}

func getResource[T any](r *Resources, key uint64) *T {
	v, ok := r.values.Get(key)
	if !ok {
		return nil
	}
	return v.(*T)
}

func (r *Resources) remove(key uint64) {
	if _, ok := r.values.Get(key); !ok {
		return
	}
	r.values.Del(key)
	if i := slices.Index(r.order, key); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}
