package debugui

import (
	"reflect"
	"testing"

	"github.com/plus3/phasecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inspected struct {
	Name    string
	Level   int8
	Weight  uint16
	Scale   float32
	Parent  *inspected
	private int
}

type label struct{ Text string }

type counter int

func TestFieldCacheSkipsUnexported(t *testing.T) {
	fc := newFieldCache()
	fields := fc.get(reflect.TypeFor[inspected]())

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Name", "Level", "Weight", "Scale", "Parent"}, names)
	assert.True(t, fields[4].IsPointer)

	// Cached slices are reused
	again := fc.get(reflect.TypeFor[inspected]())
	assert.Same(t, &fields[0], &again[0])

	assert.Empty(t, fc.get(reflect.TypeFor[counter]()))
}

func TestSettersEditThroughPointer(t *testing.T) {
	value := &inspected{Level: 1, Weight: 2}
	v := reflect.ValueOf(value).Elem()

	assert.True(t, setInt(v.FieldByName("Level"), 100))
	assert.False(t, setInt(v.FieldByName("Level"), 300), "int8 overflow")
	assert.Equal(t, int8(100), value.Level)

	assert.True(t, setUint(v.FieldByName("Weight"), 500))
	assert.False(t, setUint(v.FieldByName("Weight"), -1))
	assert.False(t, setUint(v.FieldByName("Weight"), 70000))
	assert.Equal(t, uint16(500), value.Weight)

	assert.True(t, setFloat(v.FieldByName("Scale"), 1.5))
	assert.Equal(t, float32(1.5), value.Scale)

	// Values not reached through a pointer are not settable
	assert.False(t, setInt(reflect.ValueOf(*value).FieldByName("Level"), 1))
}

func TestCollectKindsAndGroupByShape(t *testing.T) {
	w := ecs.NewWorld()
	w.AddEntity(ecs.NewEntity().With(label{Text: "a"}))
	w.AddEntity(ecs.NewEntity().With(label{Text: "b"}).With(counter(1)))
	w.AddEntity(ecs.NewEntity().With(label{Text: "c"}).With(counter(2)))

	kinds := collectKinds(w)
	require.Len(t, kinds, 2)
	assert.Equal(t, "debugui.counter", kinds[0].String())
	assert.Equal(t, "debugui.label", kinds[1].String())

	matching := w.QueryExact(ecs.NewShapeBuilder().With(ecs.KindOf[label]()).Build())
	groups := groupByShape(matching)
	require.Len(t, groups, 2)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 1, groups[1].Count)
}

func TestMatchesFilterAndPaging(t *testing.T) {
	assert.True(t, matchesFilter("", "anything"))
	assert.True(t, matchesFilter("POS", "{main.Position}"))
	assert.False(t, matchesFilter("vel", "{main.Position}", "3@1"))

	start, end := pageBounds(0, 10, 25)
	assert.Equal(t, []int{0, 10}, []int{start, end})
	start, end = pageBounds(2, 10, 25)
	assert.Equal(t, []int{20, 25}, []int{start, end})
	start, end = pageBounds(5, 10, 25)
	assert.Equal(t, []int{25, 25}, []int{start, end})
}
