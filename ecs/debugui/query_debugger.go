package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/phasecs/ecs"
)

type shapeCount struct {
	Shape string
	Count int
}

type queryDebuggerCache struct {
	kinds   []ecs.Kind
	lastLen int
	age     int
}

// QueryDebugger lets the user pick component kinds and shows which entities
// a query over those kinds would visit.
type QueryDebugger struct {
	selected map[ecs.Kind]bool
	cache    *queryDebuggerCache
}

func NewQueryDebugger() QueryDebugger {
	return QueryDebugger{
		selected: make(map[ecs.Kind]bool),
		cache: &queryDebuggerCache{
			lastLen: -1,
		},
	}
}

func (qd *QueryDebugger) Render(w *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(w)

	imgui.Text("Select Component Kinds:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selected = make(map[ecs.Kind]bool)
	}

	for _, kind := range qd.cache.kinds {
		selected := qd.selected[kind]
		if imgui.Checkbox(kind.String(), &selected) {
			if selected {
				qd.selected[kind] = true
			} else {
				delete(qd.selected, kind)
			}
		}
	}

	imgui.Separator()

	query := qd.query()
	if query.IsEmpty() {
		imgui.Text("No component kinds selected")
		imgui.End()
		return
	}

	matching := w.QueryExact(query)
	groups := groupByShape(matching)

	imgui.Text(fmt.Sprintf("Query: %s", query))
	imgui.Text(fmt.Sprintf("Matching Shapes: %d", len(groups)))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Shape Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryShapeTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Shape")
			imgui.TableSetupColumn("Entity Count")
			imgui.TableHeadersRow()

			for _, group := range groups {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(group.Shape)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", group.Count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebugger) query() ecs.Shape {
	builder := ecs.NewShapeBuilder()
	for kind := range qd.selected {
		builder.With(kind)
	}
	return builder.Build()
}

func (qd *QueryDebugger) rebuildCacheIfNeeded(w *ecs.World) {
	qd.cache.age++
	if qd.cache.lastLen != w.Len() || qd.cache.age >= refreshFrames {
		qd.cache.kinds = nil
	}

	if qd.cache.kinds == nil {
		qd.cache.kinds = collectKinds(w)
		qd.cache.lastLen = w.Len()
		qd.cache.age = 0
	}
}

// collectKinds returns every component kind carried by a live entity, sorted by name.
func collectKinds(w *ecs.World) []ecs.Kind {
	var seen ecs.Shape
	for _, e := range w.Entities() {
		for _, kind := range e.Kinds() {
			seen.Add(kind)
		}
	}

	kinds := seen.Kinds()
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i].String() < kinds[j].String()
	})
	return kinds
}

// groupByShape counts entities per distinct shape, largest groups first.
func groupByShape(entities []*ecs.Entity) []shapeCount {
	counts := make(map[string]int)
	for _, e := range entities {
		counts[e.Shape().String()]++
	}

	groups := make([]shapeCount, 0, len(counts))
	for shape, count := range counts {
		groups = append(groups, shapeCount{Shape: shape, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Shape < groups[j].Shape
	})
	return groups
}
