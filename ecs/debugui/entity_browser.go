package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/phasecs/ecs"
)

// refreshFrames bounds how stale the browser's entity list may get when the
// entity count stays constant but shapes change.
const refreshFrames = 30

type EntityInfo struct {
	Handle         ecs.Handle
	Shape          string
	ComponentCount int
}

type entityBrowserCache struct {
	entities      []EntityInfo
	lastLen       int
	age           int
	sortColumn    int
	sortAscending bool
}

// EntityBrowser lists live entities with their shapes and tracks the selection.
type EntityBrowser struct {
	cache              *entityBrowserCache
	filterText         string
	selected           ecs.Handle
	currentPage        int
	maxEntitiesPerPage int
}

func NewEntityBrowser(maxEntitiesPerPage int) EntityBrowser {
	return EntityBrowser{
		cache: &entityBrowserCache{
			lastLen:       -1,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(w *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(w)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.currentPage = 0
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.cache.entities = nil
	}

	filteredEntities := eb.filteredEntities()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Handle")
		imgui.TableSetupColumn("Shape")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx, endIdx := pageBounds(eb.currentPage, eb.maxEntitiesPerPage, len(filteredEntities))
		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selected == entity.Handle
			if imgui.SelectableBoolV(entity.Handle.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.Handle
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Shape)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// Selected returns the handle of the selected entity, or the zero handle.
func (eb *EntityBrowser) Selected() ecs.Handle {
	return eb.selected
}

func (eb *EntityBrowser) rebuildCacheIfNeeded(w *ecs.World) {
	eb.cache.age++
	if eb.cache.lastLen != w.Len() || eb.cache.age >= refreshFrames {
		eb.cache.entities = nil
	}

	if eb.cache.entities == nil {
		eb.rebuildCache(w)
	}
}

func (eb *EntityBrowser) rebuildCache(w *ecs.World) {
	eb.cache.entities = make([]EntityInfo, 0, w.Len())
	eb.cache.lastLen = w.Len()
	eb.cache.age = 0

	for h, e := range w.Entities() {
		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			Handle:         h,
			Shape:          e.Shape().String(),
			ComponentCount: e.Len(),
		})
	}

	eb.sortEntities()
}

func (eb *EntityBrowser) sortEntities() {
	sort.Slice(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.Shape < b.Shape
		case 2:
			less = a.ComponentCount < b.ComponentCount
		default:
			less = a.Handle.Index() < b.Handle.Index()
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowser) filteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	for _, entity := range eb.cache.entities {
		if matchesFilter(eb.filterText, entity.Handle.String(), entity.Shape) {
			filtered = append(filtered, entity)
		}
	}
	return filtered
}

func pageBounds(page, perPage, total int) (int, int) {
	start := page * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}

// matchesFilter reports whether any of the values contains filter, ignoring case.
func matchesFilter(filter string, values ...string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), filter) {
			return true
		}
	}
	return false
}
