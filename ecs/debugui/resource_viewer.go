package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/phasecs/ecs"
)

// ResourceViewer lists the resources stored in the world.
type ResourceViewer struct {
	filterText string
}

func (rv *ResourceViewer) Render(w *ecs.World) {
	if !imgui.BeginV("Resources", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##resource-search", "Filter...", &rv.filterText, imgui.InputTextFlagsNone, nil)

	entries := w.Resources.Entries()
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("ResourceTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Tag")
		imgui.TableHeadersRow()

		for _, info := range entries {
			if !matchesFilter(rv.filterText, info.String()) {
				continue
			}
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(info.Type.String())
			imgui.TableNextColumn()
			if info.Tag != nil {
				imgui.Text(info.Tag.String())
			} else {
				imgui.Text("-")
			}
		}

		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Total: %d resources", len(entries)))
	imgui.End()
}
