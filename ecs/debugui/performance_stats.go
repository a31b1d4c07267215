package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/phasecs/ecs"
	"github.com/plus3/phasecs/ecs/timing"
)

type PerformanceStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewPerformanceStats(historyFrames int) PerformanceStats {
	return PerformanceStats{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

// frameDelta reads the latest frame duration from the timing resource, if installed.
func frameDelta(resources *ecs.Resources) float32 {
	if tc := ecs.GetResource[timing.Context](resources); tc != nil {
		return float32(tc.DeltaSeconds())
	}
	return 0
}

func (ps *PerformanceStats) Render(w *ecs.World, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := w.Stats()

	imgui.Text(fmt.Sprintf("Entities: %d", w.Len()))
	imgui.Text(fmt.Sprintf("Resources: %d", w.Resources.Len()))
	imgui.Text(fmt.Sprintf("Systems: %d  Services: %d", stats.SystemCount, stats.ServiceCount))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Dispatch Table") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("DispatchTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Unit")
			imgui.TableSetupColumn("Phase")
			imgui.TableSetupColumn("Calls")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, st := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(st.Name)
				imgui.TableNextColumn()
				if st.Service {
					imgui.Text(fmt.Sprintf("%s/%s", st.Phase, st.Slot))
				} else {
					imgui.Text(st.Phase.String())
				}
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", st.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(st.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(st.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}
