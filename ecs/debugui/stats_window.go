package debugui

import (
	"fmt"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/gridsnake/ecs"
)

// StatsWindow shows world contents and per-system timings
type StatsWindow struct {
	world         *ecs.World
	dispatcher    *ecs.Dispatcher
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	lastFrame     time.Time
}

func NewStatsWindow(world *ecs.World, dispatcher *ecs.Dispatcher, historyFrames int) *StatsWindow {
	return &StatsWindow{
		world:         world,
		dispatcher:    dispatcher,
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		lastFrame:     time.Now(),
	}
}

// Item wraps the window as a component ready to spawn
func (sw *StatsWindow) Item() ImguiItem {
	return ImguiItem{Render: sw.Render}
}

func (sw *StatsWindow) Render() {
	now := time.Now()
	sw.frameHistory[sw.frameIndex] = float32(now.Sub(sw.lastFrame).Seconds() * 1000.0)
	sw.frameIndex = (sw.frameIndex + 1) % sw.historyFrames
	sw.lastFrame = now

	if !imgui.BeginV("World Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := sw.world.CollectStats()
	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	var avgFrameTime float32
	for _, ft := range sw.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(sw.historyFrames)
	imgui.Text(fmt.Sprintf("Avg Tick Time: %.2f ms", avgFrameTime))

	imgui.Separator()
	imgui.PlotLinesFloatPtr("##ticktime", &sw.frameHistory[0], int32(len(sw.frameHistory)))

	if imgui.TreeNodeStr("Archetypes") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ArchetypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()

			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(strings.Join(arch.ComponentTypes, ", "))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if sw.dispatcher != nil && imgui.TreeNodeStr("Systems") {
		dstats := sw.dispatcher.Stats()
		imgui.Text(fmt.Sprintf("Tick: %d", dstats.Ticks))
		for _, sys := range dstats.Systems {
			imgui.BulletText(fmt.Sprintf("%s: avg %s, max %s", sys.Name, sys.AvgDuration, sys.MaxDuration))
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}
