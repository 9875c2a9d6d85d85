package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/gridsnake/ecs"
)

// EntityBrowser lists live entities and edits the components of the selected one
type EntityBrowser struct {
	world      *ecs.World
	inspector  *ComponentInspector
	selected   ecs.Entity
	filterText string
}

func NewEntityBrowser(world *ecs.World) *EntityBrowser {
	return &EntityBrowser{world: world, inspector: NewComponentInspector(world)}
}

// Item wraps the browser as a component ready to spawn
func (eb *EntityBrowser) Item() ImguiItem {
	return ImguiItem{Render: eb.Render}
}

func (eb *EntityBrowser) Render() {
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Filter by component...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		eb.filterText = ""
	}

	filter := strings.ToLower(eb.filterText)
	for _, archetype := range eb.world.Archetypes() {
		label := archetype.String()
		if filter != "" && !strings.Contains(strings.ToLower(label), filter) {
			continue
		}
		for _, entity := range archetype.Iter() {
			text := fmt.Sprintf("%s %s", entity, label)
			if imgui.SelectableBoolV(text, eb.selected == entity, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
				eb.selected = entity
			}
		}
	}

	imgui.Separator()
	eb.inspector.Render(eb.selected)

	imgui.End()
}
