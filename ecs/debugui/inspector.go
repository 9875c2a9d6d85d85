package debugui

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/gridsnake/ecs"
)

// fieldInfo describes one exported field of a component. Path is the index
// sequence from the component root, usable with reflect.Value.FieldByIndex.
type fieldInfo struct {
	Name string
	Type reflect.Type
	Path []int
}

type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]fieldInfo
}

func newFieldCache() *fieldCache {
	return &fieldCache{fields: make(map[reflect.Type][]fieldInfo)}
}

// get returns the exported direct fields of t. Paths are relative to t.
func (fc *fieldCache) get(t reflect.Type) []fieldInfo {
	fc.mu.RLock()
	cached, ok := fc.fields[t]
	fc.mu.RUnlock()
	if ok {
		return cached
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if cached, ok := fc.fields[t]; ok {
		return cached
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, fieldInfo{Name: field.Name, Type: field.Type, Path: []int{i}})
		}
	}

	fc.fields[t] = fields
	return fields
}

// ComponentInspector renders the components of one entity as editable
// widgets. Edits are written straight into the world's column storage.
type ComponentInspector struct {
	world *ecs.World
	cache *fieldCache
}

func NewComponentInspector(world *ecs.World) *ComponentInspector {
	return &ComponentInspector{world: world, cache: newFieldCache()}
}

// Render draws one tree node per component of entity. Must be called inside
// an ImGui window.
func (ci *ComponentInspector) Render(entity ecs.Entity) {
	archetype := ci.world.Archetype(entity)
	if archetype == nil {
		imgui.Text("No entity selected")
		return
	}

	imgui.Text(fmt.Sprintf("Entity %s", entity))
	for _, compType := range archetype.Types() {
		component := ci.world.Get(entity, compType)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(compType.String()) {
			val := reflect.ValueOf(component).Elem()
			for _, field := range ci.cache.get(compType) {
				ci.renderField(entity, compType, field.Name, field.Path, val.FieldByIndex(field.Path))
			}
			imgui.TreePop()
		}
	}
}

func (ci *ComponentInspector) renderField(entity ecs.Entity, compType reflect.Type, name string, path []int, val reflect.Value) {
	label := fmt.Sprintf("##%s%v", name, path)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) {
			ci.SetField(entity, compType, path, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 {
			ci.SetField(entity, compType, path, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) {
			ci.SetField(entity, compType, path, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+label, &v) {
			ci.SetField(entity, compType, path, v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			ci.SetField(entity, compType, path, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name + label) {
			for _, nested := range ci.cache.get(val.Type()) {
				nestedPath := append(append([]int{}, path...), nested.Path...)
				ci.renderField(entity, compType, nested.Name, nestedPath, val.FieldByIndex(nested.Path))
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

// SetField writes value into the field at path of the entity's component of
// type compType. It reports false when the entity or component is missing,
// the path does not name a settable field, or value does not fit the
// field's kind.
func (ci *ComponentInspector) SetField(entity ecs.Entity, compType reflect.Type, path []int, value any) bool {
	component := ci.world.Get(entity, compType)
	if component == nil {
		return false
	}

	field := reflect.ValueOf(component).Elem()
	for _, idx := range path {
		if field.Kind() != reflect.Struct || idx < 0 || idx >= field.NumField() {
			return false
		}
		field = field.Field(idx)
	}
	if !field.CanSet() {
		return false
	}

	v := reflect.ValueOf(value)
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !v.CanInt() || field.OverflowInt(v.Int()) {
			return false
		}
		field.SetInt(v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !v.CanUint() || field.OverflowUint(v.Uint()) {
			return false
		}
		field.SetUint(v.Uint())

	case reflect.Float32, reflect.Float64:
		if !v.CanFloat() {
			return false
		}
		field.SetFloat(v.Float())

	case reflect.Bool:
		if v.Kind() != reflect.Bool {
			return false
		}
		field.SetBool(v.Bool())

	case reflect.String:
		if v.Kind() != reflect.String {
			return false
		}
		field.SetString(v.String())

	default:
		return false
	}
	return true
}
