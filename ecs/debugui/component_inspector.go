package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/phasecs/ecs"
)

// ComponentInspector shows the components of the selected entity. Scalar
// fields are edited in place through the component pointer.
type ComponentInspector struct {
	fields *fieldCache
}

func NewComponentInspector() ComponentInspector {
	return ComponentInspector{fields: newFieldCache()}
}

func (ci *ComponentInspector) Render(w *ecs.World, selected ecs.Handle) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if selected.IsZero() {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	entity, ok := w.Entity(selected)
	if !ok {
		imgui.Text(fmt.Sprintf("Entity %s no longer exists", selected))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Handle: %s", selected))
	imgui.Text(fmt.Sprintf("Shape: %s", entity.Shape()))
	imgui.Separator()

	for _, kind := range entity.Kinds() {
		component := entity.Component(kind)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(kind.String()) {
			ci.renderComponent(kind.String(), component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(name string, component any) {
	val := reflect.ValueOf(component).Elem()
	if val.Kind() != reflect.Struct {
		ci.renderValue(name, val)
		return
	}
	ci.renderStruct(val)
}

func (ci *ComponentInspector) renderStruct(val reflect.Value) {
	for _, field := range ci.fields.get(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		ci.renderValue(field.Name, fieldVal)
	}
}

func (ci *ComponentInspector) renderValue(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		ci.label(name, 150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			setInt(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		ci.label(name, 150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			setUint(val, int64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		ci.label(name, 150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			setFloat(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		ci.label(name, 200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderStruct(val)
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: %s", name, val.Type()))
		}
	}
}

func (ci *ComponentInspector) label(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}
