package debugui

import "reflect"

type fieldInfo struct {
	Name      string
	Index     int
	IsPointer bool
}

// fieldCache memoizes the exported fields of inspected struct types.
type fieldCache struct {
	fields map[reflect.Type][]fieldInfo
}

func newFieldCache() *fieldCache {
	return &fieldCache{fields: make(map[reflect.Type][]fieldInfo)}
}

func (fc *fieldCache) get(t reflect.Type) []fieldInfo {
	if fields, ok := fc.fields[t]; ok {
		return fields
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		fields = make([]fieldInfo, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, fieldInfo{
				Name:      field.Name,
				Index:     i,
				IsPointer: field.Type.Kind() == reflect.Ptr,
			})
		}
	}

	fc.fields[t] = fields
	return fields
}

// setInt stores x in an addressable signed integer value. Values that would
// overflow the field's type are rejected.
func setInt(v reflect.Value, x int64) bool {
	if !v.CanSet() || v.OverflowInt(x) {
		return false
	}
	v.SetInt(x)
	return true
}

func setUint(v reflect.Value, x int64) bool {
	if !v.CanSet() || x < 0 || v.OverflowUint(uint64(x)) {
		return false
	}
	v.SetUint(uint64(x))
	return true
}

func setFloat(v reflect.Value, x float64) bool {
	if !v.CanSet() {
		return false
	}
	v.SetFloat(x)
	return true
}
