package shape

import (
	"reflect"
	"strings"
)

// Attr looks an attribute up on a candidate object by name. Lookup tries, in
// order: an exported struct field (exact name, then case-insensitive fold),
// a string-keyed map entry, and a nullary single-result getter method.
// Pointers are followed one level for field access; methods are looked up on
// the value as given and on its address when addressable.
func Attr(obj any, name string) (any, bool) {
	if obj == nil {
		return nil, false
	}

	rv := reflect.ValueOf(obj)
	elem := rv
	if elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, false
		}
		elem = elem.Elem()
	}

	if elem.Kind() == reflect.Struct {
		if v, ok := structField(elem, name); ok {
			return v, true
		}
	}

	if elem.Kind() == reflect.Map && elem.Type().Key().Kind() == reflect.String {
		mv := elem.MapIndex(reflect.ValueOf(name))
		if mv.IsValid() {
			return mv.Interface(), true
		}
	}

	if v, ok := getter(rv, name); ok {
		return v, true
	}
	return nil, false
}

func structField(sv reflect.Value, name string) (any, bool) {
	st := sv.Type()
	if f, ok := st.FieldByName(name); ok && f.IsExported() {
		return sv.FieldByIndex(f.Index).Interface(), true
	}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return sv.Field(i).Interface(), true
		}
	}
	return nil, false
}

func getter(rv reflect.Value, name string) (any, bool) {
	if v, ok := callGetter(rv, name); ok {
		return v, true
	}
	if rv.Kind() != reflect.Pointer && rv.CanAddr() {
		return callGetter(rv.Addr(), name)
	}
	return nil, false
}

func callGetter(rv reflect.Value, name string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}
		out := rv.Method(i).Call(nil)
		return out[0].Interface(), true
	}
	return nil, false
}
