package outfmt

import (
	"encoding/json"
	"reflect"
)

// normalizeJSONOutput wraps list results as {"items": [...]} so every list
// command has the same top-level shape.
func normalizeJSONOutput(v any) any {
	rv, ok := sliceValue(v)
	if !ok {
		return v
	}
	items := rv.Interface()
	// A nil slice encodes as null, which breaks `.items[]`.
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		items = []any{}
	}
	return map[string]any{"items": items}
}

// listItems returns the elements of a slice value, or of the list inside an
// {"items": [...]} wrapper.
func listItems(v any) ([]any, bool) {
	if m, ok := v.(map[string]any); ok && len(m) == 1 {
		if inner, ok := m["items"]; ok {
			v = inner
		}
	}
	rv, ok := sliceValue(v)
	if !ok {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func sliceValue(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	switch v.(type) {
	case []byte, json.RawMessage:
		return reflect.Value{}, false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return reflect.Value{}, false
		}
		return rv, true
	default:
		return reflect.Value{}, false
	}
}
