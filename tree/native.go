package tree

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"
)

// FromNative converts Go values, as produced by json.Unmarshal and similar
// decoders, into a Node. Maps must have string keys; their entries are added
// in sorted key order because Go maps are unordered.
func FromNative(v any) (Node, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Node:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint8:
		return Int(v), nil
	case uint16:
		return Int(v), nil
	case uint32:
		return Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return Float(v), nil
		}
		return Int(v), nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return DateTime{Time: v}, nil
	case []any:
		out := make(List, 0, len(v))
		for i, e := range v {
			n, err := FromNative(e)
			if err != nil {
				return nil, fmt.Errorf("%d: %w", i, err)
			}
			out = append(out, n)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := NewMap()
		for _, k := range keys {
			n, err := FromNative(v[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m.Set(k, n)
		}
		return m, nil
	}

	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, val.Len())
		for i := range val.Len() {
			out[i] = val.Index(i).Interface()
		}
		return FromNative(out)
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type: %s", val.Type().Key())
		}
		out := make(map[string]any, val.Len())
		for _, k := range val.MapKeys() {
			out[k.String()] = val.MapIndex(k).Interface()
		}
		return FromNative(out)
	}
	return nil, fmt.Errorf("unsupported type: %T", v)
}

// ToNative converts n into plain Go values: map[string]any, []any, string,
// bool, int64, float64 and nil. Hinted scalars are reduced first; dates and
// times are kept as their tree types.
func ToNative(n Node) any {
	switch v := Plain(n).(type) {
	case *Map:
		out := make(map[string]any, v.Len())
		for k, e := range v.All() {
			out[k] = ToNative(e)
		}
		return out
	case List:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ToNative(e)
		}
		return out
	case String:
		return string(v)
	case Bool:
		return bool(v)
	case Int:
		return int64(v)
	case Float:
		return float64(v)
	case Null:
		return nil
	default:
		return v
	}
}
