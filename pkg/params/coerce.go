package params

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/arthur-debert/dockplate/pkg/types"
)

// Coerce converts a raw value to the declared type without loss
func Coerce(typ types.ParamType, v interface{}) (types.Value, error) {
	if tv, ok := v.(types.Value); ok {
		v = plain(tv)
	}

	switch typ {
	case types.ParamString:
		if s, ok := v.(string); ok {
			return types.StringValue(s), nil
		}
	case types.ParamInteger:
		if n, ok := toInt(v); ok {
			return types.IntValue(n), nil
		}
	case types.ParamBoolean:
		switch b := v.(type) {
		case bool:
			return types.BoolValue(b), nil
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true":
				return types.BoolValue(true), nil
			case "false":
				return types.BoolValue(false), nil
			}
		}
	case types.ParamArray:
		if a, ok := toArray(v); ok {
			return types.ArrayValue(a), nil
		}
	case types.ParamObject:
		if o, ok := toObject(v); ok {
			return types.ObjectValue(o), nil
		}
	default:
		return nil, fmt.Errorf("unsupported type %q", typ)
	}
	return nil, fmt.Errorf("expected %s, got %s", typ, describe(v))
}

func plain(v types.Value) interface{} {
	switch tv := v.(type) {
	case types.ArrayValue:
		return []interface{}(tv)
	case types.ObjectValue:
		return map[string]interface{}(tv)
	}
	return v.Interface()
}

func toInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintToInt(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func uintToInt(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}

func floatToInt(f float64) (int64, bool) {
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit
	if f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.Exp2(63) || f < -math.Exp2(63) {
		return 0, false
	}
	return int64(f), true
}

func toArray(v interface{}) ([]interface{}, bool) {
	switch a := v.(type) {
	case []interface{}:
		return append([]interface{}{}, a...), true
	case []string:
		out := make([]interface{}, len(a))
		for i, s := range a {
			out[i] = s
		}
		return out, true
	case string:
		s := strings.TrimSpace(a)
		if strings.HasPrefix(s, "[") {
			var out []interface{}
			if err := json.Unmarshal([]byte(s), &out); err != nil {
				return nil, false
			}
			if out == nil {
				out = []interface{}{}
			}
			return out, true
		}
		out := []interface{}{}
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

func toObject(v interface{}) (map[string]interface{}, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(o))
		for k, val := range o {
			out[k] = val
		}
		return out, true
	case string:
		s := strings.TrimSpace(o)
		if !strings.HasPrefix(s, "{") {
			return nil, false
		}
		var out map[string]interface{}
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, false
		}
		return out, true
	}
	return nil, false
}

func describe(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", tv)
	case bool:
		return fmt.Sprintf("boolean %v", tv)
	case float32, float64:
		return fmt.Sprintf("number %v", tv)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("integer %v", tv)
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
