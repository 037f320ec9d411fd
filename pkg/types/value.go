package types

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Value is a validated parameter value. The set of implementations is
// closed: StringValue, IntValue, BoolValue, ArrayValue and ObjectValue.
type Value interface {
	// Type returns the parameter type this value satisfies
	Type() ParamType

	// Interface returns the plain Go value handed to templates
	Interface() interface{}

	isValue()
}

// StringValue is a string parameter value
type StringValue string

// IntValue is an integer parameter value
type IntValue int64

// BoolValue is a boolean parameter value
type BoolValue bool

// ArrayValue is an array parameter value
type ArrayValue []interface{}

// ObjectValue is an object parameter value
type ObjectValue map[string]interface{}

func (StringValue) Type() ParamType { return ParamString }
func (IntValue) Type() ParamType    { return ParamInteger }
func (BoolValue) Type() ParamType   { return ParamBoolean }
func (ArrayValue) Type() ParamType  { return ParamArray }
func (ObjectValue) Type() ParamType { return ParamObject }

func (v StringValue) Interface() interface{} { return string(v) }
func (v IntValue) Interface() interface{}    { return int64(v) }
func (v BoolValue) Interface() interface{}   { return bool(v) }
func (v ArrayValue) Interface() interface{}  { return List(v) }
func (v ObjectValue) Interface() interface{} { return Object(v) }

func (StringValue) isValue() {}
func (IntValue) isValue()    {}
func (BoolValue) isValue()   {}
func (ArrayValue) isValue()  {}
func (ObjectValue) isValue() {}

func (v StringValue) String() string { return string(v) }
func (v IntValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v BoolValue) String() string   { return strconv.FormatBool(bool(v)) }
func (v ArrayValue) String() string  { return List(v).String() }
func (v ObjectValue) String() string { return Object(v).String() }

// List is the template-facing form of an array parameter. It ranges like a
// slice and prints as a bracketed JSON list.
type List []interface{}

// String renders the list as `["a","b"]`
func (l List) String() string {
	return marshalLiteral([]interface{}(l), "[]")
}

// Object is the template-facing form of an object parameter. Keys are
// reachable with field syntax and it prints as a JSON object.
type Object map[string]interface{}

// String renders the object as JSON with sorted keys
func (o Object) String() string {
	return marshalLiteral(map[string]interface{}(o), "{}")
}

// Keys returns the object keys in sorted order
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// marshalLiteral encodes v as compact JSON, leaving <, > and & unescaped
func marshalLiteral(v interface{}, empty string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return empty
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Params is the effective, validated parameter mapping for one invocation
type Params map[string]Value

// Names returns the parameter names in sorted order
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plain returns the parameters as plain Go values, e.g. for JSON output
func (p Params) Plain() map[string]interface{} {
	out := make(map[string]interface{}, len(p))
	for name, v := range p {
		switch tv := v.(type) {
		case ArrayValue:
			out[name] = []interface{}(tv)
		case ObjectValue:
			out[name] = map[string]interface{}(tv)
		default:
			out[name] = v.Interface()
		}
	}
	return out
}
