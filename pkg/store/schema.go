package store

import (
	"fmt"
	"path"
	"regexp"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/dockplate/pkg/types"
)

var paramNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// checkSchema returns every problem found in a raw descriptor
func checkSchema(raw map[string]interface{}) []string {
	var issues []string
	add := func(format string, args ...interface{}) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	for _, field := range []string{"name", "version", "category"} {
		v, ok := raw[field]
		if !ok {
			add("missing required field %q", field)
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			add("field %q must be a non-empty string", field)
		}
	}

	if v, ok := raw["version"].(string); ok && v != "" {
		if _, err := semver.NewVersion(v); err != nil {
			add("version %q is not a semantic version", v)
		}
	}
	if c, ok := raw["category"].(string); ok && c != "" && !types.Category(c).Valid() {
		add("category %q must be one of %v", c, types.Categories)
	}

	if v, ok := raw["inherits"]; ok {
		s, isString := v.(string)
		switch {
		case !isString || s == "":
			add("inherits must be a template path")
		case path.IsAbs(s):
			add("inherits %q must be relative to the template store", s)
		}
	}

	if v, ok := raw["parameters"]; ok && v != nil {
		params, isMap := v.(map[string]interface{})
		if !isMap {
			add("parameters must be a mapping")
		} else {
			for _, name := range sortedKeys(params) {
				issues = append(issues, checkParam(name, params[name])...)
			}
		}
	}

	if v, ok := raw["files"]; ok && v != nil {
		files, isMap := v.(map[string]interface{})
		if !isMap {
			add("files must be a mapping of group to paths")
		} else {
			for _, group := range sortedKeys(files) {
				if !isPathList(files[group]) {
					add("files.%s must be a path or a list of paths", group)
				}
			}
		}
	}

	return issues
}

func checkParam(name string, v interface{}) []string {
	var issues []string
	add := func(format string, args ...interface{}) {
		issues = append(issues, fmt.Sprintf("parameter %q: "+format, append([]interface{}{name}, args...)...))
	}

	if !paramNamePattern.MatchString(name) {
		add("name must match %s", paramNamePattern)
	}
	if types.IsReservedParam(name) {
		add("name is reserved for system values")
	}

	spec, ok := v.(map[string]interface{})
	if !ok {
		add("spec must be a mapping")
		return issues
	}

	typ, _ := spec["type"].(string)
	if !types.ParamType(typ).Valid() {
		add("type %q must be one of string, integer, boolean, array, object", typ)
	}

	if p, ok := spec["pattern"]; ok {
		ps, isString := p.(string)
		switch {
		case !isString:
			add("pattern must be a string")
		case typ != string(types.ParamString):
			add("pattern only applies to string parameters")
		default:
			if _, err := regexp.Compile(ps); err != nil {
				add("pattern does not compile: %v", err)
			}
		}
	}

	if e, ok := spec["enum"]; ok {
		if list, isList := e.([]interface{}); !isList || len(list) == 0 {
			add("enum must be a non-empty list")
		}
	}

	minV, hasMin := spec["min"]
	maxV, hasMax := spec["max"]
	if (hasMin || hasMax) && typ != string(types.ParamInteger) {
		add("min/max only apply to integer parameters")
	}
	minF, minOK := toFloat(minV)
	maxF, maxOK := toFloat(maxV)
	if hasMin && !minOK {
		add("min must be a number")
	}
	if hasMax && !maxOK {
		add("max must be a number")
	}
	if minOK && maxOK && minF > maxF {
		add("min %v is greater than max %v", minV, maxV)
	}

	if r, ok := spec["required"]; ok {
		if _, isBool := r.(bool); !isBool {
			add("required must be a boolean")
		}
	}

	return issues
}

func isPathList(v interface{}) bool {
	switch tv := v.(type) {
	case string:
		return tv != ""
	case []interface{}:
		for _, item := range tv {
			if s, ok := item.(string); !ok || s == "" {
				return false
			}
		}
		return true
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
