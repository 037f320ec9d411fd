package params

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// Options tunes validation
type Options struct {
	// StrictRequired makes a required parameter fail when not supplied, even
	// if its spec carries a default
	StrictRequired bool
}

type violation struct {
	name string
	err  *errors.Error
}

// Validate reconciles supplied values with specs and returns the effective
// parameters, or an error listing every violation
func Validate(specs map[string]types.ParamSpec, supplied map[string]interface{}, opts Options) (types.Params, error) {
	logger := logging.GetLogger("params")

	var violations []violation
	fail := func(name string, err *errors.Error) {
		violations = append(violations, violation{name: name, err: err.WithDetail("parameter", name)})
	}

	for name := range supplied {
		if _, declared := specs[name]; !declared {
			fail(name, errors.Newf(errors.ErrValidation, "unknown parameter %q", name).
				WithDetail("constraint", "unknown"))
		}
	}

	effective := make(types.Params, len(specs))
	for _, name := range sortedNames(specs) {
		spec := specs[name]

		raw, ok := supplied[name]
		if ok && raw == nil {
			ok = false
		}

		source := "supplied"
		if !ok {
			switch {
			case spec.Required && opts.StrictRequired:
				fail(name, errors.Newf(errors.ErrMissingParameter, "required parameter %q not provided", name))
				continue
			case spec.HasDefault && spec.Default != nil:
				raw = spec.Default
				source = "default"
			case spec.Required:
				fail(name, errors.Newf(errors.ErrMissingParameter, "required parameter %q not provided", name))
				continue
			default:
				continue
			}
		}

		v, err := check(name, spec, raw)
		if err != nil {
			fail(name, err.WithDetail("source", source))
			continue
		}
		effective[name] = v
	}

	if len(violations) > 0 {
		sort.SliceStable(violations, func(i, j int) bool { return violations[i].name < violations[j].name })
		var list errors.List
		for _, v := range violations {
			list.Add(v.err)
		}
		logger.Debug().Int("violations", list.Len()).Msg("parameter validation failed")
		return nil, &list
	}

	logger.Debug().Strs("parameters", effective.Names()).Msg("parameters validated")
	return effective, nil
}

// check coerces raw and applies the ParamSpec constraints
func check(name string, spec types.ParamSpec, raw interface{}) (types.Value, *errors.Error) {
	v, err := Coerce(spec.Type, raw)
	if err != nil {
		return nil, errors.Newf(errors.ErrValidation, "parameter %q: %v", name, err).
			WithDetail("constraint", "type")
	}

	if spec.Pattern != "" {
		if s, ok := v.(types.StringValue); ok {
			re, err := regexp.Compile(`^(?:` + spec.Pattern + `)$`)
			if err != nil {
				return nil, errors.Newf(errors.ErrValidation, "parameter %q: invalid pattern %s", name, spec.Pattern).
					WithDetail("constraint", "pattern")
			}
			if !re.MatchString(string(s)) {
				return nil, errors.Newf(errors.ErrValidation, "parameter %q: %q does not match pattern %s", name, string(s), spec.Pattern).
					WithDetail("constraint", "pattern")
			}
		}
	}

	if len(spec.Enum) > 0 && !inEnum(spec, v) {
		return nil, errors.Newf(errors.ErrValidation, "parameter %q: %v is not one of %v", name, v, spec.Enum).
			WithDetail("constraint", "enum")
	}

	if n, ok := v.(types.IntValue); ok {
		if spec.Min != nil && float64(n) < *spec.Min {
			return nil, errors.Newf(errors.ErrValidation, "parameter %q: value %d is below min %s", name, int64(n), formatBound(*spec.Min)).
				WithDetail("constraint", "min")
		}
		if spec.Max != nil && float64(n) > *spec.Max {
			return nil, errors.Newf(errors.ErrValidation, "parameter %q: value %d exceeds max %s", name, int64(n), formatBound(*spec.Max)).
				WithDetail("constraint", "max")
		}
	}

	return v, nil
}

func inEnum(spec types.ParamSpec, v types.Value) bool {
	for _, allowed := range spec.Enum {
		candidate, err := Coerce(spec.Type, allowed)
		if err != nil {
			continue
		}
		if reflect.DeepEqual(candidate, v) {
			return true
		}
	}
	return false
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortedNames(specs map[string]types.ParamSpec) []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a one-line summary of a spec, e.g. for listings
func Describe(spec types.ParamSpec) string {
	s := string(spec.Type)
	if spec.Required {
		s += ", required"
	}
	if spec.HasDefault && spec.Default != nil {
		if v, err := Coerce(spec.Type, spec.Default); err == nil {
			s += fmt.Sprintf(", default %v", v)
		}
	}
	if len(spec.Enum) > 0 {
		s += fmt.Sprintf(", one of %v", spec.Enum)
	}
	if spec.Pattern != "" {
		s += ", pattern " + spec.Pattern
	}
	if spec.Min != nil || spec.Max != nil {
		lo, hi := "-inf", "+inf"
		if spec.Min != nil {
			lo = formatBound(*spec.Min)
		}
		if spec.Max != nil {
			hi = formatBound(*spec.Max)
		}
		s += fmt.Sprintf(", range [%s, %s]", lo, hi)
	}
	return s
}
