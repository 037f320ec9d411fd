package store

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// Format is a descriptor serialization
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DescriptorFiles maps recognised descriptor names to their format, in lookup order
var DescriptorFiles = []struct {
	Name   string
	Format Format
}{
	{"template.yaml", FormatYAML},
	{"template.yml", FormatYAML},
	{"template.toml", FormatTOML},
}

// ParseDescriptor parses and schema-checks one descriptor document. The
// returned error is a SchemaError, or an errors.List of them.
func ParseDescriptor(data []byte, format Format, templatePath string) (*types.Descriptor, error) {
	raw, err := parseRaw(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSchema, "%s: descriptor is not valid %s", templatePath, format).
			WithDetail("template", templatePath)
	}
	if raw == nil {
		return nil, errors.Newf(errors.ErrSchema, "%s: descriptor is empty", templatePath).
			WithDetail("template", templatePath)
	}

	if issues := checkSchema(raw); len(issues) > 0 {
		var list errors.List
		for _, issue := range issues {
			list.Add(errors.Newf(errors.ErrSchema, "%s: %s", templatePath, issue).
				WithDetail("template", templatePath))
		}
		return nil, list.ErrOrNil()
	}

	d, err := decode(raw)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSchema, "%s: cannot decode descriptor", templatePath).
			WithDetail("template", templatePath)
	}
	d.Path = templatePath
	return d, nil
}

func parseRaw(data []byte, format Format) (map[string]interface{}, error) {
	var raw map[string]interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return raw, nil
}

func decode(raw map[string]interface{}) (*types.Descriptor, error) {
	var d types.Descriptor
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &d,
		WeaklyTypedInput: true,
		DecodeHook:       singleToSliceHook,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	// mapstructure cannot tell a null default from a missing one
	if params, ok := raw["parameters"].(map[string]interface{}); ok {
		for name, rawSpec := range params {
			specMap, _ := rawSpec.(map[string]interface{})
			if _, has := specMap["default"]; has {
				spec := d.Parameters[name]
				spec.HasDefault = true
				d.Parameters[name] = spec
			}
		}
	}

	for group, files := range d.Files {
		for i, f := range files {
			files[i] = strings.TrimPrefix(f, "./")
		}
		d.Files[group] = files
	}
	return &d, nil
}

// singleToSliceHook lets a files group be a single string
func singleToSliceHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf([]string{}) {
		return []string{reflect.ValueOf(data).String()}, nil
	}
	return data, nil
}
