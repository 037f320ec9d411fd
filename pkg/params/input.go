package params

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// ParseAssignments parses repeated `name=value` flags. Values stay strings;
// Validate coerces them to the declared types.
func ParseAssignments(assignments []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(assignments))
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid parameter assignment %q, expected name=value", a).
				WithDetail("assignment", a)
		}
		out[name] = value
	}
	return out, nil
}

// LoadFile reads a parameter file. The format follows the extension:
// .json, .yaml/.yml or .toml.
func LoadFile(fs types.FS, path string) (map[string]interface{}, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read parameter file %s", path).
			WithDetail("file", path)
	}

	var out map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	case ".toml":
		err = toml.Unmarshal(data, &out)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported parameter file %s (want .json, .yaml or .toml)", path).
			WithDetail("file", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot parse parameter file %s", path).
			WithDetail("file", path)
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}

// Merge layers parameter maps; later maps win per name
func Merge(layers ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
