package render

import (
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dockplate/pkg/types"
)

func toYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(unwrap(v))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

func toTOML(v interface{}) (string, error) {
	data, err := toml.Marshal(unwrap(v))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// unwrap turns template-facing List/Object values back into plain ones so
// encoders do not pick up their String methods
func unwrap(v interface{}) interface{} {
	switch tv := v.(type) {
	case unset:
		return nil
	case types.List:
		out := make([]interface{}, len(tv))
		for i, item := range tv {
			out[i] = unwrap(item)
		}
		return out
	case types.Object:
		out := make(map[string]interface{}, len(tv))
		for k, item := range tv {
			out[k] = unwrap(item)
		}
		return out
	}
	return v
}
