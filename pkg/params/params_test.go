package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/params"
	"github.com/arthur-debert/dockplate/pkg/testutil"
	"github.com/arthur-debert/dockplate/pkg/types"
)

func f(v float64) *float64 { return &v }

func portSpec() types.ParamSpec {
	return types.ParamSpec{Type: types.ParamInteger, Default: 3000, HasDefault: true, Min: f(1000), Max: f(65535)}
}

func TestValidate_DefaultFill(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"user_uid": {Type: types.ParamInteger, Default: 1000, HasDefault: true, Min: f(1000), Max: f(65535)},
		"optional": {Type: types.ParamString},
	}

	got, err := params.Validate(specs, nil, params.Options{})
	require.NoError(t, err)
	assert.Equal(t, types.Params{"user_uid": types.IntValue(1000)}, got)
}

func TestValidate_RequiredWithoutDefault(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"app_name": {Type: types.ParamString, Required: true},
	}
	_, err := params.Validate(specs, map[string]interface{}{}, params.Options{})
	testutil.AssertErrorCode(t, err, errors.ErrMissingParameter)
	testutil.AssertErrorDetail(t, err, "parameter", "app_name")
}

func TestValidate_RequiredWithDefault(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"base_image": {Type: types.ParamString, Required: true, Default: "alpine", HasDefault: true},
	}

	got, err := params.Validate(specs, nil, params.Options{})
	require.NoError(t, err)
	assert.Equal(t, types.StringValue("alpine"), got["base_image"])

	_, err = params.Validate(specs, nil, params.Options{StrictRequired: true})
	testutil.AssertErrorCode(t, err, errors.ErrMissingParameter)
}

func TestValidate_NullDefaultIsAbsent(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"proxy": {Type: types.ParamString, HasDefault: true},
	}
	got, err := params.Validate(specs, nil, params.Options{})
	require.NoError(t, err)
	assert.NotContains(t, got, "proxy")
}

func TestValidate_OutOfRange(t *testing.T) {
	specs := map[string]types.ParamSpec{"app_port": portSpec()}

	_, err := params.Validate(specs, map[string]interface{}{"app_port": 70000}, params.Options{})
	testutil.AssertErrorCode(t, err, errors.ErrValidation)
	testutil.AssertErrorDetail(t, err, "parameter", "app_port")
	testutil.AssertErrorDetail(t, err, "constraint", "max")
	assert.Contains(t, err.Error(), `parameter "app_port": value 70000 exceeds max 65535`)

	_, err = params.Validate(specs, map[string]interface{}{"app_port": 999}, params.Options{})
	testutil.AssertErrorDetail(t, err, "constraint", "min")

	// bounds are inclusive
	for _, v := range []interface{}{1000, 65535} {
		got, err := params.Validate(specs, map[string]interface{}{"app_port": v}, params.Options{})
		require.NoError(t, err)
		assert.EqualValues(t, v, got["app_port"])
	}
}

func TestValidate_UnknownParameter(t *testing.T) {
	specs := map[string]types.ParamSpec{"app_port": portSpec()}

	_, err := params.Validate(specs, map[string]interface{}{"enable_turbo": true}, params.Options{})
	testutil.AssertErrorCode(t, err, errors.ErrValidation)
	testutil.AssertErrorDetail(t, err, "parameter", "enable_turbo")
	assert.Contains(t, err.Error(), `unknown parameter "enable_turbo"`)
}

func TestValidate_CollectsEveryViolationSorted(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"app_port": portSpec(),
		"app_name": {Type: types.ParamString, Required: true},
		"node_env": {Type: types.ParamString, Enum: []interface{}{"development", "production"}},
		"debug":    {Type: types.ParamBoolean},
	}
	supplied := map[string]interface{}{
		"app_port": "70000",
		"node_env": "staging",
		"debug":    "yes",
		"zzz":      1,
	}

	_, err := params.Validate(specs, supplied, params.Options{})
	require.Error(t, err)

	var names []interface{}
	for _, e := range errors.Flatten(err) {
		names = append(names, e.Details["parameter"])
	}
	assert.Equal(t, []interface{}{"app_name", "app_port", "debug", "node_env", "zzz"}, names)

	list, ok := err.(*errors.List)
	require.True(t, ok)
	assert.True(t, list.Has(errors.ErrMissingParameter))
	assert.True(t, list.Has(errors.ErrValidation))
}

func TestValidate_Pattern(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"version": {Type: types.ParamString, Pattern: `\d+\.\d+`},
	}

	_, err := params.Validate(specs, map[string]interface{}{"version": "3.19"}, params.Options{})
	assert.NoError(t, err)

	// the full value must match
	_, err = params.Validate(specs, map[string]interface{}{"version": "v3.19-edge"}, params.Options{})
	testutil.AssertErrorDetail(t, err, "constraint", "pattern")
}

func TestValidate_EnumAfterCoercion(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"pg_major": {Type: types.ParamInteger, Enum: []interface{}{14, 15, 16}},
	}

	got, err := params.Validate(specs, map[string]interface{}{"pg_major": "16"}, params.Options{})
	require.NoError(t, err)
	assert.Equal(t, types.IntValue(16), got["pg_major"])

	_, err = params.Validate(specs, map[string]interface{}{"pg_major": 13}, params.Options{})
	testutil.AssertErrorDetail(t, err, "constraint", "enum")
}

func TestValidate_InvalidDefaultIsReported(t *testing.T) {
	specs := map[string]types.ParamSpec{
		"user_uid": {Type: types.ParamInteger, Default: 10, HasDefault: true, Min: f(1000)},
	}
	_, err := params.Validate(specs, nil, params.Options{})
	testutil.AssertErrorDetail(t, err, "source", "default")
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		typ     types.ParamType
		in      interface{}
		want    types.Value
		wantErr bool
	}{
		{"string", types.ParamString, "alpine", types.StringValue("alpine"), false},
		{"int is not a string", types.ParamString, 3, nil, true},
		{"int", types.ParamInteger, 42, types.IntValue(42), false},
		{"int64", types.ParamInteger, int64(42), types.IntValue(42), false},
		{"numeric string", types.ParamInteger, " 8080 ", types.IntValue(8080), false},
		{"integral float", types.ParamInteger, 3000.0, types.IntValue(3000), false},
		{"fractional float", types.ParamInteger, 1.5, nil, true},
		{"float at 2^63 overflows", types.ParamInteger, float64(1 << 63), nil, true},
		{"float at -2^63", types.ParamInteger, -float64(1 << 63), types.IntValue(-1 << 63), false},
		{"uint64 overflows", types.ParamInteger, uint64(1 << 63), nil, true},
		{"fractional string", types.ParamInteger, "1.5", nil, true},
		{"bool is not an int", types.ParamInteger, true, nil, true},
		{"bool", types.ParamBoolean, false, types.BoolValue(false), false},
		{"bool string", types.ParamBoolean, "TRUE", types.BoolValue(true), false},
		{"bool from 1", types.ParamBoolean, 1, nil, true},
		{"bool from yes", types.ParamBoolean, "yes", nil, true},
		{"array", types.ParamArray, []interface{}{"a"}, types.ArrayValue{"a"}, false},
		{"string slice", types.ParamArray, []string{"a", "b"}, types.ArrayValue{"a", "b"}, false},
		{"json array", types.ParamArray, `["helmet", "cors"]`, types.ArrayValue{"helmet", "cors"}, false},
		{"comma list", types.ParamArray, "curl, wget,,git", types.ArrayValue{"curl", "wget", "git"}, false},
		{"empty array string", types.ParamArray, "", types.ArrayValue{}, false},
		{"broken json array", types.ParamArray, `["a"`, nil, true},
		{"number is not an array", types.ParamArray, 1, nil, true},
		{"object", types.ParamObject, map[string]interface{}{"a": 1}, types.ObjectValue{"a": 1}, false},
		{"json object", types.ParamObject, `{"cpu": "500m"}`, types.ObjectValue{"cpu": "500m"}, false},
		{"plain string is not an object", types.ParamObject, "cpu=1", nil, true},
		{"already typed", types.ParamInteger, types.IntValue(7), types.IntValue(7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := params.Coerce(tt.typ, tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssignments(t *testing.T) {
	got, err := params.ParseAssignments([]string{"app_name=web", "labels=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"app_name": "web", "labels": "a=b", "empty": ""}, got)

	_, err = params.ParseAssignments([]string{"novalue"})
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
	_, err = params.ParseAssignments([]string{"=x"})
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
}

func TestLoadFile(t *testing.T) {
	fs := testutil.NewTestFS()
	require.NoError(t, fs.WriteFile("/p.json", []byte(`{"app_port": 8080, "packages": ["a"]}`), 0644))
	require.NoError(t, fs.WriteFile("/p.yaml", []byte("app_port: 8080\npackages: [a]\n"), 0644))
	require.NoError(t, fs.WriteFile("/p.toml", []byte("app_port = 8080\npackages = [\"a\"]\n"), 0644))
	require.NoError(t, fs.WriteFile("/p.ini", []byte("x"), 0644))
	require.NoError(t, fs.WriteFile("/bad.json", []byte("{"), 0644))

	specs := map[string]types.ParamSpec{
		"app_port": portSpec(),
		"packages": {Type: types.ParamArray},
	}
	for _, name := range []string{"/p.json", "/p.yaml", "/p.toml"} {
		raw, err := params.LoadFile(fs, name)
		require.NoError(t, err, name)

		got, err := params.Validate(specs, raw, params.Options{})
		require.NoError(t, err, name)
		assert.Equal(t, types.IntValue(8080), got["app_port"], name)
		assert.Equal(t, types.ArrayValue{"a"}, got["packages"], name)
	}

	_, err := params.LoadFile(fs, "/p.ini")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
	_, err = params.LoadFile(fs, "/bad.json")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
	_, err = params.LoadFile(fs, "/missing.json")
	testutil.AssertErrorCode(t, err, errors.ErrNotFound)
}

func TestMerge(t *testing.T) {
	got := params.Merge(
		map[string]interface{}{"a": 1, "b": 1},
		map[string]interface{}{"b": 2},
	)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, got)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "integer, default 3000, range [1000, 65535]", params.Describe(portSpec()))
	assert.Equal(t, "string, required, one of [a b]",
		params.Describe(types.ParamSpec{Type: types.ParamString, Required: true, Enum: []interface{}{"a", "b"}}))
}
