// Package params validates caller-supplied parameter values against a
// template's parameter specs.
//
// Validate is all-or-nothing: it returns either the complete effective
// parameter set or an errors.List holding every violation, sorted by
// parameter name. Values are coerced only when the conversion is exact: a
// numeric string or an integral float becomes an integer, "true"/"false"
// becomes a boolean, a JSON literal or comma-separated string becomes an
// array, a JSON object literal becomes an object.
package params
