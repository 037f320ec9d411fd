package types

import (
	"fmt"
	"sort"
)

// Category is the enumerated template category
type Category string

const (
	CategoryApp            Category = "app"
	CategoryDatabase       Category = "database"
	CategoryInfrastructure Category = "infrastructure"
	CategoryMicroservice   Category = "microservice"
	CategoryBase           Category = "base"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryApp,
	CategoryDatabase,
	CategoryInfrastructure,
	CategoryMicroservice,
	CategoryBase,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParamType is the declared type of a template parameter
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamBoolean ParamType = "boolean"
	ParamArray   ParamType = "array"
	ParamObject  ParamType = "object"
)

// Valid reports whether t is one of the supported parameter types
func (t ParamType) Valid() bool {
	switch t {
	case ParamString, ParamInteger, ParamBoolean, ParamArray, ParamObject:
		return true
	}
	return false
}

// Reserved system parameter names. Templates may reference them but cannot
// declare parameters with these names.
const (
	SysTemplateName    = "template_name"
	SysTemplateVersion = "template_version"
	SysTemplatePath    = "template_path"
	SysGeneratedAt     = "generated_at"
	SysGeneratedBy     = "generated_by"
)

// ReservedParams lists the system parameter names
var ReservedParams = []string{
	SysTemplateName,
	SysTemplateVersion,
	SysTemplatePath,
	SysGeneratedAt,
	SysGeneratedBy,
}

// IsReservedParam reports whether name is a system parameter
func IsReservedParam(name string) bool {
	for _, r := range ReservedParams {
		if r == name {
			return true
		}
	}
	return false
}

// ParamSpec declares one parameter's contract
type ParamSpec struct {
	Type        ParamType     `mapstructure:"type" yaml:"type" json:"type"`
	Description string        `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	Default     interface{}   `mapstructure:"default" yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool          `mapstructure:"required" yaml:"required,omitempty" json:"required,omitempty"`
	Enum        []interface{} `mapstructure:"enum" yaml:"enum,omitempty" json:"enum,omitempty"`
	Pattern     string        `mapstructure:"pattern" yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Min         *float64      `mapstructure:"min" yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64      `mapstructure:"max" yaml:"max,omitempty" json:"max,omitempty"`

	// HasDefault is true when the descriptor carries a default key, even a null one.
	HasDefault bool `mapstructure:"-" yaml:"-" json:"-"`
}

// TestingSpec carries the descriptor's testing block
type TestingSpec struct {
	BuildArgs        map[string]string `mapstructure:"build_args" yaml:"build_args,omitempty" json:"build_args,omitempty"`
	EnvVars          map[string]string `mapstructure:"env_vars" yaml:"env_vars,omitempty" json:"env_vars,omitempty"`
	HealthCheck      string            `mapstructure:"health_check" yaml:"health_check,omitempty" json:"health_check,omitempty"`
	TestCommands     []string          `mapstructure:"test_commands" yaml:"test_commands,omitempty" json:"test_commands,omitempty"`
	IntegrationTests []string          `mapstructure:"integration_tests" yaml:"integration_tests,omitempty" json:"integration_tests,omitempty"`
}

// IsZero reports whether no testing configuration was declared
func (t TestingSpec) IsZero() bool {
	return len(t.BuildArgs) == 0 && len(t.EnvVars) == 0 && t.HealthCheck == "" &&
		len(t.TestCommands) == 0 && len(t.IntegrationTests) == 0
}

// RegistrySpec names where images built from the template are published
type RegistrySpec struct {
	Namespace  string   `mapstructure:"namespace" yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Repository string   `mapstructure:"repository" yaml:"repository,omitempty" json:"repository,omitempty"`
	Tags       []string `mapstructure:"tags" yaml:"tags,omitempty" json:"tags,omitempty"`
}

// IsZero reports whether no registry configuration was declared
func (r RegistrySpec) IsZero() bool {
	return r.Namespace == "" && r.Repository == "" && len(r.Tags) == 0
}

// Descriptor is one template's declared contract as loaded from the store
type Descriptor struct {
	// Path is the store-relative directory of the template, e.g. "apps/nodejs/express"
	Path string `mapstructure:"-" yaml:"-" json:"path"`

	// Source is the descriptor file name inside Path
	Source string `mapstructure:"-" yaml:"-" json:"-"`

	Name        string   `mapstructure:"name" yaml:"name" json:"name"`
	Version     string   `mapstructure:"version" yaml:"version" json:"version"`
	Description string   `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	Category    Category `mapstructure:"category" yaml:"category" json:"category"`
	Author      string   `mapstructure:"author" yaml:"author,omitempty" json:"author,omitempty"`
	License     string   `mapstructure:"license" yaml:"license,omitempty" json:"license,omitempty"`
	Tags        []string `mapstructure:"tags" yaml:"tags,omitempty" json:"tags,omitempty"`
	Inherits    string   `mapstructure:"inherits" yaml:"inherits,omitempty" json:"inherits,omitempty"`

	Parameters   map[string]ParamSpec `mapstructure:"parameters" yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Files        map[string][]string  `mapstructure:"files" yaml:"files,omitempty" json:"files,omitempty"`
	Dependencies map[string][]string  `mapstructure:"dependencies" yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Testing      TestingSpec          `mapstructure:"testing" yaml:"testing,omitempty" json:"testing,omitempty"`
	Platforms    []string             `mapstructure:"platforms" yaml:"platforms,omitempty" json:"platforms,omitempty"`
	Registry     RegistrySpec         `mapstructure:"registry" yaml:"registry,omitempty" json:"registry,omitempty"`
}

// String returns "name@version (path)"
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s@%s (%s)", d.Name, d.Version, d.Path)
}

// Clone returns a copy whose maps and slices can be modified without
// touching d
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.Tags = append([]string(nil), d.Tags...)
	c.Platforms = append([]string(nil), d.Platforms...)
	if d.Parameters != nil {
		c.Parameters = make(map[string]ParamSpec, len(d.Parameters))
		for k, v := range d.Parameters {
			c.Parameters[k] = v
		}
	}
	if d.Files != nil {
		c.Files = make(map[string][]string, len(d.Files))
		for k, v := range d.Files {
			c.Files[k] = append([]string(nil), v...)
		}
	}
	if d.Dependencies != nil {
		c.Dependencies = make(map[string][]string, len(d.Dependencies))
		for k, v := range d.Dependencies {
			c.Dependencies[k] = append([]string(nil), v...)
		}
	}
	c.Registry.Tags = append([]string(nil), d.Registry.Tags...)
	return &c
}

// FileRef is one declared file together with the template that declared it
type FileRef struct {
	Group  string `yaml:"group" json:"group"`
	Path   string `yaml:"path" json:"path"`
	Origin string `yaml:"origin" json:"origin"`
}

// ResolvedTemplate is a descriptor after inheritance merge
type ResolvedTemplate struct {
	Descriptor `yaml:",inline"`

	// Chain lists template paths from the root ancestor to this template
	Chain []string `yaml:"chain" json:"chain"`

	// Origins maps each file group to the template path that declared it
	Origins map[string]string `yaml:"origins,omitempty" json:"origins,omitempty"`
}

// FileRefs returns every declared file, ordered by group then declaration order.
func (r *ResolvedTemplate) FileRefs() []FileRef {
	groups := make([]string, 0, len(r.Files))
	for g := range r.Files {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var refs []FileRef
	for _, g := range groups {
		for _, p := range r.Files[g] {
			refs = append(refs, FileRef{Group: g, Path: p, Origin: r.Origins[g]})
		}
	}
	return refs
}

// ParameterNames returns the declared parameter names in sorted order
func (r *ResolvedTemplate) ParameterNames() []string {
	names := make([]string, 0, len(r.Parameters))
	for name := range r.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary is the condensed view used by listings
type Summary struct {
	Path        string   `json:"path"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags"`
}
