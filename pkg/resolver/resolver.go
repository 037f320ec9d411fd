// Package resolver flattens a template's inheritance chain into a single
// ResolvedTemplate.
//
// The chain is walked upward from the requested template with a visited set,
// then merged root first. Parameters, files and dependency groups are
// replaced per key by the more specific template; scalar metadata is
// replaced when the child sets it.
package resolver

import (
	"strings"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/store"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// Source provides descriptors by store path. *store.Snapshot implements it.
type Source interface {
	Descriptor(templatePath string) (*types.Descriptor, error)
}

// Resolver resolves templates against one Source
type Resolver struct {
	src Source
}

// New creates a resolver reading from src
func New(src Source) *Resolver {
	return &Resolver{src: src}
}

// Chain returns the descriptors from the root ancestor down to templatePath
func (r *Resolver) Chain(templatePath string) ([]*types.Descriptor, error) {
	logger := logging.GetLogger("resolver")

	current := store.Normalize(templatePath)
	referrer := ""
	visited := make(map[string]bool)
	var walk []string
	var chain []*types.Descriptor

	for {
		if visited[current] {
			cycle := append(walk[indexOf(walk, current):], current)
			return nil, errors.Newf(errors.ErrCycle, "inheritance cycle: %s", strings.Join(cycle, " -> ")).
				WithDetail("template", store.Normalize(templatePath)).
				WithDetail("cycle", cycle)
		}
		visited[current] = true
		walk = append(walk, current)

		d, err := r.src.Descriptor(current)
		if err != nil {
			if referrer != "" && errors.IsErrorCode(err, errors.ErrNotFound) {
				return nil, errors.Wrapf(err, errors.ErrNotFound, "parent %s of %s not found", current, referrer).
					WithDetail("template", current).
					WithDetail("referrer", referrer)
			}
			return nil, err
		}
		chain = append(chain, d)

		if d.Inherits == "" {
			break
		}
		referrer = current
		current = store.Normalize(d.Inherits)
	}

	// walked leaf first; callers want root first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	logger.Debug().
		Str("template", templatePath).
		Strs("chain", walk).
		Msg("inheritance chain resolved")
	return chain, nil
}

// Resolve returns the fully merged template at templatePath
func (r *Resolver) Resolve(templatePath string) (*types.ResolvedTemplate, error) {
	chain, err := r.Chain(templatePath)
	if err != nil {
		return nil, err
	}
	return Merge(chain), nil
}

// Merge flattens a root-first chain of descriptors
func Merge(chain []*types.Descriptor) *types.ResolvedTemplate {
	rt := &types.ResolvedTemplate{
		Descriptor: types.Descriptor{
			Parameters:   make(map[string]types.ParamSpec),
			Files:        make(map[string][]string),
			Dependencies: make(map[string][]string),
		},
		Origins: make(map[string]string),
	}

	for _, d := range chain {
		rt.Chain = append(rt.Chain, d.Path)
		mergeInto(rt, d)
	}
	rt.Inherits = ""
	return rt
}

func mergeInto(rt *types.ResolvedTemplate, d *types.Descriptor) {
	rt.Path = d.Path
	rt.Source = d.Source

	setString(&rt.Name, d.Name)
	setString(&rt.Version, d.Version)
	setString(&rt.Description, d.Description)
	setString(&rt.Author, d.Author)
	setString(&rt.License, d.License)
	if d.Category != "" {
		rt.Category = d.Category
	}
	if len(d.Tags) > 0 {
		rt.Tags = append([]string(nil), d.Tags...)
	}
	if len(d.Platforms) > 0 {
		rt.Platforms = append([]string(nil), d.Platforms...)
	}

	for name, spec := range d.Parameters {
		rt.Parameters[name] = spec
	}
	for group, files := range d.Files {
		rt.Files[group] = append([]string(nil), files...)
		rt.Origins[group] = d.Path
	}
	for group, deps := range d.Dependencies {
		rt.Dependencies[group] = append([]string(nil), deps...)
	}

	if !d.Testing.IsZero() {
		rt.Testing = d.Testing
	}
	setString(&rt.Registry.Namespace, d.Registry.Namespace)
	setString(&rt.Registry.Repository, d.Registry.Repository)
	if len(d.Registry.Tags) > 0 {
		rt.Registry.Tags = append([]string(nil), d.Registry.Tags...)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func indexOf(list []string, v string) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return 0
}
