// Package tags plans the image references a template publishes under.
package tags

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// DefaultRegistry is used when Options.Registry is empty
const DefaultRegistry = "docker.io"

var tagPattern = regexp.MustCompile(`^[a-z0-9_][a-z0-9_.-]{0,127}$`)

// Options controls tag planning
type Options struct {
	Registry string
	Latest   bool
}

// Plan returns the image references for rt: the full version, major.minor
// and major for releases, every explicit registry tag, and latest when
// enabled. References are lowercased and deduplicated, in that order.
func Plan(rt *types.ResolvedTemplate, opts Options) ([]string, error) {
	repo := Repository(rt, opts.Registry)

	v, err := semver.NewVersion(rt.Version)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "%s: version %q is not a semantic version", rt.Path, rt.Version).
			WithDetail("template", rt.Path)
	}

	candidates := []string{strings.ReplaceAll(v.String(), "+", "-")}
	if v.Prerelease() == "" {
		candidates = append(candidates,
			fmt.Sprintf("%d.%d", v.Major(), v.Minor()),
			fmt.Sprintf("%d", v.Major()),
		)
	}
	candidates = append(candidates, rt.Registry.Tags...)
	if opts.Latest {
		candidates = append(candidates, "latest")
	}

	seen := make(map[string]bool, len(candidates))
	var refs []string
	for _, tag := range candidates {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if !tagPattern.MatchString(tag) {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s: %q is not a valid image tag", rt.Path, tag).
				WithDetail("template", rt.Path).
				WithDetail("tag", tag)
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		refs = append(refs, repo+":"+tag)
	}
	return refs, nil
}

// Repository returns `<registry>/<namespace>/<repository>` for rt, without a
// tag. The repository defaults to the template name.
func Repository(rt *types.ResolvedTemplate, registry string) string {
	if registry == "" {
		registry = DefaultRegistry
	}
	name := rt.Registry.Repository
	if name == "" {
		name = rt.Name
	}

	parts := []string{strings.TrimSuffix(registry, "/")}
	if rt.Registry.Namespace != "" {
		parts = append(parts, rt.Registry.Namespace)
	}
	parts = append(parts, name)
	return strings.ToLower(strings.Join(parts, "/"))
}
