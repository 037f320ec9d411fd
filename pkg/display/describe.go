package display

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/dockplate/pkg/params"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// DescribeMarkdown documents a resolved template: its metadata, parameters,
// files and where each came from.
func DescribeMarkdown(rt *types.ResolvedTemplate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rt.Name)
	if rt.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", rt.Description)
	}

	fmt.Fprintf(&b, "- **Path**: `%s`\n", rt.Path)
	fmt.Fprintf(&b, "- **Version**: %s\n", rt.Version)
	fmt.Fprintf(&b, "- **Category**: %s\n", rt.Category)
	if rt.Author != "" {
		fmt.Fprintf(&b, "- **Author**: %s\n", rt.Author)
	}
	if rt.License != "" {
		fmt.Fprintf(&b, "- **License**: %s\n", rt.License)
	}
	if len(rt.Tags) > 0 {
		fmt.Fprintf(&b, "- **Tags**: %s\n", strings.Join(rt.Tags, ", "))
	}
	if len(rt.Chain) > 1 {
		fmt.Fprintf(&b, "- **Inherits**: %s\n", strings.Join(rt.Chain[:len(rt.Chain)-1], " → "))
	}

	if len(rt.Parameters) > 0 {
		b.WriteString("\n## Parameters\n\n| Name | Spec | Description |\n|------|------|-------------|\n")
		for _, name := range rt.ParameterNames() {
			spec := rt.Parameters[name]
			fmt.Fprintf(&b, "| `%s` | %s | %s |\n", name, escapeCell(params.Describe(spec)), escapeCell(spec.Description))
		}
	}

	if refs := rt.FileRefs(); len(refs) > 0 {
		b.WriteString("\n## Files\n\n")
		for _, ref := range refs {
			fmt.Fprintf(&b, "- `%s` (%s, from `%s`)\n", ref.Path, ref.Group, ref.Origin)
		}
	}

	if len(rt.Platforms) > 0 {
		fmt.Fprintf(&b, "\n## Platforms\n\n%s\n", strings.Join(rt.Platforms, ", "))
	}

	if !rt.Testing.IsZero() {
		b.WriteString("\n## Testing\n\n")
		if rt.Testing.HealthCheck != "" {
			fmt.Fprintf(&b, "- **Health check**: `%s`\n", rt.Testing.HealthCheck)
		}
		for _, c := range rt.Testing.TestCommands {
			fmt.Fprintf(&b, "- `%s`\n", c)
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
