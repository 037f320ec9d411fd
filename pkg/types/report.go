package types

import (
	"path"
	"sort"
	"time"
)

// GeneratedFile is one rendered output file
type GeneratedFile struct {
	// Path is relative to the output directory
	Path    string `json:"path"`
	Group   string `json:"group"`
	Origin  string `json:"origin"`
	Content []byte `json:"-"`
}

// GenerationReport records what one generate invocation produced
type GenerationReport struct {
	Template    string                 `json:"template"`
	Chain       []string               `json:"chain"`
	OutputDir   string                 `json:"output_dir,omitempty"`
	DryRun      bool                   `json:"dry_run"`
	Written     bool                   `json:"written"`
	Params      map[string]interface{} `json:"params"`
	Files       []GeneratedFile        `json:"files"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Contents returns the path -> content mapping
func (r *GenerationReport) Contents() map[string]string {
	out := make(map[string]string, len(r.Files))
	for _, f := range r.Files {
		out[f.Path] = string(f.Content)
	}
	return out
}

// Paths returns the generated relative paths in sorted order
func (r *GenerationReport) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)
	return paths
}

// Dockerfile returns the first generated file named Dockerfile, if any
func (r *GenerationReport) Dockerfile() (GeneratedFile, bool) {
	for _, f := range r.Files {
		if f.Group == "dockerfile" || path.Base(f.Path) == "Dockerfile" {
			return f, true
		}
	}
	return GeneratedFile{}, false
}
