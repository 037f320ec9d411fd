// Package engine composes the template store, resolver, parameter validator
// and renderer into the operations the CLI exposes: resolve, validate,
// render, generate, list and template self-checks.
package engine

import (
	"os"
	"time"

	"github.com/arthur-debert/dockplate/pkg/params"
	"github.com/arthur-debert/dockplate/pkg/render"
	"github.com/arthur-debert/dockplate/pkg/resolver"
	"github.com/arthur-debert/dockplate/pkg/store"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// Options configures an Engine
type Options struct {
	FileMode       os.FileMode
	DirMode        os.FileMode
	StrictRequired bool

	// Clock supplies generated_at. Nil leaves it out, which keeps output
	// byte-for-byte reproducible.
	Clock func() time.Time
}

// DefaultOptions returns the 0644/0755 write modes
func DefaultOptions() Options {
	return Options{FileMode: 0644, DirMode: 0755}
}

// Engine runs the template pipeline over one store snapshot
type Engine struct {
	out      types.FS
	snap     *store.Snapshot
	resolver *resolver.Resolver
	renderer *render.Renderer
	opts     Options
}

// New creates an engine over snap that writes generated files to out
func New(snap *store.Snapshot, out types.FS, opts Options) *Engine {
	if opts.FileMode == 0 {
		opts.FileMode = 0644
	}
	if opts.DirMode == 0 {
		opts.DirMode = 0755
	}
	return &Engine{
		out:      out,
		snap:     snap,
		resolver: resolver.New(snap),
		renderer: render.New(snap),
		opts:     opts,
	}
}

// Open loads the store at root on fs and returns an engine writing to fs
func Open(fs types.FS, root string, opts Options) (*Engine, error) {
	snap, err := store.Load(fs, root)
	if err != nil {
		return nil, err
	}
	return New(snap, fs, opts), nil
}

// Snapshot returns the store snapshot the engine reads from
func (e *Engine) Snapshot() *store.Snapshot { return e.snap }

// Options returns the engine options
func (e *Engine) Options() Options { return e.opts }

// Resolve flattens the inheritance chain of templatePath
func (e *Engine) Resolve(templatePath string) (*types.ResolvedTemplate, error) {
	return e.resolver.Resolve(templatePath)
}

// ValidateParameters checks supplied values against rt's parameter specs
func (e *Engine) ValidateParameters(rt *types.ResolvedTemplate, supplied map[string]interface{}) (types.Params, error) {
	return params.Validate(rt.Parameters, supplied, params.Options{StrictRequired: e.opts.StrictRequired})
}

// Render produces the content of every declared file of rt
func (e *Engine) Render(rt *types.ResolvedTemplate, effective types.Params, dryRun bool) (*render.Result, error) {
	return e.renderer.Render(rt, effective, render.Options{DryRun: dryRun, GeneratedAt: e.now()})
}

// List summarizes the templates in the store
func (e *Engine) List(category types.Category) []types.Summary {
	return e.snap.List(category)
}

func (e *Engine) now() time.Time {
	if e.opts.Clock == nil {
		return time.Time{}
	}
	return e.opts.Clock()
}
