// Package render turns a resolved template and its effective parameters into
// the final content of every declared file.
//
// Bodies are Go text/template documents with the sprig function map.
// Referencing a name that is neither a declared parameter nor a system value
// is an error, and so is printing a declared optional parameter that has no
// value. Rendering is pure: the same inputs always produce the same bytes.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// DefaultGeneratedBy is the generated_by system value
const DefaultGeneratedBy = "dockplate"

// unset stands in for a declared parameter without a value. A nil func is
// false in conditionals and empty for sprig's default, and text/template
// refuses to print it.
type unset func()

var unsetType = fmt.Sprintf("%T", unset(nil))

// Source provides templated bodies. *store.Snapshot implements it.
type Source interface {
	ReadBody(templatePath, rel string) ([]byte, error)
}

// Options controls one render
type Options struct {
	// DryRun only flags the result; content is rendered either way
	DryRun bool

	// GeneratedAt is exposed as generated_at when non-zero
	GeneratedAt time.Time

	// GeneratedBy overrides DefaultGeneratedBy
	GeneratedBy string
}

// Result is the rendered path -> content mapping of one template
type Result struct {
	Template string
	DryRun   bool
	Files    []types.GeneratedFile
}

// Contents returns the path -> content mapping
func (r *Result) Contents() map[string]string {
	out := make(map[string]string, len(r.Files))
	for _, f := range r.Files {
		out[f.Path] = string(f.Content)
	}
	return out
}

// Renderer renders templates whose bodies come from one Source
type Renderer struct {
	src Source
}

// New creates a renderer reading bodies from src
func New(src Source) *Renderer {
	return &Renderer{src: src}
}

// Render produces every declared file of rt. The first failure aborts.
func (r *Renderer) Render(rt *types.ResolvedTemplate, params types.Params, opts Options) (*Result, error) {
	logger := logging.GetLogger("render")
	data := Data(rt, params, opts)

	result := &Result{Template: rt.Path, DryRun: opts.DryRun}
	seen := make(map[string]string)

	for _, ref := range rt.FileRefs() {
		if group, dup := seen[ref.Path]; dup {
			return nil, renderError(rt, ref, fmt.Errorf("also declared in group %q", group), "duplicate output path")
		}
		seen[ref.Path] = ref.Group

		tmpl, err := r.parse(rt, ref)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			if strings.Contains(err.Error(), unsetType) {
				err = fmt.Errorf("a parameter without a value was printed: %w", err)
			}
			return nil, renderError(rt, ref, err, "cannot render")
		}

		result.Files = append(result.Files, types.GeneratedFile{
			Path:    ref.Path,
			Group:   ref.Group,
			Origin:  ref.Origin,
			Content: buf.Bytes(),
		})
	}

	logger.Debug().
		Str("template", rt.Path).
		Int("files", len(result.Files)).
		Bool("dryRun", opts.DryRun).
		Msg("template rendered")
	return result, nil
}

// Check parses every declared body without executing it and returns all
// problems found
func (r *Renderer) Check(rt *types.ResolvedTemplate) error {
	var list errors.List
	for _, ref := range rt.FileRefs() {
		if _, err := r.parse(rt, ref); err != nil {
			list.Add(err)
		}
	}
	return list.ErrOrNil()
}

func (r *Renderer) parse(rt *types.ResolvedTemplate, ref types.FileRef) (*template.Template, error) {
	body, err := r.src.ReadBody(ref.Origin, ref.Path)
	if err != nil {
		return nil, renderError(rt, ref, err, "missing body")
	}

	tmpl, err := template.New(ref.Origin + "/" + ref.Path).
		Option("missingkey=error").
		Funcs(FuncMap()).
		Parse(string(body))
	if err != nil {
		return nil, renderError(rt, ref, err, "syntax error")
	}
	return tmpl, nil
}

// Data builds the template data: effective parameters, declared but unset
// parameters as an unprintable falsy placeholder, and the system values
func Data(rt *types.ResolvedTemplate, params types.Params, opts Options) map[string]interface{} {
	data := make(map[string]interface{}, len(rt.Parameters)+len(types.ReservedParams))
	for name := range rt.Parameters {
		data[name] = unset(nil)
	}
	for name, v := range params {
		data[name] = v.Interface()
	}

	generatedBy := opts.GeneratedBy
	if generatedBy == "" {
		generatedBy = DefaultGeneratedBy
	}
	data[types.SysTemplateName] = rt.Name
	data[types.SysTemplateVersion] = rt.Version
	data[types.SysTemplatePath] = rt.Path
	data[types.SysGeneratedBy] = generatedBy
	if !opts.GeneratedAt.IsZero() {
		data[types.SysGeneratedAt] = opts.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return data
}

func renderError(rt *types.ResolvedTemplate, ref types.FileRef, err error, what string) *errors.Error {
	return errors.Wrapf(err, errors.ErrRender, "%s: %s %s", rt.Path, what, ref.Path).
		WithDetail("template", rt.Path).
		WithDetail("file", ref.Path).
		WithDetail("origin", ref.Origin)
}

// FuncMap returns the functions available to templated bodies
func FuncMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["toYaml"] = toYAML
	funcs["toToml"] = toTOML
	return funcs
}
