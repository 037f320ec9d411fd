package engine

import (
	"fmt"

	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/params"
	"github.com/arthur-debert/dockplate/pkg/render"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// TemplateValidation is the outcome of checking one template
type TemplateValidation struct {
	Template string                  `json:"template"`
	Valid    bool                    `json:"valid"`
	Errors   []string                `json:"errors"`
	Warnings []string                `json:"warnings"`
	Resolved *types.ResolvedTemplate `json:"-"`
}

func (v *TemplateValidation) fail(format string, args ...interface{}) {
	v.Valid = false
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *TemplateValidation) warn(format string, args ...interface{}) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

// ValidateTemplate checks that a template resolves, that every declared file
// exists and parses, and that the bodies render with the declared defaults
func (e *Engine) ValidateTemplate(templatePath string) *TemplateValidation {
	v := &TemplateValidation{Template: templatePath, Valid: true}

	rt, err := e.Resolve(templatePath)
	if err != nil {
		for _, fe := range errors.Flatten(err) {
			v.fail("%s", fe.Error())
		}
		return v
	}
	v.Resolved = rt
	v.Template = rt.Path

	refs := rt.FileRefs()
	if len(refs) == 0 {
		v.warn("template declares no files")
	}
	for _, ref := range refs {
		if !e.snap.BodyExists(ref.Origin, ref.Path) {
			v.fail("required file missing: %s (declared by %s)", ref.Path, ref.Origin)
		}
	}
	if _, ok := rt.Files["dockerfile"]; !ok {
		v.warn("no dockerfile group declared")
	}
	if rt.Description == "" {
		v.warn("description is empty")
	}

	if err := e.renderer.Check(rt); err != nil {
		for _, fe := range errors.Flatten(err) {
			if errors.IsErrorCode(fe, errors.ErrNotFound) {
				continue
			}
			v.fail("template syntax error: %s", fe.Error())
		}
	}
	if !v.Valid {
		return v
	}

	effective, err := params.Validate(rt.Parameters, nil, params.Options{})
	if err != nil {
		missing := 0
		for _, fe := range errors.Flatten(err) {
			if fe.Code == errors.ErrMissingParameter {
				missing++
				v.warn("required parameter %v has no default", fe.Details["parameter"])
				continue
			}
			v.fail("invalid default: %s", fe.Message)
		}
		if missing > 0 && v.Valid {
			v.warn("render check skipped: supply test parameters to render this template")
		}
		return v
	}

	if _, err := e.renderer.Render(rt, effective, render.Options{DryRun: true}); err != nil {
		v.fail("%s", err.Error())
	}
	return v
}

// CheckSyntax parses every declared body of templatePath without rendering
func (e *Engine) CheckSyntax(templatePath string) error {
	rt, err := e.Resolve(templatePath)
	if err != nil {
		return err
	}
	return e.renderer.Check(rt)
}
