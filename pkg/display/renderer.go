package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dockplate/pkg/engine"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/harness"
	"github.com/arthur-debert/dockplate/pkg/style"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// wordWrap is the glamour wrap width for markdown output
const wordWrap = 100

// Renderer writes results to out in one format
type Renderer struct {
	out    io.Writer
	format Format
}

// NewRenderer creates a renderer. FormatAuto is resolved against out once.
func NewRenderer(out io.Writer, format Format) *Renderer {
	f := resolve(format, out)
	if f != FormatTerminal {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}
	return &Renderer{out: out, format: f}
}

// Format returns the resolved output format
func (r *Renderer) Format() Format { return r.format }

func (r *Renderer) styled() bool { return r.format == FormatTerminal }

func (r *Renderer) paint(s lipgloss.Style, text string) string {
	if !r.styled() {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// JSON writes v as indented JSON
func (r *Renderer) JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode JSON output")
	}
	r.printf("%s\n", data)
	return nil
}

// YAML writes v as YAML, or JSON when the renderer is in JSON mode
func (r *Renderer) YAML(v interface{}) error {
	if r.format == FormatJSON {
		return r.JSON(v)
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode YAML output")
	}
	r.printf("%s", data)
	return nil
}

// Markdown renders md with glamour on terminals and verbatim otherwise
func (r *Renderer) Markdown(md string) error {
	if !r.styled() {
		r.printf("%s", md)
		if !strings.HasSuffix(md, "\n") {
			r.printf("\n")
		}
		return nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create markdown renderer")
	}
	out, err := tr.Render(md)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render markdown")
	}
	r.printf("%s", out)
	return nil
}

// Templates renders a template listing
func (r *Renderer) Templates(list []types.Summary) error {
	if r.format == FormatJSON {
		if list == nil {
			list = []types.Summary{}
		}
		return r.JSON(list)
	}
	if len(list) == 0 {
		r.printf("%s\n", r.paint(style.MutedStyle, "No templates found."))
		return nil
	}

	data := pterm.TableData{{"TEMPLATE", "NAME", "VERSION", "CATEGORY", "DESCRIPTION"}}
	for _, s := range list {
		data = append(data, []string{
			s.Path,
			s.Name,
			s.Version,
			r.paint(style.CategoryStyle(string(s.Category)), string(s.Category)),
			s.Description,
		})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render table")
	}
	r.printf("%s\n", table)
	return nil
}

// Validation renders the outcome of validating one template
func (r *Renderer) Validation(v *engine.TemplateValidation) error {
	if r.format == FormatJSON {
		return r.JSON(v)
	}
	if v.Valid {
		r.printf("%s %s is valid\n", r.paint(style.SuccessStyle, style.SuccessMark), v.Template)
	} else {
		r.printf("%s %s is invalid\n", r.paint(style.ErrorStyle, style.ErrorMark), v.Template)
	}
	for _, e := range v.Errors {
		r.printf("  %s %s\n", r.paint(style.ErrorStyle, style.ErrorMark), e)
	}
	for _, w := range v.Warnings {
		r.printf("  %s %s\n", r.paint(style.WarningStyle, style.WarningMark), w)
	}
	return nil
}

// Generation renders a generation report
func (r *Renderer) Generation(rep *types.GenerationReport) error {
	if r.format == FormatJSON {
		return r.JSON(rep)
	}
	verb := "Generated"
	if rep.DryRun {
		verb = "Would generate"
	}
	target := rep.OutputDir
	if target == "" {
		target = "(dry run)"
	}
	r.printf("%s %s %d file(s) from %s into %s\n",
		r.paint(style.SuccessStyle, style.SuccessMark), verb, len(rep.Files),
		r.paint(style.TitleStyle, rep.Template), r.paint(style.PathStyle, target))

	for _, f := range rep.Files {
		r.printf("  %s %s\n", f.Path, r.paint(style.MutedStyle, "("+f.Origin+")"))
	}
	if len(rep.Chain) > 1 {
		r.printf("%s %s\n", r.paint(style.MutedStyle, "inherits:"), strings.Join(rep.Chain, " -> "))
	}
	return nil
}

// Files prints generated contents, as used by dry runs
func (r *Renderer) Files(rep *types.GenerationReport) {
	for _, f := range rep.Files {
		r.printf("\n%s\n%s", r.paint(style.TitleStyle, "==> "+f.Path+" <=="), f.Content)
		if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
			r.printf("\n")
		}
	}
}

// Suite renders one harness run
func (r *Renderer) Suite(s *harness.Suite) error {
	if r.format == FormatJSON {
		return r.JSON(s)
	}
	r.printf("%s\n", r.paint(style.TitleStyle, s.Template))
	for _, res := range s.Results {
		status := string(res.Status)
		mark := style.StatusMark(status)
		if r.styled() {
			mark = style.StatusStyle(status).Sprint(mark)
		}
		line := fmt.Sprintf("  %s %-14s %s", mark, res.Name, res.Duration.Round(time.Millisecond))
		if res.Error != "" {
			line += "  " + r.paint(style.MutedStyle, firstLine(res.Error))
		}
		r.printf("%s\n", line)
	}
	summary := fmt.Sprintf("%d passed, %d failed, %d skipped (%.1f%%)",
		s.Passed, s.Failed, s.Skipped, s.SuccessRate())
	if s.Success() {
		r.printf("%s\n", r.paint(style.SuccessStyle, summary))
	} else {
		r.printf("%s\n", r.paint(style.ErrorStyle, summary))
	}
	return nil
}

// Batch renders every suite of a batch followed by a summary
func (r *Renderer) Batch(b *harness.BatchResult) error {
	if r.format == FormatJSON {
		return r.JSON(b)
	}
	for i, s := range b.Suites {
		if i > 0 {
			r.printf("\n")
		}
		if err := r.Suite(s); err != nil {
			return err
		}
	}
	summary := fmt.Sprintf("%d template(s): %d passed, %d failed", len(b.Suites), b.Passed, b.Failed)
	if b.Success() {
		r.printf("\n%s\n", r.paint(style.SuccessStyle, summary))
	} else {
		r.printf("\n%s\n", r.paint(style.ErrorStyle, summary))
	}
	return nil
}

// TagPlan is the JSON shape of a tag listing
type TagPlan struct {
	Repository string   `json:"repository"`
	Tags       []string `json:"tags"`
	References []string `json:"references"`
}

// Tags renders planned image references. refs are full `repository:tag`
// strings as returned by tags.Plan.
func (r *Renderer) Tags(repository string, refs []string) error {
	plan := TagPlan{Repository: repository, References: refs}
	for _, ref := range refs {
		plan.Tags = append(plan.Tags, strings.TrimPrefix(ref, repository+":"))
	}
	if r.format == FormatJSON {
		return r.JSON(plan)
	}
	for _, ref := range refs {
		r.printf("%s\n", ref)
	}
	return nil
}

// errorView is the JSON shape of one coded error
type errorView struct {
	Code    errors.ErrorCode       `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error renders err with one line per coded member and its details
func (r *Renderer) Error(err error) {
	if err == nil {
		return
	}
	members := errors.Flatten(err)
	if r.format == FormatJSON {
		views := make([]errorView, 0, len(members))
		for _, e := range members {
			views = append(views, errorView{Code: e.Code, Message: e.Error(), Details: e.Details})
		}
		_ = r.JSON(map[string]interface{}{"errors": views})
		return
	}
	for _, e := range members {
		r.printf("%s %s\n", r.paint(style.ErrorStyle, style.ErrorMark), e.Error())
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			r.printf("    %s %v\n", r.paint(style.MutedStyle, k+":"), e.Details[k])
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
