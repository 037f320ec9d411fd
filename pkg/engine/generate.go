package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"

	"github.com/arthur-debert/dockplate/pkg/errors"
	dockfs "github.com/arthur-debert/dockplate/pkg/filesystem"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/params"
	"github.com/arthur-debert/dockplate/pkg/render"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// GenerateRequest describes one generate invocation
type GenerateRequest struct {
	TemplatePath string
	OutputDir    string
	Params       map[string]interface{}
	DryRun       bool

	// Strict requires explicit values for required parameters
	Strict bool
}

// Generate resolves, validates and renders a template, then writes the
// files unless DryRun is set. Nothing is written unless every step before
// writing succeeds, and a failed write removes what this call created.
func (e *Engine) Generate(req GenerateRequest) (*types.GenerationReport, error) {
	logger := logging.GetLogger("engine")
	done := logging.LogOperationStart(logger, "generate")
	defer done()

	if !req.DryRun && req.OutputDir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "output directory is required").
			WithDetail("template", req.TemplatePath)
	}

	rt, err := e.Resolve(req.TemplatePath)
	if err != nil {
		return nil, err
	}

	effective, err := params.Validate(rt.Parameters, req.Params, params.Options{
		StrictRequired: e.opts.StrictRequired || req.Strict,
	})
	if err != nil {
		return nil, err
	}

	generatedAt := e.now()
	result, err := e.renderer.Render(rt, effective, render.Options{DryRun: req.DryRun, GeneratedAt: generatedAt})
	if err != nil {
		return nil, err
	}

	report := &types.GenerationReport{
		Template:    rt.Path,
		Chain:       rt.Chain,
		OutputDir:   req.OutputDir,
		DryRun:      req.DryRun,
		Params:      effective.Plain(),
		Files:       result.Files,
		GeneratedAt: generatedAt,
	}

	if req.DryRun {
		logger.Info().
			Str("template", rt.Path).
			Int("files", len(report.Files)).
			Msg("dry run, nothing written")
		return report, nil
	}

	if err := e.write(req.OutputDir, result.Files); err != nil {
		return nil, err
	}
	report.Written = true

	logger.Info().
		Str("template", rt.Path).
		Str("output", req.OutputDir).
		Int("files", len(report.Files)).
		Msg("template generated")
	return report, nil
}

// write stores every file under dir as one synthfs pipeline. A failed run
// rolls back what the pipeline created and restores files it replaced.
func (e *Engine) write(dir string, files []types.GeneratedFile) error {
	logger := logging.GetLogger("engine")

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "invalid output directory %s", dir)
	}

	sfs := synthfs.New()
	stamp := time.Now().UnixNano()
	var ops []synthfs.Operation
	opFiles := make(map[synthfs.OperationID]string)
	plannedDirs := make(map[string]bool)
	var replaced []types.GeneratedFile

	for i, f := range files {
		target := filepath.Join(absDir, filepath.FromSlash(f.Path))

		for _, d := range e.missingDirs(filepath.Dir(target), plannedDirs) {
			id := fmt.Sprintf("mkdir_%d_%s_%d", i, filepath.Base(d), stamp)
			ops = append(ops, sfs.CreateDirWithID(id, d, e.opts.DirMode))
			opFiles[synthfs.OperationID(id)] = f.Path
		}

		id := fmt.Sprintf("write_%d_%s_%d", i, filepath.Base(target), stamp)
		opFiles[synthfs.OperationID(id)] = f.Path

		info, statErr := e.out.Stat(target)
		switch {
		case statErr != nil:
			ops = append(ops, sfs.CreateFileWithID(id, target, f.Content, e.opts.FileMode))
		case info.IsDir():
			return errors.Newf(errors.ErrFileWrite, "cannot write %s: a directory is in the way", f.Path).
				WithDetail("file", f.Path)
		default:
			old, err := e.out.ReadFile(target)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot read existing %s", f.Path).
					WithDetail("file", f.Path)
			}
			replaced = append(replaced, types.GeneratedFile{Path: target, Content: old})
			content, mode := f.Content, e.opts.FileMode
			ops = append(ops, sfs.CustomOperationWithID(id, func(ctx context.Context, fs filesystem.FileSystem) error {
				return fs.WriteFile(target, content, mode)
			}))
		}
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = true

	logger.Debug().Int("operationCount", len(ops)).Str("output", absDir).Msg("executing write pipeline")
	result, err := synthfs.RunWithOptions(context.Background(), dockfs.ForSynthfs(e.out), options, ops...)
	if err == nil {
		return nil
	}

	for _, r := range replaced {
		if rerr := e.out.WriteFile(r.Path, r.Content, e.opts.FileMode); rerr != nil {
			logger.Warn().Str("path", r.Path).Err(rerr).Msg("rollback: cannot restore file")
		}
	}

	wrapped := errors.Wrap(err, errors.ErrFileWrite, "failed to write generated files").
		WithDetail("output", dir)
	if file := failedFile(result, opFiles); file != "" {
		wrapped = errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", file).
			WithDetail("output", dir).
			WithDetail("file", file)
	}
	return wrapped
}

// missingDirs lists the directories from the outermost missing one down to
// dir, skipping those already planned
func (e *Engine) missingDirs(dir string, planned map[string]bool) []string {
	var missing []string
	for d := dir; !planned[d]; d = filepath.Dir(d) {
		if _, err := e.out.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	out := make([]string, 0, len(missing))
	for i := len(missing) - 1; i >= 0; i-- {
		planned[missing[i]] = true
		out = append(out, missing[i])
	}
	return out
}

// failedFile returns the generated file behind the first failed operation
func failedFile(result *synthfs.Result, opFiles map[synthfs.OperationID]string) string {
	if result == nil {
		return ""
	}
	for _, op := range result.GetOperations() {
		r, ok := op.(synthfs.OperationResult)
		if !ok || r.Status == synthfs.StatusSuccess {
			continue
		}
		if file, found := opFiles[r.OperationID]; found {
			return file
		}
	}
	return ""
}
