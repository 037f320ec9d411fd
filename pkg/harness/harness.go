package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/dockplate/pkg/engine"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// Options configures the harness
type Options struct {
	DockerBinary   string
	BuildTimeout   time.Duration
	CommandTimeout time.Duration
	CleanupImages  bool
	Concurrency    int
}

// DefaultOptions returns the docker binary, 5m build and 1m command timeouts
func DefaultOptions() Options {
	return Options{
		DockerBinary:   "docker",
		BuildTimeout:   5 * time.Minute,
		CommandTimeout: time.Minute,
		CleanupImages:  true,
		Concurrency:    4,
	}
}

// Harness runs template test suites
type Harness struct {
	engine *engine.Engine
	fs     types.FS
	runner Runner
	opts   Options

	dockerOnce sync.Once
	docker     bool
}

// New creates a harness. Generated build contexts are written to temporary
// directories on fs.
func New(e *engine.Engine, fs types.FS, runner Runner, opts Options) *Harness {
	if opts.DockerBinary == "" {
		opts.DockerBinary = "docker"
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Harness{engine: e, fs: fs, runner: runner, opts: opts}
}

// DockerAvailable reports whether `docker --version` succeeds. The check
// runs once per harness.
func (h *Harness) DockerAvailable(ctx context.Context) bool {
	h.dockerOnce.Do(func() {
		_, err := h.runner.Run(ctx, Command{
			Name:    h.opts.DockerBinary,
			Args:    []string{"--version"},
			Timeout: 10 * time.Second,
		})
		h.docker = err == nil
		if err != nil {
			logger := logging.GetLogger("harness")
			logger.Info().Err(err).Msg("docker not available, build stages will be skipped")
		}
	})
	return h.docker
}

// ImageName returns the throwaway image tag used for templatePath
func ImageName(templatePath string) string {
	return "test-" + strings.ToLower(strings.ReplaceAll(strings.Trim(templatePath, "/"), "/", "-"))
}

// run is the per-template state of one suite run
type run struct {
	h      *Harness
	ctx    context.Context
	suite  *Suite
	path   string
	params map[string]interface{}
	rt     *types.ResolvedTemplate
	report *types.GenerationReport
	image  string
	built  bool
}

// Run exercises one template and returns its suite
func (h *Harness) Run(ctx context.Context, templatePath string, params map[string]interface{}) *Suite {
	logger := logging.GetLogger("harness")
	start := time.Now()

	r := &run{
		h:      h,
		ctx:    ctx,
		suite:  &Suite{Template: templatePath},
		path:   templatePath,
		params: params,
		image:  ImageName(templatePath),
	}

	r.stage(StageValidation, r.validation)
	r.stage(StageSyntax, r.syntax)
	r.stage(StageGeneration, r.generation)

	r.suite.DockerAvailable = h.DockerAvailable(ctx)
	r.stage(StageBuild, r.build)
	r.stage(StageHealthCheck, r.healthCheck)
	if r.rt != nil {
		for i, line := range r.rt.Testing.TestCommands {
			line := line
			r.stage(fmt.Sprintf("%s_%d", StageCommand, i+1), func() StageResult { return r.command(line) })
		}
	}
	r.cleanup()

	r.suite.Duration = time.Since(start)
	logger.Info().
		Str("template", templatePath).
		Int("passed", r.suite.Passed).
		Int("failed", r.suite.Failed).
		Int("skipped", r.suite.Skipped).
		Dur("duration", r.suite.Duration).
		Msg("template suite finished")
	return r.suite
}

func (r *run) stage(name string, fn func() StageResult) {
	start := time.Now()
	res := fn()
	res.Name = name
	res.Duration = time.Since(start)
	r.suite.add(res)
}

func passed(output string) StageResult { return StageResult{Status: StatusPassed, Output: output} }
func skipped(reason string) StageResult { return StageResult{Status: StatusSkipped, Error: reason} }
func failed(err error, output string) StageResult {
	return StageResult{Status: StatusFailed, Error: err.Error(), Output: output}
}

func (r *run) validation() StageResult {
	v := r.h.engine.ValidateTemplate(r.path)
	r.rt = v.Resolved
	if !v.Valid {
		return StageResult{
			Status: StatusFailed,
			Error:  strings.Join(v.Errors, "; "),
			Output: strings.Join(v.Warnings, "\n"),
		}
	}
	return passed(strings.Join(v.Warnings, "\n"))
}

func (r *run) syntax() StageResult {
	if err := r.h.engine.CheckSyntax(r.path); err != nil {
		return failed(err, "")
	}
	return passed("")
}

func (r *run) generation() StageResult {
	report, err := r.h.engine.Generate(engine.GenerateRequest{
		TemplatePath: r.path,
		Params:       r.params,
		DryRun:       true,
	})
	if err != nil {
		return failed(err, "")
	}
	r.report = report
	return passed(strings.Join(report.Paths(), "\n"))
}

func (r *run) build() StageResult {
	switch {
	case !r.suite.DockerAvailable:
		return skipped("docker not available")
	case r.report == nil:
		return skipped("generation failed")
	}
	dockerfile, ok := r.report.Dockerfile()
	if !ok {
		return skipped("no Dockerfile generated")
	}

	dir, err := r.h.fs.MkdirTemp("", "dockplate-test-")
	if err != nil {
		return failed(errors.Wrap(err, errors.ErrInternal, "cannot create build context"), "")
	}
	defer func() { _ = r.h.fs.RemoveAll(dir) }()

	if _, err := r.h.engine.Generate(engine.GenerateRequest{
		TemplatePath: r.path,
		OutputDir:    dir,
		Params:       r.params,
	}); err != nil {
		return failed(err, "")
	}

	args := []string{"build", "-t", r.image, "-f", filepath.Join(dir, filepath.FromSlash(dockerfile.Path))}
	for _, k := range sortedKeys(r.rt.Testing.BuildArgs) {
		args = append(args, "--build-arg", k+"="+r.rt.Testing.BuildArgs[k])
	}
	args = append(args, dir)

	out, err := r.h.runner.Run(r.ctx, Command{
		Name:    r.h.opts.DockerBinary,
		Args:    args,
		Timeout: r.h.opts.BuildTimeout,
	})
	if err != nil {
		return failed(err, tail(out.Combined(), 20))
	}
	r.built = true
	return passed("built " + r.image)
}

func (r *run) healthCheck() StageResult {
	if r.rt == nil || r.rt.Testing.HealthCheck == "" {
		return skipped("no health check defined")
	}
	if !r.built {
		return skipped("image not built")
	}
	return r.inContainer([]string{"sh", "-c", r.rt.Testing.HealthCheck})
}

func (r *run) command(line string) StageResult {
	if !r.built {
		return skipped("image not built")
	}
	argv, err := SplitCommand(line)
	if err != nil {
		return failed(err, "")
	}
	return r.inContainer(argv)
}

func (r *run) inContainer(argv []string) StageResult {
	args := []string{"run", "--rm"}
	for _, k := range sortedKeys(r.rt.Testing.EnvVars) {
		args = append(args, "-e", k+"="+r.rt.Testing.EnvVars[k])
	}
	args = append(args, r.image)
	args = append(args, argv...)

	out, err := r.h.runner.Run(r.ctx, Command{
		Name:    r.h.opts.DockerBinary,
		Args:    args,
		Timeout: r.h.opts.CommandTimeout,
	})
	if err != nil {
		return failed(err, tail(out.Combined(), 20))
	}
	return passed(tail(out.Combined(), 20))
}

func (r *run) cleanup() {
	if !r.built || !r.h.opts.CleanupImages {
		return
	}
	if _, err := r.h.runner.Run(context.Background(), Command{
		Name:    r.h.opts.DockerBinary,
		Args:    []string{"rmi", "-f", r.image},
		Timeout: r.h.opts.CommandTimeout,
	}); err != nil {
		logger := logging.GetLogger("harness")
		logger.Warn().Str("image", r.image).Err(err).Msg("cannot remove test image")
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
