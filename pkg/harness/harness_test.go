// pkg/harness/harness_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Mock Runner
// PURPOSE: Test stage sequencing and docker command assembly

package harness_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dockplate/pkg/engine"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/harness"
	"github.com/arthur-debert/dockplate/pkg/testutil"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// mockRunner is a testify mock of harness.Runner
type mockRunner struct {
	mock.Mock
	mu    sync.Mutex
	calls []harness.Command
}

func (m *mockRunner) Run(ctx context.Context, cmd harness.Command) (harness.Output, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	m.mu.Unlock()
	args := m.Called(ctx, cmd)
	return args.Get(0).(harness.Output), args.Error(1)
}

func (m *mockRunner) commandsStartingWith(sub string) []harness.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []harness.Command
	for _, c := range m.calls {
		if len(c.Args) > 0 && c.Args[0] == sub {
			out = append(out, c)
		}
	}
	return out
}

func subcommand(name string) interface{} {
	return mock.MatchedBy(func(c harness.Command) bool {
		return len(c.Args) > 0 && c.Args[0] == name
	})
}

func setup(t *testing.T, tree *testutil.Tree) (*engine.Engine, types.FS) {
	t.Helper()
	fsys, root := tree.Build(t)
	e, err := engine.Open(fsys, root, engine.DefaultOptions())
	require.NoError(t, err)
	return e, fsys
}

func dockerOK(m *mockRunner) {
	m.On("Run", mock.Anything, subcommand("--version")).Return(harness.Output{Stdout: "Docker version 27.0.1"}, nil)
	m.On("Run", mock.Anything, subcommand("build")).Return(harness.Output{Stdout: "built"}, nil)
	m.On("Run", mock.Anything, subcommand("run")).Return(harness.Output{Stdout: "ok\n"}, nil)
	m.On("Run", mock.Anything, subcommand("rmi")).Return(harness.Output{}, nil)
}

func TestRun_AllStagesPass(t *testing.T) {
	e, fsys := setup(t, testutil.StandardTree())
	m := &mockRunner{}
	dockerOK(m)

	h := harness.New(e, fsys, m, harness.DefaultOptions())
	suite := h.Run(context.Background(), "base/alpine", nil)

	var names []string
	for _, r := range suite.Results {
		names = append(names, r.Name)
		assert.Equal(t, harness.StatusPassed, r.Status, "%s: %s", r.Name, r.Error)
	}
	assert.Equal(t, []string{"validation", "syntax", "generation", "build", "health_check", "command_1"}, names)
	assert.True(t, suite.Success())
	assert.True(t, suite.DockerAvailable)
	assert.Equal(t, 100.0, suite.SuccessRate())

	builds := m.commandsStartingWith("build")
	require.Len(t, builds, 1)
	args := builds[0].Args
	assert.Equal(t, []string{"build", "-t", "test-base-alpine", "-f"}, args[:4])
	assert.True(t, strings.HasSuffix(args[4], "Dockerfile"))
	assert.Equal(t, harness.DefaultOptions().BuildTimeout, builds[0].Timeout)

	runs := m.commandsStartingWith("run")
	require.Len(t, runs, 2)
	assert.Equal(t, []string{"run", "--rm", "test-base-alpine", "sh", "-c", "true"}, runs[0].Args)
	assert.Equal(t, []string{"run", "--rm", "test-base-alpine", "echo", "ok"}, runs[1].Args)

	assert.Len(t, m.commandsStartingWith("rmi"), 1, "image cleaned up")
}

func TestRun_DockerUnavailableSkipsBuildStages(t *testing.T) {
	e, fsys := setup(t, testutil.StandardTree())
	m := &mockRunner{}
	m.On("Run", mock.Anything, subcommand("--version")).Return(harness.Output{}, errors.New(errors.ErrBuild, "not found"))

	h := harness.New(e, fsys, m, harness.DefaultOptions())
	suite := h.Run(context.Background(), "base/alpine", nil)

	assert.False(t, suite.DockerAvailable)
	assert.Equal(t, 3, suite.Passed)
	assert.Equal(t, 3, suite.Skipped)
	assert.True(t, suite.Success())

	build, ok := suite.Stage(harness.StageBuild)
	require.True(t, ok)
	assert.Equal(t, "docker not available", build.Error)
	m.AssertNotCalled(t, "Run", mock.Anything, subcommand("build"))
}

func TestRun_BuildFailure(t *testing.T) {
	e, fsys := setup(t, testutil.StandardTree())
	m := &mockRunner{}
	m.On("Run", mock.Anything, subcommand("--version")).Return(harness.Output{}, nil)
	m.On("Run", mock.Anything, subcommand("build")).
		Return(harness.Output{Stderr: "step 2/3 failed", ExitCode: 1}, errors.New(errors.ErrBuild, "command failed (exit=1)"))

	h := harness.New(e, fsys, m, harness.DefaultOptions())
	suite := h.Run(context.Background(), "base/alpine", nil)

	build, _ := suite.Stage(harness.StageBuild)
	assert.Equal(t, harness.StatusFailed, build.Status)
	assert.Contains(t, build.Output, "step 2/3 failed")

	health, _ := suite.Stage(harness.StageHealthCheck)
	assert.Equal(t, harness.StatusSkipped, health.Status)
	assert.False(t, suite.Success())
	m.AssertNotCalled(t, "Run", mock.Anything, subcommand("rmi"))
}

func TestRun_MissingRequiredParameterFailsGeneration(t *testing.T) {
	e, fsys := setup(t, testutil.StandardTree())
	m := &mockRunner{}
	dockerOK(m)

	h := harness.New(e, fsys, m, harness.DefaultOptions())
	suite := h.Run(context.Background(), "apps/nodejs/express", nil)

	gen, _ := suite.Stage(harness.StageGeneration)
	assert.Equal(t, harness.StatusFailed, gen.Status)
	assert.Contains(t, gen.Error, "app_name")

	build, _ := suite.Stage(harness.StageBuild)
	assert.Equal(t, "generation failed", build.Error)

	// with parameters the template passes
	ok := h.Run(context.Background(), "apps/nodejs/express", map[string]interface{}{"app_name": "shop"})
	assert.True(t, ok.Success(), ok.Markdown())
}

func TestRun_BuildContextIsRemoved(t *testing.T) {
	e, fsys := setup(t, testutil.StandardTree())
	m := &mockRunner{}
	dockerOK(m)

	h := harness.New(e, fsys, m, harness.DefaultOptions())
	h.Run(context.Background(), "base/alpine", nil)

	builds := m.commandsStartingWith("build")
	require.Len(t, builds, 1)
	contextDir := builds[0].Args[len(builds[0].Args)-1]
	_, err := fsys.Stat(contextDir)
	assert.Error(t, err)
}

func TestRunBatch_IsolatesFailures(t *testing.T) {
	tree := testutil.StandardTree().
		Template("base/broken", "name: broken\nversion: 1.0.0\ncategory: base\nfiles:\n  dockerfile: Dockerfile\n").
		Body("base/broken", "Dockerfile", "FROM {{ .nope }}\n")
	e, fsys := setup(t, tree)
	m := &mockRunner{}
	m.On("Run", mock.Anything, subcommand("--version")).Return(harness.Output{}, errors.New(errors.ErrBuild, "no docker"))

	opts := harness.DefaultOptions()
	opts.Concurrency = 2
	h := harness.New(e, fsys, m, opts)

	result := h.RunBatch(context.Background(),
		[]string{"base/alpine", "base/broken", "apps/nodejs/express"},
		map[string]map[string]interface{}{"apps/nodejs/express": {"app_name": "shop"}})

	require.Len(t, result.Suites, 3)
	assert.Equal(t, "base/alpine", result.Suites[0].Template)
	assert.True(t, result.Suites[0].Success())
	assert.False(t, result.Suites[1].Success())
	assert.True(t, result.Suites[2].Success())
	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.Success())

	// docker is checked once for the whole batch
	assert.Len(t, m.commandsStartingWith("--version"), 1)
}

func TestRunBatch_Canceled(t *testing.T) {
	e, fsys := setup(t, testutil.StandardTree())
	m := &mockRunner{}
	m.On("Run", mock.Anything, mock.Anything).Return(harness.Output{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := harness.New(e, fsys, m, harness.DefaultOptions()).RunBatch(ctx, []string{"base/alpine"}, nil)
	assert.Equal(t, 1, result.Failed)
}

func TestImageName(t *testing.T) {
	assert.Equal(t, "test-apps-nodejs-express", harness.ImageName("apps/nodejs/express"))
	assert.Equal(t, "test-base-alpine", harness.ImageName("/Base/Alpine/"))
}

func TestSuiteMarkdown(t *testing.T) {
	s := &harness.Suite{Template: "base/alpine"}
	s.Results = []harness.StageResult{
		{Name: "validation", Status: harness.StatusPassed},
		{Name: "build", Status: harness.StatusFailed, Error: "exit\n1", Output: "log"},
	}
	s.Passed, s.Failed = 1, 1

	md := s.Markdown()
	assert.Contains(t, md, "- **Success Rate**: 50.0%")
	assert.Contains(t, md, "### build (failed)")
	assert.Contains(t, md, "- **Error**: exit 1")
}

func TestSplitCommand(t *testing.T) {
	args, err := harness.SplitCommand(`node -e "console.log('hi there')"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"node", "-e", "console.log('hi there')"}, args)

	_, err = harness.SplitCommand(`echo "unterminated`)
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
	_, err = harness.SplitCommand("   ")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
}

func TestCommandString(t *testing.T) {
	c := harness.Command{Name: "docker", Args: []string{"run", "--rm", "img", "sh", "-c", "echo hi"}}
	assert.Equal(t, `docker run --rm img sh -c 'echo hi'`, c.String())
}
