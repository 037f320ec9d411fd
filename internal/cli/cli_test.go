package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dockplate/pkg/config"
	"github.com/arthur-debert/dockplate/pkg/errors"
	"github.com/arthur-debert/dockplate/pkg/harness"
	"github.com/arthur-debert/dockplate/pkg/logging"
	"github.com/arthur-debert/dockplate/pkg/testutil"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// noDocker fails every command, so docker is reported unavailable
type noDocker struct{}

func (noDocker) Run(ctx context.Context, cmd harness.Command) (harness.Output, error) {
	return harness.Output{ExitCode: 127}, errors.New(errors.ErrBuild, "failed to run command")
}

type env struct {
	fs   types.FS
	root string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	fsys, root := testutil.StandardTree().Build(t)
	return &env{fs: fsys, root: root}
}

// run executes the CLI against the in-memory store and returns stdout
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		fs:           e.fs,
		runner:       noDocker{},
		stdout:       &stdout,
		stderr:       &stderr,
		configOpts:   config.LoadOptions{UserConfigDir: t.TempDir(), ProjectDir: t.TempDir()},
		setupLogging: func(v int) { logging.SetupConsoleLogger(v, io.Discard) },
	}
	cmd := a.rootCmd()
	cmd.SetArgs(append([]string{"--templates-dir", e.root, "--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestList(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "apps/nodejs/express")
	assert.Contains(t, out, "base/alpine")

	out, err = e.run(t, "list", "--category", "app", "--format", "json")
	require.NoError(t, err)
	var got []types.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "express", got[0].Name)

	_, err = e.run(t, "list", "--category", "gui")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)

	_, err = e.run(t, "list", "--format", "xml")
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
}

func TestShowAndDescribe(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "show", "apps/nodejs/express")
	require.NoError(t, err)
	assert.Contains(t, out, "name: express")
	assert.Contains(t, out, "- base/alpine")

	out, err = e.run(t, "describe", "apps/nodejs/express")
	require.NoError(t, err)
	assert.Contains(t, out, "# express")
	assert.Contains(t, out, "`app_name`")

	_, err = e.run(t, "show", "apps/missing")
	testutil.AssertErrorCode(t, err, errors.ErrNotFound)
}

func TestValidate(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ apps/nodejs/express is valid")
	assert.Contains(t, out, "✓ base/alpine is valid")

	broken := testutil.NewTree().
		Template("apps/broken", "name: broken\nversion: 1.0.0\ncategory: app\nfiles:\n  dockerfile: Dockerfile\n")
	fsys, root := broken.Build(t)
	b := &env{fs: fsys, root: root}
	out, err = b.run(t, "validate", "apps/broken")
	testutil.AssertErrorCode(t, err, errors.ErrValidation)
	assert.Contains(t, out, "required file missing: Dockerfile")
}

func TestGenerate(t *testing.T) {
	e := newEnv(t)

	t.Run("dry run prints files", func(t *testing.T) {
		out, err := e.run(t, "generate", "apps/nodejs/express", "--dry-run", "--param", "app_name=shop")
		require.NoError(t, err)
		assert.Contains(t, out, "Would generate 3 file(s)")
		assert.Contains(t, out, `{"name": "shop", "port": 3000}`)
		assert.Contains(t, out, "DRY RUN MODE")
	})

	t.Run("params file and flags", func(t *testing.T) {
		require.NoError(t, e.fs.WriteFile("/params.yaml", []byte("app_name: shop\napp_port: 4000\n"), 0o644))
		_, err := e.run(t, "generate", "apps/nodejs/express", "/out/shop",
			"--params", "/params.yaml", "--param", "app_port=5000")
		require.NoError(t, err)
		assert.Equal(t, "{\"name\": \"shop\", \"port\": 5000}\n", testutil.ReadString(t, e.fs, "/out/shop/config/app.json"))
	})

	t.Run("missing required parameter", func(t *testing.T) {
		_, err := e.run(t, "generate", "apps/nodejs/express", "/out/none")
		testutil.AssertErrorCode(t, err, errors.ErrMissingParameter)
		_, statErr := e.fs.Stat("/out/none")
		assert.Error(t, statErr)
	})

	t.Run("bad assignment", func(t *testing.T) {
		_, err := e.run(t, "generate", "base/alpine", "--dry-run", "--param", "novalue")
		testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
	})
}

func TestTags(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "tags", "base/alpine")
	require.NoError(t, err)
	assert.Equal(t, "docker.io/acme/alpine:1.2.0\ndocker.io/acme/alpine:1.2\ndocker.io/acme/alpine:1\n", out)

	out, err = e.run(t, "tags", "apps/nodejs/express", "--registry", "ghcr.io", "--latest")
	require.NoError(t, err)
	assert.Equal(t, "ghcr.io/acme/node-express:2.0.0-rc.1\n"+
		"ghcr.io/acme/node-express:stable\n"+
		"ghcr.io/acme/node-express:latest\n", out)
}

func TestTestAndBatch(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "test", "base/alpine", "--report", "/report.md")
	require.NoError(t, err)
	assert.Contains(t, out, "docker not available")
	assert.Contains(t, testutil.ReadString(t, e.fs, "/report.md"), "# Template Test Report")

	_, err = e.run(t, "test", "apps/nodejs/express")
	testutil.AssertErrorCode(t, err, errors.ErrBuild)

	out, err = e.run(t, "batch", "--category", "base")
	require.NoError(t, err)
	assert.Contains(t, out, "1 template(s): 1 passed, 0 failed")
}

func TestMiscCommands(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dockplate version dev")

	out, err = e.run(t, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])

	out, err = e.run(t, "genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "templates_dir")

	out, err = e.run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "dockplate")

	_, err = e.run(t)
	testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
}

func TestHelpTopics(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "inheritance")
	assert.Contains(t, out, "--strict")

	out, err = e.run(t, "help", "inheritance")
	require.NoError(t, err)
	assert.Contains(t, out, "# Inheritance")
}
