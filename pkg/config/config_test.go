package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dockplate/pkg/errors"
)

func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ProjectDir:    t.TempDir(),
		UserConfigDir: t.TempDir(),
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, os.FileMode(0644), cfg.Output.FileMode)
	assert.Equal(t, os.FileMode(0755), cfg.Output.DirMode)
	assert.Equal(t, 5*time.Minute, cfg.Testing.BuildTimeout)
}

func TestLoad_ProjectFileOverridesUserFile(t *testing.T) {
	opts := isolated(t)

	userFile := filepath.Join(opts.UserConfigDir, "config.toml")
	require.NoError(t, os.WriteFile(userFile, []byte(`
templates_dir = "/srv/templates"

[testing]
concurrency = 2
`), 0644))

	projectFile := filepath.Join(opts.ProjectDir, "dockplate.toml")
	require.NoError(t, os.WriteFile(projectFile, []byte(`
[testing]
concurrency = 6
build_timeout = "90s"
`), 0644))

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "/srv/templates", cfg.TemplatesDir)
	assert.Equal(t, 6, cfg.Testing.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Testing.BuildTimeout)
	// untouched keys keep their defaults
	assert.Equal(t, "docker", cfg.Testing.DockerBinary)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	opts := isolated(t)
	explicit := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(explicit, []byte("[registry]\nhost = \"ghcr.io\"\n"), 0644))
	opts.ConfigFile = explicit

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "ghcr.io", cfg.Registry.Host)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	opts := isolated(t)
	opts.ConfigFile = filepath.Join(t.TempDir(), "nope.toml")

	_, err := Load(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_InvalidToml(t *testing.T) {
	opts := isolated(t)
	require.NoError(t, os.WriteFile(filepath.Join(opts.ProjectDir, "dockplate.toml"), []byte("templates_dir = [unclosed"), 0644))

	_, err := Load(opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DOCKPLATE_TESTING__CONCURRENCY", "9")
	t.Setenv("DOCKPLATE_VALIDATION__STRICT_REQUIRED", "true")
	t.Setenv("DOCKPLATE_TESTING__COMMAND_TIMEOUT", "15s")

	cfg, err := Load(isolated(t))
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Testing.Concurrency)
	assert.True(t, cfg.Validation.StrictRequired)
	assert.Equal(t, 15*time.Second, cfg.Testing.CommandTimeout)
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("DOCKPLATE_TEMPLATES_DIR", "/from/env")
	opts := isolated(t)
	opts.Overrides = map[string]interface{}{
		"templates_dir":       "/from/flag",
		"testing.concurrency": 0,
	}

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.TemplatesDir)
	// concurrency is clamped to at least one worker
	assert.Equal(t, 1, cfg.Testing.Concurrency)
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()

	assert.Contains(t, content, "[testing]")
	assert.Contains(t, content, `# templates_dir = "templates"`)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("line not commented out: %q", line)
	}
}

func TestCommentOutConfigValues(t *testing.T) {
	in := "# header\n\n[a]\nkey = 1\n  nested = true"
	want := "# header\n\n[a]\n# key = 1\n#   nested = true"
	assert.Equal(t, want, commentOutConfigValues(in))
}
