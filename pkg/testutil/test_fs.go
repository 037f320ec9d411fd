package testutil

import (
	"path"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dockplate/pkg/filesystem"
	"github.com/arthur-debert/dockplate/pkg/types"
)

// TemplatesRoot is the store root used by Tree
const TemplatesRoot = "/templates"

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// Tree is a builder for an in-memory template store
type Tree struct {
	fs    types.FS
	files map[string]string
}

// NewTree starts an empty tree on a fresh memory filesystem
func NewTree() *Tree {
	return &Tree{fs: NewTestFS(), files: make(map[string]string)}
}

// Template adds a YAML descriptor at templatePath
func (t *Tree) Template(templatePath, descriptor string) *Tree {
	return t.File(path.Join(templatePath, "template.yaml"), descriptor)
}

// TOMLTemplate adds a TOML descriptor at templatePath
func (t *Tree) TOMLTemplate(templatePath, descriptor string) *Tree {
	return t.File(path.Join(templatePath, "template.toml"), descriptor)
}

// Body adds a templated file body belonging to templatePath
func (t *Tree) Body(templatePath, rel, content string) *Tree {
	return t.File(path.Join(templatePath, rel), content)
}

// File adds an arbitrary file relative to the store root
func (t *Tree) File(rel, content string) *Tree {
	t.files[rel] = content
	return t
}

// Build writes every file and returns the filesystem and store root
func (t *Tree) Build(tb testing.TB) (types.FS, string) {
	tb.Helper()

	names := make([]string, 0, len(t.files))
	for name := range t.files {
		names = append(names, name)
	}
	sort.Strings(names)

	require.NoError(tb, t.fs.MkdirAll(TemplatesRoot, 0755))
	for _, name := range names {
		full := path.Join(TemplatesRoot, name)
		require.NoError(tb, t.fs.MkdirAll(path.Dir(full), 0755))
		require.NoError(tb, t.fs.WriteFile(full, []byte(t.files[name]), 0644))
	}
	return t.fs, TemplatesRoot
}

// ReadString reads a file from fs, failing the test on error
func ReadString(tb testing.TB, fs types.FS, name string) string {
	tb.Helper()
	data, err := fs.ReadFile(name)
	require.NoError(tb, err)
	return string(data)
}
