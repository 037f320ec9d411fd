// Package filesystem provides the types.FS implementations used by dockplate.
//
// Both are backed by afero: NewOS for the CLI and the file watcher, and
// NewMemoryFS for in-memory template stores in tests. Writes go through a
// temporary sibling and a rename, so generated files appear whole.
package filesystem
