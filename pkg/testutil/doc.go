// Package testutil builds in-memory template trees for tests.
//
// A Tree collects descriptor documents and file bodies and writes them to an
// afero-backed types.FS, so store, resolver, engine and harness tests can run
// against the same fixtures without touching disk:
//
//	fs, root := testutil.NewTree().
//		Template("base/alpine", testutil.AlpineDescriptor).
//		Body("base/alpine", "Dockerfile", "FROM alpine:{{ .alpine_version }}\n").
//		Build(t)
package testutil
