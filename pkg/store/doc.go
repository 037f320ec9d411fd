// Package store loads a directory tree of container templates into an
// immutable Snapshot.
//
// Every directory holding a template.yaml, template.yml or template.toml is a
// template; its store-relative directory ("apps/nodejs/express") is its path.
// Descriptors are schema-checked on load. A descriptor that fails the check
// is kept as a load error: resolving it reports the SchemaError, listing
// skips it.
//
// A Snapshot never changes after Load. Callers that need fresh data (the
// watcher, for one) load a new snapshot.
package store
