// Package types defines the data model shared by the template pipeline:
// template descriptors and their parameter specs, the resolved (flattened)
// template, typed parameter values, and the generation report returned to
// callers. It also holds the FS interface the store and engine work against.
package types
