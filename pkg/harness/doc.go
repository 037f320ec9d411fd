// Package harness exercises templates end to end and reports pass/fail per
// stage.
//
// A run goes through validation, syntax and generation in process, then,
// when docker is available, builds the generated Dockerfile, runs the
// template's health check and each of its test commands inside the image.
// Every external process goes through a Runner so tests can substitute one.
//
// RunBatch runs several templates concurrently; a failing template never
// stops its siblings.
package harness
