// Package filesystem provides filesystem implementations for sprout.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed variant used
// in tests and embedding scenarios.
package filesystem
