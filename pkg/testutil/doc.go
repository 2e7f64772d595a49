// Package testutil provides test infrastructure shared across packages.
//
// Its centerpiece is MemoryFS, an in-memory types.FS used to drive
// filesystem failure branches that are hard to reproduce on disk:
// specific paths can be armed with WithError to fail backup writes,
// restores, or directory creation on demand.
//
// Tests that exercise real initializer processes use the OS filesystem
// through t.TempDir instead; MemoryFS is for the pure bookkeeping paths.
package testutil
