// Package loader orders plugins by their declared dependencies and
// dispatches lifecycle hooks across the ordered set.
//
// Ordering is a depth-first topological sort restricted to the plugins
// actually selected for a run: dependencies on unselected plugins are
// ignored, and plugins with no ordering constraint between them keep
// their registration order, so the resolved order is deterministic
// across runs. A dependency cycle fails the run with an error naming
// every plugin on the cycle.
//
// Hooks run phase by phase: every plugin's BeforeInit runs before any
// plugin's Execute, and so on through AfterInit and Cleanup. A hook
// error aborts the current phase and the run. Plugins flagged
// heavyweight do not execute directly; the loader hands them to the
// configured HeavyweightRunner during the execute phase and records its
// result, continuing with the remaining plugins unless configured to
// stop.
package loader
