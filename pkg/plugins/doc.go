// Package plugins defines the plugin contract: the base Plugin interface,
// the optional lifecycle hook interfaces the loader probes for, and the
// heavyweight capabilities. A plugin implements only the hooks it needs;
// presence of a method set is what opts it into a phase.
//
// Built-in plugin implementations live in subpackages (core, git, memory,
// tasks, agents) and are assembled by pkg/plugins/builtin.
package plugins
