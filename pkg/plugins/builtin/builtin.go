// Package builtin assembles the built-in plugin set. Importing it
// registers every built-in plugin factory with the global registry.
package builtin

import (
	"github.com/sprout-sh/sprout/pkg/plugins/agents"
	"github.com/sprout-sh/sprout/pkg/plugins/core"
	"github.com/sprout-sh/sprout/pkg/plugins/git"
	"github.com/sprout-sh/sprout/pkg/plugins/memory"
	"github.com/sprout-sh/sprout/pkg/plugins/tasks"
	"github.com/sprout-sh/sprout/pkg/registry"
)

// Names lists the built-in plugins in registration order. The loader
// breaks ordering ties by registration order, so this sequence is also
// the canonical run order between plugins with no dependency edge.
var Names = []string{
	core.CorePluginName,
	git.GitPluginName,
	memory.MemoryPluginName,
	tasks.TasksPluginName,
	agents.AgentsPluginName,
}

// NewRegistry creates a plugin registry holding a fresh instance of
// every built-in plugin.
func NewRegistry() (*registry.PluginRegistry, error) {
	r := registry.NewPluginRegistry()
	for _, name := range Names {
		factory, err := registry.GetPluginFactory(name)
		if err != nil {
			return nil, err
		}
		if err := r.Register(factory()); err != nil {
			return nil, err
		}
	}
	return r, nil
}
