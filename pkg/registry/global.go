package registry

import (
	"fmt"

	"github.com/sprout-sh/sprout/pkg/plugins"
)

// PluginFactory creates a new plugin instance
type PluginFactory func() plugins.Plugin

// Global registry of plugin factories. Built-in plugin packages register
// their factory from init(); pkg/plugins/builtin assembles a
// PluginRegistry from it in the canonical order.
var pluginFactoryRegistry = New[PluginFactory]()

// RegisterPluginFactory registers a factory function for creating a named plugin.
func RegisterPluginFactory(name string, factory PluginFactory) error {
	return pluginFactoryRegistry.Register(name, factory)
}

// MustRegisterPluginFactory registers a factory and panics on error.
// Intended for init() functions, where a failure is a programming error.
func MustRegisterPluginFactory(name string, factory PluginFactory) {
	MustRegister(pluginFactoryRegistry, name, factory)
}

// GetPluginFactory retrieves a plugin factory by name.
func GetPluginFactory(name string) (PluginFactory, error) {
	factory, err := pluginFactoryRegistry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("plugin factory not found: %s", name)
	}
	return factory, nil
}

// PluginFactoryNames returns the registered factory names in sorted order.
func PluginFactoryNames() []string {
	return pluginFactoryRegistry.List()
}
