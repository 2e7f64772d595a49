package plugins

import "github.com/sprout-sh/sprout/pkg/types"

// Plugin is the base interface that all plugins must implement.
// Everything else about a plugin is optional capability interfaces.
type Plugin interface {
	// Descriptor returns the plugin's static metadata. The registry
	// validates it once at registration; implementations must return
	// the same descriptor every call.
	Descriptor() types.PluginDescriptor
}

// BeforeIniter is implemented by plugins that prepare state before any
// content is generated: probing the environment, publishing context
// facts, validating options.
type BeforeIniter interface {
	Plugin

	// BeforeInit runs in the first lifecycle phase
	BeforeInit(ctx *types.RunContext) error
}

// Executor is implemented by plugins that generate content in the main
// phase. Heavyweight plugins do not implement their execute slot this
// way; the heavyweight manager runs their integration instead.
type Executor interface {
	Plugin

	// Execute runs in the main content-generation phase
	Execute(ctx *types.RunContext) error
}

// AfterIniter is implemented by plugins that finalize work after every
// plugin has executed, such as writing aggregate artifacts.
type AfterIniter interface {
	Plugin

	// AfterInit runs after all plugins have executed
	AfterInit(ctx *types.RunContext) error
}

// Cleaner is implemented by plugins that release resources at the end
// of a run.
type Cleaner interface {
	Plugin

	// Cleanup runs last
	Cleanup(ctx *types.RunContext) error
}

// HeavyweightProvider is implemented by heavyweight plugins. The manager
// calls it at the start of the integration run to obtain the external
// command and the protected file set.
type HeavyweightProvider interface {
	Plugin

	// HeavyweightConfig returns the integration configuration for this
	// run. An error here fails the plugin before anything is touched.
	HeavyweightConfig(ctx *types.RunContext) (*types.HeavyweightConfig, error)
}

// FileMerger is implemented by heavyweight plugins that declare the
// custom merge strategy for one or more protected files.
type FileMerger interface {
	// MergeFile combines the preserved content (ours) with what the
	// external command wrote (theirs) and returns the content to keep.
	MergeFile(ctx *types.RunContext, path string, ours, theirs []byte) ([]byte, error)
}

// ToolRequirer is implemented by plugins that depend on external
// binaries. The declared tools are probed concurrently before the
// lifecycle phases start and the results published as context facts.
type ToolRequirer interface {
	// RequiredTools returns binary names to look up on PATH
	RequiredTools() []string
}
