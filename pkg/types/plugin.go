package types

// Phase identifies one stage of the plugin lifecycle. Phases are global:
// a phase runs to completion for every loaded plugin before the next
// phase starts.
type Phase string

const (
	// PhaseBeforeInit runs before any content is generated
	PhaseBeforeInit Phase = "before_init"

	// PhaseExecute is the main content-generation phase. Heavyweight
	// plugins run their external integration here.
	PhaseExecute Phase = "execute"

	// PhaseAfterInit runs after all plugins have executed
	PhaseAfterInit Phase = "after_init"

	// PhaseCleanup runs last and is best-effort
	PhaseCleanup Phase = "cleanup"
)

// Phases lists the lifecycle phases in dispatch order.
var Phases = []Phase{PhaseBeforeInit, PhaseExecute, PhaseAfterInit, PhaseCleanup}

// PluginDescriptor is the static metadata a plugin declares about itself.
// The registry validates every field before the plugin becomes visible.
type PluginDescriptor struct {
	// Name uniquely identifies the plugin (lowercase, digits, hyphens)
	Name string

	// CommandName is the name users select the plugin by on the command
	// line. Unique across the registry, same character rules as Name.
	CommandName string

	// Version is the plugin's semantic version string
	Version string

	// Description is a one-line summary shown in listings
	Description string

	// Doc is an optional long-form markdown document for the plugin
	Doc string

	// Priority is the plugin's canonical position, used as the numeric
	// prefix of migrated rule files and for listings. Run order comes
	// from dependencies and registration order, not from Priority.
	Priority int

	// Dependencies names plugins that must run before this one when
	// they are part of the same run
	Dependencies []string

	// Conflicts names plugins that cannot be loaded together with this
	// one
	Conflicts []string

	// Heavyweight marks the plugin as an external-integration plugin
	// whose execute slot is handled by the heavyweight manager
	Heavyweight bool
}
