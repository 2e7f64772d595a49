package types

// RunConfig is the fully resolved configuration for a single sprout run,
// produced by pkg/config from defaults, the project config file, and the
// environment.
type RunConfig struct {
	// ProjectName is the name recorded in generated content. Defaults to
	// the target directory basename.
	ProjectName string `koanf:"project_name"`

	// Plugins holds per-plugin settings keyed by plugin name
	Plugins map[string]PluginSettings `koanf:"plugins"`

	// Policy controls which registered plugins are visible
	Policy PolicyConfig `koanf:"policy"`

	// Init holds settings for the init run itself
	Init InitConfig `koanf:"init"`
}

// PluginSettings is the per-plugin section of the run configuration
type PluginSettings struct {
	// Enabled toggles the plugin; nil means the plugin's default
	Enabled *bool `koanf:"enabled"`

	// Scope is an optional free-form tag recorded in run results
	Scope string `koanf:"scope"`

	// Options is the plugin's opaque option bag
	Options map[string]interface{} `koanf:"options"`
}

// PolicyConfig is the plugin visibility policy. When Allow is non-empty
// only listed plugins are visible; otherwise Deny hides listed plugins.
// Protected plugins are always visible.
type PolicyConfig struct {
	Allow []string `koanf:"allow"`
	Deny  []string `koanf:"deny"`
}

// InitConfig holds run-level init settings
type InitConfig struct {
	// EnvFile is an optional dotenv file whose variables are added to
	// every heavyweight initializer environment
	EnvFile string `koanf:"env_file"`

	// StopOnHeavyweightFailure stops the execute phase at the first
	// failed heavyweight integration instead of continuing
	StopOnHeavyweightFailure bool `koanf:"stop_on_heavyweight_failure"`
}

// PluginSettingsFor returns the settings for a plugin, falling back to
// zero-value settings when the config has no section for it.
func (c *RunConfig) PluginSettingsFor(name string) PluginSettings {
	if c == nil || c.Plugins == nil {
		return PluginSettings{}
	}
	return c.Plugins[name]
}

// PluginEnabled reports whether a plugin is enabled, using def when the
// config does not say either way.
func (c *RunConfig) PluginEnabled(name string, def bool) bool {
	s := c.PluginSettingsFor(name)
	if s.Enabled == nil {
		return def
	}
	return *s.Enabled
}
