package types

// ListPluginsResult holds the result of the 'plugins' command.
type ListPluginsResult struct {
	Plugins []PluginInfo `json:"plugins"`
}

// PluginInfo is one visible plugin as shown in listings.
type PluginInfo struct {
	Name         string   `json:"name"`
	CommandName  string   `json:"commandName"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Priority     int      `json:"priority"`
	Dependencies []string `json:"dependencies,omitempty"`
	Heavyweight  bool     `json:"heavyweight"`
	Enabled      bool     `json:"enabled"`
	HasDoc       bool     `json:"hasDoc"`
}

// GenConfigResult holds the result of the 'genconfig' command.
type GenConfigResult struct {
	ConfigContent string   `json:"configContent"`
	FilesWritten  []string `json:"filesWritten"`
}
