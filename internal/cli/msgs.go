package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "A plugin-driven project scaffolder"
	MsgInitShort       = "Initialize a project directory with the enabled plugins"
	MsgPluginsShort    = "List available plugins"
	MsgGenConfigShort  = "Print or write the sample configuration"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgDryRunNotice    = "DRY RUN MODE - no changes were made"
	MsgInitDone        = "Initialized %s"
	MsgInitDonePartial = "Initialized %s, %d plugin(s) failed"
	MsgConfigExists    = "A configuration file already exists, nothing written"
	MsgConfigWritten   = "Wrote %s"
	MsgNoPlugins       = "No plugins are visible for this project."
	MsgPluginDocHint   = "Plugins marked * have documentation: sprout plugins --doc <name>"

	// Error messages
	MsgErrInit      = "init failed: %w"
	MsgErrPlugins   = "failed to list plugins: %w"
	MsgErrGenConfig = "failed to generate configuration: %w"
	MsgErrFormat    = "invalid --format value: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagFormat   = "Output format (auto, term, text, json)"
	MsgFlagPlugins  = "Run only the named plugins (comma separated)"
	MsgFlagConfig   = "Explicit configuration file to load"
	MsgFlagEnvFile  = "Dotenv file passed to heavyweight initializers"
	MsgFlagFailFast = "Abort the run at the first failed heavyweight plugin"
	MsgFlagWrite    = "Write the configuration file instead of printing it"
	MsgFlagDoc      = "Show the named plugin's documentation"
	MsgFlagManDir   = "Directory to write man pages into"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimSpace(msgInitExampleRaw)

	//go:embed msgs/plugins-long.txt
	msgPluginsLongRaw string
	MsgPluginsLong    = strings.TrimSpace(msgPluginsLongRaw)

	//go:embed msgs/plugins-example.txt
	msgPluginsExampleRaw string
	MsgPluginsExample    = strings.TrimSpace(msgPluginsExampleRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/genconfig-example.txt
	msgGenConfigExampleRaw string
	MsgGenConfigExample    = strings.TrimSpace(msgGenConfigExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
