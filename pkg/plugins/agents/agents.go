package agents

import (
	"strings"
	"time"

	"github.com/sprout-sh/sprout/pkg/heavyweight"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/registry"
	"github.com/sprout-sh/sprout/pkg/types"
)

// AgentsPluginName is the name of the agents plugin
const AgentsPluginName = "agents"

// DefaultTool is the agent CLI probed and run when the option bag names
// no other
const DefaultTool = "claude"

// agentsDoc is the long-form document shown by 'sprout plugins --doc agents'
const agentsDoc = `# agents

Integrates an external agent CLI initializer (` + DefaultTool + ` by
default) into the init run with the full protection cycle: protected
files are backed up before the initializer runs, shared instructions it
writes are migrated to a priority-prefixed rule file under
` + "`.sprout/rules/`" + `, and a failed run rolls the project back to
its pre-run state.

## Options

` + "```toml" + `
[plugins.agents.options]
tool            = "claude"           # binary run as '<tool> init' by default
command         = ["claude", "init"] # argv form, overrides tool
shell           = ""                 # shell form, mutually exclusive with command
workdir         = ""                 # working directory, defaults to the target
timeout_seconds = 120
migrate         = true               # move shared instructions to .sprout/rules/

[plugins.agents.options.env]
# extra environment variables for the initializer
` + "```" + `

## Protected files

- ` + "`AGENTS.md`" + ` (append merge)
- ` + "`mcp.json`" + ` (JSON deep merge; locally configured entries win conflicts)
`

// AgentsPlugin runs an external agent CLI initializer through the
// heavyweight manager.
type AgentsPlugin struct{}

// NewAgentsPlugin creates a new instance of the agents plugin
func NewAgentsPlugin() *AgentsPlugin {
	return &AgentsPlugin{}
}

// Interface compliance checks
var (
	_ plugins.Plugin              = (*AgentsPlugin)(nil)
	_ plugins.HeavyweightProvider = (*AgentsPlugin)(nil)
	_ plugins.FileMerger          = (*AgentsPlugin)(nil)
	_ plugins.ToolRequirer        = (*AgentsPlugin)(nil)
)

// Descriptor returns the plugin's static metadata
func (p *AgentsPlugin) Descriptor() types.PluginDescriptor {
	return types.PluginDescriptor{
		Name:         AgentsPluginName,
		CommandName:  AgentsPluginName,
		Version:      "1.0.0",
		Description:  "Runs an external agent CLI initializer with rollback protection",
		Doc:          agentsDoc,
		Priority:     40,
		Dependencies: []string{"core"},
		Heavyweight:  true,
	}
}

// RequiredTools returns the binaries this plugin probes for
func (p *AgentsPlugin) RequiredTools() []string {
	return []string{DefaultTool}
}

// HeavyweightConfig builds the integration config from the plugin's
// option bag. With an empty bag the initializer is '<tool> init' with
// the default timeout.
func (p *AgentsPlugin) HeavyweightConfig(rc *types.RunContext) (*types.HeavyweightConfig, error) {
	logger := logging.GetLogger("plugins.agents")

	tool := rc.OptionString(AgentsPluginName, "tool", DefaultTool)
	command := rc.OptionStringSlice(AgentsPluginName, "command")
	shell := rc.OptionString(AgentsPluginName, "shell", "")
	if len(command) == 0 && shell == "" {
		command = []string{tool, "init"}
	}

	cfg := &types.HeavyweightConfig{
		ProtectedFiles: []types.ProtectedFile{
			{Path: types.InstructionsFileName, Strategy: types.MergeAppend},
			{Path: "mcp.json", Strategy: types.MergeCustom},
		},
		Command:          command,
		Shell:            shell,
		WorkDir:          rc.OptionString(AgentsPluginName, "workdir", ""),
		Env:              rc.OptionStringMap(AgentsPluginName, "env"),
		Timeout:          time.Duration(rc.OptionInt(AgentsPluginName, "timeout_seconds", 0)) * time.Second,
		DisableMigration: !rc.OptionBool(AgentsPluginName, "migrate", true),
	}

	logger.Debug().
		Strs("command", cfg.Command).
		Str("shell", cfg.Shell).
		Dur("timeout", cfg.EffectiveTimeout()).
		Bool("migrate", !cfg.DisableMigration).
		Msg("Built integration config")
	return cfg, nil
}

// MergeFile handles protected files declaring the custom strategy. JSON
// files get the deep merge; anything else falls back to the append
// merge.
func (p *AgentsPlugin) MergeFile(_ *types.RunContext, path string, ours, theirs []byte) ([]byte, error) {
	if strings.HasSuffix(path, ".json") {
		return MergeJSON(ours, theirs)
	}
	return heavyweight.AppendMerge(ours, theirs), nil
}

// init registers the agents plugin factory
func init() {
	registry.MustRegisterPluginFactory(AgentsPluginName, func() plugins.Plugin {
		return NewAgentsPlugin()
	})
}
