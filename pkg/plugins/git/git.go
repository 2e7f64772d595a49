package git

import (
	"path/filepath"
	"strings"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/registry"
	"github.com/sprout-sh/sprout/pkg/types"
)

// GitPluginName is the name of the git plugin
const GitPluginName = "git"

// defaultGitignore is written when the target has no .gitignore. Extra
// patterns come from the plugin's "ignore" option.
const defaultGitignore = `# Editors
.vscode/
.idea/
*.swp

# OS cruft
.DS_Store
Thumbs.db

# Build output
dist/
*.log

# sprout scratch space
.sprout/tmp/
`

// GitPlugin seeds version-control basics: it reads the repository fact
// published by core and writes a .gitignore.
type GitPlugin struct{}

// NewGitPlugin creates a new instance of the git plugin
func NewGitPlugin() *GitPlugin {
	return &GitPlugin{}
}

// Interface compliance checks
var (
	_ plugins.Plugin       = (*GitPlugin)(nil)
	_ plugins.BeforeIniter = (*GitPlugin)(nil)
	_ plugins.Executor     = (*GitPlugin)(nil)
	_ plugins.ToolRequirer = (*GitPlugin)(nil)
)

// Descriptor returns the plugin's static metadata
func (p *GitPlugin) Descriptor() types.PluginDescriptor {
	return types.PluginDescriptor{
		Name:        GitPluginName,
		CommandName: GitPluginName,
		Version:     "1.0.0",
		Description: "Seeds .gitignore and surfaces repository status",
		Priority:    10,
	}
}

// RequiredTools returns the binaries this plugin probes for
func (p *GitPlugin) RequiredTools() []string {
	return []string{"git"}
}

// BeforeInit reads the repository fact and hints at git init when the
// target is not under version control.
func (p *GitPlugin) BeforeInit(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.git")

	if rc.GetBool(types.KeyGitRepo) {
		logger.Debug().Msg("Target is already a git repository")
		return nil
	}
	if rc.ToolAvailable("git") {
		rc.Out.Info("Target is not a git repository; run 'git init' to start one")
	} else {
		logger.Debug().Msg("git binary not found on PATH")
	}
	return nil
}

// Execute writes .gitignore unless the target already has one.
func (p *GitPlugin) Execute(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.git")

	path := filepath.Join(rc.TargetDir, ".gitignore")
	if _, err := rc.FS.Stat(path); err == nil {
		logger.Debug().Msg(".gitignore exists, leaving it alone")
		return nil
	}

	content := defaultGitignore
	if extras := rc.OptionStringSlice(GitPluginName, "ignore"); len(extras) > 0 {
		var sb strings.Builder
		sb.WriteString(content)
		sb.WriteString("\n# Project-specific\n")
		for _, pattern := range extras {
			sb.WriteString(pattern)
			sb.WriteByte('\n')
		}
		content = sb.String()
	}

	if err := rc.FS.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "could not write .gitignore").
			WithDetail("path", path)
	}
	rc.AddCreatedFile(".gitignore")

	logger.Info().Msg("Wrote .gitignore")
	return nil
}

// init registers the git plugin factory
func init() {
	registry.MustRegisterPluginFactory(GitPluginName, func() plugins.Plugin {
		return NewGitPlugin()
	})
}
