package memory

import (
	"path/filepath"
	"strings"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/paths"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/registry"
	"github.com/sprout-sh/sprout/pkg/types"
)

// MemoryPluginName is the name of the memory plugin
const MemoryPluginName = "memory"

// memoryDirName is the project-dir subdirectory this plugin owns
const memoryDirName = "memory"

// memoryTemplate is the top-level memory index
const memoryTemplate = `# PROJECT_NAME memory

Durable project knowledge lives here. Keep one fact per note under
notes/ and link the important ones from this index.

## Index

(nothing yet)
`

// MemoryPlugin scaffolds the project's long-lived notes layout under
// .sprout/memory/.
type MemoryPlugin struct{}

// NewMemoryPlugin creates a new instance of the memory plugin
func NewMemoryPlugin() *MemoryPlugin {
	return &MemoryPlugin{}
}

// Interface compliance checks
var (
	_ plugins.Plugin   = (*MemoryPlugin)(nil)
	_ plugins.Executor = (*MemoryPlugin)(nil)
)

// Descriptor returns the plugin's static metadata
func (p *MemoryPlugin) Descriptor() types.PluginDescriptor {
	return types.PluginDescriptor{
		Name:         MemoryPluginName,
		CommandName:  MemoryPluginName,
		Version:      "1.0.0",
		Description:  "Scaffolds the long-lived project notes layout",
		Priority:     20,
		Dependencies: []string{"core"},
	}
}

// Execute creates .sprout/memory/ with the index and an empty notes
// directory. Existing files are left alone.
func (p *MemoryPlugin) Execute(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.memory")

	dir := filepath.Join(rc.TargetDir, paths.ProjectDirName, memoryDirName)
	notesDir := filepath.Join(dir, "notes")
	if err := rc.FS.MkdirAll(notesDir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "could not create memory directory").
			WithDetail("path", notesDir)
	}

	index := filepath.Join(dir, "MEMORY.md")
	if _, err := rc.FS.Stat(index); err != nil {
		content := strings.ReplaceAll(memoryTemplate, "PROJECT_NAME", rc.ProjectName)
		if err := rc.FS.WriteFile(index, []byte(content), 0o644); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "could not write memory index").
				WithDetail("path", index)
		}
		rc.AddCreatedFile(filepath.ToSlash(filepath.Join(paths.ProjectDirName, memoryDirName, "MEMORY.md")))
	}

	// .gitkeep so the empty notes dir survives a git checkout
	keep := filepath.Join(notesDir, ".gitkeep")
	if _, err := rc.FS.Stat(keep); err != nil {
		if err := rc.FS.WriteFile(keep, nil, 0o644); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "could not write notes placeholder").
				WithDetail("path", keep)
		}
		rc.AddCreatedFile(filepath.ToSlash(filepath.Join(paths.ProjectDirName, memoryDirName, "notes", ".gitkeep")))
	}

	logger.Info().Msg("Scaffolded memory layout")
	return nil
}

// init registers the memory plugin factory
func init() {
	registry.MustRegisterPluginFactory(MemoryPluginName, func() plugins.Plugin {
		return NewMemoryPlugin()
	})
}
