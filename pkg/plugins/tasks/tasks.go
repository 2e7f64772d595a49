package tasks

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

// TasksPluginName is the name of the tasks plugin
const TasksPluginName = "tasks"

// tasksDirName is the project-dir subdirectory this plugin owns
const tasksDirName = "tasks"

// tasksTemplate is the initial task list
const tasksTemplate = `# PROJECT_NAME tasks

## Now

- [ ] replace the README seed with a real introduction

## Later

## Done
`

// TasksPlugin scaffolds the task list under .sprout/tasks/.
type TasksPlugin struct{}

// NewTasksPlugin creates a new instance of the tasks plugin
func NewTasksPlugin() *TasksPlugin {
	return &TasksPlugin{}
}

// Interface compliance checks
var (
	_ plugins.Plugin   = (*TasksPlugin)(nil)
	_ plugins.Executor = (*TasksPlugin)(nil)
)

// Descriptor returns the plugin's static metadata
func (p *TasksPlugin) Descriptor() types.PluginDescriptor {
	return types.PluginDescriptor{
		Name:         TasksPluginName,
		CommandName:  TasksPluginName,
		Version:      "1.0.0",
		Description:  "Scaffolds the project task list",
		Priority:     30,
		Dependencies: []string{"core"},
	}
}

// Execute creates .sprout/tasks/TASKS.md unless it already exists.
func (p *TasksPlugin) Execute(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.tasks")

	dir := filepath.Join(rc.TargetDir, paths.ProjectDirName, tasksDirName)
	if err := rc.FS.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "could not create tasks directory").
			WithDetail("path", dir)
	}

	list := filepath.Join(dir, "TASKS.md")
	if _, err := rc.FS.Stat(list); err == nil {
		logger.Debug().Msg("TASKS.md exists, leaving it alone")
		return nil
	}

	content := strings.ReplaceAll(tasksTemplate, "PROJECT_NAME", rc.ProjectName)
	if err := rc.FS.WriteFile(list, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "could not write task list").
			WithDetail("path", list)
	}
	rc.AddCreatedFile(filepath.ToSlash(filepath.Join(paths.ProjectDirName, tasksDirName, "TASKS.md")))

	logger.Info().Msg("Scaffolded task list")
	return nil
}

// init registers the tasks plugin factory
func init() {
	registry.MustRegisterPluginFactory(TasksPluginName, func() plugins.Plugin {
		return NewTasksPlugin()
	})
}
