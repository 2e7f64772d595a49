package core

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/internal/hashutil"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/paths"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/registry"
	"github.com/sprout-sh/sprout/pkg/types"
)

// CorePluginName is the name of the core plugin
const CorePluginName = "core"

// ManifestFileName is the run manifest written into the project dir
const ManifestFileName = "manifest.json"

// scratchDirName is the project-dir subdirectory holding per-run
// scratch space
const scratchDirName = "tmp"

// readmeTemplate seeds README.md for projects that have none
const readmeTemplate = `# PROJECT_NAME

Bootstrapped with sprout.

Project conventions live under .sprout/:

- manifest.json  record of the files the last init run created
- rules/         instruction rule files migrated from agent initializers
- memory/        long-lived project notes (when the memory plugin runs)
- tasks/         task tracking (when the tasks plugin runs)

Replace this file with a real introduction to the project.
`

// coreDoc is the long-form document shown by 'sprout plugins --doc core'
const coreDoc = `# core

The core plugin owns the project skeleton. It always runs and cannot be
hidden by a visibility policy.

## What it does

- **before init**: detects whether the target is already a git
  repository and publishes that as a context fact, mirrors the project
  name into the context, and creates a per-run scratch directory under
  ` + "`.sprout/tmp/<run-id>`" + ` for other plugins to use.
- **execute**: creates ` + "`.sprout/`" + ` and seeds ` + "`README.md`" + `
  when the project has none.
- **after init**: writes ` + "`.sprout/manifest.json`" + `, a record of
  every file the run created with a sha256 checksum of each.
- **cleanup**: removes the scratch space, including leftovers from
  earlier interrupted runs.

## Context facts

| key              | value                                  |
|------------------|----------------------------------------|
| git.repo         | true when .git exists in the target    |
| project.name     | the resolved project name              |
| core.scratch_dir | absolute path of the scratch directory |
`

// CorePlugin creates the project skeleton, publishes the base context
// facts, and records the run manifest.
type CorePlugin struct{}

// NewCorePlugin creates a new instance of the core plugin
func NewCorePlugin() *CorePlugin {
	return &CorePlugin{}
}

// Interface compliance checks
var (
	_ plugins.Plugin       = (*CorePlugin)(nil)
	_ plugins.BeforeIniter = (*CorePlugin)(nil)
	_ plugins.Executor     = (*CorePlugin)(nil)
	_ plugins.AfterIniter  = (*CorePlugin)(nil)
	_ plugins.Cleaner      = (*CorePlugin)(nil)
)

// Descriptor returns the plugin's static metadata
func (p *CorePlugin) Descriptor() types.PluginDescriptor {
	return types.PluginDescriptor{
		Name:        CorePluginName,
		CommandName: CorePluginName,
		Version:     "1.0.0",
		Description: "Creates the project skeleton, context facts and the run manifest",
		Doc:         coreDoc,
		Priority:    0,
	}
}

// BeforeInit publishes the base context facts and creates the per-run
// scratch directory.
func (p *CorePlugin) BeforeInit(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.core")

	inRepo := false
	if _, err := rc.FS.Stat(filepath.Join(rc.TargetDir, ".git")); err == nil {
		inRepo = true
	}
	rc.Set(types.KeyGitRepo, inRepo)
	rc.Set(types.KeyProjectName, rc.ProjectName)

	scratch := filepath.Join(rc.TargetDir, paths.ProjectDirName, scratchDirName, rc.RunID)
	if err := rc.FS.MkdirAll(scratch, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "could not create scratch directory").
			WithDetail("path", scratch)
	}
	rc.Set(types.KeyScratchDir, scratch)

	logger.Debug().
		Bool("gitRepo", inRepo).
		Str("scratch", scratch).
		Msg("Published base context facts")
	return nil
}

// Execute creates the project directory and seeds README.md when the
// project has none.
func (p *CorePlugin) Execute(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.core")

	projectDir := filepath.Join(rc.TargetDir, paths.ProjectDirName)
	if err := rc.FS.MkdirAll(projectDir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "could not create project directory").
			WithDetail("path", projectDir)
	}

	readme := filepath.Join(rc.TargetDir, "README.md")
	if _, err := rc.FS.Stat(readme); err == nil {
		logger.Debug().Msg("README.md exists, leaving it alone")
		return nil
	}

	content := strings.ReplaceAll(readmeTemplate, "PROJECT_NAME", rc.ProjectName)
	if err := rc.FS.WriteFile(readme, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "could not write README.md").
			WithDetail("path", readme)
	}
	rc.AddCreatedFile("README.md")

	logger.Info().Str("project", rc.ProjectName).Msg("Seeded README.md")
	return nil
}

// Manifest is the run record written to .sprout/manifest.json.
type Manifest struct {
	RunID     string         `json:"run_id"`
	Project   string         `json:"project"`
	CreatedAt time.Time      `json:"created_at"`
	Files     []ManifestFile `json:"files"`
}

// ManifestFile records one file created during the run.
type ManifestFile struct {
	// Path is relative to the target directory, slash-separated
	Path string `json:"path"`

	// Checksum is "sha256:<hex>" of the file's content, empty when the
	// file could not be read back
	Checksum string `json:"checksum,omitempty"`
}

// AfterInit writes the run manifest from the files every plugin
// recorded as created.
func (p *CorePlugin) AfterInit(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.core")

	m := Manifest{
		RunID:     rc.RunID,
		Project:   rc.ProjectName,
		CreatedAt: time.Now().UTC(),
		Files:     []ManifestFile{},
	}
	for _, f := range rc.CreatedFiles() {
		rel, abs := f, filepath.Join(rc.TargetDir, f)
		if filepath.IsAbs(f) {
			// The heavyweight migration records rule files by their
			// absolute path.
			abs = f
			if r, err := filepath.Rel(rc.TargetDir, f); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}

		entry := ManifestFile{Path: filepath.ToSlash(rel)}
		if data, err := rc.FS.ReadFile(abs); err == nil {
			entry.Checksum = hashutil.Checksum(data)
		} else {
			logger.Warn().Err(err).
				Str("path", rel).
				Msg("Created file is unreadable, manifest entry has no checksum")
		}
		m.Files = append(m.Files, entry)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "could not encode run manifest")
	}
	data = append(data, '\n')

	projectDir := filepath.Join(rc.TargetDir, paths.ProjectDirName)
	if err := rc.FS.MkdirAll(projectDir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "could not create project directory").
			WithDetail("path", projectDir)
	}

	path := filepath.Join(projectDir, ManifestFileName)
	if err := rc.FS.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "could not write run manifest").
			WithDetail("path", path)
	}

	logger.Info().Int("files", len(m.Files)).Msg("Wrote run manifest")
	return nil
}

// Cleanup removes the scratch space. Leftovers from earlier interrupted
// runs go with it. Failures are logged, never fatal.
func (p *CorePlugin) Cleanup(rc *types.RunContext) error {
	logger := logging.GetLogger("plugins.core")

	tmpRoot := filepath.Join(rc.TargetDir, paths.ProjectDirName, scratchDirName)
	if err := rc.FS.RemoveAll(tmpRoot); err != nil {
		logger.Warn().Err(err).Str("path", tmpRoot).Msg("Could not remove scratch space")
		return nil
	}

	logger.Debug().Str("path", tmpRoot).Msg("Removed scratch space")
	return nil
}

// init registers the core plugin factory
func init() {
	registry.MustRegisterPluginFactory(CorePluginName, func() plugins.Plugin {
		return NewCorePlugin()
	})
}
