package heavyweight

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/types"
)

// Paths resolves the locations the manager writes outside the target
// directory. Satisfied by paths.Paths.
type Paths interface {
	BackupDir(pluginName, runID string) string
	RulesDir(targetDir string) string
	RuleFilePath(targetDir string, priority int, pluginName string) string
}

// Manager drives the integration run for heavyweight plugins: backup,
// external command, instructions migration, merge, rollback on failure.
type Manager struct {
	fs     types.FS
	paths  Paths
	logger zerolog.Logger
}

// NewManager creates a Manager.
func NewManager(fs types.FS, p Paths) *Manager {
	return &Manager{
		fs:     fs,
		paths:  p,
		logger: logging.GetLogger("heavyweight"),
	}
}

// Run executes the full integration for one heavyweight plugin. The
// returned result always carries the captured command output and the
// per-file merge outcomes; Err is set when the integration failed and
// the protected files were rolled back to their pre-run snapshots.
func (m *Manager) Run(ctx context.Context, p plugins.Plugin, rc *types.RunContext) *types.HeavyweightResult {
	r := &run{
		m:      m,
		plugin: p,
		rc:     rc,
		state:  StateIdle,
		res:    &types.HeavyweightResult{PluginName: p.Descriptor().Name, ExitCode: -1},
	}
	defer r.discardBackups()

	r.execute(ctx)
	return r.res
}

// run holds the per-plugin, per-invocation state of one integration.
type run struct {
	m      *Manager
	plugin plugins.Plugin
	rc     *types.RunContext
	cfg    *types.HeavyweightConfig
	state  State
	res    *types.HeavyweightResult

	backupDir string
	backups   []*types.BackupEntry
	preState  *instructionsSnapshot
}

func (r *run) execute(ctx context.Context) {
	name := r.plugin.Descriptor().Name

	if err := r.retrieveConfig(); err != nil {
		r.res.Err = err
		return
	}

	r.transition(StateBackingUp)
	if err := r.backupProtectedFiles(); err != nil {
		r.res.Err = err
		r.rollback()
		return
	}

	if !r.cfg.DisableMigration {
		r.transition(StateCapturingPreState)
		r.preState = r.captureInstructions()
	}

	r.transition(StateExecuting)
	if err := r.runCommand(ctx); err != nil {
		r.res.Err = err
		r.rollback()
		return
	}

	if !r.cfg.DisableMigration {
		r.transition(StateMigrating)
		r.migrateInstructions()
	}

	r.transition(StateMerging)
	if failed := r.mergeProtectedFiles(); failed {
		r.res.Err = errors.Newf(errors.ErrMerge,
			"merge failed for %d protected file(s) of plugin %q",
			failedMergeCount(r.res.Merges), name).
			WithDetail("plugin", name)
		r.rollback()
		return
	}

	r.transition(StateCleanup)
	r.res.Success = true
	r.m.logger.Info().
		Str("plugin", name).
		Int("protectedFiles", len(r.cfg.ProtectedFiles)).
		Msg("Heavyweight integration succeeded")
}

// retrieveConfig asks the plugin for its heavyweight configuration and
// validates it. Both failure modes are fatal for this plugin only.
func (r *run) retrieveConfig() error {
	name := r.plugin.Descriptor().Name

	provider, ok := r.plugin.(plugins.HeavyweightProvider)
	if !ok {
		return errors.Newf(errors.ErrHeavyweightConfigMissing,
			"plugin %q is flagged heavyweight but provides no heavyweight configuration", name).
			WithDetail("plugin", name)
	}

	cfg, err := provider.HeavyweightConfig(r.rc)
	if err != nil {
		return errors.Wrapf(err, errors.ErrHeavyweightConfigRetrieval,
			"plugin %q failed to provide its heavyweight configuration", name).
			WithDetail("plugin", name)
	}
	if cfg == nil {
		return errors.Newf(errors.ErrHeavyweightConfigRetrieval,
			"plugin %q returned an empty heavyweight configuration", name).
			WithDetail("plugin", name)
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrapf(err, errors.ErrHeavyweightConfigRetrieval,
			"plugin %q heavyweight configuration is invalid", name).
			WithDetail("plugin", name)
	}

	r.cfg = cfg
	return nil
}
