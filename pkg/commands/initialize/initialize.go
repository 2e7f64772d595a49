package initialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/sprout-sh/sprout/pkg/config"
	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/filesystem"
	"github.com/sprout-sh/sprout/pkg/heavyweight"
	"github.com/sprout-sh/sprout/pkg/loader"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/paths"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/plugins/builtin"
	"github.com/sprout-sh/sprout/pkg/registry"
	"github.com/sprout-sh/sprout/pkg/types"
)

// InitializeOptions defines the options for the Initialize command
type InitializeOptions struct {
	// TargetDir is the directory to initialize; empty means the current
	// working directory. Created when missing.
	TargetDir string

	// ConfigPath names an explicit config file, bypassing the search
	// for .sprout.toml / sprout.toml in the target
	ConfigPath string

	// PluginNames selects plugins by command name. Empty selects every
	// visible, enabled plugin.
	PluginNames []string

	// FailFast stops the execute phase at the first failed heavyweight
	// integration, in addition to whatever the config says
	FailFast bool

	// DryRun resolves the order and reports planned work without
	// invoking hooks or taking the run lock
	DryRun bool

	// EnvFile overrides the configured dotenv file for initializer runs
	EnvFile string

	// Out is where run progress goes; nil means silent
	Out types.UserOutput
}

// InitializeResult represents the outcome of one init run
type InitializeResult struct {
	// RunID identifies the run
	RunID string

	// TargetDir is the absolute target path
	TargetDir string

	// ProjectName is the resolved project name
	ProjectName string

	// Selected is the plugin set handed to the loader, in registration
	// order, before dependency ordering
	Selected []string

	// Run is the loader's full per-plugin record
	Run *types.RunResult

	// Errors collects the per-plugin failures of the run
	Errors []error
}

// HeavyweightResults returns the integration results keyed by plugin
// name, for the plugins that ran one.
func (r *InitializeResult) HeavyweightResults() map[string]*types.HeavyweightResult {
	out := make(map[string]*types.HeavyweightResult)
	if r.Run == nil {
		return out
	}
	for name, pr := range r.Run.PluginResults {
		if pr.Heavyweight != nil {
			out[name] = pr.Heavyweight
		}
	}
	return out
}

// Initialize runs the full init pipeline against a target directory:
// resolve the config, assemble the built-in registry, apply the
// visibility policy and the enabled set, take the run lock, probe
// tools, and dispatch the lifecycle phases.
func Initialize(ctx context.Context, opts InitializeOptions) (*InitializeResult, error) {
	logger := logging.GetLogger("commands.initialize")

	out := opts.Out
	if out == nil {
		out = types.NopOutput{}
	}

	target, err := resolveTarget(opts.TargetDir, opts.DryRun)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFrom(target, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.EnvFile != "" {
		cfg.Init.EnvFile = opts.EnvFile
	}
	failFast := opts.FailFast || cfg.Init.StopOnHeavyweightFailure

	logger.Debug().
		Str("target", target).
		Str("project", cfg.ProjectName).
		Strs("pluginNames", opts.PluginNames).
		Bool("failFast", failFast).
		Bool("dryRun", opts.DryRun).
		Msg("Starting initialize command")

	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	fs := filesystem.NewOS()

	warnNonEmpty(fs, target, out)

	reg, err := builtin.NewRegistry()
	if err != nil {
		return nil, err
	}

	selected, err := selectPlugins(reg, cfg, opts.PluginNames)
	if err != nil {
		return nil, err
	}
	selected = resolveConflicts(selected, out)
	if len(selected) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no plugins selected for this run")
	}

	runID := uuid.New().String()
	rc := types.NewRunContext(runID, cfg.ProjectName, target, fs, p, out, cfg)

	res := &InitializeResult{
		RunID:       runID,
		TargetDir:   target,
		ProjectName: cfg.ProjectName,
	}
	for _, pl := range selected {
		res.Selected = append(res.Selected, pl.Descriptor().Name)
	}

	if !opts.DryRun {
		release, err := acquireLock(fs, p, target)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	loader.ProbeTools(rc, selected)

	ld := loader.New(loader.Options{
		Heavyweight:              heavyweight.NewManager(fs, p),
		StopOnHeavyweightFailure: failFast,
		DryRun:                   opts.DryRun,
	})

	run, runErr := ld.Run(ctx, rc, selected)
	res.Run = run
	if run != nil {
		for _, name := range run.FailedPlugins() {
			if pr := run.PluginResults[name]; pr.Error != nil {
				res.Errors = append(res.Errors, pr.Error)
			}
		}
	}
	if runErr != nil {
		logger.Error().Err(runErr).Str("runID", runID).Msg("Initialize run failed")
		return res, runErr
	}
	if len(res.Errors) > 0 {
		logger.Warn().
			Str("runID", runID).
			Int("failed", len(res.Errors)).
			Msg("Initialize run completed with failed plugins")
		return res, fmt.Errorf("init run had %d failed plugins", len(res.Errors))
	}

	logger.Info().
		Str("runID", runID).
		Str("status", string(run.Status())).
		Msg("Initialize command completed")
	return res, nil
}

// resolveTarget absolutizes the target directory, creating it when
// missing. A dry run leaves a missing target alone.
func resolveTarget(dir string, dryRun bool) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "could not determine working directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid target directory %s", dir)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		if dryRun {
			return abs, nil
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", errors.Wrapf(err, errors.ErrDirCreate, "could not create target directory %s", abs)
		}
	case err != nil:
		return "", errors.Wrapf(err, errors.ErrFileAccess, "could not read target directory %s", abs)
	case !info.IsDir():
		return "", errors.Newf(errors.ErrInvalidInput, "target %s is not a directory", abs)
	}
	return abs, nil
}

// warnNonEmpty tells the user when the target already has content.
// Config files do not count; initializing a configured empty directory
// is the normal flow.
func warnNonEmpty(fs types.FS, target string, out types.UserOutput) {
	entries, err := fs.ReadDir(target)
	if err != nil {
		return
	}

	skip := make(map[string]bool, len(config.ConfigFileNames))
	for _, name := range config.ConfigFileNames {
		skip[name] = true
	}
	n := 0
	for _, e := range entries {
		if !skip[e.Name()] {
			n++
		}
	}
	if n > 0 {
		out.Warning("Target directory is not empty (%d entries); existing files are kept", n)
	}
}

// selectPlugins applies the visibility policy, the enabled set, and an
// optional explicit selection by command name. An explicit selection
// overrides enabled flags but never the policy, and always comes back
// in registration order.
func selectPlugins(reg *registry.PluginRegistry, cfg *types.RunConfig, names []string) ([]plugins.Plugin, error) {
	logger := logging.GetLogger("commands.initialize")

	visible := reg.GetVisible(cfg.Policy)

	if len(names) == 0 {
		var out []plugins.Plugin
		for _, p := range visible {
			name := p.Descriptor().Name
			if !cfg.PluginEnabled(name, true) {
				logger.Debug().Str("plugin", name).Msg("Plugin disabled by configuration")
				continue
			}
			out = append(out, p)
		}
		return out, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []plugins.Plugin
	for _, p := range visible {
		if want[p.Descriptor().CommandName] {
			out = append(out, p)
			delete(want, p.Descriptor().CommandName)
		}
	}
	if len(want) > 0 {
		for _, n := range names {
			if want[n] {
				return nil, errors.Newf(errors.ErrPluginNotFound,
					"plugin %q is not available for this run", n).
					WithDetail("plugin", n)
			}
		}
	}
	return out, nil
}

// resolveConflicts drops later-registered plugins that conflict with an
// earlier selection. Conflict edges count in both directions.
func resolveConflicts(selected []plugins.Plugin, out types.UserOutput) []plugins.Plugin {
	logger := logging.GetLogger("commands.initialize")

	kept := make([]plugins.Plugin, 0, len(selected))
	keptNames := make(map[string]bool, len(selected))
	conflictedBy := make(map[string]string)

	for _, p := range selected {
		desc := p.Descriptor()

		blocked := conflictedBy[desc.Name]
		if blocked == "" {
			for _, c := range desc.Conflicts {
				if keptNames[c] {
					blocked = c
					break
				}
			}
		}
		if blocked != "" {
			logger.Warn().
				Str("plugin", desc.Name).
				Str("conflictsWith", blocked).
				Msg("Plugin dropped, conflicts with an earlier selection")
			out.Warning("Plugin %s conflicts with %s and was dropped", desc.Name, blocked)
			continue
		}

		kept = append(kept, p)
		keptNames[desc.Name] = true
		for _, c := range desc.Conflicts {
			if conflictedBy[c] == "" {
				conflictedBy[c] = desc.Name
			}
		}
	}
	return kept
}

// acquireLock takes the exclusive per-project run lock. The returned
// release removes it.
func acquireLock(fs types.FS, p paths.Paths, target string) (func(), error) {
	logger := logging.GetLogger("commands.initialize")

	lockPath := p.LockFilePath(target)
	if err := fs.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "could not create project directory").
			WithDetail("path", filepath.Dir(lockPath))
	}

	pid := strconv.Itoa(os.Getpid()) + "\n"
	if err := fs.WriteFileExclusive(lockPath, []byte(pid), 0o644); err != nil {
		if os.IsExist(err) {
			return nil, errors.Newf(errors.ErrLockHeld,
				"another init run holds the lock at %s", lockPath).
				WithDetail("path", lockPath)
		}
		return nil, errors.Wrap(err, errors.ErrFileCreate, "could not create run lock").
			WithDetail("path", lockPath)
	}

	logger.Debug().Str("path", lockPath).Msg("Acquired run lock")
	return func() {
		if err := fs.Remove(lockPath); err != nil {
			logger.Warn().Err(err).Str("path", lockPath).Msg("Could not remove run lock")
		}
	}, nil
}
