package loader

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/types"
)

// HeavyweightRunner runs the external-initializer integration for one
// heavyweight plugin. Implemented by heavyweight.Manager; the loader
// only needs this slice of it.
type HeavyweightRunner interface {
	Run(ctx context.Context, p plugins.Plugin, rc *types.RunContext) *types.HeavyweightResult
}

// Options configures a Loader.
type Options struct {
	// Heavyweight runs the integration for plugins flagged heavyweight.
	// May be nil when no selected plugin carries the flag.
	Heavyweight HeavyweightRunner

	// StopOnHeavyweightFailure aborts the execute phase when a
	// heavyweight integration fails, instead of continuing with the
	// remaining plugins.
	StopOnHeavyweightFailure bool

	// DryRun resolves the order and reports planned hooks without
	// invoking any of them.
	DryRun bool
}

// Loader dispatches lifecycle hooks across an ordered plugin set.
type Loader struct {
	opts   Options
	logger zerolog.Logger
}

// New creates a Loader.
func New(opts Options) *Loader {
	return &Loader{
		opts:   opts,
		logger: logging.GetLogger("loader"),
	}
}

// Run orders the selected plugins by their dependencies and dispatches
// the lifecycle phases across them. Each phase completes for every
// plugin before the next phase starts. The first hook error aborts its
// phase and the run; there is no rollback of work done by earlier
// plugins in the same phase. Heavyweight integration failures are
// recorded per plugin and abort only when StopOnHeavyweightFailure is
// set.
func (l *Loader) Run(ctx context.Context, rc *types.RunContext, selected []plugins.Plugin) (*types.RunResult, error) {
	ordered, err := Order(selected)
	if err != nil {
		return nil, err
	}

	res := types.NewRunResult(rc.RunID, rc.TargetDir, l.opts.DryRun)
	for _, p := range ordered {
		name := p.Descriptor().Name
		res.Order = append(res.Order, name)
		pr := res.PluginResult(name)
		if rc.Config != nil {
			pr.Scope = rc.Config.PluginSettingsFor(name).Scope
		}
	}

	l.logger.Info().
		Str("runID", rc.RunID).
		Strs("order", res.Order).
		Bool("dryRun", l.opts.DryRun).
		Msg("Starting plugin run")

	if l.opts.DryRun {
		l.reportPlanned(ordered, res)
		res.Complete()
		return res, nil
	}

	for _, phase := range types.Phases {
		if err := ctx.Err(); err != nil {
			res.FailedPhase = phase
			res.Err = err
			res.Complete()
			return res, err
		}
		if err := l.runPhase(ctx, phase, ordered, rc, res); err != nil {
			res.FailedPhase = phase
			res.Err = err
			res.Complete()
			return res, err
		}
	}

	markSkipped(res)
	res.Complete()

	l.logger.Info().
		Str("runID", rc.RunID).
		Str("status", string(res.Status())).
		Msg("Plugin run completed")
	return res, nil
}

// runPhase invokes one phase's hook on every plugin that has it, in
// order, failing fast on the first hook error.
func (l *Loader) runPhase(ctx context.Context, phase types.Phase, ordered []plugins.Plugin, rc *types.RunContext, res *types.RunResult) error {
	l.logger.Debug().Str("phase", string(phase)).Msg("Starting phase")

	for _, p := range ordered {
		desc := p.Descriptor()

		if phase == types.PhaseExecute && desc.Heavyweight {
			if err := l.runHeavyweight(ctx, p, rc, res); err != nil {
				return err
			}
			continue
		}

		hook, ok := hookFor(phase, p)
		if !ok {
			continue
		}

		l.logger.Debug().
			Str("plugin", desc.Name).
			Str("phase", string(phase)).
			Msg("Invoking hook")

		err := hook(rc)
		res.RecordHook(desc.Name, phase, err)
		if err != nil {
			l.logger.Error().Err(err).
				Str("plugin", desc.Name).
				Str("phase", string(phase)).
				Msg("Hook failed, aborting phase")
			return errors.Wrapf(err, errors.ErrHookExecution,
				"plugin %q failed during %s", desc.Name, phase).
				WithDetail("plugin", desc.Name).
				WithDetail("phase", string(phase))
		}
	}
	return nil
}

// runHeavyweight hands a heavyweight plugin to the configured runner in
// place of its execute hook and records the integration result.
func (l *Loader) runHeavyweight(ctx context.Context, p plugins.Plugin, rc *types.RunContext, res *types.RunResult) error {
	name := p.Descriptor().Name

	if l.opts.Heavyweight == nil {
		err := errors.Newf(errors.ErrInternal,
			"plugin %q is heavyweight but no heavyweight runner is configured", name)
		res.RecordHook(name, types.PhaseExecute, err)
		return err
	}

	hr := l.opts.Heavyweight.Run(ctx, p, rc)
	pr := res.PluginResult(name)
	pr.Heavyweight = hr
	res.RecordHook(name, types.PhaseExecute, hr.Err)

	if hr.Err == nil {
		return nil
	}
	if l.opts.StopOnHeavyweightFailure {
		return errors.Wrapf(hr.Err, errors.ErrHookExecution,
			"heavyweight plugin %q failed", name).
			WithDetail("plugin", name).
			WithDetail("phase", string(types.PhaseExecute))
	}

	l.logger.Warn().Err(hr.Err).
		Str("plugin", name).
		Msg("Heavyweight integration failed, continuing with remaining plugins")
	if rc.Out != nil {
		rc.Out.Warning("Plugin %s failed: %v", name, hr.Err)
	}
	return nil
}

// reportPlanned logs, per plugin, the hooks a real run would invoke.
func (l *Loader) reportPlanned(ordered []plugins.Plugin, res *types.RunResult) {
	for _, p := range ordered {
		desc := p.Descriptor()
		var planned []string
		for _, phase := range types.Phases {
			if phase == types.PhaseExecute && desc.Heavyweight {
				planned = append(planned, string(phase)+" (heavyweight)")
				continue
			}
			if _, ok := hookFor(phase, p); ok {
				planned = append(planned, string(phase))
			}
		}
		res.PluginResult(desc.Name).Status = types.RunStatusSkipped
		l.logger.Info().
			Str("plugin", desc.Name).
			Strs("hooks", planned).
			Msg("Dry run: planned hooks")
	}
}

// hookFor returns the phase's hook bound to the plugin, when the plugin
// implements the matching capability interface.
func hookFor(phase types.Phase, p plugins.Plugin) (func(*types.RunContext) error, bool) {
	switch phase {
	case types.PhaseBeforeInit:
		if h, ok := p.(plugins.BeforeIniter); ok {
			return h.BeforeInit, true
		}
	case types.PhaseExecute:
		if h, ok := p.(plugins.Executor); ok {
			return h.Execute, true
		}
	case types.PhaseAfterInit:
		if h, ok := p.(plugins.AfterIniter); ok {
			return h.AfterInit, true
		}
	case types.PhaseCleanup:
		if h, ok := p.(plugins.Cleaner); ok {
			return h.Cleanup, true
		}
	}
	return nil, false
}

// markSkipped flips plugins that never ran a hook to skipped once the
// run completes.
func markSkipped(res *types.RunResult) {
	for _, pr := range res.PluginResults {
		if pr.Status == types.RunStatusPending {
			pr.Status = types.RunStatusSkipped
		}
	}
}
