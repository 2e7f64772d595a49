package types

import (
	"time"
)

// RunStatus represents the overall status of a run or of one plugin's
// part in it
type RunStatus string

const (
	// RunStatusSuccess means everything succeeded
	RunStatusSuccess RunStatus = "success"

	// RunStatusPartial means some plugins succeeded, some failed
	RunStatusPartial RunStatus = "partial"

	// RunStatusError means the run failed
	RunStatusError RunStatus = "error"

	// RunStatusSkipped means the plugin did not run
	RunStatusSkipped RunStatus = "skipped"

	// RunStatusPending means execution hasn't started
	RunStatusPending RunStatus = "pending"
)

// RunResult tracks the complete outcome of one init run across all
// loaded plugins and phases.
type RunResult struct {
	// RunID is the unique id of this run
	RunID string

	// TargetDir is the directory that was initialized
	TargetDir string

	// Order is the resolved plugin load order
	Order []string

	// PluginResults contains results organized by plugin name
	PluginResults map[string]*PluginRunResult

	// FailedPhase is the phase a fail-fast hook error aborted, empty
	// when no phase was aborted
	FailedPhase Phase

	// Err is the run-level error, nil when the run completed
	Err error

	// DryRun indicates the run only reported planned work
	DryRun bool

	// StartTime is when execution began
	StartTime time.Time

	// EndTime is when execution completed
	EndTime time.Time
}

// PluginRunResult contains the outcome of a single plugin across the
// phases it participated in.
type PluginRunResult struct {
	// Name is the plugin name
	Name string

	// Scope is the free-form tag from the plugin's settings
	Scope string

	// HooksRun lists the phases whose hook this plugin actually ran
	HooksRun []Phase

	// Status is the plugin's aggregated status
	Status RunStatus

	// Error contains the hook error that failed this plugin, if any
	Error error

	// Heavyweight is the integration result for heavyweight plugins,
	// nil otherwise
	Heavyweight *HeavyweightResult
}

// NewRunResult creates a run result in the pending state.
func NewRunResult(runID, targetDir string, dryRun bool) *RunResult {
	return &RunResult{
		RunID:         runID,
		TargetDir:     targetDir,
		PluginResults: make(map[string]*PluginRunResult),
		DryRun:        dryRun,
		StartTime:     time.Now(),
	}
}

// PluginResult returns the result record for a plugin, creating it on
// first use.
func (r *RunResult) PluginResult(name string) *PluginRunResult {
	if pr, ok := r.PluginResults[name]; ok {
		return pr
	}
	pr := &PluginRunResult{Name: name, Status: RunStatusPending}
	r.PluginResults[name] = pr
	return pr
}

// RecordHook marks a phase hook as run for a plugin and applies its
// outcome.
func (r *RunResult) RecordHook(name string, phase Phase, err error) {
	pr := r.PluginResult(name)
	pr.HooksRun = append(pr.HooksRun, phase)
	if err != nil {
		pr.Status = RunStatusError
		pr.Error = err
		return
	}
	if pr.Status == RunStatusPending {
		pr.Status = RunStatusSuccess
	}
}

// Complete marks the run as complete.
func (r *RunResult) Complete() {
	r.EndTime = time.Now()
}

// Status aggregates the per-plugin statuses into an overall run status.
func (r *RunResult) Status() RunStatus {
	if len(r.PluginResults) == 0 {
		return RunStatusPending
	}
	failed, succeeded := 0, 0
	for _, pr := range r.PluginResults {
		switch pr.Status {
		case RunStatusError:
			failed++
		case RunStatusSuccess:
			succeeded++
		}
	}
	switch {
	case r.Err != nil && succeeded == 0:
		return RunStatusError
	case failed == 0 && r.Err == nil:
		return RunStatusSuccess
	case failed == len(r.PluginResults):
		return RunStatusError
	default:
		return RunStatusPartial
	}
}

// FailedPlugins returns the names of plugins that ended in error, in
// load order.
func (r *RunResult) FailedPlugins() []string {
	var out []string
	for _, name := range r.Order {
		if pr, ok := r.PluginResults[name]; ok && pr.Status == RunStatusError {
			out = append(out, name)
		}
	}
	return out
}
