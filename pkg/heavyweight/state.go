package heavyweight

// State is one stage of the integration run for a single plugin.
type State string

const (
	// StateIdle is the initial state before any work happens
	StateIdle State = "idle"

	// StateBackingUp copies protected files into the backup directory
	StateBackingUp State = "backing_up"

	// StateCapturingPreState snapshots the shared instructions file
	StateCapturingPreState State = "capturing_pre_state"

	// StateExecuting runs the external initializer command
	StateExecuting State = "executing"

	// StateMigrating moves generated instructions into a rule file
	StateMigrating State = "migrating"

	// StateMerging reconciles protected files by strategy
	StateMerging State = "merging"

	// StateCleanup is the success terminal: backups discarded
	StateCleanup State = "cleanup"

	// StateRestore is the failure terminal: files restored, then
	// backups discarded
	StateRestore State = "restore"
)

// transition advances the run's state machine, logging the edge.
func (r *run) transition(next State) {
	r.m.logger.Debug().
		Str("plugin", r.plugin.Descriptor().Name).
		Str("from", string(r.state)).
		Str("to", string(next)).
		Msg("State transition")
	r.state = next
}
