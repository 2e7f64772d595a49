package types

import (
	"fmt"
	"time"
)

// MergeStrategy selects how a protected file's preserved content is
// combined with the content an external initializer wrote.
type MergeStrategy string

const (
	// MergeAppend keeps the preserved content first and appends the
	// initializer's content after a separator
	MergeAppend MergeStrategy = "append"

	// MergePrepend keeps the initializer's content first and appends
	// the preserved content after a separator
	MergePrepend MergeStrategy = "prepend"

	// MergeCustom delegates the merge to the plugin's FileMerger
	// capability
	MergeCustom MergeStrategy = "custom"
)

// MergeSeparator joins the two sides of an append or prepend merge.
const MergeSeparator = "\n\n---\n\n"

// DefaultCommandTimeout bounds an initializer command that declares no
// timeout of its own.
const DefaultCommandTimeout = 120 * time.Second

// Shared instructions file names, tried in order during migration.
const (
	// InstructionsFileName is the conventional shared instructions file
	InstructionsFileName = "AGENTS.md"

	// LegacyInstructionsFileName is the older name still honored
	LegacyInstructionsFileName = "INSTRUCTIONS.md"
)

// ProtectedFile names one file a heavyweight plugin preserves across its
// initializer run, with the strategy used if both sides end up with
// content.
type ProtectedFile struct {
	// Path is relative to the target directory
	Path string

	// Strategy defaults to MergeAppend when empty
	Strategy MergeStrategy
}

// HeavyweightConfig is what a heavyweight plugin's provider hook returns:
// everything the manager needs to run the external initializer safely.
type HeavyweightConfig struct {
	// ProtectedFiles are preserved across the command run. May be empty.
	ProtectedFiles []ProtectedFile

	// Command is the initializer in argv form. Exactly one of Command
	// and Shell must be set.
	Command []string

	// Shell is the initializer as a shell line, for plugins that need
	// pipes or expansion. Runs via sh -c.
	Shell string

	// WorkDir overrides the working directory; defaults to the target
	// directory
	WorkDir string

	// Env adds or overrides environment variables for the command
	Env map[string]string

	// Timeout bounds the command run; zero means DefaultCommandTimeout
	Timeout time.Duration

	// DisableMigration skips the shared-instructions migration step.
	// The zero value keeps migration on.
	DisableMigration bool
}

// EffectiveTimeout returns the configured timeout or the default.
func (c *HeavyweightConfig) EffectiveTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultCommandTimeout
	}
	return c.Timeout
}

// Validate checks the config for the first offending field.
func (c *HeavyweightConfig) Validate() error {
	hasArgv := len(c.Command) > 0
	hasShell := c.Shell != ""
	if !hasArgv && !hasShell {
		return fmt.Errorf("command: one of command or shell is required")
	}
	if hasArgv && hasShell {
		return fmt.Errorf("command: command and shell are mutually exclusive")
	}
	if hasArgv && c.Command[0] == "" {
		return fmt.Errorf("command: first element must be the binary name")
	}
	for i, pf := range c.ProtectedFiles {
		if pf.Path == "" {
			return fmt.Errorf("protected_files[%d]: path is required", i)
		}
		switch pf.Strategy {
		case "", MergeAppend, MergePrepend, MergeCustom:
		default:
			return fmt.Errorf("protected_files[%d]: unknown merge strategy %q", i, pf.Strategy)
		}
	}
	return nil
}

// BackupEntry records one protected file's pre-run state. Entries exist
// for every protected file before the external command runs and are
// discarded, together with the backup directory, when the run ends.
type BackupEntry struct {
	// OriginalPath is the file's absolute path in the target directory
	OriginalPath string

	// BackupPath is the on-disk copy inside the per-run backup
	// directory; empty when the file did not exist
	BackupPath string

	// Existed records whether the file was present before the run. A
	// file recorded as non-existent is deleted, not truncated, on
	// rollback.
	Existed bool

	// Content is the pre-run content snapshot, present only if Existed
	Content []byte
}

// MergeOutcome is the per-file result of the merge step.
type MergeOutcome struct {
	// Path is the protected file, relative to the target directory
	Path string

	// Strategy that was applied
	Strategy MergeStrategy

	// Action describes what happened: "merged", "kept_theirs",
	// "restored_ours", "noop"
	Action string

	// Err is the per-file failure, nil on success
	Err error
}

// HeavyweightResult is the outcome of one heavyweight integration run,
// consumed by the orchestrating layer which decides whether the overall
// init continues.
type HeavyweightResult struct {
	// PluginName is the heavyweight plugin that ran
	PluginName string

	// Success is true only when the command ran and every merge
	// succeeded
	Success bool

	// Stdout and Stderr are the captured command output
	Stdout string
	Stderr string

	// ExitCode is the command's exit code; -1 when it never ran or was
	// killed
	ExitCode int

	// Duration is the command wall time
	Duration time.Duration

	// TimedOut is true when the command hit its deadline
	TimedOut bool

	// Merges holds the per-file merge outcomes
	Merges []MergeOutcome

	// RolledBack is true when protected files were restored to their
	// pre-run snapshots
	RolledBack bool

	// MigratedRuleFile is the rules file written by the instructions
	// migration, empty when no migration happened
	MigratedRuleFile string

	// Err is the run-level failure, nil on success
	Err error
}
