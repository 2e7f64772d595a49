// Package heavyweight runs plugins whose initialization delegates to an
// external command that may independently create or rewrite files the
// plugin wants preserved.
//
// Each integration is a small state machine: back up the protected
// files, snapshot the shared instructions file, run the initializer
// under a timeout, migrate instructions the command generated into a
// per-plugin rule file, merge each protected file by its strategy, and
// either discard the backups on success or restore every file to its
// pre-run snapshot when any merge failed. The backup directory is
// removed in both terminal states and a Manager holds no per-run state,
// so repeated runs always start from a clean slate.
//
// A non-zero exit code from the initializer is a warning, not a
// failure: partial output is common and the merge step still wants it.
// Only a spawn failure or the timeout abort straight into rollback.
package heavyweight
