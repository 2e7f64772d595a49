package heavyweight

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/filesystem"
	"github.com/sprout-sh/sprout/pkg/types"
)

// backupProtectedFiles records the pre-run state of every protected
// file: existence, a content snapshot, and an on-disk copy in the
// per-run backup directory. Entries stay index-aligned with the
// protected file list. A file recorded as non-existent is deleted, not
// truncated, on rollback.
func (r *run) backupProtectedFiles() error {
	if len(r.cfg.ProtectedFiles) == 0 {
		return nil
	}

	name := r.plugin.Descriptor().Name
	r.backupDir = r.m.paths.BackupDir(name, r.rc.RunID)
	if err := r.m.fs.MkdirAll(r.backupDir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrBackup,
			"could not create backup directory %s", r.backupDir).
			WithDetail("plugin", name)
	}

	for i, pf := range r.cfg.ProtectedFiles {
		entry := &types.BackupEntry{
			OriginalPath: filepath.Join(r.rc.TargetDir, pf.Path),
		}

		content, err := r.m.fs.ReadFile(entry.OriginalPath)
		switch {
		case err != nil && os.IsNotExist(err):
			// Absent now, deleted again on rollback
		case err != nil:
			return errors.Wrapf(err, errors.ErrBackup,
				"could not read protected file %s", pf.Path).
				WithDetail("plugin", name).
				WithDetail("file", pf.Path)
		default:
			entry.Existed = true
			entry.Content = content
			entry.BackupPath = filepath.Join(r.backupDir,
				fmt.Sprintf("%02d-%s", i, filepath.Base(pf.Path)))
			if err := filesystem.CopyFile(r.m.fs, entry.OriginalPath, entry.BackupPath); err != nil {
				return errors.Wrapf(err, errors.ErrBackup,
					"could not write backup copy of %s", pf.Path).
					WithDetail("plugin", name).
					WithDetail("file", pf.Path)
			}
		}

		r.backups = append(r.backups, entry)
		r.m.logger.Debug().
			Str("plugin", name).
			Str("file", pf.Path).
			Bool("existed", entry.Existed).
			Msg("Backed up protected file")
	}
	return nil
}

// rollback restores every protected file to its pre-run snapshot:
// content for content, absence for absence. Restore failures are logged
// and skipped so a secondary failure never masks the one that caused
// the rollback.
func (r *run) rollback() {
	if len(r.backups) == 0 {
		return
	}
	r.transition(StateRestore)
	name := r.plugin.Descriptor().Name

	for _, entry := range r.backups {
		var err error
		if entry.Existed {
			err = r.m.fs.WriteFile(entry.OriginalPath, entry.Content, 0o644)
		} else {
			err = r.m.fs.Remove(entry.OriginalPath)
			if err != nil && os.IsNotExist(err) {
				err = nil
			}
		}
		if err != nil {
			restoreErr := errors.Wrapf(err, errors.ErrRestore,
				"could not restore %s", entry.OriginalPath).
				WithDetail("plugin", name)
			r.m.logger.Error().Err(restoreErr).
				Str("file", entry.OriginalPath).
				Msg("Restore failed, continuing with remaining files")
			continue
		}
		r.m.logger.Debug().
			Str("plugin", name).
			Str("file", entry.OriginalPath).
			Bool("existed", entry.Existed).
			Msg("Restored protected file")
	}

	r.res.RolledBack = true
	r.m.logger.Warn().
		Str("plugin", name).
		Msg("Protected files restored to their pre-run state")
}

// discardBackups removes the per-run backup directory and clears the
// in-memory bookkeeping. Runs in both terminal states so repeated runs
// start from a clean slate.
func (r *run) discardBackups() {
	if r.backupDir != "" {
		if err := r.m.fs.RemoveAll(r.backupDir); err != nil {
			r.m.logger.Warn().Err(err).
				Str("dir", r.backupDir).
				Msg("Could not remove backup directory")
		}
		r.backupDir = ""
	}
	r.backups = nil
}
