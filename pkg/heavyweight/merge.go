package heavyweight

import (
	"bytes"
	"os"
	"strings"
	"unicode"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/plugins"
	"github.com/sprout-sh/sprout/pkg/types"
)

// AppendMerge joins preserved content before generated content with the
// standard separator. Trailing whitespace on the left side and leading
// whitespace on the right side are dropped so repeated merges stay tidy.
func AppendMerge(ours, theirs []byte) []byte {
	left := strings.TrimRightFunc(string(ours), unicode.IsSpace)
	right := strings.TrimLeftFunc(string(theirs), unicode.IsSpace)
	return []byte(left + types.MergeSeparator + right)
}

// PrependMerge joins generated content before preserved content.
func PrependMerge(ours, theirs []byte) []byte {
	return AppendMerge(theirs, ours)
}

// mergeProtectedFiles reconciles every protected file and reports
// whether any of them failed. One file's failure never stops the rest
// of the batch; the caller rolls everything back when the batch had a
// failure.
func (r *run) mergeProtectedFiles() bool {
	anyFailed := false
	for i, pf := range r.cfg.ProtectedFiles {
		outcome := r.mergeFile(pf, r.backups[i])
		r.res.Merges = append(r.res.Merges, outcome)
		if outcome.Err != nil {
			anyFailed = true
			r.m.logger.Error().Err(outcome.Err).
				Str("plugin", r.plugin.Descriptor().Name).
				Str("file", pf.Path).
				Msg("Merge failed, continuing with remaining files")
		}
	}
	return anyFailed
}

// mergeFile reconciles one protected file: ours is the pre-run backup,
// theirs is whatever the initializer left on disk.
func (r *run) mergeFile(pf types.ProtectedFile, entry *types.BackupEntry) types.MergeOutcome {
	strategy := pf.Strategy
	if strategy == "" {
		strategy = types.MergeAppend
	}
	outcome := types.MergeOutcome{Path: pf.Path, Strategy: strategy}

	theirs, err := r.m.fs.ReadFile(entry.OriginalPath)
	if err != nil && !os.IsNotExist(err) {
		outcome.Err = errors.Wrapf(err, errors.ErrMerge,
			"could not read %s", pf.Path).
			WithDetail("file", pf.Path)
		return outcome
	}
	theirsExists := err == nil

	switch {
	case !entry.Existed && !theirsExists:
		outcome.Action = "noop"

	case !entry.Existed && theirsExists:
		outcome.Action = "kept_theirs"

	case entry.Existed && !theirsExists:
		// The initializer removed or never touched it; ours wins.
		if err := r.m.fs.WriteFile(entry.OriginalPath, entry.Content, 0o644); err != nil {
			outcome.Err = errors.Wrapf(err, errors.ErrMerge,
				"could not restore %s", pf.Path).
				WithDetail("file", pf.Path)
			return outcome
		}
		outcome.Action = "restored_ours"

	case bytes.Equal(entry.Content, theirs):
		// The initializer left the file exactly as it was, possibly
		// because the instructions migration already put it back.
		// Merging identical sides would duplicate content.
		outcome.Action = "noop"

	default:
		merged, err := r.mergeBoth(strategy, pf.Path, entry.Content, theirs)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		if err := r.m.fs.WriteFile(entry.OriginalPath, merged, 0o644); err != nil {
			outcome.Err = errors.Wrapf(err, errors.ErrMerge,
				"could not write merged %s", pf.Path).
				WithDetail("file", pf.Path)
			return outcome
		}
		outcome.Action = "merged"
	}

	r.m.logger.Debug().
		Str("plugin", r.plugin.Descriptor().Name).
		Str("file", pf.Path).
		Str("strategy", string(strategy)).
		Str("action", outcome.Action).
		Msg("Reconciled protected file")
	return outcome
}

// mergeBoth applies the strategy when both sides have content.
func (r *run) mergeBoth(strategy types.MergeStrategy, path string, ours, theirs []byte) ([]byte, error) {
	name := r.plugin.Descriptor().Name

	switch strategy {
	case types.MergeAppend:
		return AppendMerge(ours, theirs), nil

	case types.MergePrepend:
		return PrependMerge(ours, theirs), nil

	case types.MergeCustom:
		merger, ok := r.plugin.(plugins.FileMerger)
		if !ok {
			return nil, errors.Newf(errors.ErrMergeConfiguration,
				"plugin %q declares the custom strategy for %q but implements no file merger", name, path).
				WithDetail("plugin", name).
				WithDetail("file", path)
		}
		merged, err := merger.MergeFile(r.rc, path, ours, theirs)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMerge,
				"custom merge of %q failed", path).
				WithDetail("plugin", name).
				WithDetail("file", path)
		}
		return merged, nil

	default:
		return nil, errors.Newf(errors.ErrMergeConfiguration,
			"plugin %q declares unknown merge strategy %q for %q", name, strategy, path).
			WithDetail("plugin", name).
			WithDetail("file", path)
	}
}

// failedMergeCount counts outcomes that carry an error.
func failedMergeCount(outcomes []types.MergeOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
