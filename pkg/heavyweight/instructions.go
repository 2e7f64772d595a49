package heavyweight

import (
	"path/filepath"

	"github.com/sprout-sh/sprout/pkg/internal/hashutil"
	"github.com/sprout-sh/sprout/pkg/types"
)

// instructionsSnapshot records the state of the shared instructions file
// at one point in time. The signature is structural, not cryptographic:
// equality detection is all migration needs.
type instructionsSnapshot struct {
	path      string
	existed   bool
	signature string
	content   []byte
}

// captureInstructions snapshots the shared instructions file, trying
// the conventional name first and the legacy name second. When neither
// exists the snapshot records the conventional path as absent.
func (r *run) captureInstructions() *instructionsSnapshot {
	for _, name := range []string{types.InstructionsFileName, types.LegacyInstructionsFileName} {
		snap := r.captureAt(filepath.Join(r.rc.TargetDir, name))
		if snap.existed {
			return snap
		}
	}
	return &instructionsSnapshot{
		path: filepath.Join(r.rc.TargetDir, types.InstructionsFileName),
	}
}

// captureAt snapshots one specific path.
func (r *run) captureAt(path string) *instructionsSnapshot {
	content, err := r.m.fs.ReadFile(path)
	if err != nil {
		return &instructionsSnapshot{path: path}
	}
	return &instructionsSnapshot{
		path:      path,
		existed:   true,
		signature: hashutil.Structural(content),
		content:   content,
	}
}

// migrateInstructions re-captures the shared instructions file after
// the command ran. Content that is newly present or changed moves
// verbatim into this plugin's priority-prefixed rule file, and the
// shared file goes back to its exact pre-run state, so several
// heavyweight plugins cannot fight over one file. When the rule file
// cannot be written the shared file stays as the command left it: the
// generated content must survive somewhere.
func (r *run) migrateInstructions() {
	name := r.plugin.Descriptor().Name

	var post *instructionsSnapshot
	if r.preState.existed {
		post = r.captureAt(r.preState.path)
	} else {
		post = r.captureInstructions()
	}

	if !post.existed {
		return
	}
	if r.preState.existed && post.signature == r.preState.signature {
		return
	}

	ruleFile := r.m.paths.RuleFilePath(r.rc.TargetDir, r.plugin.Descriptor().Priority, name)
	if err := r.m.fs.MkdirAll(r.m.paths.RulesDir(r.rc.TargetDir), 0o755); err != nil {
		r.m.logger.Warn().Err(err).
			Str("plugin", name).
			Msg("Could not create rules directory, leaving shared instructions in place")
		return
	}
	if err := r.m.fs.WriteFile(ruleFile, post.content, 0o644); err != nil {
		r.m.logger.Warn().Err(err).
			Str("plugin", name).
			Str("ruleFile", ruleFile).
			Msg("Could not write rule file, leaving shared instructions in place")
		return
	}

	// The generated content is safe in the rule file; put the shared
	// file back to its pre-run state.
	if r.preState.existed {
		if err := r.m.fs.WriteFile(post.path, r.preState.content, 0o644); err != nil {
			r.m.logger.Error().Err(err).
				Str("file", post.path).
				Msg("Could not restore shared instructions file")
		}
	} else {
		if err := r.m.fs.Remove(post.path); err != nil {
			r.m.logger.Error().Err(err).
				Str("file", post.path).
				Msg("Could not remove generated shared instructions file")
		}
	}

	r.res.MigratedRuleFile = ruleFile
	r.rc.AddCreatedFile(ruleFile)
	r.m.logger.Info().
		Str("plugin", name).
		Str("from", post.path).
		Str("to", ruleFile).
		Msg("Migrated shared instructions to rule file")
}
