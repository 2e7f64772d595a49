// pkg/commands/initialize/initialize_test.go
// TEST TYPE: Integration Test (real filesystem, real sh for heavyweight runs)
// DEPENDENCIES: sh on PATH for the heavyweight scenarios
// PURPOSE: Test the full init pipeline: config, selection, lock, phases, artifacts

package initialize_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sh/sprout/pkg/commands/initialize"
	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/types"
)

// lightweightSet selects every built-in except agents, so tests do not
// depend on an agent CLI being installed.
var lightweightSet = []string{"core", "git", "memory", "tasks"}

func newTarget(t *testing.T) string {
	t.Helper()
	// Keep heavyweight backups and logs inside the test sandbox
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	return t.TempDir()
}

func writeConfig(t *testing.T, target, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(target, "sprout.toml"), []byte(content), 0o644))
}

func TestInitialize_FullRun(t *testing.T) {
	target := newTarget(t)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: lightweightSet,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, target, res.TargetDir)
	assert.Equal(t, filepath.Base(target), res.ProjectName)
	assert.Equal(t, lightweightSet, res.Selected)
	require.NotNil(t, res.Run)
	assert.Equal(t, types.RunStatusSuccess, res.Run.Status())
	assert.Equal(t, lightweightSet, res.Run.Order)

	for _, rel := range []string{
		"README.md",
		".gitignore",
		filepath.Join(".sprout", "memory", "MEMORY.md"),
		filepath.Join(".sprout", "tasks", "TASKS.md"),
		filepath.Join(".sprout", "manifest.json"),
	} {
		_, err := os.Stat(filepath.Join(target, rel))
		assert.NoError(t, err, rel)
	}

	// Lock released, scratch space cleaned up
	_, err = os.Stat(filepath.Join(target, ".sprout", "init.lock"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(target, ".sprout", "tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitialize_WithHeavyweightAgent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("heavyweight scenario relies on sh")
	}
	target := newTarget(t)
	writeConfig(t, target, `
[plugins.agents.options]
command = ["sh", "-c", "printf 'agent rules\n' > AGENTS.md; printf made > made.txt"]
`)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir: target,
	})
	require.NoError(t, err)
	assert.Equal(t, types.RunStatusSuccess, res.Run.Status())

	hw := res.HeavyweightResults()
	require.Contains(t, hw, "agents")
	assert.True(t, hw["agents"].Success)
	assert.Equal(t, 0, hw["agents"].ExitCode)

	data, err := os.ReadFile(filepath.Join(target, "made.txt"))
	require.NoError(t, err)
	assert.Equal(t, "made", string(data))

	// Fresh shared instructions migrated to the rule file
	ruleFile := filepath.Join(target, ".sprout", "rules", "40-agents.md")
	data, err = os.ReadFile(ruleFile)
	require.NoError(t, err)
	assert.Equal(t, "agent rules\n", string(data))
	_, err = os.Stat(filepath.Join(target, "AGENTS.md"))
	assert.True(t, os.IsNotExist(err))

	// And recorded in the manifest with a relative path
	manifest, err := os.ReadFile(filepath.Join(target, ".sprout", "manifest.json"))
	require.NoError(t, err)
	var m struct {
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(manifest, &m))
	var paths []string
	for _, f := range m.Files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, ".sprout/rules/40-agents.md")
}

func TestInitialize_HeavyweightFailureContinuesByDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("heavyweight scenario relies on sh")
	}
	target := newTarget(t)
	writeConfig(t, target, `
[plugins.agents.options]
command = ["/definitely/not/a/real/binary"]
`)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir: target,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed plugins")

	// The run itself completed; only the agents plugin failed
	require.NotNil(t, res.Run)
	assert.Nil(t, res.Run.Err)
	assert.Equal(t, types.RunStatusPartial, res.Run.Status())
	assert.Equal(t, []string{"agents"}, res.Run.FailedPlugins())
	require.Len(t, res.Errors, 1)
	assert.True(t, errors.IsErrorCode(res.Errors[0], errors.ErrCommandExecution))

	// Lightweight plugins still did their work
	_, err = os.Stat(filepath.Join(target, "README.md"))
	assert.NoError(t, err)
}

func TestInitialize_FailFastAbortsRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("heavyweight scenario relies on sh")
	}
	target := newTarget(t)
	writeConfig(t, target, `
[plugins.agents.options]
command = ["/definitely/not/a/real/binary"]
`)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir: target,
		FailFast:  true,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHookExecution))
	require.NotNil(t, res.Run)
	assert.Equal(t, types.PhaseExecute, res.Run.FailedPhase)
}

func TestInitialize_DryRunTouchesNothing(t *testing.T) {
	target := newTarget(t)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: lightweightSet,
		DryRun:      true,
	})
	require.NoError(t, err)
	assert.True(t, res.Run.DryRun)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries, "a dry run must not create anything")
}

func TestInitialize_LockHeld(t *testing.T) {
	target := newTarget(t)
	require.NoError(t, os.MkdirAll(filepath.Join(target, ".sprout"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, ".sprout", "init.lock"), []byte("12345\n"), 0o644))

	_, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: lightweightSet,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLockHeld))
}

func TestInitialize_UnknownPluginName(t *testing.T) {
	target := newTarget(t)

	_, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: []string{"core", "nope"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginNotFound))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, "nope", details["plugin"])
}

func TestInitialize_PolicyDenyHidesPlugin(t *testing.T) {
	target := newTarget(t)
	writeConfig(t, target, `
[policy]
deny = ["git", "agents"]
`)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir: target,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "memory", "tasks"}, res.Selected)

	_, err = os.Stat(filepath.Join(target, ".gitignore"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitialize_DisabledPluginSkipped(t *testing.T) {
	target := newTarget(t)
	writeConfig(t, target, `
[plugins.tasks]
enabled = false
[plugins.agents]
enabled = false
`)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir: target,
	})
	require.NoError(t, err)
	assert.NotContains(t, res.Selected, "tasks")

	_, err = os.Stat(filepath.Join(target, ".sprout", "tasks", "TASKS.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestInitialize_ExplicitSelectionOverridesDisabled(t *testing.T) {
	target := newTarget(t)
	writeConfig(t, target, `
[plugins.tasks]
enabled = false
`)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: []string{"core", "tasks"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "tasks"}, res.Selected)

	_, err = os.Stat(filepath.Join(target, ".sprout", "tasks", "TASKS.md"))
	assert.NoError(t, err)
}

func TestInitialize_SelectionOrderIsRegistrationOrder(t *testing.T) {
	target := newTarget(t)

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: []string{"tasks", "memory", "core"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "memory", "tasks"}, res.Selected)
	assert.Equal(t, []string{"core", "memory", "tasks"}, res.Run.Order)
}

func TestInitialize_CreatesMissingTarget(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "fresh", "project")

	res, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: []string{"core"},
	})
	require.NoError(t, err)
	assert.Equal(t, target, res.TargetDir)

	_, err = os.Stat(filepath.Join(target, "README.md"))
	assert.NoError(t, err)
}

func TestInitialize_WarnsOnNonEmptyTarget(t *testing.T) {
	target := newTarget(t)
	require.NoError(t, os.WriteFile(filepath.Join(target, "existing.txt"), []byte("x"), 0o644))

	out := &recordingOutput{}
	_, err := initialize.Initialize(context.Background(), initialize.InitializeOptions{
		TargetDir:   target,
		PluginNames: []string{"core"},
		Out:         out,
	})
	require.NoError(t, err)

	require.NotEmpty(t, out.warnings)
	assert.Contains(t, out.warnings[0], "not empty")
}

// recordingOutput captures warnings for assertions
type recordingOutput struct {
	types.NopOutput
	warnings []string
}

func (r *recordingOutput) Warning(format string, args ...interface{}) {
	r.warnings = append(r.warnings, format)
}
