// pkg/types/types_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test run configuration, run context store, and result aggregation

package types_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sprout-sh/sprout/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestRunConfig_PluginEnabled(t *testing.T) {
	on := true
	off := false
	cfg := &types.RunConfig{
		Plugins: map[string]types.PluginSettings{
			"git":    {Enabled: &on},
			"memory": {Enabled: &off},
		},
	}

	assert.True(t, cfg.PluginEnabled("git", false))
	assert.False(t, cfg.PluginEnabled("memory", true))
	assert.True(t, cfg.PluginEnabled("unknown", true), "unset plugin falls back to default")
	assert.False(t, cfg.PluginEnabled("unknown", false))
}

func TestRunConfig_NilSafety(t *testing.T) {
	var cfg *types.RunConfig
	assert.Equal(t, types.PluginSettings{}, cfg.PluginSettingsFor("git"))
	assert.True(t, cfg.PluginEnabled("git", true))
}

func TestRunContext_ValueStore(t *testing.T) {
	rc := types.NewRunContext("run-1", "demo", "/tmp/demo", nil, nil, nil, nil)

	rc.Set(types.KeyGitRepo, true)
	assert.True(t, rc.GetBool(types.KeyGitRepo))

	rc.Set("note", "hello")
	assert.Equal(t, "hello", rc.GetString("note"))

	_, ok := rc.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", rc.GetString("missing"))
	assert.False(t, rc.GetBool("missing"))
}

func TestRunContext_ToolFacts(t *testing.T) {
	rc := types.NewRunContext("run-1", "demo", "/tmp/demo", nil, nil, nil, nil)

	rc.SetToolAvailable("git", true)
	rc.SetToolAvailable("claude", false)

	assert.True(t, rc.ToolAvailable("git"))
	assert.False(t, rc.ToolAvailable("claude"))
	assert.False(t, rc.ToolAvailable("never-probed"))
}

func TestRunContext_CreatedFiles(t *testing.T) {
	rc := types.NewRunContext("run-1", "demo", "/tmp/demo", nil, nil, nil, nil)

	rc.AddCreatedFile("README.md")
	rc.AddCreatedFile(".gitignore")
	rc.AddCreatedFile("README.md")

	assert.Equal(t, []string{"README.md", ".gitignore"}, rc.CreatedFiles(),
		"duplicates dropped, insertion order kept")
}

func TestRunContext_ConcurrentAccess(t *testing.T) {
	rc := types.NewRunContext("run-1", "demo", "/tmp/demo", nil, nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rc.SetToolAvailable("tool", n%2 == 0)
			_ = rc.ToolAvailable("tool")
		}(i)
	}
	wg.Wait()
}

func TestRunContext_Options(t *testing.T) {
	cfg := &types.RunConfig{
		Plugins: map[string]types.PluginSettings{
			"agents": {
				Options: map[string]interface{}{
					"command":     []interface{}{"claude", "init"},
					"timeout_ms":  int64(50),
					"skip_merge":  true,
					"model":       "default",
					"environment": map[string]interface{}{"CI": "1"},
				},
			},
		},
	}
	rc := types.NewRunContext("run-1", "demo", "/tmp/demo", nil, nil, nil, cfg)

	assert.Equal(t, []string{"claude", "init"}, rc.OptionStringSlice("agents", "command"))
	assert.Equal(t, 50, rc.OptionInt("agents", "timeout_ms", 0))
	assert.True(t, rc.OptionBool("agents", "skip_merge", false))
	assert.Equal(t, "default", rc.OptionString("agents", "model", "other"))
	assert.Equal(t, map[string]string{"CI": "1"}, rc.OptionStringMap("agents", "environment"))

	// Defaults for unset keys and unknown plugins
	assert.Equal(t, "fallback", rc.OptionString("agents", "missing", "fallback"))
	assert.Equal(t, 7, rc.OptionInt("unknown", "timeout_ms", 7))
	assert.Nil(t, rc.OptionStringSlice("unknown", "command"))
}

func TestHeavyweightConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.HeavyweightConfig
		wantErr string
	}{
		{
			name: "valid argv command",
			cfg: types.HeavyweightConfig{
				Command:        []string{"claude", "init"},
				ProtectedFiles: []types.ProtectedFile{{Path: "AGENTS.md"}},
			},
		},
		{
			name: "valid shell command",
			cfg:  types.HeavyweightConfig{Shell: "claude init | tee log"},
		},
		{
			name:    "missing command",
			cfg:     types.HeavyweightConfig{},
			wantErr: "one of command or shell is required",
		},
		{
			name: "both command forms",
			cfg: types.HeavyweightConfig{
				Command: []string{"claude"},
				Shell:   "claude",
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "empty binary name",
			cfg: types.HeavyweightConfig{
				Command: []string{""},
			},
			wantErr: "first element must be the binary name",
		},
		{
			name: "protected file without path",
			cfg: types.HeavyweightConfig{
				Command:        []string{"claude"},
				ProtectedFiles: []types.ProtectedFile{{Path: ""}},
			},
			wantErr: "protected_files[0]: path is required",
		},
		{
			name: "unknown merge strategy",
			cfg: types.HeavyweightConfig{
				Command:        []string{"claude"},
				ProtectedFiles: []types.ProtectedFile{{Path: "x", Strategy: "zipper"}},
			},
			wantErr: "unknown merge strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestHeavyweightConfig_EffectiveTimeout(t *testing.T) {
	cfg := types.HeavyweightConfig{}
	assert.Equal(t, types.DefaultCommandTimeout, cfg.EffectiveTimeout())

	cfg.Timeout = 50 * time.Millisecond
	assert.Equal(t, 50*time.Millisecond, cfg.EffectiveTimeout())
}

func TestRunResult_Aggregation(t *testing.T) {
	r := types.NewRunResult("run-1", "/tmp/demo", false)
	r.Order = []string{"core", "git", "agents"}

	assert.Equal(t, types.RunStatusPending, r.Status())

	r.RecordHook("core", types.PhaseBeforeInit, nil)
	r.RecordHook("core", types.PhaseExecute, nil)
	r.RecordHook("git", types.PhaseExecute, nil)
	assert.Equal(t, types.RunStatusSuccess, r.Status())

	hookErr := errors.New("boom")
	r.RecordHook("agents", types.PhaseExecute, hookErr)
	assert.Equal(t, types.RunStatusPartial, r.Status())
	assert.Equal(t, []string{"agents"}, r.FailedPlugins())

	agents := r.PluginResult("agents")
	assert.Equal(t, types.RunStatusError, agents.Status)
	assert.Equal(t, hookErr, agents.Error)
	assert.Equal(t, []types.Phase{types.PhaseExecute}, agents.HooksRun)

	r.Complete()
	assert.False(t, r.EndTime.IsZero())
}

func TestRunResult_AllFailed(t *testing.T) {
	r := types.NewRunResult("run-1", "/tmp/demo", false)
	r.Order = []string{"git"}
	r.RecordHook("git", types.PhaseBeforeInit, errors.New("boom"))
	assert.Equal(t, types.RunStatusError, r.Status())
}
