// pkg/config/loader_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (uses t.TempDir and t.Setenv)
// PURPOSE: Test config layering: defaults, project file, environment

package config

import (
	"os"
	"path/filepath"
	"testing"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sh/sprout/pkg/errors"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	t.Run("defaults_without_any_file", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, filepath.Base(dir), cfg.ProjectName)
		assert.Empty(t, cfg.Init.EnvFile)
		assert.False(t, cfg.Init.StopOnHeavyweightFailure)
		assert.Empty(t, cfg.Policy.Allow)
		assert.Empty(t, cfg.Policy.Deny)
		assert.True(t, cfg.PluginEnabled("git", true))
	})

	t.Run("project_file_overrides_defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".sprout.toml", `
project_name = "configured"

[init]
env_file = ".env.local"
stop_on_heavyweight_failure = true

[policy]
allow = ["core", "git"]

[plugins.git]
enabled = false

[plugins.git.options]
default_branch = "trunk"
`)

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "configured", cfg.ProjectName)
		assert.Equal(t, ".env.local", cfg.Init.EnvFile)
		assert.True(t, cfg.Init.StopOnHeavyweightFailure)
		assert.Equal(t, []string{"core", "git"}, cfg.Policy.Allow)
		assert.False(t, cfg.PluginEnabled("git", true))
		assert.Equal(t, "trunk", cfg.PluginSettingsFor("git").Options["default_branch"])
	})

	t.Run("alternate_file_name", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "sprout.toml", `project_name = "plain-name"`)

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "plain-name", cfg.ProjectName)
	})

	t.Run("dotted_file_wins_when_both_exist", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".sprout.toml", `project_name = "dotted"`)
		writeConfig(t, dir, "sprout.toml", `project_name = "plain"`)

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "dotted", cfg.ProjectName)
	})

	t.Run("environment_overrides_file", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".sprout.toml", `
project_name = "from-file"

[policy]
deny = ["tasks"]
`)
		t.Setenv("SPROUT_PROJECT_NAME", "from-env")
		t.Setenv("SPROUT_INIT__STOP_ON_HEAVYWEIGHT_FAILURE", "true")
		t.Setenv("SPROUT_POLICY__ALLOW", "core,git")

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "from-env", cfg.ProjectName)
		assert.True(t, cfg.Init.StopOnHeavyweightFailure)
		assert.Equal(t, []string{"core", "git"}, cfg.Policy.Allow)
		assert.Equal(t, []string{"tasks"}, cfg.Policy.Deny, "file values not named in the env survive")
	})

	t.Run("explicit_file_beats_the_search", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".sprout.toml", `project_name = "searched"`)
		other := filepath.Join(t.TempDir(), "ci.toml")
		require.NoError(t, os.WriteFile(other, []byte(`project_name = "explicit"`), 0o644))

		cfg, err := LoadFrom(dir, other)
		require.NoError(t, err)
		assert.Equal(t, "explicit", cfg.ProjectName)
	})

	t.Run("missing_explicit_file_is_an_error", func(t *testing.T) {
		dir := t.TempDir()

		_, err := LoadFrom(dir, filepath.Join(dir, "nope.toml"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("malformed_file_reports_parse_error", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".sprout.toml", `project_name = [unclosed`)

		_, err := Load(dir)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("enabled_is_tristate", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".sprout.toml", `
[plugins.memory]
enabled = true
`)

		cfg, err := Load(dir)
		require.NoError(t, err)

		require.NotNil(t, cfg.PluginSettingsFor("memory").Enabled)
		assert.Nil(t, cfg.PluginSettingsFor("git").Enabled, "unmentioned plugins stay at their default")
		assert.False(t, cfg.PluginEnabled("git", false))
		assert.True(t, cfg.PluginEnabled("git", true))
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "project_name", envKey("SPROUT_PROJECT_NAME"))
	assert.Equal(t, "init.env_file", envKey("SPROUT_INIT__ENV_FILE"))
	assert.Equal(t, "init.stop_on_heavyweight_failure", envKey("SPROUT_INIT__STOP_ON_HEAVYWEIGHT_FAILURE"))
}

func TestSampleContent(t *testing.T) {
	content := SampleContent()
	require.NotEmpty(t, content)

	// The sample must stay valid TOML even though most keys are
	// commented out.
	var parsed map[string]interface{}
	require.NoError(t, gotoml.Unmarshal([]byte(content), &parsed))
	assert.Contains(t, parsed, "init")
	assert.Contains(t, parsed, "policy")
}
