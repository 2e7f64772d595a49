// pkg/heavyweight/failure_test.go
// TEST TYPE: Unit Test (in-memory filesystem with error injection)
// DEPENDENCIES: None
// PURPOSE: Test backup failure branches that abort the run before the command spawns

package heavyweight_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/heavyweight"
	"github.com/sprout-sh/sprout/pkg/testutil"
	"github.com/sprout-sh/sprout/pkg/types"
)

// memEnv runs the manager against a MemoryFS so individual paths can be
// armed to fail. The marker file lives on the real filesystem: if the
// initializer ever spawned, sh would create it there.
type memEnv struct {
	fs     *testutil.MemoryFS
	paths  testPaths
	mgr    *heavyweight.Manager
	rc     *types.RunContext
	marker string
}

func newMemEnv(t *testing.T) *memEnv {
	t.Helper()

	fs := testutil.NewMemoryFS()
	p := testPaths{base: "/state"}
	require.NoError(t, fs.MkdirAll("/proj", 0o755))

	return &memEnv{
		fs:     fs,
		paths:  p,
		mgr:    heavyweight.NewManager(fs, p),
		rc:     types.NewRunContext("mem1", "demo", "/proj", fs, nil, nil, nil),
		marker: filepath.Join(t.TempDir(), "ran"),
	}
}

func (e *memEnv) plugin() *hwPlugin {
	return hw("agents", &types.HeavyweightConfig{
		ProtectedFiles:   []types.ProtectedFile{{Path: "notes.md", Strategy: types.MergeAppend}},
		Command:          shell("touch " + e.marker),
		DisableMigration: true,
	})
}

func (e *memEnv) commandNeverRan(t *testing.T) {
	t.Helper()
	_, err := os.Stat(e.marker)
	assert.True(t, os.IsNotExist(err), "initializer must not spawn when backup fails")
}

func TestRun_BackupDirCreateFailureAborts(t *testing.T) {
	env := newMemEnv(t)
	require.NoError(t, env.fs.WriteFile("/proj/notes.md", []byte("keep\n"), 0o644))
	env.fs.WithError(env.paths.BackupDir("agents", "mem1"), os.ErrPermission)

	res := env.mgr.Run(context.Background(), env.plugin(), env.rc)

	assert.False(t, res.Success)
	assert.True(t, errors.IsErrorCode(res.Err, errors.ErrBackup))
	assert.False(t, res.RolledBack)
	env.commandNeverRan(t)

	data, err := env.fs.ReadFile("/proj/notes.md")
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(data))
}

func TestRun_UnreadableProtectedFileAborts(t *testing.T) {
	env := newMemEnv(t)
	env.fs.WithError("/proj/notes.md", os.ErrPermission)

	res := env.mgr.Run(context.Background(), env.plugin(), env.rc)

	assert.False(t, res.Success)
	require.True(t, errors.IsErrorCode(res.Err, errors.ErrBackup))
	assert.Equal(t, "notes.md", errors.GetErrorDetails(res.Err)["file"])
	env.commandNeverRan(t)
}

func TestRun_BackupCopyFailureAborts(t *testing.T) {
	env := newMemEnv(t)
	require.NoError(t, env.fs.WriteFile("/proj/notes.md", []byte("keep\n"), 0o644))
	copyDest := filepath.Join(env.paths.BackupDir("agents", "mem1"), "00-notes.md")
	env.fs.WithError(copyDest, os.ErrPermission)

	res := env.mgr.Run(context.Background(), env.plugin(), env.rc)

	assert.False(t, res.Success)
	assert.True(t, errors.IsErrorCode(res.Err, errors.ErrBackup))
	env.commandNeverRan(t)

	// The original is untouched even though its backup copy failed
	data, err := env.fs.ReadFile("/proj/notes.md")
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(data))
}
