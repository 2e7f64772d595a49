// Package paths provides centralized path handling for sprout.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvSproutDataDir overrides the XDG data directory for sprout
	EnvSproutDataDir = "SPROUT_DATA_DIR"

	// EnvSproutConfigDir overrides the XDG config directory for sprout
	EnvSproutConfigDir = "SPROUT_CONFIG_DIR"

	// EnvSproutCacheDir overrides the XDG cache directory for sprout
	EnvSproutCacheDir = "SPROUT_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define sprout's internal directory structure
// and are NOT user-configurable. They must remain consistent across all
// sprout installations to ensure proper operation. User-configurable paths
// should be added to pkg/config instead.
const (
	// SproutDirName is the directory name for sprout-specific files
	// under the XDG base directories
	SproutDirName = "sprout"

	// ProjectDirName is sprout's directory inside an initialized project
	ProjectDirName = ".sprout"

	// ProjectConfigFile is the primary project configuration file name
	ProjectConfigFile = "sprout.toml"

	// AltProjectConfigFile is the hidden variant, tried first
	AltProjectConfigFile = ".sprout.toml"

	// BackupsDirName is the subdirectory of the state dir holding
	// per-run heavyweight backups
	BackupsDirName = "backups"

	// RulesDirName is the subdirectory of the project dir holding
	// migrated instruction rule files
	RulesDirName = "rules"

	// LockFileName is the per-project run lock file
	LockFileName = "init.lock"

	// LogFileName is the name of the log file
	LogFileName = "sprout.log"
)

// Paths provides centralized path management for sprout
type Paths interface {
	DataDir() string
	ConfigDir() string
	CacheDir() string
	StateDir() string
	BackupsDir() string
	BackupDir(pluginName, runID string) string
	LogFilePath() string
	ProjectDir(targetDir string) string
	RulesDir(targetDir string) string
	RuleFilePath(targetDir string, priority int, pluginName string) string
	LockFilePath(targetDir string) string
}

// paths provides centralized path management for sprout
type paths struct {
	// xdgData is the XDG data directory
	xdgData string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgCache is the XDG cache directory
	xdgCache string

	// xdgState is the XDG state directory
	xdgState string
}

// New creates a new Paths instance. XDG directories respect the
// SPROUT_*_DIR environment overrides.
func New() (Paths, error) {
	p := &paths{}
	p.setupXDGDirs()
	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	// Data directory
	if dataDir := os.Getenv(EnvSproutDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, SproutDirName)
	}

	// Config directory
	if configDir := os.Getenv(EnvSproutConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, SproutDirName)
	}

	// Cache directory
	if cacheDir := os.Getenv(EnvSproutCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, SproutDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, SproutDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", SproutDirName)
	}
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// DataDir returns the XDG data directory for sprout
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for sprout
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// CacheDir returns the XDG cache directory for sprout
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// StateDir returns the XDG state directory for sprout
func (p *paths) StateDir() string {
	return p.xdgState
}

// BackupsDir returns the directory holding per-run heavyweight backups
func (p *paths) BackupsDir() string {
	return filepath.Join(p.xdgState, BackupsDirName)
}

// BackupDir returns the backup directory for one heavyweight plugin run
func (p *paths) BackupDir(pluginName, runID string) string {
	return filepath.Join(p.BackupsDir(), fmt.Sprintf("%s-%s", pluginName, runID))
}

// LogFilePath returns the path to the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ProjectDir returns sprout's directory inside a target project
func (p *paths) ProjectDir(targetDir string) string {
	return filepath.Join(targetDir, ProjectDirName)
}

// RulesDir returns the migrated-rules directory inside a target project
func (p *paths) RulesDir(targetDir string) string {
	return filepath.Join(p.ProjectDir(targetDir), RulesDirName)
}

// RuleFilePath returns the rule file for a plugin's migrated
// instructions: <target>/.sprout/rules/<PP>-<plugin>.md with a
// two-digit priority prefix.
func (p *paths) RuleFilePath(targetDir string, priority int, pluginName string) string {
	return filepath.Join(p.RulesDir(targetDir), fmt.Sprintf("%02d-%s.md", priority, pluginName))
}

// LockFilePath returns the per-project run lock file
func (p *paths) LockFilePath(targetDir string) string {
	return filepath.Join(p.ProjectDir(targetDir), LockFileName)
}
