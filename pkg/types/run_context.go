package types

import (
	"sync"
)

// Well-known RunContext value keys. Plugins communicate exclusively
// through the context store; these are the keys the built-in plugins
// publish.
const (
	// KeyGitRepo is set to true when the target directory is already a
	// git repository
	KeyGitRepo = "git.repo"

	// KeyProjectName mirrors the resolved project name into the value
	// store so plugins read it the same way as every other fact
	KeyProjectName = "project.name"

	// KeyScratchDir is the run-scoped scratch directory created by the
	// core plugin and removed during cleanup
	KeyScratchDir = "core.scratch_dir"

	// KeyToolPrefix prefixes probed-tool availability facts, e.g.
	// "tools.git" or "tools.claude"
	KeyToolPrefix = "tools."
)

// RunContext carries the shared state of one init run. It is handed to
// every plugin hook and is the sole channel between plugins. Value access
// is safe for concurrent use so probe goroutines can publish results.
type RunContext struct {
	// RunID uniquely identifies this run; backup directories and log
	// lines carry it
	RunID string

	// ProjectName is the resolved project name
	ProjectName string

	// TargetDir is the absolute path of the directory being initialized
	TargetDir string

	// FS is the filesystem all plugin work goes through
	FS FS

	// Paths resolves sprout's own directories
	Paths Pather

	// Out is the user-facing output surface
	Out UserOutput

	// Config is the resolved run configuration
	Config *RunConfig

	mu           sync.RWMutex
	values       map[string]interface{}
	createdFiles []string
}

// NewRunContext creates a RunContext with an initialized value store.
// A nil out is replaced with NopOutput so hooks can print without
// guarding.
func NewRunContext(runID, projectName, targetDir string, fs FS, paths Pather, out UserOutput, cfg *RunConfig) *RunContext {
	if out == nil {
		out = NopOutput{}
	}
	return &RunContext{
		RunID:       runID,
		ProjectName: projectName,
		TargetDir:   targetDir,
		FS:          fs,
		Paths:       paths,
		Out:         out,
		Config:      cfg,
		values:      make(map[string]interface{}),
	}
}

// Set stores a value under key, replacing any previous value.
func (rc *RunContext) Set(key string, value interface{}) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.values == nil {
		rc.values = make(map[string]interface{})
	}
	rc.values[key] = value
}

// Get returns the value stored under key.
func (rc *RunContext) Get(key string) (interface{}, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	v, ok := rc.values[key]
	return v, ok
}

// GetString returns the string stored under key, or "" when absent or
// not a string.
func (rc *RunContext) GetString(key string) string {
	v, ok := rc.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool returns the bool stored under key, or false when absent or
// not a bool.
func (rc *RunContext) GetBool(key string) bool {
	v, ok := rc.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// SetToolAvailable records the result of an external tool probe.
func (rc *RunContext) SetToolAvailable(tool string, available bool) {
	rc.Set(KeyToolPrefix+tool, available)
}

// ToolAvailable reports whether a probed tool was found on PATH.
func (rc *RunContext) ToolAvailable(tool string) bool {
	return rc.GetBool(KeyToolPrefix + tool)
}

// AddCreatedFile records a file created during this run. Paths are
// deduplicated; the core plugin writes them into the run manifest.
func (rc *RunContext) AddCreatedFile(path string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for _, p := range rc.createdFiles {
		if p == path {
			return
		}
	}
	rc.createdFiles = append(rc.createdFiles, path)
}

// CreatedFiles returns a copy of the files recorded so far, in the order
// they were added.
func (rc *RunContext) CreatedFiles() []string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	out := make([]string, len(rc.createdFiles))
	copy(out, rc.createdFiles)
	return out
}

// PluginOptions returns a plugin's option bag from the run configuration,
// never nil.
func (rc *RunContext) PluginOptions(plugin string) map[string]interface{} {
	if rc.Config == nil {
		return map[string]interface{}{}
	}
	opts := rc.Config.PluginSettingsFor(plugin).Options
	if opts == nil {
		return map[string]interface{}{}
	}
	return opts
}

// OptionString returns a string option for a plugin, or def when unset.
func (rc *RunContext) OptionString(plugin, key, def string) string {
	v, ok := rc.PluginOptions(plugin)[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// OptionBool returns a bool option for a plugin, or def when unset.
func (rc *RunContext) OptionBool(plugin, key string, def bool) bool {
	v, ok := rc.PluginOptions(plugin)[key]
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// OptionInt returns an int option for a plugin, or def when unset. TOML
// integers decode as int64.
func (rc *RunContext) OptionInt(plugin, key string, def int) int {
	v, ok := rc.PluginOptions(plugin)[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

// OptionStringSlice returns a string-slice option for a plugin. Config
// decoding produces []interface{}; non-string elements are skipped.
func (rc *RunContext) OptionStringSlice(plugin, key string) []string {
	v, ok := rc.PluginOptions(plugin)[key]
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		out := make([]string, len(vv))
		copy(out, vv)
		return out
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// OptionStringMap returns a string-map option for a plugin. Config
// decoding produces map[string]interface{}; non-string values are
// skipped.
func (rc *RunContext) OptionStringMap(plugin, key string) map[string]string {
	v, ok := rc.PluginOptions(plugin)[key]
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(vv))
		for k, s := range vv {
			out[k] = s
		}
		return out
	case map[string]interface{}:
		out := make(map[string]string, len(vv))
		for k, e := range vv {
			if s, ok := e.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}
