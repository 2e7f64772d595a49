package list

import (
	"os"
	"path/filepath"

	"github.com/sprout-sh/sprout/pkg/config"
	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/plugins/builtin"
	"github.com/sprout-sh/sprout/pkg/types"
)

// ListPluginsOptions defines the options for the ListPlugins command.
type ListPluginsOptions struct {
	// TargetDir is the project directory whose configuration decides
	// visibility and enablement. Defaults to the current directory.
	TargetDir string

	// ConfigPath optionally names an explicit config file to load
	// instead of searching TargetDir.
	ConfigPath string
}

// ListPlugins reports every plugin visible under the target's policy,
// in registration order, with its enablement under the target's config.
func ListPlugins(opts ListPluginsOptions) (*types.ListPluginsResult, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Str("command", "ListPlugins").Msg("Executing command")

	target, err := resolveTarget(opts.TargetDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFrom(target, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	reg, err := builtin.NewRegistry()
	if err != nil {
		return nil, err
	}

	visible := reg.GetVisible(cfg.Policy)
	result := &types.ListPluginsResult{
		Plugins: make([]types.PluginInfo, len(visible)),
	}
	for i, p := range visible {
		desc := p.Descriptor()
		result.Plugins[i] = types.PluginInfo{
			Name:         desc.Name,
			CommandName:  desc.CommandName,
			Version:      desc.Version,
			Description:  desc.Description,
			Priority:     desc.Priority,
			Dependencies: desc.Dependencies,
			Heavyweight:  desc.Heavyweight,
			Enabled:      cfg.PluginEnabled(desc.Name, true),
			HasDoc:       desc.Doc != "",
		}
	}

	log.Info().Str("command", "ListPlugins").Int("pluginCount", len(result.Plugins)).Msg("Command finished")
	return result, nil
}

// PluginDoc returns the long-form documentation of the named plugin.
// The name may be either the plugin name or its command name.
func PluginDoc(name string) (string, error) {
	reg, err := builtin.NewRegistry()
	if err != nil {
		return "", err
	}

	p, ok := reg.GetByCommandName(name)
	if !ok {
		var getErr error
		p, getErr = reg.Get(name)
		if getErr != nil {
			return "", errors.Newf(errors.ErrPluginNotFound,
				"no plugin named %q", name).
				WithDetail("plugin", name)
		}
	}

	desc := p.Descriptor()
	if desc.Doc == "" {
		return "", errors.Newf(errors.ErrNotFound,
			"plugin %q has no documentation", desc.Name).
			WithDetail("plugin", desc.Name)
	}
	return desc.Doc, nil
}

func resolveTarget(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileAccess,
				"could not determine current directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput,
			"invalid target directory %q", dir)
	}
	return abs, nil
}
