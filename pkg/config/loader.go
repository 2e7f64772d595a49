package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/types"
)

// ConfigFileNames are tried in the target directory, in order; the first
// one found is loaded.
var ConfigFileNames = []string{".sprout.toml", "sprout.toml"}

// EnvPrefix marks environment variables that override config keys.
// Sections are separated with a double underscore so single underscores
// survive into key names: SPROUT_INIT__ENV_FILE sets init.env_file.
const EnvPrefix = "SPROUT_"

// Load resolves the run configuration for targetDir.
func Load(targetDir string) (*types.RunConfig, error) {
	return LoadFrom(targetDir, "")
}

// LoadFrom resolves the run configuration for targetDir using an
// explicit config file instead of the ConfigFileNames search. An empty
// configFile falls back to the search; a named file must exist.
func LoadFrom(targetDir, configFile string) (*types.RunConfig, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"config file %s is not readable", configFile).
				WithDetail("path", configFile)
		}
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse config file %s", configFile).
				WithDetail("path", configFile)
		}
		logger.Debug().Str("path", configFile).Msg("Loaded explicit config file")
	} else {
		for _, name := range ConfigFileNames {
			path := filepath.Join(targetDir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to parse config file %s", path).
					WithDetail("path", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded project config file")
			break
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg types.RunConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}

	if cfg.ProjectName == "" {
		cfg.ProjectName = projectNameFromDir(targetDir)
	}

	return &cfg, nil
}

// defaults establishes the known key set. Every value here can be
// overridden by the project file or the environment.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"project_name":                     "",
		"init.env_file":                    "",
		"init.stop_on_heavyweight_failure": false,
	}
}

// envKey turns SPROUT_INIT__ENV_FILE into init.env_file.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func projectNameFromDir(targetDir string) string {
	abs, err := filepath.Abs(targetDir)
	if err != nil {
		abs = targetDir
	}
	return filepath.Base(abs)
}
