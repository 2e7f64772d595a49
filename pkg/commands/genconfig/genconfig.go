package genconfig

import (
	"os"
	"path/filepath"

	"github.com/sprout-sh/sprout/pkg/config"
	"github.com/sprout-sh/sprout/pkg/errors"
	"github.com/sprout-sh/sprout/pkg/logging"
	"github.com/sprout-sh/sprout/pkg/paths"
	"github.com/sprout-sh/sprout/pkg/types"
)

// GenConfigOptions holds options for the gen-config command
type GenConfigOptions struct {
	// TargetDir is where the config file is written in write mode.
	// Defaults to the current directory.
	TargetDir string

	// Write persists the sample config instead of only returning it.
	Write bool
}

// GenConfig outputs or writes the annotated sample configuration
func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	result := &types.GenConfigResult{
		ConfigContent: config.SampleContent(),
		FilesWritten:  []string{},
	}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	target := opts.TargetDir
	if target == "" {
		wd, err := os.Getwd()
		if err != nil {
			return result, errors.Wrap(err, errors.ErrFileAccess,
				"could not determine current directory")
		}
		target = wd
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create directory %s", target)
	}

	// Respect an existing config under either accepted name
	for _, name := range config.ConfigFileNames {
		existing := filepath.Join(target, name)
		if _, err := os.Stat(existing); err == nil {
			logger.Warn().Str("path", existing).Msg("Config file already exists, skipping")
			return result, nil
		}
	}

	targetPath := filepath.Join(target, paths.ProjectConfigFile)
	if err := os.WriteFile(targetPath, []byte(result.ConfigContent), 0o644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write config to %s", targetPath)
	}

	logger.Info().Str("path", targetPath).Msg("Written config file")
	result.FilesWritten = append(result.FilesWritten, targetPath)
	return result, nil
}
