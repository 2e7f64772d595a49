package heavyweight

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/joho/godotenv"

	"github.com/sprout-sh/sprout/pkg/errors"
)

// runCommand spawns the initializer, captures its output, and enforces
// the configured timeout. A non-zero exit code does not abort the flow:
// the merge step still runs against whatever the command produced. Only
// a spawn failure, cancellation, or the timeout abort into rollback.
func (r *run) runCommand(ctx context.Context) error {
	name := r.plugin.Descriptor().Name
	timeout := r.cfg.EffectiveTimeout()

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var cmd *exec.Cmd
	if len(r.cfg.Command) > 0 {
		cmd = exec.CommandContext(cmdCtx, r.cfg.Command[0], r.cfg.Command[1:]...)
	} else {
		// Shell form, for plugins that need pipes or expansion
		cmd = exec.CommandContext(cmdCtx, "sh", "-c", r.cfg.Shell)
	}

	cmd.Dir = r.rc.TargetDir
	if r.cfg.WorkDir != "" {
		cmd.Dir = r.cfg.WorkDir
	}
	cmd.Env = r.commandEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.m.logger.Info().
		Str("plugin", name).
		Strs("command", r.cfg.Command).
		Str("shell", r.cfg.Shell).
		Str("workDir", cmd.Dir).
		Dur("timeout", timeout).
		Msg("Running initializer command")
	if r.rc.Out != nil {
		r.rc.Out.Step("Running %s initializer", name)
	}

	start := time.Now()
	err := cmd.Run()
	r.res.Duration = time.Since(start)
	r.res.Stdout = stdout.String()
	r.res.Stderr = stderr.String()

	if err == nil {
		r.res.ExitCode = 0
		r.m.logger.Debug().
			Str("plugin", name).
			Dur("duration", r.res.Duration).
			Msg("Initializer completed")
		return nil
	}

	if cmdCtx.Err() == context.DeadlineExceeded {
		r.res.TimedOut = true
		r.m.logger.Error().
			Str("plugin", name).
			Dur("timeout", timeout).
			Msg("Initializer timed out and was killed")
		return errors.Wrapf(err, errors.ErrCommandTimeout,
			"initializer for plugin %q exceeded its %s timeout", name, timeout).
			WithDetail("plugin", name)
	}
	if cmdCtx.Err() != nil {
		return errors.Wrapf(err, errors.ErrCommandExecution,
			"initializer for plugin %q was cancelled", name).
			WithDetail("plugin", name)
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		r.res.ExitCode = exitErr.ExitCode()
		r.m.logger.Warn().
			Str("plugin", name).
			Int("exitCode", r.res.ExitCode).
			Str("stderr", r.res.Stderr).
			Msg("Initializer exited non-zero, continuing with its output")
		if r.rc.Out != nil {
			r.rc.Out.Warning("%s initializer exited with code %d", name, r.res.ExitCode)
		}
		return nil
	}

	return errors.Wrapf(err, errors.ErrCommandExecution,
		"failed to run initializer for plugin %q", name).
		WithDetail("plugin", name)
}

// commandEnv builds the initializer environment: the inherited process
// environment, then variables from the run's env file, then the plugin's
// declared overrides. Later entries win on duplicate keys.
func (r *run) commandEnv() []string {
	env := os.Environ()

	if r.rc.Config != nil && r.rc.Config.Init.EnvFile != "" {
		vars, err := godotenv.Read(r.rc.Config.Init.EnvFile)
		if err != nil {
			r.m.logger.Warn().Err(err).
				Str("file", r.rc.Config.Init.EnvFile).
				Msg("Could not read env file, skipping")
		}
		for k, v := range vars {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	for k, v := range r.cfg.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
