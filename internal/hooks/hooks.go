// Package hooks runs the user's pre- and post-release commands. A hook is
// an argv vector, not a shell script: commands are split with shell-style
// quoting and executed directly, so pipes and && need an explicit
// "sh" "-c" wrapper in the config.
package hooks

import (
	"context"
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"

	"github.com/VoxDroid/themr/internal/executor"
	"github.com/VoxDroid/themr/internal/log"
	"github.com/VoxDroid/themr/internal/security"
)

// Hook environment passed to every command.
const (
	EnvOldVersion = "THEMR_OLD_VERSION"
	EnvNewVersion = "THEMR_NEW_VERSION"
	EnvTag        = "THEMR_TAG"
)

// Env carries the release values exported to hook processes.
type Env struct {
	OldVersion string
	NewVersion string
	Tag        string
}

func (e Env) vars() []string {
	vars := []string{
		EnvOldVersion + "=" + e.OldVersion,
		EnvNewVersion + "=" + e.NewVersion,
	}
	if e.Tag != "" {
		vars = append(vars, EnvTag+"="+e.Tag)
	}
	return vars
}

// Runner executes hook commands in the project directory.
type Runner struct {
	exec   executor.Runner
	dir    string
	stdout io.Writer
	stderr io.Writer
}

// New returns a hook runner. stdout and stderr receive the hooks' output
// and may be nil.
func New(exec executor.Runner, dir string, stdout, stderr io.Writer) *Runner {
	return &Runner{exec: exec, dir: dir, stdout: stdout, stderr: stderr}
}

// RunAll executes the commands in order, stopping at the first failure.
// stage names the config list ("pre_release" or "post_release") for error
// messages. Every command is screened before it runs.
func (r *Runner) RunAll(ctx context.Context, stage string, commands []string, env Env) error {
	logger := log.WithComponent("hooks")
	for _, raw := range commands {
		if err := security.CheckAllowed(raw); err != nil {
			return fmt.Errorf("%s hook %q: %w", stage, raw, err)
		}
		words, err := shellquote.Split(raw)
		if err != nil {
			return fmt.Errorf("%s hook %q: %w", stage, raw, err)
		}
		if len(words) == 0 {
			continue
		}
		logger.Debug().Str("stage", stage).Str("command", raw).Msg("running hook")
		_, err = r.exec.Run(ctx, executor.Command{
			Name:   words[0],
			Args:   words[1:],
			Dir:    r.dir,
			Env:    env.vars(),
			Stdout: r.stdout,
			Stderr: r.stderr,
		})
		if err != nil {
			return fmt.Errorf("%s hook %q: %w", stage, raw, err)
		}
	}
	return nil
}
