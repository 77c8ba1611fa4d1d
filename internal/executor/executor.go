// Package executor provides external command execution for the git and
// packager integrations.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/VoxDroid/themr/internal/log"
)

// Command describes a single process invocation. Name is resolved through
// PATH; Args are passed verbatim (no shell is involved).
type Command struct {
	Name   string
	Args   []string
	Dir    string    // working directory; empty means inherit
	Env    []string  // extra KEY=VALUE pairs appended to the inherited environment
	Stdin  io.Reader // optional stdin for the child
	Stdout io.Writer // optional mirror for captured stdout
	Stderr io.Writer // optional mirror for captured stderr
}

// Result carries the captured output of a completed invocation.
type Result struct {
	Stdout string
	Stderr string
}

// Runner is an interface for executing commands. It allows tests to inject
// fake implementations without spawning real processes.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	LookPath(name string) (string, error)
}

// Exec is the os/exec-backed Runner.
type Exec struct {
	Verbose bool
}

// New returns a Runner backed by the real Exec implementation.
func New(verbose bool) Runner {
	return &Exec{Verbose: verbose}
}

// Run executes cmd, capturing stdout and stderr. Captured output is also
// copied to cmd.Stdout/cmd.Stderr when provided, after the process exits.
func (e *Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{}, fmt.Errorf("empty command name")
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	}

	var bout, berr bytes.Buffer
	c.Stdout = &bout
	c.Stderr = &berr

	if e.Verbose {
		logger := log.WithComponent("exec")
		logger.Debug().Str("cmd", cmd.Name).Strs("args", cmd.Args).Str("dir", cmd.Dir).Msg("run")
	}

	runErr := c.Run()

	if cmd.Stdout != nil {
		_, _ = cmd.Stdout.Write(bout.Bytes())
	}
	if cmd.Stderr != nil {
		_, _ = cmd.Stderr.Write(berr.Bytes())
	}

	res := Result{Stdout: bout.String(), Stderr: berr.String()}
	if runErr != nil {
		return res, wrapRunError(runErr, cmd, &berr)
	}
	return res, nil
}

// LookPath reports the full path of name or an error when it is not
// installed.
func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// wrapRunError annotates a process failure with the invocation and the tail
// of stderr, which is where git and vsce put their diagnostics.
func wrapRunError(err error, cmd Command, berr *bytes.Buffer) error {
	detail := strings.TrimSpace(berr.String())
	if detail != "" {
		return fmt.Errorf("%s %s: %w: %s", cmd.Name, strings.Join(cmd.Args, " "), err, lastLines(detail, 3))
	}
	return fmt.Errorf("%s %s: %w", cmd.Name, strings.Join(cmd.Args, " "), err)
}

// lastLines returns at most n trailing non-empty lines of s joined by "; ".
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	keep := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(keep) < n; i-- {
		if t := strings.TrimSpace(lines[i]); t != "" {
			keep = append(keep, t)
		}
	}
	// collected backwards; restore file order
	for i, j := 0, len(keep)-1; i < j; i, j = i+1, j-1 {
		keep[i], keep[j] = keep[j], keep[i]
	}
	return strings.Join(keep, "; ")
}
