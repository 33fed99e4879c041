// Package shell runs external processes and maps their failures to
// structured command errors.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/logging"
)

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // Extra KEY=VALUE pairs appended to the inherited environment
}

// Result is the captured output of a successful invocation.
type Result struct {
	Stdout string
	Stderr string
}

// Executor runs commands. Implementations return *errors.CommandError when the
// process exits with a non-zero status or is killed by a signal.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Local runs commands on the host.
type Local struct{}

// NewLocal creates an executor that runs commands on the host.
func NewLocal() *Local {
	return &Local{}
}

// Run executes cmd, capturing stdout and stderr.
func (l *Local) Run(ctx context.Context, cmd Command) (Result, error) {
	logger := logging.FromContext(ctx)
	display := cmd.String()
	logger.Debug("exec", "cmd", display)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}
	if err == nil {
		return res, nil
	}

	cmdErr := commandError(display, cmd.Name, err, res)
	logger.Error("command failed",
		"cmd", display,
		"status", cmdErr.Message,
		"stdout", res.Stdout,
		"stderr", res.Stderr,
	)
	return res, cmdErr
}

// commandError maps an exec error to a CommandError, distinguishing
// non-zero exit codes from signal termination and spawn failures.
func commandError(display, program string, err error, res Result) *tsdlerrors.CommandError {
	cmdErr := &tsdlerrors.CommandError{
		Command:  display,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: -1,
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		cmdErr.Message = fmt.Sprintf("%s could not be started: %v", display, err)
		return cmdErr
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		cmdErr.Signal = status.Signal().String()
		cmdErr.Message = fmt.Sprintf("%s interrupted by signal %s.", program, cmdErr.Signal)
		return cmdErr
	}

	cmdErr.ExitCode = exitErr.ExitCode()
	cmdErr.Message = fmt.Sprintf("%s failed with exit status %d.", display, cmdErr.ExitCode)
	return cmdErr
}

// String renders the command as "[dir] program args...", with dir relative
// to the working directory when it is below it.
func (c Command) String() string {
	var b strings.Builder
	if c.Dir != "" {
		fmt.Fprintf(&b, "[%s] ", RelativeToCwd(c.Dir))
	}
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	return b.String()
}

// Script builds a command that runs script through the user's shell.
// On Windows, PowerShell is used instead.
func Script(script, dir string) Command {
	if runtime.GOOS == "windows" {
		return windowsScript(script, dir)
	}
	sh := os.Getenv("SHELL")
	if sh == "" {
		sh = "sh"
	}
	return Command{Name: sh, Args: []string{"-c", script}, Dir: dir}
}

// windowsScript uses the full path to PowerShell so shims earlier in PATH
// cannot intercept the call.
func windowsScript(script, dir string) Command {
	systemRoot := os.Getenv("SYSTEMROOT")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	powershell := filepath.Join(systemRoot, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
	return Command{
		Name: powershell,
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", script},
		Dir:  dir,
	}
}

// RelativeToCwd returns dir relative to the current working directory when it
// lives below it, and the absolute path otherwise.
func RelativeToCwd(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil || abs == cwd {
		return abs
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return rel
}
