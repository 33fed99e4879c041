// Package mocks provides shared test doubles for tsdl packages.
package mocks

import (
	"context"
	"strings"
	"sync"

	tsdlerrors "github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/internal/shell"
)

// HandlerFunc produces the outcome of a matched command.
type HandlerFunc func(ctx context.Context, cmd shell.Command) (shell.Result, error)

// Rule matches commands by program name and leading arguments.
// Use Executor.On() to create rules with a fluent builder API.
type Rule struct {
	name    string
	prefix  []string
	handler HandlerFunc
}

// Return makes the rule succeed with the given stdout.
func (r *Rule) Return(stdout string) *Rule {
	r.handler = func(context.Context, shell.Command) (shell.Result, error) {
		return shell.Result{Stdout: stdout}, nil
	}
	return r
}

// Fail makes the rule fail with err.
func (r *Rule) Fail(err error) *Rule {
	r.handler = func(context.Context, shell.Command) (shell.Result, error) {
		return shell.Result{}, err
	}
	return r
}

// FailWithStatus makes the rule fail like a process exiting with code.
func (r *Rule) FailWithStatus(code int, stderr string) *Rule {
	r.handler = func(_ context.Context, cmd shell.Command) (shell.Result, error) {
		display := cmd.String()
		return shell.Result{Stderr: stderr}, &tsdlerrors.CommandError{
			Command:  display,
			Message:  display + " failed",
			Stderr:   stderr,
			ExitCode: code,
		}
	}
	return r
}

// Do sets a custom handler, e.g. one that writes files into cmd.Dir.
func (r *Rule) Do(fn HandlerFunc) *Rule {
	r.handler = fn
	return r
}

func (r *Rule) matches(cmd shell.Command) bool {
	if r.name != cmd.Name || len(cmd.Args) < len(r.prefix) {
		return false
	}
	for i, arg := range r.prefix {
		if cmd.Args[i] != arg {
			return false
		}
	}
	return true
}

// Executor implements shell.Executor for testing. Commands are matched
// against rules registered with On; the most recently registered match wins.
// Unmatched commands succeed with empty output.
type Executor struct {
	mu    sync.Mutex
	rules []*Rule
	calls []shell.Command
}

// NewExecutor creates an executor with no rules.
func NewExecutor() *Executor {
	return &Executor{}
}

// On registers a rule for commands running name with the given leading args.
func (e *Executor) On(name string, prefix ...string) *Rule {
	r := &Rule{name: name, prefix: prefix}
	r.Return("")
	e.mu.Lock()
	e.rules = append(e.rules, r)
	e.mu.Unlock()
	return r
}

// Run records cmd and replays the matching rule.
func (e *Executor) Run(ctx context.Context, cmd shell.Command) (shell.Result, error) {
	e.mu.Lock()
	e.calls = append(e.calls, cmd)
	var rule *Rule
	for i := len(e.rules) - 1; i >= 0; i-- {
		if e.rules[i].matches(cmd) {
			rule = e.rules[i]
			break
		}
	}
	e.mu.Unlock()

	if rule == nil {
		return shell.Result{}, nil
	}
	return rule.handler(ctx, cmd)
}

// Test inspection methods

// Calls returns every command run so far, in order.
func (e *Executor) Calls() []shell.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]shell.Command, len(e.calls))
	copy(result, e.calls)
	return result
}

// Lines returns the calls rendered as "name arg1 arg2", without directories.
func (e *Executor) Lines() []string {
	calls := e.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = strings.Join(append([]string{c.Name}, c.Args...), " ")
	}
	return lines
}

// Count returns how many recorded calls match name and the leading args.
func (e *Executor) Count(name string, prefix ...string) int {
	r := &Rule{name: name, prefix: prefix}
	n := 0
	for _, c := range e.Calls() {
		if r.matches(c) {
			n++
		}
	}
	return n
}

// Reset clears recorded calls but keeps the rules.
func (e *Executor) Reset() {
	e.mu.Lock()
	e.calls = nil
	e.mu.Unlock()
}
