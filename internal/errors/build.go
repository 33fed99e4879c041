package errors

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Phase identifies the stage of a parser build in which a failure happened.
type Phase int

const (
	PhaseClone Phase = iota
	PhaseGenerate
	PhaseBuild
	PhaseCopy
)

var phaseNames = map[Phase]string{
	PhaseClone:    "clone",
	PhaseGenerate: "generate",
	PhaseBuild:    "build",
	PhaseCopy:     "copy",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Title returns the phase name for display in summaries, e.g. "Clone".
func (p Phase) Title() string {
	return cases.Title(language.English).String(p.String())
}

// CommandError is returned when an external process exits with a non-zero
// status or is killed by a signal.
type CommandError struct {
	Command  string // Rendered command line, including the working directory
	Message  string
	Stdout   string
	Stderr   string
	ExitCode int // -1 when terminated by a signal
	Signal   string
}

func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Stdout != "" {
		b.WriteString("\nstdout:\n")
		b.WriteString(e.Stdout)
	}
	if e.Stderr != "" {
		b.WriteString("\nstderr:\n")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

// GitError wraps a failed git operation with the repository context.
type GitError struct {
	Op    string // e.g. "fetch", "init", "ls-remote"
	Dir   string // Working directory, empty for remote-only operations
	Repo  string
	Cause error
}

func (e *GitError) Error() string {
	target := e.Dir
	if target == "" {
		target = e.Repo
	}
	return fmt.Sprintf("git %s in %s: %v", e.Op, target, e.Cause)
}

func (e *GitError) Unwrap() error { return e.Cause }

// ToolchainError is returned when the build tool cannot be provisioned.
type ToolchainError struct {
	Version string
	Message string
	Cause   error
}

func (e *ToolchainError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("tree-sitter %s: %s", e.Version, e.Message)
	}
	return fmt.Sprintf("tree-sitter %s: %s: %v", e.Version, e.Message, e.Cause)
}

func (e *ToolchainError) Unwrap() error { return e.Cause }

// ExitCode reports an environment failure: nothing can be built without the tool.
func (e *ToolchainError) ExitCode() int { return ExitEnvironmentError }

// ConfigError is returned when a configuration file cannot be read, parsed,
// or does not match the schema.
type ConfigError struct {
	Path  string
	Cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

func (e *ConfigError) ExitCode() int { return ExitConfigError }

// StepError records the failure of one phase for one grammar root.
type StepError struct {
	Language string
	Phase    Phase
	Dir      string
	Src      string // Copy phase only
	Dst      string // Copy phase only
	Cause    error
}

func (e *StepError) Error() string {
	var op string
	switch e.Phase {
	case PhaseClone:
		op = fmt.Sprintf("could not clone to %s", e.Dir)
	case PhaseGenerate:
		op = fmt.Sprintf("could not generate in %s", e.Dir)
	case PhaseBuild:
		op = fmt.Sprintf("could not build in %s", e.Dir)
	case PhaseCopy:
		op = fmt.Sprintf("could not copy %s to %s", e.Src, e.Dst)
	default:
		op = fmt.Sprintf("%s failed in %s", e.Phase, e.Dir)
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Language, op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Language, op, e.Cause)
}

func (e *StepError) Unwrap() error { return e.Cause }

// LanguageError collects every failure of one requested language.
// Either Steps is non-empty (build failures, one per failed grammar root and
// phase) or Cause is set (the language could not even be set up).
type LanguageError struct {
	Name  string
	Steps []*StepError
	Cause error
}

func (e *LanguageError) Error() string {
	errs := e.Unwrap()
	if len(errs) == 0 {
		return e.Name
	}
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	if e.Cause != nil && len(e.Steps) == 0 {
		return fmt.Sprintf("%s: %s", e.Name, parts[0])
	}
	return strings.Join(parts, "\n")
}

func (e *LanguageError) Unwrap() []error {
	errs := make([]error, 0, len(e.Steps)+1)
	for _, s := range e.Steps {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Phases returns the distinct phases that failed, in pipeline order.
func (e *LanguageError) Phases() []Phase {
	seen := make(map[Phase]bool)
	var phases []Phase
	for _, s := range e.Steps {
		if !seen[s.Phase] {
			seen[s.Phase] = true
			phases = append(phases, s.Phase)
		}
	}
	sort.Slice(phases, func(i, j int) bool { return phases[i] < phases[j] })
	return phases
}

// AggregateError lists every failed language of a run.
type AggregateError struct {
	Message string
	Errors  []*LanguageError
}

// NewAggregate sorts errs by language name so output is stable across runs.
func NewAggregate(message string, errs []*LanguageError) *AggregateError {
	sorted := make([]*LanguageError, len(errs))
	copy(sorted, errs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &AggregateError{Message: message, Errors: sorted}
}

func (e *AggregateError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, le := range e.Errors {
		b.WriteString("\n  - ")
		b.WriteString(strings.ReplaceAll(le.Error(), "\n", "\n    "))
	}
	return b.String()
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, le := range e.Errors {
		errs[i] = le
	}
	return errs
}

// Languages returns the names of the failed languages.
func (e *AggregateError) Languages() []string {
	names := make([]string, len(e.Errors))
	for i, le := range e.Errors {
		names[i] = le.Name
	}
	return names
}
