// Package progress reports per-language build progress on the terminal.
//
// Exactly two backends exist: plain, which prints one line per event and is
// safe for logs and pipes, and fancy, which keeps one animated line per task.
// The backend is chosen once at startup.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Handle reports the progress of one task. A task goes through Start, then
// Step for each further step, and ends with Fin or Err.
type Handle interface {
	// Start begins the first step.
	Start(msg string)
	// Step moves to the next step.
	Step(msg string)
	// Msg changes the message of the current step.
	Msg(msg string)
	// Fin ends the task successfully.
	Fin(msg string)
	// Err ends the task with a failure.
	Err(msg string)
	IsDone() bool
}

// Progress owns the handles of one run. Register may be called concurrently.
type Progress interface {
	Register(name string, steps int) Handle
	// Tick refreshes animated output.
	Tick()
	// Clear erases transient output before a final report.
	Clear()
	// IsDone reports whether every registered task has finished.
	IsDone() bool
	// Close stops rendering and releases the terminal.
	Close() error
}

// Style selects a backend.
type Style int

const (
	StyleAuto Style = iota
	StylePlain
	StyleFancy
)

var styleNames = map[Style]string{
	StyleAuto:  "auto",
	StylePlain: "plain",
	StyleFancy: "fancy",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// ParseStyle parses "auto", "plain" or "fancy".
func ParseStyle(s string) (Style, error) {
	for style, name := range styleNames {
		if strings.EqualFold(s, name) {
			return style, nil
		}
	}
	return StyleAuto, fmt.Errorf("unknown progress style %q (want auto, plain or fancy)", s)
}

// New creates the backend for style writing to w. Verbose output forces the
// plain backend so log lines are not redrawn over.
func New(style Style, w io.Writer, verbose bool) Progress {
	if verbose {
		return NewPlain(w)
	}
	switch style {
	case StyleFancy:
		return NewFancy(w)
	case StylePlain:
		return NewPlain(w)
	default:
		if IsTerminal(w) {
			return NewFancy(w)
		}
		return NewPlain(w)
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// task is the state shared by both backends' handles.
type task struct {
	name  string
	steps int

	mu    sync.Mutex
	cur   int
	start time.Time
	done  bool
}

func (t *task) begin() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = time.Now()
	t.cur++
	return t.cur
}

func (t *task) advance() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cur < t.steps {
		t.cur++
	}
	return t.cur
}

func (t *task) current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur
}

// finish marks the task done and returns the final position and elapsed time.
func (t *task) finish(success bool) (int, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if success {
		t.cur = t.steps
	}
	t.done = true
	if t.start.IsZero() {
		return t.cur, ""
	}
	return t.cur, " in " + FormatDuration(time.Since(t.start))
}

func (t *task) isDone() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *task) prefix(cur int) string {
	return fmt.Sprintf("[%d/%d]", cur, t.steps)
}

// FormatDuration renders d as "1.23s" below a minute and "2mn 5s" above.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%dmn %ds", secs/60, secs%60)
}

// Discard is a handle that reports nothing.
var Discard Handle = discard{}

type discard struct{}

func (discard) Start(string) {}
func (discard) Step(string)  {}
func (discard) Msg(string)   {}
func (discard) Fin(string)   {}
func (discard) Err(string)   {}
func (discard) IsDone() bool { return true }
