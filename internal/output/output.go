// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Writer handles CLI output formatting.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// ColorFor resolves a --log-color value ("auto", "yes" or "no") for w.
func ColorFor(mode string, w io.Writer) bool {
	switch mode {
	case "yes", "always":
		return true
	case "no", "never":
		return false
	default:
		return isTerminal(w)
	}
}

// SetQuiet enables or disables quiet mode, which drops Info and FinalSuccess.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Warning prints a warning message to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%swarning:%s %s", yellow, reset, msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// ErrorPrefix prints an error message with tsdl prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%stsdl:%s %s", red, reset, msg)
	} else {
		w.Errorln("tsdl: %s", msg)
	}
}

// SummaryHeader prints a summary section header to stderr.
func (w *Writer) SummaryHeader(title string) {
	w.Errorln("")
	if w.color {
		w.Errorln("%s=== %s ===%s", bold+cyan, title, reset)
	} else {
		w.Errorln("=== %s ===", title)
	}
	w.Errorln("")
}

// SummaryAction prints an item with status indicator, name, detail and
// optional error.
func (w *Writer) SummaryAction(name string, success bool, detail string, errMsg string) {
	if w.color {
		if success {
			w.Error("    %s✓%s %-12s %s%s%s", green, reset, name, dim, detail, reset)
		} else {
			w.Error("    %s✗%s %-12s %s%s%s", red, reset, name, dim, detail, reset)
			if errMsg != "" {
				w.Error("  %s(%s)%s", dim, errMsg, reset)
			}
		}
	} else {
		if success {
			w.Error("    + %-12s %s", name, detail)
		} else {
			w.Error("    x %-12s %s", name, detail)
			if errMsg != "" {
				w.Error("  (%s)", errMsg)
			}
		}
	}
	w.Error("\n")
}

// Hint prints a hint message for the user to stderr.
func (w *Writer) Hint(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%s%s%s", dim, msg, reset)
	} else {
		w.Errorln("%s", msg)
	}
}

// FinalSuccess prints a final success message.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", green, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// FinalFailure prints a final failure message to stderr.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	w.Errorln("")
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%s%s%s", red, msg, reset)
	} else {
		w.Errorln("%s", msg)
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)
