package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	prefix lipgloss.Style
	msg    lipgloss.Style
	done   lipgloss.Style
	failed lipgloss.Style
	dur    lipgloss.Style
}

// newStyles binds styles to w, so colors are only emitted when w supports them.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		prefix: r.NewStyle().Bold(true).Faint(true),
		msg:    r.NewStyle().Foreground(lipgloss.Color("4")),
		done:   r.NewStyle().Foreground(lipgloss.Color("2")),
		failed: r.NewStyle().Foreground(lipgloss.Color("1")),
		dur:    r.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Plain prints one line per progress event.
type Plain struct {
	mu      sync.Mutex
	w       io.Writer
	styles  styles
	handles []*plainHandle
}

// NewPlain creates a plain backend writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w, styles: newStyles(w)}
}

func (p *Plain) Register(name string, steps int) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := &plainHandle{task: task{name: name, steps: steps}, p: p}
	p.handles = append(p.handles, h)
	return h
}

func (p *Plain) Tick()  {}
func (p *Plain) Clear() {}

func (p *Plain) IsDone() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range p.handles {
		if !h.IsDone() {
			return false
		}
	}
	return true
}

func (p *Plain) Close() error { return nil }

func (p *Plain) println(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

type plainHandle struct {
	task
	p *Plain
}

func (h *plainHandle) Start(msg string) {
	cur := h.begin()
	h.p.println("%s %s %s", h.prefix(cur), h.name, msg)
}

func (h *plainHandle) Step(msg string) {
	cur := h.advance()
	h.p.println("%s %s %s", h.prefix(cur), h.name, msg)
}

func (h *plainHandle) Msg(msg string) {
	h.p.println("%s %s: %s", h.prefix(h.current()), h.name, msg)
}

func (h *plainHandle) Fin(msg string) {
	cur, elapsed := h.finish(true)
	s := h.p.styles
	h.p.println("%s %s %s %s%s", h.prefix(cur), h.name, s.msg.Render(msg), s.done.Render("done"), elapsed)
}

func (h *plainHandle) Err(msg string) {
	cur, elapsed := h.finish(false)
	s := h.p.styles
	h.p.println("%s %s %s %s%s", h.prefix(cur), h.name, s.msg.Render(msg), s.failed.Render("failed"), elapsed)
}

func (h *plainHandle) IsDone() bool { return h.isDone() }
