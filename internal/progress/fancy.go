package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Fancy renders one spinner line per task with a bubbletea program running
// in the background. Handles talk to the program through messages only.
type Fancy struct {
	mu      sync.Mutex
	program *tea.Program
	styles  styles
	done    chan struct{}
	handles []*fancyHandle
}

type (
	addRowMsg struct {
		name   string
		prefix string
	}
	rowMsg struct {
		id  int
		row row
	}
	clearMsg   struct{}
	refreshMsg struct{}
)

type rowState int

const (
	rowRunning rowState = iota
	rowDone
	rowFailed
)

type row struct {
	prefix string
	text   string
	state  rowState
}

type model struct {
	spinner spinner.Model
	styles  styles
	rows    []row
	cleared bool
}

// NewFancy starts a renderer writing to w. Close must be called to restore
// the terminal.
func NewFancy(w io.Writer) *Fancy {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"⠷", "⠯", "⠟", "⠻", "⠽", "⠾", "⠿"},
		FPS:    spinner.Dot.FPS,
	}
	st := newStyles(w)
	m := model{spinner: sp, styles: st}

	f := &Fancy{
		styles: st,
		program: tea.NewProgram(m,
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(f.done)
		_, _ = f.program.Run()
	}()
	return f
}

func (f *Fancy) Register(name string, steps int) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := &fancyHandle{task: task{name: name, steps: steps}, f: f, id: len(f.handles)}
	f.handles = append(f.handles, h)
	f.program.Send(addRowMsg{name: name, prefix: h.prefix(0)})
	return h
}

func (f *Fancy) Tick() { f.program.Send(refreshMsg{}) }

func (f *Fancy) Clear() { f.program.Send(clearMsg{}) }

func (f *Fancy) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.handles {
		if !h.IsDone() {
			return false
		}
	}
	return true
}

// Close stops the program after it rendered the final state of every row.
func (f *Fancy) Close() error {
	f.program.Quit()
	<-f.done
	return nil
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addRowMsg:
		m.rows = append(m.rows, row{prefix: msg.prefix, text: msg.name})
	case rowMsg:
		if msg.id < len(m.rows) {
			m.rows[msg.id] = msg.row
		}
	case clearMsg:
		m.cleared = true
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.cleared {
		return ""
	}
	var b strings.Builder
	for _, r := range m.rows {
		var mark string
		switch r.state {
		case rowDone:
			mark = m.styles.done.Render("✓")
		case rowFailed:
			mark = m.styles.failed.Render("✗")
		default:
			mark = m.spinner.View()
		}
		fmt.Fprintf(&b, "%s %s %s\n", m.styles.prefix.Render(r.prefix), mark, r.text)
	}
	return b.String()
}

type fancyHandle struct {
	task
	f  *Fancy
	id int
}

func (h *fancyHandle) send(cur int, text string, state rowState) {
	h.f.program.Send(rowMsg{id: h.id, row: row{prefix: h.prefix(cur), text: text, state: state}})
}

func (h *fancyHandle) Start(msg string) {
	h.send(h.begin(), h.name+" "+msg, rowRunning)
}

func (h *fancyHandle) Step(msg string) {
	h.send(h.advance(), h.name+": "+msg, rowRunning)
}

func (h *fancyHandle) Msg(msg string) {
	h.send(h.current(), h.name+" "+msg, rowRunning)
}

func (h *fancyHandle) Fin(msg string) {
	cur, elapsed := h.finish(true)
	st := h.f.styles
	h.send(cur, fmt.Sprintf("%s %s %s%s", h.name, st.msg.Render(msg), st.done.Render("done"), st.dur.Render(elapsed)), rowDone)
}

func (h *fancyHandle) Err(msg string) {
	cur, elapsed := h.finish(false)
	st := h.f.styles
	h.send(cur, fmt.Sprintf("%s %s %s%s", h.name, st.msg.Render(msg), st.failed.Render("failed"), st.dur.Render(elapsed)), rowFailed)
}

func (h *fancyHandle) IsDone() bool { return h.isDone() }
