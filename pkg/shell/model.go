package shell

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"imgvault/internal/dispatch"
)

const maxStatusLines = 200

// statusLine is one entry in the scrolling status log.
type statusLine struct {
	when time.Time
	text string
}

// resultMsg carries a completed command back into the update loop.
type resultMsg struct {
	result dispatch.Result
}

// statusMsg appends a line to the status log.
type statusMsg string

// Model is the Bubble Tea model for the interactive shell: a URL input,
// a scrolling status log, and two action triggers backed by the single
// worker command queue.
type Model struct {
	queue   *dispatch.Queue
	input   textinput.Model
	spinner spinner.Model

	lines  []statusLine
	busy   bool
	width  int
	height int
}

// NewModel builds the shell model over a started command queue.
func NewModel(queue *dispatch.Queue) Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com"
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		queue:   queue,
		input:   ti,
		spinner: sp,
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// pushLine appends to the status log, trimming the oldest entries.
func (m *Model) pushLine(text string) {
	m.lines = append(m.lines, statusLine{when: time.Now(), text: text})
	if len(m.lines) > maxStatusLines {
		m.lines = m.lines[len(m.lines)-maxStatusLines:]
	}
}

// submit hands a command to the queue, reporting busy-rejections as a
// status line instead of stacking runs.
func (m *Model) submit(command, payload string) {
	err := m.queue.TrySubmit(dispatch.Job{Command: command, Payload: payload})
	switch {
	case err == dispatch.ErrBusy:
		m.pushLine("Busy: a command is already running.")
	case err != nil:
		m.pushLine(fmt.Sprintf("Cannot submit command: %v", err))
	default:
		m.busy = true
		if payload != "" {
			m.pushLine(fmt.Sprintf("%s %s", command, payload))
		} else {
			m.pushLine(command)
		}
	}
}
