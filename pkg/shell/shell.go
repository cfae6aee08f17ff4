// Package shell is the interactive terminal surface: a status log, a URL
// input and two action triggers wired to the command queue. It is glue
// around the dispatcher core, not part of the ingestion logic.
package shell

import (
	tea "github.com/charmbracelet/bubbletea"

	"imgvault/internal/dispatch"
)

// Shell owns the Bubble Tea program and the queue-result bridge.
type Shell struct {
	queue   *dispatch.Queue
	program *tea.Program
}

// New creates the shell over a command queue. The queue must be started
// by the caller and is stopped by the caller after Run returns.
func New(queue *dispatch.Queue) *Shell {
	model := NewModel(queue)
	program := tea.NewProgram(model, tea.WithAltScreen())
	return &Shell{queue: queue, program: program}
}

// Run pumps queue results into the UI and blocks until the user quits.
func (s *Shell) Run() error {
	go func() {
		for result := range s.queue.Results() {
			s.program.Send(resultMsg{result: result})
		}
	}()

	_, err := s.program.Run()
	return err
}
