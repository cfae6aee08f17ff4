package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles key presses, completed commands and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			url := strings.TrimSpace(m.input.Value())
			if url == "" {
				m.pushLine("Enter a page URL first.")
				return m, nil
			}
			m.pushLine(fmt.Sprintf("Cloning from %s", url))
			m.submit("CLONE", url)
			return m, nil

		case "ctrl+l":
			m.pushLine("Learning patterns...")
			m.submit("LEARN", "")
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resultMsg:
		m.busy = false
		m.pushLine(msg.result.Output)
		m.pushLine(fmt.Sprintf("Done in %s.", msg.result.Duration.Round(timeRound)))
		return m, nil

	case statusMsg:
		m.pushLine(string(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
