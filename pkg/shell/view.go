package shell

import (
	"fmt"
	"strings"
)

// visibleLogLines is how many status lines fit in the log panel.
const visibleLogLines = 16

// View renders the shell: title, status log, URL input, actions and help.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("imgvault"))
	b.WriteString("\n\n")

	b.WriteString(logStyle.Render(m.renderLog()))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString(m.spinner.View())
		b.WriteString(busyStyle.Render(" working..."))
		b.WriteString("\n\n")
	}

	b.WriteString(helpStyle.Render("enter: clone website images • ctrl+l: learn patterns • esc: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLog() string {
	lines := m.lines
	if len(lines) > visibleLogLines {
		lines = lines[len(lines)-visibleLogLines:]
	}

	if len(lines) == 0 {
		return timestampStyle.Render("Ready.")
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		stamp := timestampStyle.Render(fmt.Sprintf("[%s]", line.when.Format("15:04:05")))
		b.WriteString(fmt.Sprintf("%s %s", stamp, line.text))
	}
	return b.String()
}
