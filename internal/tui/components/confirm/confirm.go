// Package confirm asks a yes/no question before a change that touches many
// items at once. Each question carries the message to deliver when the user
// agrees, so one dialog can guard any number of actions.
package confirm

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CancelledMsg is sent when the user declines. Action is the message that
// would have been delivered.
type CancelledMsg struct {
	Action tea.Msg
}

// Model holds at most one pending question.
type Model struct {
	prompt  string
	action  tea.Msg
	pending bool

	yes key.Binding
	no  key.Binding
}

func New() Model {
	return Model{
		yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		no:  key.NewBinding(key.WithKeys("n", "N", "esc", "q"), key.WithHelp("n", "no")),
	}
}

// Ask shows prompt. Answering yes delivers action as the next message;
// answering no delivers a CancelledMsg wrapping it.
func (m *Model) Ask(prompt string, action tea.Msg) {
	m.prompt = prompt
	m.action = action
	m.pending = true
}

// Pending reports whether a question is waiting for an answer.
func (m Model) Pending() bool {
	return m.pending
}

// Update answers the pending question. Keys other than yes or no are
// swallowed while a question is pending.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.pending || !ok {
		return m, nil
	}

	var reply tea.Msg
	switch {
	case key.Matches(keyMsg, m.yes):
		reply = m.action
	case key.Matches(keyMsg, m.no):
		reply = CancelledMsg{Action: m.action}
	default:
		return m, nil
	}

	m.pending = false
	m.prompt, m.action = "", nil
	return m, func() tea.Msg { return reply }
}

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	answerStyle = lipgloss.NewStyle().Faint(true)
)

// View renders the question on one line, or nothing when none is pending.
func (m Model) View() string {
	if !m.pending {
		return ""
	}
	return promptStyle.Render("? "+m.prompt) + " " + answerStyle.Render("[y/n]")
}
