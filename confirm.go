package ordo

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	prompt  string
	answer  bool
	decided bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = true
		m.decided = true
		return m, tea.Quit
	case "n", "N", "q", "esc", "ctrl+c":
		m.answer = false
		m.decided = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.decided {
		return ""
	}
	return m.prompt + " (y/n): "
}

// ConfirmApply asks the operator for the go-ahead. Anything other than
// an explicit yes counts as a refusal.
func ConfirmApply(prompt string) (bool, error) {
	p := tea.NewProgram(confirmModel{prompt: prompt})
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, nil
	}
	return m.answer, nil
}
