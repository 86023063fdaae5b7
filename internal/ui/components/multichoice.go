package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"quizcraft/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. It only handles cursor
// movement and rendering; the owning screen decides when a choice is
// submitted and flips Revealed with the correct index.
type MultiChoice struct {
	Options      []string
	Selected     int
	Revealed     bool
	CorrectIndex int
	ChosenIndex  int
}

// NewMultiChoice creates a selector over the given options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: -1,
		ChosenIndex:  -1,
	}
}

// Update handles cursor movement. Number keys jump straight to an option.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// Reveal marks the component as answered.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Revealed = true
	m.ChosenIndex = chosen
	m.CorrectIndex = correct
}

// View renders the options. After reveal, the correct option is green and
// a wrong pick is red.
func (m MultiChoice) View() string {
	var s string
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, optionLabel(i), opt)

		switch {
		case m.Revealed && i == m.CorrectIndex:
			s += theme.Correct.Render(line) + "\n"
		case m.Revealed && i == m.ChosenIndex:
			s += theme.Incorrect.Render(line) + "\n"
		case m.Revealed:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == m.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}
	return s
}

func optionLabel(i int) rune {
	return rune('A' + i)
}
