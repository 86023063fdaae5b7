package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMenuNavigationClampsAtEdges(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "first"},
		{Label: "second"},
		{Label: "third"},
	})

	m, _ = m.Update(keyPress('k'))
	if m.Selected != 0 {
		t.Errorf("selected = %d after up at top, want 0", m.Selected)
	}

	for range 5 {
		m, _ = m.Update(keyPress('j'))
	}
	if m.Selected != 2 {
		t.Errorf("selected = %d after down past bottom, want 2", m.Selected)
	}
}

func TestMenuEnterRunsSelectedAction(t *testing.T) {
	type pickedMsg struct{ label string }

	items := []MenuItem{
		{Label: "a", Action: func() tea.Cmd {
			return func() tea.Msg { return pickedMsg{"a"} }
		}},
		{Label: "b", Action: func() tea.Cmd {
			return func() tea.Msg { return pickedMsg{"b"} }
		}},
	}

	m := NewMenu(items)
	m, _ = m.Update(keyPress('j'))
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	got, ok := cmd().(pickedMsg)
	if !ok || got.label != "b" {
		t.Errorf("enter ran %v, want pickedMsg{b}", got)
	}
}

func TestMenuViewMarksSelection(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "alpha"}, {Label: "beta"}})
	lines := strings.Split(strings.TrimRight(m.View(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "▸ alpha") {
		t.Errorf("selected line missing cursor: %q", lines[0])
	}
	if strings.Contains(lines[1], "▸") {
		t.Errorf("unselected line carries cursor: %q", lines[1])
	}
}

func TestProgressBarFill(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		filled  int
		empty   int
	}{
		{"empty", 0, 0, 20},
		{"half", 0.5, 10, 10},
		{"full", 1, 20, 0},
		{"over", 1.7, 20, 0},
		{"under", -0.3, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewProgressBar("", tt.percent, false, 20).View()
			if got := strings.Count(view, "█"); got != tt.filled {
				t.Errorf("filled cells = %d, want %d", got, tt.filled)
			}
			if got := strings.Count(view, "░"); got != tt.empty {
				t.Errorf("empty cells = %d, want %d", got, tt.empty)
			}
		})
	}
}

func TestProgressBarPercentReadout(t *testing.T) {
	view := NewProgressBar("Accuracy", 0.755, true, 40).View()
	if !strings.Contains(view, "Accuracy") {
		t.Errorf("label missing: %q", view)
	}
	if !strings.Contains(view, "76%") {
		t.Errorf("percent readout missing: %q", view)
	}
}

func TestTextInputCharLimit(t *testing.T) {
	in := NewTextInput("reason", 5)
	for _, r := range "abcdefgh" {
		in, _ = in.Update(keyPress(r))
	}
	if got := in.Value(); got != "abcde" {
		t.Errorf("value = %q, want %q", got, "abcde")
	}
}
