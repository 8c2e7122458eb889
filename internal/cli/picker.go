package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// errPickerCancelled is returned when the user quits the picker.
var errPickerCancelled = errors.New("selection cancelled")

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StopPickerModel - Interactive stop selection
// =============================================================================

// StopPickerModel is the bubbletea model for picking a stop. Typing narrows
// the list to stops containing the typed text (case-insensitive).
type StopPickerModel struct {
	Title    string
	Stops    []string
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected string

	matches []string
}

// NewStopPickerModel creates a picker over stops.
func NewStopPickerModel(title string, stops []string) StopPickerModel {
	m := StopPickerModel{Title: title, Stops: stops, Height: 15}
	m.matches = stops
	return m
}

func (m StopPickerModel) Init() tea.Cmd {
	return nil
}

func (m StopPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.matches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.matches) == 0 {
				return m, nil
			}
			m.Selected = m.matches[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.setFilter(string(r[:len(r)-1]))
			}
		case tea.KeyRunes, tea.KeySpace:
			m.setFilter(m.Filter + msg.String())
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	return m, nil
}

func (m *StopPickerModel) setFilter(f string) {
	m.Filter = f
	m.Cursor, m.Offset = 0, 0
	if f == "" {
		m.matches = m.Stops
		return
	}
	needle := strings.ToLower(f)
	m.matches = nil
	for _, s := range m.Stops {
		if strings.Contains(strings.ToLower(s), needle) {
			m.matches = append(m.matches, s)
		}
	}
}

// Matches returns the stops matching the current filter.
func (m StopPickerModel) Matches() []string { return m.matches }

func (m StopPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(StyleHighlight.Render("› ") + m.Filter)
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		b.WriteString(listDimStyle.Render("  no matching stops"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.matches))
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.matches[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.matches[i]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.matches))))

	return b.String()
}

// pickStop runs the picker and returns the chosen stop.
func pickStop(title string, stops []string) (string, error) {
	final, err := tea.NewProgram(NewStopPickerModel(title, stops)).Run()
	if err != nil {
		return "", fmt.Errorf("stop picker: %w", err)
	}
	m, ok := final.(StopPickerModel)
	if !ok || m.Selected == "" {
		return "", errPickerCancelled
	}
	return m.Selected, nil
}
