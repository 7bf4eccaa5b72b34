package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	menuHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("238")).
			MarginLeft(1)
	menuIndex   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	menuActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	menuFooter  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginLeft(1).MarginTop(1)
	menuPointer = "▸"
)

const (
	noChoice = -1
	quit     = -2
)

type pickerModel struct {
	title  string
	items  []string
	cursor int
	chosen int
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	last := len(m.items) - 1
	switch k := km.String(); k {
	case "q", "esc", "ctrl+c":
		m.chosen = quit
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = max(min(m.cursor+1, last), 0)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(last, 0)
	case "enter":
		if last >= 0 {
			m.chosen = m.cursor
			return m, tea.Quit
		}
	default:
		// Digits jump straight to an item.
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n-1 <= last {
			m.cursor = n - 1
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	lines := []string{menuHeader.Render(m.title), ""}
	for i, item := range m.items {
		pointer, text := " ", item
		if i == m.cursor {
			pointer, text = menuPointer, menuActive.Render(item)
		}
		lines = append(lines, fmt.Sprintf(" %s %s %s", pointer, menuIndex.Render(strconv.Itoa(i+1)+"."), text))
	}
	lines = append(lines, menuFooter.Render("j/k move · 1-9 open · enter open · q back"))
	return strings.Join(lines, "\n")
}

// RunPicker shows a numbered menu over items. It returns the chosen index, or
// -1 if the user quit.
func RunPicker(title string, items []string) (int, error) {
	result, err := tea.NewProgram(pickerModel{title: title, items: items, chosen: noChoice}).Run()
	if err != nil {
		return -1, err
	}
	if final := result.(pickerModel); final.chosen >= 0 {
		return final.chosen, nil
	}
	return -1, nil
}
