package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/analytics"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/storage"
)

// historyDays is the width of the check-off grid shown per habit.
const historyDays = 14

// Model renders a read-only dashboard: one table row per habit with its
// longest streak and a recent check-off grid.
type Model struct {
	store storage.Provider
	table table.Model
	err   error
}

func NewModel(store storage.Provider) Model {
	columns := []table.Column{
		{Title: "Habit", Width: 24},
		{Title: "Cadence", Width: 8},
		{Title: "Streak", Width: 6},
		{Title: fmt.Sprintf("Last %d days", historyDays), Width: historyDays*2 + 2},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	m := Model{store: store, table: t}
	m.refresh()
	return m
}

func (m *Model) refresh() {
	habits, err := m.store.GetAllHabits()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	rows := make([]table.Row, 0, len(habits))
	for _, h := range habits {
		streak := analytics.LongestStreak(h.Periodicity, h.CompletedDates)
		rows = append(rows, table.Row{
			h.Name,
			string(h.Periodicity),
			fmt.Sprintf("%d", streak),
			historyGrid(h.CompletedDates),
		})
	}
	m.table.SetRows(rows)
}

// historyGrid renders the last historyDays calendar days as x/. markers,
// oldest first.
func historyGrid(completed []time.Time) string {
	done := make(map[string]bool, len(completed))
	for _, d := range completed {
		done[d.Format(constants.DateFormat)] = true
	}

	var b strings.Builder
	start := time.Now().AddDate(0, 0, -(historyDays - 1))
	for i := 0; i < historyDays; i++ {
		day := start.AddDate(0, 0, i)
		if done[day.Format(constants.DateFormat)] {
			b.WriteString("x ")
		} else {
			b.WriteString(". ")
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading habits: %v\n", m.err)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("habitkit"))
	b.WriteString("\n")
	b.WriteString(baseStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r: refresh • q: quit"))
	b.WriteString("\n")
	return b.String()
}
