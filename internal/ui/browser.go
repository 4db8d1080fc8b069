// Package ui provides the terminal month browser using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-moonphase/internal/lunar"
	"github.com/litescript/ls-moonphase/internal/moon"
	"github.com/litescript/ls-moonphase/internal/version"
)

// Msg types for Bubble Tea
type (
	// MonthLoadedMsg carries the comparison rows for a month.
	MonthLoadedMsg struct {
		Month time.Time
		Rows  []moon.Row
	}
)

// Model is the root Bubble Tea model: one month of days, both strategies
// side by side.
type Model struct {
	// Dependencies
	resolver  *lunar.Resolver
	ephemeris string
	now       func() time.Time

	// UI state
	month   time.Time
	rows    []moon.Row
	cursor  int
	loading bool
	width   int
	height  int
	ready   bool
}

// New creates a browser starting on the month containing start.
func New(resolver *lunar.Resolver, ephemeris string, start time.Time) Model {
	return Model{
		resolver:  resolver,
		ephemeris: ephemeris,
		now:       time.Now,
		month:     firstOfMonth(start),
		cursor:    start.Day() - 1,
		loading:   true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadMonth(m.month)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}

		case "left", "h", "p":
			return m.goTo(m.month.AddDate(0, -1, 0), 0)
		case "right", "l", "n":
			return m.goTo(m.month.AddDate(0, 1, 0), 0)
		case "t":
			today := m.now().In(m.month.Location())
			return m.goTo(firstOfMonth(today), today.Day()-1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case MonthLoadedMsg:
		if !msg.Month.Equal(m.month) {
			return m, nil
		}
		m.rows = msg.Rows
		m.loading = false
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
	}

	return m, nil
}

func (m Model) goTo(month time.Time, cursor int) (tea.Model, tea.Cmd) {
	m.month = month
	m.cursor = cursor
	m.loading = true
	return m, m.loadMonth(month)
}

func (m Model) loadMonth(month time.Time) tea.Cmd {
	resolver := m.resolver
	return func() tea.Msg {
		return MonthLoadedMsg{Month: month, Rows: moon.CompareMonth(resolver, month)}
	}
}

// Selected returns the row under the cursor.
func (m Model) Selected() (moon.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return moon.Row{}, false
	}
	return m.rows[m.cursor], true
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString("\n  " + Title("ls-moonphase") + MutedStyle.Render(" v"+version.Version) + "\n")
	b.WriteString("  " + TitleStyle.Render(m.month.Format("January 2006")) +
		MutedStyle.Render("  ephemeris: "+m.ephemeris) + "\n\n")

	if m.loading {
		b.WriteString(MutedStyle.Render("  Computing phases...") + "\n")
		return b.String() + m.renderFooter()
	}

	b.WriteString(MutedStyle.Render(fmt.Sprintf("  %-10s  %-18s  %-18s  %s", "date", "resolver", "estimator", "position")) + "\n")
	for _, row := range m.visibleRows() {
		line := m.renderRow(row)
		if row.Date.Day()-1 == m.cursor {
			line = selectedRow.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + m.renderDetail())
	return b.String() + m.renderFooter()
}

// visibleRows trims the month to the window height, keeping the cursor in
// view.
func (m Model) visibleRows() []moon.Row {
	avail := m.height - 12
	if avail <= 0 || avail >= len(m.rows) {
		return m.rows
	}
	start := m.cursor - avail/2
	if start < 0 {
		start = 0
	}
	if start+avail > len(m.rows) {
		start = len(m.rows) - avail
	}
	return m.rows[start : start+avail]
}

func (m Model) renderRow(row moon.Row) string {
	resolved := ErrorStyle.Render(fmt.Sprintf("%-18s", "unresolved"))
	if row.Resolvable() {
		resolved = PhaseLabel(row.Resolved)
	}

	marker := " "
	if !row.Agree() {
		marker = WarnStyle.Render("!")
	}

	return fmt.Sprintf(" %s%s  %s  %s  %s %.3f",
		marker, row.Date.Format("Mon Jan 02"), resolved, PhaseLabel(row.Estimated),
		PositionBar(row.Position, 16), row.Position)
}

func (m Model) renderDetail() string {
	row, ok := m.Selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + TitleStyle.Render(row.Date.Format("Monday, January 2 2006")) + "\n")
	if row.Err != nil {
		style := WarnStyle
		if !row.Resolvable() {
			style = ErrorStyle
		}
		b.WriteString("  " + style.Render(firstLine(row.Err.Error())) + "\n")
	}
	if row.Resolvable() && row.Resolved != row.Estimated {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  strategies differ by %d phase(s)",
			lunar.Distance(row.Resolved, row.Estimated))) + "\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	return "\n  " + MutedStyle.Render("↑↓/jk: day | ←→/hl: month | t: today | q: quit") + "\n"
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
