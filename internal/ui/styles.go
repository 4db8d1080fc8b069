package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-moonphase/internal/lunar"
)

// Shared styles, also used by the CLI when stdout is a terminal.
var (
	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	MutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4A261"))

	// PrimaryStyle marks days that fall on a primary phase.
	PrimaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F4E3")).Bold(true)
	selectedRow  = lipgloss.NewStyle().Background(lipgloss.Color("#2D1B4E"))
)

// PositionBar renders a lunation position in [0,1) as a bar of width
// cells, with quarter marks where the primary phases fall.
func PositionBar(position float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(position * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	cells := []rune(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
	for q := 1; q < 4; q++ {
		i := q * width / 4
		if i >= filled && i < width {
			cells[i] = '┊'
		}
	}

	return "[" + AccentStyle.Render(string(cells)) + "]"
}

// PhaseLabel renders a phase name with its glyph, highlighting primary
// phases.
func PhaseLabel(p lunar.Phase) string {
	label := fmt.Sprintf("%s %-15s", p.Glyph(), p.String())
	if p.IsPrimary() {
		return PrimaryStyle.Render(label)
	}
	return label
}

// Title renders text with the horizontal gradient used for headings.
func Title(text string) string {
	runes := []rune(text)
	var b strings.Builder
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, len(runes)))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}

// gradientColor returns a hex color for a position in the heading gradient:
// night blue -> violet -> pale moonlight.
func gradientColor(col, width int) string {
	if width <= 1 {
		width = 2
	}
	x := float64(col) / float64(width-1)

	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 59 + t*(157-59)
		g = 130 + t*(78-130)
		b = 246 + t*(221-246)
	} else {
		t := (x - 0.5) / 0.5
		r = 157 + t*(248-157)
		g = 78 + t*(244-78)
		b = 221 + t*(227-221)
	}

	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

func clamp(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}
