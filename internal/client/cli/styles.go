package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#FF6B35")
	success = lipgloss.Color("#4CAF50")
	danger  = lipgloss.Color("#FF3B30")
	muted   = lipgloss.Color("#888888")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	subtleStyle = lipgloss.NewStyle().
			Foreground(muted)

	okStyle = lipgloss.NewStyle().
		Foreground(success).
		Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(16)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	headerCell = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			PaddingRight(2)

	cell = lipgloss.NewStyle().
		PaddingRight(2)
)

// field renders one "label  value" line of a card.
func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label) + value
}

// card frames a titled block of lines.
func card(title string, lines ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{titleStyle.Render(title)}, lines...)...)
	return cardStyle.Render(body)
}

// table lays rows out in columns wide enough for their longest cell.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	render := func(style lipgloss.Style, cells []string) string {
		parts := make([]string, len(widths))
		for i := range widths {
			var c string
			if i < len(cells) {
				c = cells[i]
			}
			// +2 for the right padding.
			parts[i] = style.Width(widths[i] + 2).Render(c)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	lines := []string{render(headerCell, headers)}
	for _, row := range rows {
		lines = append(lines, render(cell, row))
	}
	return strings.Join(lines, "\n")
}

func statusStyle(ok bool) lipgloss.Style {
	if ok {
		return okStyle
	}
	return errStyle
}
