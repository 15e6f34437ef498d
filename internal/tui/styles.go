package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/fivedraw/internal/deck"
)

const (
	focusColor = lipgloss.Color("#04B575")
	mutedColor = lipgloss.Color("#626262")
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	PromptStyle = lipgloss.NewStyle().
			Foreground(focusColor).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FAFAFA"}).
			Bold(true)

	PlayerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// paneStyle is the rounded border around each pane, highlighted when focused
func paneStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor)
	if focused {
		style = style.BorderForeground(focusColor)
	}
	return style
}

// FormatCard renders a card with its suit colour
func FormatCard(c deck.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.Display())
	}
	return BlackCardStyle.Render(c.Display())
}

// FormatHand renders a hand with the 1-based positions used by 'draw'
func FormatHand(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = InfoStyle.Render(fmt.Sprintf("%d:", i+1)) + FormatCard(c)
	}
	return strings.Join(parts, " ")
}
