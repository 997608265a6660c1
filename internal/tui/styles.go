package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/tarotshuffle/tarot"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	DeckStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	CardBackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4"))

	MajorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	WandsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF9F43"))

	CupsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#48DBFB"))

	SwordsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C8D6E5"))

	PentaclesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1DD1A1"))

	ReversedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// suitStyle picks the colour a card face is drawn in
func suitStyle(s tarot.Suit) lipgloss.Style {
	switch s {
	case tarot.SuitWands:
		return WandsStyle
	case tarot.SuitCups:
		return CupsStyle
	case tarot.SuitSwords:
		return SwordsStyle
	case tarot.SuitPentacles:
		return PentaclesStyle
	default:
		return MajorStyle
	}
}
