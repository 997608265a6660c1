package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/tarot"
)

// previewCards is how many cards of a pile are shown face up
const previewCards = 5

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	header := HeaderStyle.Render(" Tarot Shuffle ")
	if m.notice != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, "  ", NoticeStyle.Render(m.notice))
	}

	table := PaneStyle.Render(m.renderPiles())
	drawn := PaneStyle.Render(m.renderDrawn())
	body := lipgloss.JoinHorizontal(lipgloss.Top, table, drawn)

	m.sessions.SetContent(m.renderSessionLog())
	if m.height > 0 {
		m.sessions.Height = max(3, m.height-lipgloss.Height(body)-6)
	}
	if m.width > 0 {
		m.sessions.Width = max(10, m.width-4)
	}
	log := PaneStyle.Render(m.sessions.View())

	status := m.renderStatus()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, log, status, m.help.View(m.keys))
}

func (m *Model) renderPiles() string {
	s := m.snapshot
	var b strings.Builder

	running := ""
	if s.Running {
		running = NoticeStyle.Render(" ↻ shuffling")
	}

	switch s.Topology {
	case deckstack.Split:
		b.WriteString(DeckStyle.Render(fmt.Sprintf("Top half (%d)", len(s.Top))))
		b.WriteString("\n")
		b.WriteString(renderPile(s.Top))
		b.WriteString("\n\n")
		b.WriteString(DeckStyle.Render(fmt.Sprintf("Bottom half (%d)", len(s.Bottom))))
		b.WriteString("\n")
		b.WriteString(renderPile(s.Bottom))
	default:
		b.WriteString(DeckStyle.Render(fmt.Sprintf("Deck (%d)", len(s.Deck))) + running)
		b.WriteString("\n")
		b.WriteString(renderPile(s.Deck))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("%d reversed", s.Deck.ReversedCount())))
	}
	return b.String()
}

// renderPile shows a card back for the pile and the next few cards in order
func renderPile(seq tarot.Sequence) string {
	if len(seq) == 0 {
		return InfoStyle.Render("(empty)")
	}
	lines := []string{CardBackStyle.Render("▒▒▒▒▒▒")}
	for i, e := range seq {
		if i == previewCards {
			lines = append(lines, InfoStyle.Render(fmt.Sprintf("… %d more", len(seq)-previewCards)))
			break
		}
		lines = append(lines, renderEntry(e))
	}
	return strings.Join(lines, "\n")
}

func renderEntry(e tarot.Entry) string {
	name := suitStyle(e.Card.Suit).Render(e.Card.Name)
	if e.Reversed {
		return name + " " + ReversedStyle.Render("(reversed)")
	}
	return name
}

func (m *Model) renderDrawn() string {
	s := m.snapshot
	var b strings.Builder

	facing := "face up"
	if !s.DrawFaceUp {
		facing = "face down"
	}
	b.WriteString(DeckStyle.Render(fmt.Sprintf("Drawn (%d)", len(s.Drawn))))
	b.WriteString(InfoStyle.Render("  draws land " + facing))
	b.WriteString("\n")

	if len(s.Drawn) == 0 {
		b.WriteString(InfoStyle.Render("(none)"))
		return b.String()
	}
	for i, d := range s.Drawn {
		if d.FaceUp {
			b.WriteString(fmt.Sprintf("%2d. %s", i+1, renderEntry(d.Entry())))
		} else {
			b.WriteString(fmt.Sprintf("%2d. %s", i+1, CardBackStyle.Render("▒▒▒▒▒▒")))
		}
		b.WriteString(InfoStyle.Render(fmt.Sprintf("  from %s", d.Pile)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderSessionLog() string {
	entries := m.table.SessionLog()
	if len(entries) == 0 {
		return InfoStyle.Render("Session log is empty")
	}
	lines := make([]string, 0, len(entries))
	for i, d := range entries {
		lines = append(lines, fmt.Sprintf("%s %2d. %s",
			InfoStyle.Render(d.DrawnAt.Format("15:04:05")), i+1, renderEntry(d.Entry())))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatus() string {
	if m.lastErr != nil {
		return ErrorStyle.Render(errorText(m.lastErr))
	}
	if m.snapshot.Modified {
		return InfoStyle.Render("Deck has been changed since the last reset")
	}
	return InfoStyle.Render("Fresh deck in catalog order")
}
