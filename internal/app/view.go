package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/swipe/internal/config"
	"github.com/zjrosen/swipe/internal/instruction"
)

const (
	defaultWidth  = 60
	defaultHeight = 20
	historyWidth  = 34
	minPadWidth   = 20
	minPadHeight  = 5
	// title, state, error and help lines plus the pad border
	chromeHeight = 6
)

type styles struct {
	title     lipgloss.Style
	subtle    lipgloss.Style
	highlight lipgloss.Style
	err       lipgloss.Style
	pad       lipgloss.Style
	padActive lipgloss.Style
	panel     lipgloss.Style
}

func newStyles(theme config.ThemeConfig) styles {
	highlight := lipgloss.Color(theme.Highlight)
	subtle := lipgloss.Color(theme.Subtle)
	pad := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(subtle)

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(highlight),
		subtle:    lipgloss.NewStyle().Foreground(subtle),
		highlight: lipgloss.NewStyle().Bold(true).Foreground(highlight),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error)),
		pad:       pad,
		padActive: pad.BorderForeground(highlight),
		panel:     lipgloss.NewStyle().Padding(0, 1),
	}
}

// padSize returns the inner pad dimensions in cells.
func (m Model) padSize() (int, int) {
	width, height := m.width, m.height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}

	w := width - 2
	if m.cfg.UI.ShowHistory {
		w -= historyWidth + 1
	}
	h := height - chromeHeight
	if !m.cfg.UI.ShowState {
		h++
	}
	return max(w, minPadWidth), max(h, minPadHeight)
}

func (m Model) renderPad() string {
	w, h := m.padSize()

	content := m.styles.subtle.Render("drag here")
	if m.last != nil {
		content = m.styles.highlight.Render(m.last.Type.Arrow() + "  " + string(m.last.Type))
	}

	style := m.styles.pad
	if m.touch.surface.Pressed() {
		style = m.styles.padActive
	}
	return style.Render(lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content))
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("History"))
	b.WriteString("\n")

	entries := m.touch.history.Recent(m.cfg.History.Limit)
	if len(entries) == 0 {
		b.WriteString(m.styles.subtle.Render("no gestures yet"))
	}
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		dx, dy := e.State.Delta()
		line := fmt.Sprintf("%s %s %-12s %s",
			m.styles.subtle.Render(e.At.Format("15:04:05")),
			e.Instruction.Arrow(),
			e.Instruction,
			m.styles.subtle.Render(fmt.Sprintf("%.0f,%.0f", dx, dy)),
		)
		b.WriteString(ansi.Truncate(line, historyWidth-2, "…"))
	}

	counts := m.touch.history.Counts()
	parts := make([]string, 0, len(instruction.All()))
	for _, tag := range instruction.All() {
		parts = append(parts, fmt.Sprintf("%s%d", tag.Arrow(), counts[tag]))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.subtle.Render(strings.Join(parts, " ")))

	return m.styles.panel.Width(historyWidth).Render(b.String())
}

func (m Model) renderError() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	return m.styles.err.Render(wordwrap.String(m.err.Error(), width))
}

func (m Model) renderState() string {
	state, touching := m.touch.recognizer.State()
	if touching {
		dx, dy := state.Delta()
		return m.styles.highlight.Render(fmt.Sprintf("touching  dx=%.0f dy=%.0f", dx, dy))
	}
	if m.status != "" {
		return m.styles.subtle.Render(m.status)
	}
	return m.styles.subtle.Render("idle")
}
