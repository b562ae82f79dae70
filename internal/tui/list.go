package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: matched messages with scrolling.
func (m model) renderList(width, height int) string {
	matched := m.matched()
	if len(matched) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No matches")
	}

	var lines []string
	for i, msg := range matched {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatResultLine(msg, width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single match as two lines:
//
//	line 1: [>] date  name  file:line
//	line 2:    content (dimmed)
func formatResultLine(msg parse.Message, width int, selected bool) []string {
	date := msg.Date
	if date == parse.NoDate {
		date = runewidth.Truncate(msg.Timestamp, 10, "")
	}

	loc := fmt.Sprintf("%s:%d", msg.SourceFile, msg.StartLine)
	nameMax := width - 2 - runewidth.StringWidth(date) - runewidth.StringWidth(loc) - 2
	if nameMax < 0 {
		nameMax = 0
	}
	name := msg.Name
	if runewidth.StringWidth(name) > nameMax {
		name = runewidth.Truncate(name, nameMax, "…")
	}

	line1 := fmt.Sprintf("%s %s %s", date, styleListName.Render(name), styleListFile.Render(loc))
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := msg.Content
	if !msg.HasContent && len(msg.Attachments) > 0 {
		snippet = "[attachment] " + msg.Attachments[0].Filename
	}
	snippet = strings.ReplaceAll(snippet, "\n", " ")
	snippet = strings.ReplaceAll(snippet, "\t", " ")
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
