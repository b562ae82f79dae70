package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chat-archive-search/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	seq     int
	width   int
	content string
	headers []int
}

// loadPreviewCmd renders every match of the current outcome at width.
func loadPreviewCmd(o *Outcome, seq, width int) tea.Cmd {
	return func() tea.Msg {
		content, headers := render.Matches(o.Matched, render.Options{
			Width:   width,
			Color:   true,
			Pattern: o.Pattern,
		})
		return previewRenderedMsg{seq: seq, width: width, content: content, headers: headers}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
