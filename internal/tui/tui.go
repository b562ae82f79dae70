// Package tui collects search filters interactively and browses the matches.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
	"github.com/Zuo-Peng/chat-archive-search/internal/search"
)

type tuiMode int

const (
	modeForm tuiMode = iota
	modeResults
)

// Outcome is what one search produced.
type Outcome struct {
	Matched     []parse.Message
	Pattern     *search.Pattern // content pattern, for highlighting
	ReportPath  string
	Warnings    []string
	Suggestions []string
}

// SearchFunc runs a search for in, writes its report and describes the
// result.
type SearchFunc func(in search.Input) (*Outcome, error)

type field struct {
	label       string
	placeholder string
}

// fields follow the order of search.Input.
var fields = []field{
	{"Date", "d/m/y, e.g. 5/2/2026"},
	{"Name", "display name, exact"},
	{"Contains", `text, or "word" for a whole word`},
	{"Exclude", "text to leave out"},
	{"Has attachment", "y / n"},
	{"Attachment type", "png, .pdf, ..."},
}

// message types

type searchResultMsg struct {
	outcome *Outcome
	err     error
}

// model

type model struct {
	search     SearchFunc
	mode       tuiMode
	inputs     []textinput.Model
	focus      int
	running    bool
	outcome    *Outcome
	err        error
	cursor     int
	listOffset int
	preview    viewport.Model
	headers    []int
	seq        int // bumps on every new outcome to drop stale renders
	width      int
	height     int
	ready      bool
	quitting   bool
	copyReport bool
}

func initialModel(initial search.Input, fn SearchFunc) model {
	values := []string{
		initial.Date, initial.Name, initial.Contains,
		initial.Exclude, initial.HasAttachment, initial.AttachmentExt,
	}

	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.Prompt = "> "
		ti.PromptStyle = styleInputPrompt
		ti.TextStyle = styleInput
		ti.CharLimit = 256
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[0].Focus()

	return model{
		search:  fn,
		inputs:  inputs,
		preview: viewport.New(0, 0),
	}
}

// Run shows the filter form, runs fn on submit and lets the user browse the
// matches. It returns the last outcome, or nil if no search ran. Pressing
// Enter on the results copies the report path to the clipboard.
func Run(initial search.Input, fn SearchFunc) (*Outcome, error) {
	m := initialModel(initial, fn)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.copyReport && fm.outcome != nil {
		copyReportPath(fm.outcome.ReportPath)
	}
	return fm.outcome, nil
}

// copyReportPath puts path on the clipboard, or prints it when no clipboard
// is available.
func copyReportPath(path string) {
	if err := clipboard.WriteAll(path); err != nil {
		fmt.Printf("%s\n", path)
		return
	}
	fmt.Printf("Copied to clipboard: %s\n", path)
}

// Input returns the form values.
func (m model) Input() search.Input {
	v := func(i int) string { return m.inputs[i].Value() }
	return search.Input{
		Date:          v(0),
		Name:          v(1),
		Contains:      v(2),
		Exclude:       v(3),
		HasAttachment: v(4),
		AttachmentExt: v(5),
	}
}

func (m model) matched() []parse.Message {
	if m.outcome == nil {
		return nil
	}
	return m.outcome.Matched
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		if m.outcome != nil {
			return m, loadPreviewCmd(m.outcome, m.seq, m.previewWidth())
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		return m.updateResults(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case searchResultMsg:
		m.running = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.outcome = msg.outcome
		m.mode = modeResults
		m.cursor = 0
		m.listOffset = 0
		m.headers = nil
		m.seq++
		m.preview.SetContent("")
		m.inputs[m.focus].Blur()
		return m, loadPreviewCmd(m.outcome, m.seq, m.previewWidth())

	case previewRenderedMsg:
		if msg.seq != m.seq {
			return m, nil // stale preview
		}
		m.preview.SetContent(msg.content)
		m.headers = msg.headers
		m.syncPreview()
		return m, nil
	}

	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		if m.focus < len(m.inputs)-1 {
			return m.focusField(m.focus + 1)
		}
		if m.running {
			return m, nil
		}
		m.running = true
		m.err = nil
		return m, m.doSearch(m.Input())

	case key.Matches(msg, keys.Next), key.Matches(msg, keys.Down):
		return m.focusField((m.focus + 1) % len(m.inputs))

	case key.Matches(msg, keys.Prev), key.Matches(msg, keys.Up):
		return m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))

	case key.Matches(msg, keys.Edit):
		if m.outcome != nil {
			m.mode = modeResults
			m.inputs[m.focus].Blur()
		}
		return m, nil
	}

	// Pass remaining keys to the focused input
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m model) focusField(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[m.focus].Focus()
}

func (m model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		m.copyReport = true
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Edit):
		m.mode = modeForm
		return m, m.inputs[m.focus].Focus()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustListScroll(m.panelHeight())
			m.syncPreview()
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.matched())-1 {
			m.cursor++
			m.adjustListScroll(m.panelHeight())
			m.syncPreview()
		}

	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(m.panelHeight() / 2)

	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(m.panelHeight() / 2)

	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(m.panelHeight())

	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(m.panelHeight())
	}
	return m, nil
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || m.mode != modeResults || len(m.matched()) == 0 {
		return m, nil
	}

	region, itemIdx := m.hitTest(msg.X, msg.Y)

	switch {
	case region == regionList && msg.Button == tea.MouseButtonWheelUp:
		if m.listOffset > 0 {
			m.listOffset--
		}

	case region == regionList && msg.Button == tea.MouseButtonWheelDown:
		maxOffset := len(m.matched()) - m.panelHeight()/linesPerItem
		if maxOffset < 0 {
			maxOffset = 0
		}
		if m.listOffset < maxOffset {
			m.listOffset++
		}

	case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if itemIdx >= 0 && itemIdx < len(m.matched()) && m.cursor != itemIdx {
			m.cursor = itemIdx
			m.adjustListScroll(m.panelHeight())
			m.syncPreview()
		}

	case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	return m, nil
}

// syncPreview scrolls the preview to the selected match.
func (m *model) syncPreview() {
	if m.cursor < len(m.headers) {
		m.preview.SetYOffset(m.headers[m.cursor])
	}
}

func (m model) doSearch(in search.Input) tea.Cmd {
	fn := m.search
	return func() tea.Msg {
		o, err := fn(in)
		return searchResultMsg{outcome: o, err: err}
	}
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	if m.mode == modeForm {
		return m.formView()
	}
	return m.resultsView()
}

func (m model) formView() string {
	var rows []string
	rows = append(rows, styleTitle.Render("Search filters (blank = any)"), "")
	for i, f := range fields {
		label := styleLabel.Render(f.label)
		if i == m.focus {
			label = styleLabelFocused.Render(f.label)
		}
		rows = append(rows, label+m.inputs[i].View())
	}
	rows = append(rows, "")

	switch {
	case m.running:
		rows = append(rows, styleTitle.Render("Searching..."))
	case m.err != nil:
		rows = append(rows, styleWarning.Render("Error: "+m.err.Error()))
	}

	parts := []string{"tab/up/dn move", "Enter next / search"}
	if m.outcome != nil {
		parts = append(parts, "C-e back to results")
	}
	parts = append(parts, "Esc quit")
	rows = append(rows, styleStatusBar.Render(strings.Join(parts, " | ")))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m model) resultsView() string {
	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, m.headerRow(), panels, m.statusBar())
}

func (m model) headerRow() string {
	if m.outcome == nil {
		return ""
	}
	row := styleTitle.Render(fmt.Sprintf("Report: %s", m.outcome.ReportPath))
	var notes []string
	notes = append(notes, m.outcome.Warnings...)
	if len(m.outcome.Suggestions) > 0 {
		notes = append(notes, "did you mean: "+strings.Join(m.outcome.Suggestions, ", "))
	}
	if len(notes) > 0 {
		row += "  " + styleWarning.Render(strings.Join(notes, "; "))
	}
	return row
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract header row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // header row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + (relY / linesPerItem)
	}

	if x > listBoxRight+1 {
		return regionPreview, -1
	}

	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{
		fmt.Sprintf("%d matches", len(m.matched())),
		"click/up/dn navigate",
		"scroll/C-u/C-d preview",
		"C-e edit filters",
		"Enter copy report path",
		"Esc quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}
