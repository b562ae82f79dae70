// Package render formats matched messages for a terminal.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
	"github.com/Zuo-Peng/chat-archive-search/internal/search"
)

const (
	colorReset   = "\033[0m"
	colorName    = "\033[1;34m" // bold blue
	colorAttach  = "\033[1;32m" // bold green
	colorDim     = "\033[2m"
	colorFile    = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for pattern hits
)

type Options struct {
	Width   int             // wrap width (0 = no wrap)
	Color   bool            // emit ANSI escapes
	Pattern *search.Pattern // content pattern to highlight, may be nil
}

// Highlight wraps every match of p in text in bold red.
func Highlight(text string, p *search.Pattern) string {
	if p == nil || text == "" {
		return text
	}
	locs := p.FindAll(text)
	if len(locs) == 0 {
		return text
	}

	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		if loc[1] == loc[0] {
			continue
		}
		b.WriteString(text[prev:loc[0]])
		b.WriteString(colorBoldRed)
		b.WriteString(text[loc[0]:loc[1]])
		b.WriteString(colorReset)
		prev = loc[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth && visW > 0 {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// Matches renders matched messages in order. It returns the content and the
// 0-based line number of each message header, so a viewer can jump between
// matches.
func Matches(matched []parse.Message, opts Options) (string, []int) {
	if len(matched) == 0 {
		return "(no matches)\n", nil
	}

	paint := func(color, s string) string {
		if !opts.Color {
			return s
		}
		return color + s + colorReset
	}

	var b strings.Builder
	var headers []int
	lineCount := 0

	// helper to track line count; wraps long lines if Width is set
	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	current := ""
	for i, m := range matched {
		if i == 0 || m.SourceFile != current {
			current = m.SourceFile
			if i > 0 {
				writeLine("")
			}
			writeLine(paint(colorFile, " "+current+" "))
		}

		headers = append(headers, lineCount)
		writeLine(fmt.Sprintf("%s %s %s",
			paint(colorDim, fmt.Sprintf("%d:", m.StartLine)),
			paint(colorDim, "["+m.Timestamp+"]"),
			paint(colorName, m.Name)))

		if m.HasContent {
			text := m.Content
			if opts.Color {
				text = Highlight(text, opts.Pattern)
			}
			for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
				writeLine(tl)
			}
		}
		for _, a := range m.Attachments {
			writeLine("  " + paint(colorAttach, "Attachment: "+a.Filename))
		}
		writeLine(paint(colorDim, strings.Repeat("-", 20)))
	}

	return b.String(), headers
}
