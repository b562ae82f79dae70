// Package report writes the grouped search report: the filters used, a
// per-file summary, the total character count and the matched blocks.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
	"github.com/Zuo-Peng/chat-archive-search/internal/search"
)

// DefaultMaxLines caps the line numbers listed per file in the summary.
const DefaultMaxLines = 20

var banner = strings.Repeat("=", 60)

// Options configures the report.
type Options struct {
	MaxLinesListed int
}

// FileGroup is one file's share of the matches.
type FileGroup struct {
	File  string
	Lines []int // start lines, ascending
}

// Groups groups matched messages by source file, ordered by match count
// descending then case-insensitive file name.
func Groups(matched []parse.Message) []FileGroup {
	index := make(map[string]int)
	var groups []FileGroup
	for _, m := range matched {
		i, ok := index[m.SourceFile]
		if !ok {
			i = len(groups)
			index[m.SourceFile] = i
			groups = append(groups, FileGroup{File: m.SourceFile})
		}
		groups[i].Lines = append(groups[i].Lines, m.StartLine)
	}

	for i := range groups {
		sort.Ints(groups[i].Lines)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Lines) != len(groups[j].Lines) {
			return len(groups[i].Lines) > len(groups[j].Lines)
		}
		return strings.ToLower(groups[i].File) < strings.ToLower(groups[j].File)
	})
	return groups
}

// Summary renders the per-file summary section.
func Summary(matched []parse.Message, maxLines int) string {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	lines := []string{"Per-file summary:"}
	groups := Groups(matched)
	if len(groups) == 0 {
		lines = append(lines, "(No matches.)")
		return strings.Join(lines, "\n") + "\n"
	}

	for _, g := range groups {
		count := len(g.Lines)
		shown := g.Lines
		if count > maxLines {
			shown = shown[:maxLines]
		}
		nums := make([]string, len(shown))
		for i, n := range shown {
			nums[i] = strconv.Itoa(n)
		}

		line := fmt.Sprintf("Found %d entries in %s on lines %s", count, g.File, strings.Join(nums, ", "))
		if count > maxLines {
			line += fmt.Sprintf(", ... (+%d more)", count-maxLines)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}

// StripTrailingDivider drops trailing blank lines and then one trailing
// divider line, keeping a final newline.
func StripTrailingDivider(raw string) string {
	lines := splitKeepEnds(raw)
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == parse.Divider {
		lines = lines[:len(lines)-1]
	}
	out := strings.Join(lines, "")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// Blocks returns the text written for each match, in order. The match that
// comes last for its file within the sorted sequence loses its divider.
func Blocks(matched []parse.Message) []string {
	last := make(map[string]int, len(matched))
	for i, m := range matched {
		last[m.SourceFile] = i
	}

	out := make([]string, len(matched))
	for i, m := range matched {
		if last[m.SourceFile] == i {
			out[i] = StripTrailingDivider(m.RawBlock)
		} else {
			out[i] = m.RawBlock
		}
	}
	return out
}

// TotalChars is the number of characters (code points) the report body
// spends on matched blocks: every block plus one separator newline each.
// File banners are not counted.
func TotalChars(matched []parse.Message) int {
	total := 0
	for _, b := range Blocks(matched) {
		total += utf8.RuneCountInString(b)
		total++
	}
	return total
}

// FiltersSummary restates the filters, with ANY for unset ones.
func FiltersSummary(c search.Criteria) string {
	show := func(s *string) string {
		if s == nil {
			return "ANY"
		}
		return *s
	}

	contains := "ANY"
	if c.Contains != nil {
		contains = c.Contains.Raw
	}
	hasAtt := "ANY"
	if c.HasAttachment != nil {
		hasAtt = "False"
		if *c.HasAttachment {
			hasAtt = "True"
		}
	}

	return "Search filters used:\n" +
		"- Date: " + show(c.Date) + "\n" +
		"- Global name: " + show(c.Name) + "\n" +
		"- Content contains: " + contains + "\n" +
		"- Exclude content: " + show(c.Exclude) + "\n" +
		"- Has attachment: " + hasAtt + "\n" +
		"- Attachment type/ext: " + show(c.AttachmentExt) + "\n"
}

// WriteBody writes the matched blocks, emitting a file banner whenever the
// source file changes from the previous block.
func WriteBody(w io.Writer, matched []parse.Message) error {
	bw := bufio.NewWriter(w)
	current := ""
	for i, block := range Blocks(matched) {
		m := matched[i]
		if i == 0 || m.SourceFile != current {
			current = m.SourceFile
			fmt.Fprintf(bw, "%s\n%s\n%s\n\n", banner, current, banner)
		}
		bw.WriteString(block)
		if !strings.HasSuffix(block, "\n") {
			bw.WriteString("\n")
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// Write writes the complete report.
func Write(w io.Writer, c search.Criteria, matched []parse.Message, opts Options) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(FiltersSummary(c))
	bw.WriteString("\n")
	bw.WriteString(Summary(matched, opts.MaxLinesListed))
	fmt.Fprintf(bw, "\nTotal %d entries, with %d characters.\n", len(matched), TotalChars(matched))
	bw.WriteString("\n")
	fmt.Fprintf(bw, "%s\nMatched messages (sorted by timestamp):\n%s\n\n", banner, banner)
	if err := WriteBody(bw, matched); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteFile writes the report to path, replacing any previous report.
func WriteFile(path string, c search.Criteria, matched []parse.Message, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(f, c, matched, opts); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func splitKeepEnds(s string) []string {
	var out []string
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			out = append(out, s)
			break
		}
		out = append(out, s[:i+1])
		s = s[i+1:]
	}
	return out
}
