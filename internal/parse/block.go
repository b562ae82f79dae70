package parse

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// Divider separates blocks in an archive file.
	Divider = "----------------------------------------"

	// NoDate is the Date of a message whose timestamp is not date-shaped.
	NoDate = "NO_DATE"

	attachmentPrefix = "Attachment:"
	proxyPrefix      = "Proxy:"
)

// space matches Unicode whitespace, not only the ASCII set RE2's \s covers.
const space = `[\s\p{Z}\x{85}\x{1c}-\x{1f}]`

var headerRe = regexp.MustCompile(`^\[(?P<ts>[^\]]+)\]` + space + `+(?P<name>.+?)` + space + `*$`)

// ParseHeader extracts the timestamp and name from a "[ts] name" line.
func ParseHeader(line string) (ts, name string, ok bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// DeriveDate returns the first 10 bytes of ts when it looks like YYYY-MM-DD.
func DeriveDate(ts string) string {
	if len(ts) >= 10 && ts[4] == '-' && ts[7] == '-' {
		return ts[:10]
	}
	return NoDate
}

// ParseBlock turns one block into a Message. It returns false, without
// error, when the block is empty or its first line is not a header.
func ParseBlock(lines []string, sourceFile string, startLine int) (Message, bool) {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[:end]
	if len(lines) == 0 {
		return Message{}, false
	}

	ts, name, ok := ParseHeader(lines[0])
	if !ok {
		return Message{}, false
	}

	var contentLines []string
	var attachments []Attachment

	for i := 1; i < len(lines); i++ {
		line := lines[i]

		if strings.HasPrefix(line, attachmentPrefix) {
			filename := strings.TrimSpace(line[len(attachmentPrefix):])
			proxyURL := ""
			if i+1 < len(lines) && strings.HasPrefix(lines[i+1], proxyPrefix) {
				proxyURL = strings.TrimSpace(lines[i+1][len(proxyPrefix):])
				i++
			}
			attachments = append(attachments, Attachment{
				Filename: filename,
				Ext:      extOf(filename),
				ProxyURL: proxyURL,
			})
			continue
		}

		// orphan proxy line
		if strings.HasPrefix(line, proxyPrefix) {
			continue
		}

		if strings.TrimSpace(line) != "" {
			contentLines = append(contentLines, line)
		}
	}

	content := strings.TrimSpace(strings.Join(contentLines, "\n"))
	raw := strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace) + "\n" + Divider + "\n"

	return Message{
		Timestamp:   ts,
		Date:        DeriveDate(ts),
		Name:        name,
		Content:     content,
		HasContent:  content != "",
		Attachments: attachments,
		RawBlock:    raw,
		SourceFile:  sourceFile,
		StartLine:   startLine,
	}, true
}

func extOf(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}
