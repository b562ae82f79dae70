package archive

import (
	"sort"
	"strings"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
)

const (
	NoTimestamp = "NO_TIMESTAMP"
	UnknownName = "Unknown"
)

// Formatter renders records as archive blocks.
type Formatter struct {
	Names Normalizer
}

// DisplayName resolves global_name, then username, then "Unknown", and
// passes the result through the name table.
func (f Formatter) DisplayName(r Record) string {
	name := UnknownName
	if author := r.Author(); author != nil {
		if s, ok := Text(author["global_name"]); ok {
			name = s
		} else if s, ok := Text(author["username"]); ok {
			name = s
		}
	}
	return f.Names.Apply(name)
}

// Format renders one record as a block ending with the divider line (no
// trailing newline).
func (f Formatter) Format(r Record) string {
	ts, ok := Text(r["timestamp"])
	if !ok {
		ts = NoTimestamp
	}

	lines := []string{"[" + ts + "] " + f.DisplayName(r)}

	if content, ok := r.Content(); ok {
		lines = append(lines, content)
	}

	for _, a := range r.Attachments() {
		lines = append(lines, "Attachment: "+a.Filename)
		lines = append(lines, "Proxy: "+a.ProxyURL)
	}

	lines = append(lines, parse.Divider)
	return strings.Join(lines, "\n")
}

// SortChronological sorts records by timestamp string, oldest first.
// Records without a string timestamp keep their relative order at the end.
func SortChronological(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, okI := records[i].Timestamp()
		tj, okJ := records[j].Timestamp()
		switch {
		case okI && okJ:
			return ti < tj
		case okI:
			return true
		default:
			return false
		}
	})
}
