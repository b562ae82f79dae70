package parse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseText tokenizes and parses the contents of one archive file.
func ParseText(name, text string) FileResult {
	result := FileResult{Name: name}
	for _, b := range Tokenize(text) {
		result.Blocks++
		msg, ok := ParseBlock(b.Lines, name, b.StartLine)
		if !ok {
			result.Dropped++
			continue
		}
		result.Messages = append(result.Messages, msg)
	}
	return result
}

// ParseFile reads an archive file and parses it. Invalid UTF-8 is replaced
// rather than rejected.
func ParseFile(path string) (FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("read archive: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "\uFFFD")
	return ParseText(filepath.Base(path), text), nil
}
