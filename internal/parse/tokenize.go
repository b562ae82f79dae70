package parse

import "strings"

// SplitLines splits text on "\n", "\r\n" and "\r". A trailing line break
// does not produce an empty final line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// Tokenize splits archive text into blocks on divider lines. Blocks made only
// of blank lines are dropped. The last block is emitted even without a
// trailing divider.
func Tokenize(text string) []Block {
	var blocks []Block
	var current []string
	startLine := 0

	flush := func() {
		if len(current) > 0 && startLine > 0 {
			blocks = append(blocks, Block{Lines: current, StartLine: startLine})
		}
		current = nil
		startLine = 0
	}

	for idx, line := range SplitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == Divider {
			flush()
			continue
		}
		if startLine == 0 && trimmed != "" {
			startLine = idx + 1
		}
		current = append(current, line)
	}
	flush()

	return blocks
}
