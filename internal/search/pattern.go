package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pattern is a compiled content matcher together with the text the user
// typed, which is kept for display.
type Pattern struct {
	Raw   string
	exact bool
	re    *regexp.Regexp
}

// CompilePattern compiles a content pattern. Input wrapped in double quotes
// ("word") matches the enclosed text as a whole token: case-insensitive, with
// no letter, digit or underscore directly before or after. Anything else is a
// case-insensitive literal substring match.
func CompilePattern(input string) *Pattern {
	s := strings.TrimSpace(input)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return &Pattern{
			Raw:   input,
			exact: true,
			re:    regexp.MustCompile("(?i)" + regexp.QuoteMeta(s[1:len(s)-1])),
		}
	}
	return &Pattern{
		Raw: input,
		re:  regexp.MustCompile("(?i)" + regexp.QuoteMeta(s)),
	}
}

// Exact reports whether the pattern is a whole-token matcher.
func (p *Pattern) Exact() bool {
	return p.exact
}

// Match reports whether text contains the pattern.
func (p *Pattern) Match(text string) bool {
	if !p.exact {
		return p.re.MatchString(text)
	}
	return p.next(text, 0) != nil
}

// FindAll returns the byte ranges of non-overlapping matches in text.
func (p *Pattern) FindAll(text string) [][]int {
	if !p.exact {
		return p.re.FindAllStringIndex(text, -1)
	}

	var out [][]int
	pos := 0
	for pos <= len(text) {
		loc := p.next(text, pos)
		if loc == nil {
			break
		}
		out = append(out, loc)
		if loc[1] > loc[0] {
			pos = loc[1]
		} else {
			pos = loc[1] + runeLen(text, loc[1])
		}
	}
	return out
}

// next finds the first token match starting at or after pos. A candidate
// that touches a word character is skipped by one rune and the search
// resumes, so overlapping candidates are still considered.
func (p *Pattern) next(text string, pos int) []int {
	for pos <= len(text) {
		loc := p.re.FindStringIndex(text[pos:])
		if loc == nil {
			return nil
		}
		start, end := pos+loc[0], pos+loc[1]
		if !wordBefore(text, start) && !wordAfter(text, end) {
			return []int{start, end}
		}
		if start >= len(text) {
			return nil
		}
		pos = start + runeLen(text, start)
	}
	return nil
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func wordBefore(text string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return isWord(r)
}

func wordAfter(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWord(r)
}

func runeLen(text string, i int) int {
	if i >= len(text) {
		return 1
	}
	_, n := utf8.DecodeRuneInString(text[i:])
	return n
}
