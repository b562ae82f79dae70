package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
	"github.com/Zuo-Peng/chat-archive-search/internal/search"
)

// parsed runs archive text through the real parser so raw blocks are exact.
func parsed(t *testing.T, file string, blocks ...string) []parse.Message {
	t.Helper()
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(blk + "\n" + parse.Divider + "\n")
	}
	res := parse.ParseText(file, b.String())
	require.Len(t, res.Messages, len(blocks))
	return res.Messages
}

func bodyOnly(t *testing.T, report string) string {
	t.Helper()
	marker := banner + "\nMatched messages (sorted by timestamp):\n" + banner + "\n\n"
	i := strings.Index(report, marker)
	require.GreaterOrEqual(t, i, 0)
	return report[i+len(marker):]
}

func withoutBanners(body string) string {
	var kept []string
	lines := strings.SplitAfter(body, "\n")
	for i := 0; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\n") == banner {
			// banner, file name, banner, blank line
			i += 3
			continue
		}
		kept = append(kept, lines[i])
	}
	return strings.Join(kept, "")
}

func TestStripTrailingDivider(t *testing.T) {
	assert.Equal(t, "[ts] a\nhi\n", StripTrailingDivider("[ts] a\nhi\n"+parse.Divider+"\n"))
	assert.Equal(t, "[ts] a\n", StripTrailingDivider("[ts] a\n"+parse.Divider+"\n\n  \n"))
	assert.Equal(t, "[ts] a\n", StripTrailingDivider("[ts] a"))
	assert.Equal(t, "", StripTrailingDivider(parse.Divider+"\n"))
	assert.Equal(t, "", StripTrailingDivider(""))
	assert.Equal(t, "x\n"+parse.Divider+"\n", StripTrailingDivider("x\n"+parse.Divider+"\n"+parse.Divider+"\n"),
		"only one divider is removed")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Per-file summary:\n(No matches.)\n", Summary(nil, 20))

	msgs := []parse.Message{
		{SourceFile: "b.txt", StartLine: 9},
		{SourceFile: "B.txt", StartLine: 1},
		{SourceFile: "a.txt", StartLine: 7},
		{SourceFile: "b.txt", StartLine: 3},
	}
	want := "Per-file summary:\n" +
		"Found 2 entries in b.txt on lines 3, 9\n" +
		"Found 1 entries in a.txt on lines 7\n" +
		"Found 1 entries in B.txt on lines 1\n"
	assert.Equal(t, want, Summary(msgs, 20))
}

func TestSummary_CapsListedLines(t *testing.T) {
	var msgs []parse.Message
	for i := 25; i >= 1; i-- {
		msgs = append(msgs, parse.Message{SourceFile: "big.txt", StartLine: i * 2})
	}

	got := Summary(msgs, 20)
	nums := make([]string, 20)
	for i := range nums {
		nums[i] = fmt.Sprint((i + 1) * 2)
	}
	want := "Per-file summary:\nFound 25 entries in big.txt on lines " + strings.Join(nums, ", ") + ", ... (+5 more)\n"
	assert.Equal(t, want, got)

	assert.Contains(t, Summary(msgs, 0), "(+5 more)", "non-positive cap falls back to the default")
	assert.Contains(t, Summary(msgs, 3), "on lines 2, 4, 6, ... (+22 more)")
}

func TestSummary_SingleDateMatch(t *testing.T) {
	msgs := parsed(t, "a.txt",
		"[2024-01-01T00:00:00] alice\nfirst",
		"[2024-01-02T00:00:00] bob\nsecond",
	)
	c, _ := search.BuildCriteria(search.Input{Date: "2/1/2024"})
	matched := search.Filter(msgs, c)

	require.Len(t, matched, 1)
	assert.Equal(t, "Per-file summary:\nFound 1 entries in a.txt on lines 4\n", Summary(matched, 20))
}

func TestTotalChars_TwoMatchesOneFile(t *testing.T) {
	msgs := parsed(t, "a.txt",
		"[2024-01-01T00:00:00] alice\nfirst",
		"[2024-01-02T00:00:00] bob\nsecond",
	)

	want := len(msgs[0].RawBlock) + 1 + len(StripTrailingDivider(msgs[1].RawBlock)) + 1
	assert.Equal(t, want, TotalChars(msgs))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, search.Criteria{}, msgs, Options{MaxLinesListed: 20}))

	body := withoutBanners(bodyOnly(t, buf.String()))
	assert.Equal(t, want, len(body))
	assert.Contains(t, buf.String(), fmt.Sprintf("\nTotal 2 entries, with %d characters.\n", want))
}

func TestTotalChars_CountsCodePoints(t *testing.T) {
	msgs := parsed(t, "a.txt", "[2024-01-01] 𓄧\nnaïve café")

	block := StripTrailingDivider(msgs[0].RawBlock)
	assert.Equal(t, utf8.RuneCountInString(block)+1, TotalChars(msgs))
	assert.Less(t, TotalChars(msgs), len(block)+1)
	assert.Equal(t, 0, TotalChars(nil))
}

func TestWrite_Layout(t *testing.T) {
	a := parsed(t, "a.txt",
		"[2024-01-01] alice\nfrom a",
		"[2024-01-03] alice\nfrom a again",
	)
	b := parsed(t, "b.txt", "[2024-01-02] bob\nfrom b")

	matched := search.Filter(append(a, b...), search.Criteria{})
	c, _ := search.BuildCriteria(search.Input{Contains: `"from"`, HasAttachment: "n"})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c, matched, Options{}))

	want := "Search filters used:\n" +
		"- Date: ANY\n" +
		"- Global name: ANY\n" +
		"- Content contains: \"from\"\n" +
		"- Exclude content: ANY\n" +
		"- Has attachment: False\n" +
		"- Attachment type/ext: ANY\n" +
		"\n" +
		"Per-file summary:\n" +
		"Found 2 entries in a.txt on lines 1, 4\n" +
		"Found 1 entries in b.txt on lines 1\n" +
		"\n" +
		fmt.Sprintf("Total 3 entries, with %d characters.\n", TotalChars(matched)) +
		"\n" +
		banner + "\nMatched messages (sorted by timestamp):\n" + banner + "\n\n" +
		banner + "\na.txt\n" + banner + "\n\n" +
		"[2024-01-01] alice\nfrom a\n" + parse.Divider + "\n\n" +
		banner + "\nb.txt\n" + banner + "\n\n" +
		"[2024-01-02] bob\nfrom b\n\n" +
		banner + "\na.txt\n" + banner + "\n\n" +
		"[2024-01-03] alice\nfrom a again\n\n"

	assert.Equal(t, want, buf.String())
}

// The divider is stripped from the block that is last for its file in the
// timestamp order, even when interleaving puts that block under a later
// banner than the file's other blocks.
func TestBlocks_LastInFileGroupFollowsSortedOrder(t *testing.T) {
	a := parsed(t, "a.txt",
		"[2024-01-01] alice\none",
		"[2024-01-04] alice\nfour",
	)
	b := parsed(t, "b.txt",
		"[2024-01-02] bob\ntwo",
		"[2024-01-03] bob\nthree",
	)
	matched := search.Filter(append(a, b...), search.Criteria{})

	blocks := Blocks(matched)
	require.Len(t, blocks, 4)
	assert.True(t, strings.HasSuffix(blocks[0], parse.Divider+"\n"), "a.txt first block keeps divider")
	assert.True(t, strings.HasSuffix(blocks[1], parse.Divider+"\n"), "b.txt first block keeps divider")
	assert.Equal(t, "[2024-01-03] bob\nthree\n", blocks[2])
	assert.Equal(t, "[2024-01-04] alice\nfour\n", blocks[3])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search_results.txt")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are longer than the new report will be"), 0o644))

	require.NoError(t, WriteFile(path, search.Criteria{}, nil, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "Matched messages (sorted by timestamp):\n"+banner+"\n\n"))
	assert.Contains(t, string(data), "(No matches.)")
	assert.Contains(t, string(data), "Total 0 entries, with 0 characters.")

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "r.txt"), search.Criteria{}, nil, Options{})
	assert.Error(t, err)
}
