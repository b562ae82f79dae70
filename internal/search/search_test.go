package search

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
	"github.com/Zuo-Peng/chat-archive-search/internal/scan"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeArchive(t *testing.T, dir, name string, blocks ...string) {
	t.Helper()
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(blk)
		b.WriteString("\n" + parse.Divider + "\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644))
}

func TestRun_DateFilter(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "a.txt",
		"[2024-01-01T09:00:00] alice\nhappy new year",
		"[2024-01-02T09:00:00] bob\nback to work",
	)

	c, warnings := BuildCriteria(Input{Date: "2/1/2024"})
	require.Empty(t, warnings)

	res, err := Run(dir, c, quiet)
	require.NoError(t, err)
	require.Len(t, res.Matched, 1)
	assert.Equal(t, "bob", res.Matched[0].Name)
	assert.Equal(t, 4, res.Matched[0].StartLine)
	assert.Equal(t, Stats{Files: 1, Blocks: 2, Read: 2, Matched: 1}, res.Stats)
}

func TestRun_LoadsFilesInNameOrderAndSortsStable(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "b.txt",
		"[2024-01-02] carol\nfrom b",
		"[2024-01-01] dave\nfrom b early",
	)
	writeArchive(t, dir, "a.txt",
		"[2024-01-02] alice\nfrom a",
		"not a header",
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("[2024-01-01] x\n"), 0o644))

	res, err := Run(dir, Criteria{}, quiet)
	require.NoError(t, err)

	var loaded []string
	for _, m := range res.Messages {
		loaded = append(loaded, m.SourceFile+":"+m.Name)
	}
	assert.Equal(t, []string{"a.txt:alice", "b.txt:carol", "b.txt:dave"}, loaded)

	var order []string
	for _, m := range res.Matched {
		order = append(order, m.Name)
	}
	// equal timestamps keep load order: alice (a.txt) before carol (b.txt)
	assert.Equal(t, []string{"dave", "alice", "carol"}, order)
	assert.Equal(t, 1, res.Stats.Dropped)
	assert.Equal(t, res.Stats.Blocks, res.Stats.Read+res.Stats.Dropped)
}

func TestRun_FatalPreconditions(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "missing"), Criteria{}, quiet)
	assert.ErrorIs(t, err, scan.ErrMissingDir)

	_, err = Run(t.TempDir(), Criteria{}, quiet)
	assert.ErrorIs(t, err, scan.ErrNoFiles)
}

func TestSuggestNames(t *testing.T) {
	messages := []parse.Message{{Name: "alice"}, {Name: "Alicia"}, {Name: "bob"}, {Name: "alice"}}

	got := SuggestNames(messages, "alc", 3)
	assert.ElementsMatch(t, []string{"alice", "Alicia"}, got)

	assert.Len(t, SuggestNames(messages, "a", 1), 1)
	assert.Empty(t, SuggestNames(messages, "zzz", 3))
}
