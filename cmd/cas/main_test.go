package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type workspace struct {
	dir    string
	config string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Input"), 0o755))

	cfg := fmt.Sprintf(`input_dir = %q
chats_dir = %q
results_path = %q
users_path = %q
log_level = "error"
`,
		filepath.Join(dir, "Input"),
		filepath.Join(dir, "Chats"),
		filepath.Join(dir, "search_results.txt"),
		filepath.Join(dir, "users.txt"))
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return workspace{dir: dir, config: path}
}

func (w workspace) export(t *testing.T, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(w.dir, "Input", name), []byte(body), 0o644))
}

func (w workspace) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(w.dir, rel))
	require.NoError(t, err)
	return string(data)
}

func (w workspace) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	a := &app{closeLog: func() error { return nil }}
	defer func() { a.closeLog() }()

	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", w.config}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

const general = `[
	{"timestamp": "2024-01-02T09:00:00+00:00", "author": {"id": "2", "username": "bo", "global_name": "Bob"}, "content": "second day"},
	{"timestamp": "2024-01-01T09:00:00+00:00", "author": {"id": "1", "username": "al", "global_name": "Alice"}, "content": "hello cat",
	 "attachments": [{"filename": "cat.PNG", "proxy_url": "https://cdn/cat.png"}]},
	{"timestamp": "", "author": {"id": "1", "username": "al", "global_name": "Alice"}, "content": "no time"}
]`

func TestArchiveSearchUsers(t *testing.T) {
	w := newWorkspace(t)
	w.export(t, "general.json", general)

	out, _, err := w.run(t, "archive")
	require.NoError(t, err)
	assert.Contains(t, out, "general.json -> Chats/general.txt (json items: 3, written: 3)")
	assert.Contains(t, out, "Files processed: 1")
	assert.Contains(t, out, "Total messages written: 3")

	archived := w.read(t, "Chats/general.txt")
	assert.True(t, strings.HasPrefix(archived, "[2024-01-01T09:00:00+00:00] Alice\nhello cat\nAttachment: cat.PNG\n"))
	assert.Contains(t, archived, "[NO_TIMESTAMP] Alice\nno time\n")

	out, _, err = w.run(t, "search", "--no-tui", "--date", "2/1/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "Total messages read: 3")
	assert.Contains(t, out, "Matches: 1")
	assert.Contains(t, out, "Wrote: "+filepath.Join(w.dir, "search_results.txt"))

	rep := w.read(t, "search_results.txt")
	assert.Contains(t, rep, "- Date: 2024-01-02\n")
	assert.Contains(t, rep, "Found 1 entries in general.txt on lines 6\n")
	assert.True(t, strings.HasSuffix(rep, "[2024-01-02T09:00:00+00:00] Bob\nsecond day\n\n"))

	out, _, err = w.run(t, "search", "--no-tui", "--has-attachment", "y", "--ext", ".png", "--preview")
	require.NoError(t, err)
	assert.Contains(t, out, "hello cat")
	assert.Contains(t, out, "Matches: 1")

	out, _, err = w.run(t, "users")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote: ")
	assert.True(t, strings.HasPrefix(w.read(t, "users.txt"),
		"Unique users:\nAlice, total entries 2, username al, ID 1\nBob, total entries 1, username bo, ID 2\n"))
}

func TestSearch_WarningsAndSuggestions(t *testing.T) {
	w := newWorkspace(t)
	w.export(t, "general.json", general)
	_, _, err := w.run(t, "archive")
	require.NoError(t, err)

	out, errOut, err := w.run(t, "search", "--no-tui", "--date", "31/31/2024", "--name", "alce")
	require.NoError(t, err)
	assert.Contains(t, errOut, "ignoring date filter")
	assert.Contains(t, errOut, `No messages from "alce". Did you mean: Alice?`)
	assert.Contains(t, out, "Matches: 0")
	assert.Contains(t, w.read(t, "search_results.txt"), "(No matches.)")
}

func TestSearch_WarningPrintedOnceAtWarnLevel(t *testing.T) {
	w := newWorkspace(t)
	w.export(t, "general.json", general)
	_, _, err := w.run(t, "archive")
	require.NoError(t, err)

	_, errOut, err := w.run(t, "--log-level", "warn", "search", "--no-tui", "--date", "31/31/2024")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(errOut, "ignoring date filter"), errOut)
	assert.Contains(t, errOut, "Warning: ")
}

func TestSearch_CriteriaFile(t *testing.T) {
	w := newWorkspace(t)
	w.export(t, "general.json", general)
	_, _, err := w.run(t, "archive")
	require.NoError(t, err)

	criteria := filepath.Join(w.dir, "criteria.yaml")
	require.NoError(t, os.WriteFile(criteria, []byte("name: alice\ncontains: '\"cat\"'\n"), 0o644))

	out, _, err := w.run(t, "search", "--no-tui", "--criteria", criteria)
	require.NoError(t, err)
	assert.Contains(t, out, "Matches: 1")
	assert.Contains(t, w.read(t, "search_results.txt"), "- Content contains: \"cat\"\n")

	// flags win over the file
	out, _, err = w.run(t, "search", "--no-tui", "--criteria", criteria, "--name", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Matches: 0")
}

func TestFatalPreconditions(t *testing.T) {
	w := newWorkspace(t)

	_, _, err := w.run(t, "archive")
	assert.ErrorContains(t, err, "no *.json files")

	_, _, err = w.run(t, "search", "--no-tui")
	assert.ErrorContains(t, err, "directory not found")

	w.export(t, "bad.json", `{"messages": []}`)
	_, _, err = w.run(t, "archive")
	assert.ErrorContains(t, err, "bad.json")
	assert.ErrorContains(t, err, "expected top-level JSON array")
}

func TestDoctor(t *testing.T) {
	w := newWorkspace(t)
	w.export(t, "general.json", general)
	_, _, err := w.run(t, "archive")
	require.NoError(t, err)

	out, _, err := w.run(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "(loaded)")
	assert.Contains(t, out, "general.txt: blocks=3 messages=3 dropped=0")
	assert.Contains(t, out, "JSON files: 1")
	assert.Contains(t, out, "Items:      3")
}

func TestBadConfig(t *testing.T) {
	w := newWorkspace(t)
	require.NoError(t, os.WriteFile(w.config, []byte("max_lines_listed = 0\n"), 0o644))

	_, _, err := w.run(t, "doctor")
	assert.ErrorContains(t, err, "max_lines_listed")

	_, _, err = w.run(t, "--log-level", "loud", "doctor")
	assert.Error(t, err)
}
