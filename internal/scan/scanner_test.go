package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestTextFiles_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.txt"), "bb")
	touch(t, filepath.Join(dir, "a.txt"), "a")
	touch(t, filepath.Join(dir, "c.json"), "[]")
	touch(t, filepath.Join(dir, "notes.TXT"), "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.txt"), 0o755))

	files, err := TextFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, "b.txt", files[1].Name)
	assert.Equal(t, int64(2), files[1].Size)
	assert.Equal(t, filepath.Join(dir, "a.txt"), files[0].Path)
}

func TestJSONFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.json"), "[]")
	touch(t, filepath.Join(dir, "m.json"), "[]")

	files, err := JSONFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "m.json", files[0].Name)
}

func TestList_FatalPreconditions(t *testing.T) {
	_, err := TextFiles(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrMissingDir)

	_, err = TextFiles(t.TempDir())
	assert.ErrorIs(t, err, ErrNoFiles)

	file := filepath.Join(t.TempDir(), "plain")
	touch(t, file, "")
	assert.ErrorIs(t, CheckDir(file), ErrMissingDir)
}
