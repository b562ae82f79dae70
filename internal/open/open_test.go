package open

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		want   []string
	}{
		{"vim", []string{"vim", "+12", "f.txt"}},
		{"/usr/bin/nvim", []string{"/usr/bin/nvim", "+12", "f.txt"}},
		{"code", []string{"code", "--goto", "f.txt:12"}},
		{"less", []string{"less", "+12", "f.txt"}},
		{"nano", []string{"nano", "f.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.editor, func(t *testing.T) {
			cmd := editorCommand(tt.editor, "f.txt", 12)
			assert.Equal(t, tt.want, cmd.Args)
		})
	}
}

func TestResolveArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	got, err := ResolveArchive(dir, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = ResolveArchive("elsewhere", path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = ResolveArchive(dir, "missing.txt")
	assert.ErrorContains(t, err, "file not found")
}
