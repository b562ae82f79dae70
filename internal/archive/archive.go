package archive

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/chat-archive-search/internal/scan"
)

type Stats struct {
	Files    int
	Items    int
	Messages int
}

func (s Stats) String() string {
	return fmt.Sprintf("files=%d items=%d written=%d", s.Files, s.Items, s.Messages)
}

// FileResult describes one converted export.
type FileResult struct {
	Input   string
	Output  string
	Items   int
	Written int
}

// File converts one JSON export into an archive text file, overwriting it.
func (f Formatter) File(inputPath, outputPath string) (FileResult, error) {
	res := FileResult{Input: inputPath, Output: outputPath}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return res, fmt.Errorf("read export: %w", err)
	}
	data = []byte(strings.ToValidUTF8(string(data), "\uFFFD"))

	items, records, err := DecodeExport(data)
	if err != nil {
		return res, fmt.Errorf("%s: %w", filepath.Base(inputPath), err)
	}
	res.Items = items

	SortChronological(records)

	out, err := os.Create(outputPath)
	if err != nil {
		return res, fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, r := range records {
		w.WriteString(f.Format(r))
		w.WriteString("\n")
		res.Written++
	}
	if err := w.Flush(); err != nil {
		return res, fmt.Errorf("write archive: %w", err)
	}
	return res, out.Close()
}

// All converts every export in inputDir into chatsDir/<stem>.txt. onFile is
// called after each file; it may be nil.
func (f Formatter) All(inputDir, chatsDir string, logger *slog.Logger, onFile func(FileResult)) (Stats, error) {
	var stats Stats

	files, err := scan.JSONFiles(inputDir)
	if err != nil {
		return stats, err
	}

	if err := os.MkdirAll(chatsDir, 0o755); err != nil {
		return stats, fmt.Errorf("create chats dir: %w", err)
	}

	for _, fi := range files {
		outName := strings.TrimSuffix(fi.Name, filepath.Ext(fi.Name)) + ".txt"
		res, err := f.File(fi.Path, filepath.Join(chatsDir, outName))
		if err != nil {
			return stats, err
		}
		logger.Debug("export archived", "input", fi.Name, "output", outName, "items", res.Items, "written", res.Written)

		stats.Files++
		stats.Items += res.Items
		stats.Messages += res.Written
		if onFile != nil {
			onFile(res)
		}
	}
	return stats, nil
}
