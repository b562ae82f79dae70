package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var (
	ErrMissingDir = errors.New("directory not found")
	ErrNoFiles    = errors.New("no eligible files")
)

type FileInfo struct {
	Path string
	Name string
	Size int64
}

// JSONFiles lists the *.json exports in dir, sorted by name.
func JSONFiles(dir string) ([]FileInfo, error) {
	return list(dir, ".json")
}

// TextFiles lists the *.txt archives in dir, sorted by name.
func TextFiles(dir string) ([]FileInfo, error) {
	return list(dir, ".txt")
}

// CheckDir reports whether dir exists and is a directory.
func CheckDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", dir, ErrMissingDir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, ErrMissingDir)
	}
	return nil
}

func list(dir, ext string) ([]FileInfo, error) {
	if err := CheckDir(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []FileInfo
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ext {
			continue
		}
		path := filepath.Join(dir, e.Name())
		// follow symlinks; only regular files count
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, FileInfo{
			Path: path,
			Name: e.Name(),
			Size: info.Size(),
		})
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no *%s files found in %s: %w", ext, dir, ErrNoFiles)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
