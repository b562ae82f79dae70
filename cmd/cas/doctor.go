package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-archive-search/internal/archive"
	"github.com/Zuo-Peng/chat-archive-search/internal/config"
	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
	"github.com/Zuo-Peng/chat-archive-search/internal/scan"
)

func doctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify dirs, exports and archives, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := a.cfg

			fmt.Fprintln(out, "=== Config ===")
			path := a.configPath
			if path == "" {
				path, _ = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(out, "  File: %s (loaded)\n", path)
			} else {
				fmt.Fprintf(out, "  File: %s (not found, using defaults)\n", path)
			}
			fmt.Fprintf(out, "  Results: %s\n", cfg.ResultsPath)
			fmt.Fprintf(out, "  Users:   %s\n", cfg.UsersPath)
			fmt.Fprintf(out, "  Name replacements: %d (enabled: %t)\n", len(cfg.Names.Replacements), cfg.Names.Enabled)

			fmt.Fprintln(out, "\n=== Directories ===")
			checkDir(out, "Input", cfg.InputDir)
			checkDir(out, "Chats", cfg.ChatsDir)

			fmt.Fprintln(out, "\n=== Exports ===")
			checkExports(out, cfg.InputDir)

			fmt.Fprintln(out, "\n=== Archives ===")
			checkArchives(out, cfg.ChatsDir)

			return nil
		},
	}
}

func checkDir(w io.Writer, name, path string) {
	if err := scan.CheckDir(path); err != nil {
		if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
			fmt.Fprintf(w, "  %s: %s (NOT A DIRECTORY)\n", name, path)
			return
		}
		fmt.Fprintf(w, "  %s: %s (NOT FOUND)\n", name, path)
		return
	}
	fmt.Fprintf(w, "  %s: %s (OK)\n", name, path)
}

func checkExports(w io.Writer, dir string) {
	files, err := scan.JSONFiles(dir)
	if err != nil {
		fmt.Fprintf(w, "  scan error: %v\n", err)
		return
	}

	var size uint64
	var items, records int
	for _, f := range files {
		size += uint64(f.Size)
		data, err := os.ReadFile(f.Path)
		if err != nil {
			fmt.Fprintf(w, "  %s: read error: %v\n", f.Name, err)
			continue
		}
		n, recs, err := archive.DecodeExport(data)
		switch {
		case errors.Is(err, archive.ErrNotArray):
			fmt.Fprintf(w, "  %s: NOT AN ARRAY (archive will fail)\n", f.Name)
		case err != nil:
			fmt.Fprintf(w, "  %s: INVALID (%v)\n", f.Name, err)
		default:
			items += n
			records += len(recs)
		}
	}

	fmt.Fprintf(w, "  JSON files: %d (%s)\n", len(files), humanize.Bytes(size))
	fmt.Fprintf(w, "  Items:      %s\n", humanize.Comma(int64(items)))
	fmt.Fprintf(w, "  Records:    %s\n", humanize.Comma(int64(records)))
}

func checkArchives(w io.Writer, dir string) {
	files, err := scan.TextFiles(dir)
	if err != nil {
		fmt.Fprintf(w, "  scan error: %v\n", err)
		return
	}

	var size uint64
	var blocks, messages, dropped int
	for _, f := range files {
		size += uint64(f.Size)
		res, err := parse.ParseFile(f.Path)
		if err != nil {
			fmt.Fprintf(w, "  %s: %v\n", f.Name, err)
			continue
		}
		fmt.Fprintf(w, "  %s: blocks=%d messages=%d dropped=%d\n", f.Name, res.Blocks, len(res.Messages), res.Dropped)
		blocks += res.Blocks
		messages += len(res.Messages)
		dropped += res.Dropped
	}

	fmt.Fprintf(w, "  Text files: %d (%s)\n", len(files), humanize.Bytes(size))
	fmt.Fprintf(w, "  Blocks:     %s\n", humanize.Comma(int64(blocks)))
	fmt.Fprintf(w, "  Messages:   %s\n", humanize.Comma(int64(messages)))
	if dropped > 0 {
		fmt.Fprintf(w, "  Dropped:    %s (blocks without a [timestamp] name header)\n", humanize.Comma(int64(dropped)))
	} else {
		fmt.Fprintln(w, "  Dropped:    0")
	}
}
