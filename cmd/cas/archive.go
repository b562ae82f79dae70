package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-archive-search/internal/archive"
)

func archiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Convert the JSON exports in the input dir into text archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			f := archive.Formatter{Names: a.normalizer()}
			chats := filepath.Base(a.cfg.ChatsDir)

			stats, err := f.All(a.cfg.InputDir, a.cfg.ChatsDir, a.logger, func(r archive.FileResult) {
				fmt.Fprintf(out, "%s -> %s/%s (json items: %d, written: %d)\n",
					filepath.Base(r.Input), chats, filepath.Base(r.Output), r.Items, r.Written)
			})
			if err != nil {
				return fmt.Errorf("archive: %w", err)
			}
			a.logger.Info("archive done", "stats", stats.String())

			fmt.Fprintln(out, "\nDone.")
			fmt.Fprintf(out, "Files processed: %d\n", stats.Files)
			fmt.Fprintf(out, "Total messages written: %d\n", stats.Messages)
			return nil
		},
	}
}
