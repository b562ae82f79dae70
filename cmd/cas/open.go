package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-archive-search/internal/open"
)

func openCmd(a *app) *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <file.txt>",
		Short: "Open an archive file in $EDITOR at a line",
		Long: `Open an archive file in $EDITOR at a line. A bare file name is looked up
in the chats dir, so the "Found N entries in <file> on lines ..." summary of a
search report can be followed directly:

  cas open general.txt --line 120`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := open.ResolveArchive(a.cfg.ChatsDir, args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("opening archive", "path", path, "line", line)
			return open.AtLine(path, line)
		},
	}

	cmd.Flags().IntVarP(&line, "line", "n", 1, "Line to jump to")

	return cmd
}
