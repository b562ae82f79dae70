package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-archive-search/internal/users"
)

func usersCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "Tally message authors across the JSON exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = a.cfg.UsersPath
			}

			tally, err := users.Collect(a.cfg.InputDir, a.normalizer(), a.logger)
			if err != nil {
				return fmt.Errorf("users: %w", err)
			}
			if err := users.WriteFile(outPath, tally); err != nil {
				return err
			}
			a.logger.Info("users report written", "path", outPath, "users", len(tally.Totals), "files", len(tally.Files))

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Report path (default users_path from config)")

	return cmd
}
