package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-archive-search/internal/archive"
	"github.com/Zuo-Peng/chat-archive-search/internal/config"
	"github.com/Zuo-Peng/chat-archive-search/internal/logging"
)

var version = "dev"

// app carries the state shared by all subcommands once the root has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
}

func main() {
	a := &app{closeLog: func() error { return nil }}
	err := newRootCmd(a).Execute()
	a.closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cas",
		Short:         "Chat Archive Search - archive JSON chat exports as text and search them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/cas/config.toml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log level (debug/info/warn/error)")

	rootCmd.AddCommand(archiveCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(usersCmd(a))
	rootCmd.AddCommand(openCmd(a))
	rootCmd.AddCommand(doctorCmd(a))

	return rootCmd
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger, a.closeLog = logging.New(logging.Config{
		Level:  cfg.LogLevel,
		LogDir: cfg.LogDir,
		Stderr: stderr,
	})
	a.logger.Debug("config loaded", "input_dir", cfg.InputDir, "chats_dir", cfg.ChatsDir)
	return nil
}

// detachStderr rebuilds the logger without the stderr handler, for when a
// full-screen UI owns the terminal.
func (a *app) detachStderr() {
	a.closeLog()
	a.logger, a.closeLog = logging.New(logging.Config{
		Level:  a.cfg.LogLevel,
		LogDir: a.cfg.LogDir,
	})
}

func (a *app) normalizer() archive.Normalizer {
	return archive.NewNormalizer(a.cfg.Names.Enabled, a.cfg.Names.Replacements)
}
