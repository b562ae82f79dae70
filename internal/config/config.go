package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Names struct {
	Enabled      bool              `toml:"enabled"`
	Replacements map[string]string `toml:"replacements"`
}

type Config struct {
	InputDir       string `toml:"input_dir"`
	ChatsDir       string `toml:"chats_dir"`
	ResultsPath    string `toml:"results_path"`
	UsersPath      string `toml:"users_path"`
	MaxLinesListed int    `toml:"max_lines_listed"`
	LogLevel       string `toml:"log_level"`
	LogDir         string `toml:"log_dir"`
	Names          Names  `toml:"names"`
}

// Default returns the configuration used when no config file exists:
// Input/ and Chats/ relative to the working directory.
func Default() *Config {
	return &Config{
		InputDir:       "Input",
		ChatsDir:       "Chats",
		ResultsPath:    "search_results.txt",
		UsersPath:      "users.txt",
		MaxLinesListed: 20,
		LogLevel:       "warn",
		Names: Names{
			Enabled: true,
			Replacements: map[string]string{
				"𓄧": "wnki", // U+13127
			},
		},
	}
}

// DefaultPath is ~/.config/cas/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cas", "config.toml"), nil
}

// Load reads the config at path on top of the defaults. An empty path means
// DefaultPath; a missing file at the default location is not an error.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, ".config", "cas", "config.toml")
	}
	path = expandHome(path, home)

	if _, err := os.Stat(path); err == nil {
		// a [names.replacements] table replaces the default one rather than
		// merging into it
		defaults := cfg.Names.Replacements
		cfg.Names.Replacements = nil
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if !md.IsDefined("names", "replacements") {
			cfg.Names.Replacements = defaults
		}
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	// expand ~ in paths
	cfg.InputDir = expandHome(cfg.InputDir, home)
	cfg.ChatsDir = expandHome(cfg.ChatsDir, home)
	cfg.ResultsPath = expandHome(cfg.ResultsPath, home)
	cfg.UsersPath = expandHome(cfg.UsersPath, home)
	cfg.LogDir = expandHome(cfg.LogDir, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.InputDir == "" {
		return errors.New("input_dir is required")
	}
	if c.ChatsDir == "" {
		return errors.New("chats_dir is required")
	}
	if c.ResultsPath == "" {
		return errors.New("results_path is required")
	}
	if c.UsersPath == "" {
		return errors.New("users_path is required")
	}
	if c.MaxLinesListed <= 0 {
		return fmt.Errorf("max_lines_listed must be positive, got %d", c.MaxLinesListed)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
