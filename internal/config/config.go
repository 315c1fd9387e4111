package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "todotui"
	DefaultConfigFileName = "config.toml"
	DefaultTodoName       = "todo.txt"
	DefaultDoneName       = "done.txt"
	DefaultTrashName      = "trash.db"
	DefaultLogName        = "todotui.log"
	DefaultListShift      = 4
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Save         string `toml:"save"`
	Add          string `toml:"add"`
	Edit         string `toml:"edit"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	First        string `toml:"first"`
	Last         string `toml:"last"`
	SwapUp       string `toml:"swap_up"`
	SwapDown     string `toml:"swap_down"`
	Remove       string `toml:"remove"`
	Finish       string `toml:"finish"`
	ToggleFilter string `toml:"toggle_filter"`
	ClearFilters string `toml:"clear_filters"`
	NextWidget   string `toml:"next_widget"`
	PrevWidget   string `toml:"prev_widget"`
	Yank         string `toml:"yank"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
}

type Config struct {
	TodoPath    string `toml:"todo_path"`
	DonePath    string `toml:"done_path"`
	TrashPath   string `toml:"trash_db"`
	IncludeDone bool   `toml:"include_done"`
	ListShift   int    `toml:"list_shift"`
	ActiveColor string `toml:"active_color"`
	LogLevel    string `toml:"log_level"`
	LogPath     string `toml:"log_path"`
	Keys        Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TODOTUI_CONFIG, then <user config dir>/todotui/config.toml,
// falling back to the working directory.
func ResolveConfigPath() string {
	if env := strings.TrimSpace(os.Getenv("TODOTUI_CONFIG")); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative data paths resolve against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode toml: %w", err)
	}
	cfg.fillEmpty()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if c.ListShift < 0 {
		return fmt.Errorf("list_shift must be >= 0, got %d", c.ListShift)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	if strings.TrimSpace(c.TodoPath) == "" || strings.TrimSpace(c.DonePath) == "" {
		return errors.New("todo_path and done_path must be set")
	}
	return nil
}

func (c *Config) fillEmpty() {
	def := Default()
	if c.TodoPath == "" {
		c.TodoPath = def.TodoPath
	}
	if c.DonePath == "" {
		c.DonePath = def.DonePath
	}
	if c.TrashPath == "" {
		c.TrashPath = def.TrashPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.ActiveColor == "" {
		c.ActiveColor = def.ActiveColor
	}
}

func (c Config) resolve(base string) Config {
	c.TodoPath = resolvePath(base, c.TodoPath)
	c.DonePath = resolvePath(base, c.DonePath)
	c.TrashPath = resolvePath(base, c.TrashPath)
	if c.LogPath != "" {
		c.LogPath = resolvePath(base, c.LogPath)
	}
	return c
}

func resolvePath(base, p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the settings written on first launch.
func Default() Config {
	return Config{
		TodoPath:    DefaultTodoName,
		DonePath:    DefaultDoneName,
		TrashPath:   DefaultTrashName,
		IncludeDone: false,
		ListShift:   DefaultListShift,
		ActiveColor: "#FF5F87",
		LogLevel:    "info",
		LogPath:     DefaultLogName,
		Keys: Keymap{
			Quit:         "q",
			Save:         "w",
			Add:          "a",
			Edit:         "e",
			Up:           "k",
			Down:         "j",
			First:        "g",
			Last:         "G",
			SwapUp:       "U",
			SwapDown:     "D",
			Remove:       "x",
			Finish:       "d",
			ToggleFilter: "enter",
			ClearFilters: "c",
			NextWidget:   "tab",
			PrevWidget:   "shift+tab",
			Yank:         "y",
			Confirm:      "enter",
			Cancel:       "esc",
		},
	}
}
