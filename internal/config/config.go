package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/imgajeed76/ivy/internal/input"
	"github.com/imgajeed76/ivy/internal/util"
)

// Config represents the user's config.toml
type Config struct {
	Editor  EditorConfig            `toml:"editor"`
	Sheet   SheetConfig             `toml:"sheet"`
	Theme   ThemeConfig             `toml:"theme"`
	Log     LogConfig               `toml:"log"`
	Keys    KeysConfig              `toml:"keys"`
	Remotes map[string]RemoteConfig `toml:"remote"`
}

// EditorConfig contains grid editor behaviour
type EditorConfig struct {
	PageSize        int `toml:"page_size" config:"editor.page_size" default:"30" min:"1" max:"1000" desc:"Rows moved by page up/down"`
	UndoLevels      int `toml:"undo_levels" config:"editor.undo_levels" default:"1000" min:"1" max:"100000" desc:"Undo history depth"`
	AutosaveSeconds int `toml:"autosave_seconds" config:"editor.autosave_seconds" default:"30" min:"0" max:"3600" desc:"Seconds between autosaves (0 = off)"`
	DoubleClickMs   int `toml:"double_click_ms" config:"editor.double_click_ms" default:"400" min:"50" max:"2000" desc:"Double click window in milliseconds"`
}

// SheetConfig contains defaults for sheets that carry no column flags
type SheetConfig struct {
	ReadOnlyColumns string `toml:"read_only_columns" config:"sheet.read_only_columns" default:"0,3,4" desc:"Comma-separated read-only column indices"`
	Timesheet       bool   `toml:"timesheet" config:"sheet.timesheet" default:"true" desc:"Apply timesheet rules to sheets with a timesheet header"`
}

// ThemeConfig contains editor colors
type ThemeConfig struct {
	ActiveColor   string `toml:"active_color" config:"theme.active_color" default:"#7C3AED" desc:"Active cell background"`
	EditColor     string `toml:"edit_color" config:"theme.edit_color" default:"#10B981" desc:"Cell background while editing"`
	ReadOnlyColor string `toml:"readonly_color" config:"theme.readonly_color" default:"#6B7280" desc:"Read-only cell text"`
}

// LogConfig contains logging settings
type LogConfig struct {
	File  string `toml:"file" config:"log.file" desc:"Log file (empty = state directory)"`
	Level string `toml:"level" config:"log.level" default:"info" desc:"debug, info, warn or error"`
}

// KeysConfig overrides default key bindings, one list of keys per op name
type KeysConfig struct {
	Navigate map[string][]string `toml:"navigate"`
	Edit     map[string][]string `toml:"edit"`
}

// RemoteConfig names a database that sheets can be pushed to
type RemoteConfig struct {
	URL string `toml:"url"` // PostgreSQL connection URL
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			PageSize:        30,
			UndoLevels:      1000,
			AutosaveSeconds: 30,
			DoubleClickMs:   400,
		},
		Sheet: SheetConfig{
			ReadOnlyColumns: "0,3,4",
			Timesheet:       true,
		},
		Theme: ThemeConfig{
			ActiveColor:   "#7C3AED",
			EditColor:     "#10B981",
			ReadOnlyColor: "#6B7280",
		},
		Log: LogConfig{
			Level: "info",
		},
		Remotes: make(map[string]RemoteConfig),
	}
}

// Path returns the config file location. IVY_CONFIG overrides it.
func Path() string {
	if p := os.Getenv("IVY_CONFIG"); p != "" {
		return p
	}
	return util.ConfigPath()
}

// Load reads the config file, falling back to defaults when it doesn't exist
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path over the defaults
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// Zero means "unset" for these; autosave 0 is a real value
	defaults := DefaultConfig()
	if cfg.Editor.PageSize == 0 {
		cfg.Editor.PageSize = defaults.Editor.PageSize
	}
	if cfg.Editor.UndoLevels == 0 {
		cfg.Editor.UndoLevels = defaults.Editor.UndoLevels
	}
	if cfg.Editor.DoubleClickMs == 0 {
		cfg.Editor.DoubleClickMs = defaults.Editor.DoubleClickMs
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Remotes == nil {
		cfg.Remotes = make(map[string]RemoteConfig)
	}

	return cfg, nil
}

// Save writes the config file to its default location
func (c *Config) Save() error {
	return c.SaveFile(Path())
}

// SaveFile writes the config to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// GetRemote returns a remote config by name
func (c *Config) GetRemote(name string) (RemoteConfig, bool) {
	remote, ok := c.Remotes[name]
	return remote, ok
}

// SetRemote adds or updates a remote
func (c *Config) SetRemote(name string, url string) {
	if c.Remotes == nil {
		c.Remotes = make(map[string]RemoteConfig)
	}
	c.Remotes[name] = RemoteConfig{URL: url}
}

// RemoveRemote removes a remote by name
func (c *Config) RemoveRemote(name string) bool {
	if _, ok := c.Remotes[name]; ok {
		delete(c.Remotes, name)
		return true
	}
	return false
}

// RemoteNames returns configured remote names in order
func (c *Config) RemoteNames() []string {
	names := make([]string, 0, len(c.Remotes))
	for n := range c.Remotes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ResolveURL turns a remote name into its URL. Anything that already looks
// like a connection URL is returned as is.
func (c *Config) ResolveURL(nameOrURL string) (string, error) {
	if strings.Contains(nameOrURL, "://") {
		return nameOrURL, nil
	}
	if r, ok := c.Remotes[nameOrURL]; ok && r.URL != "" {
		return r.URL, nil
	}
	return "", util.NewError(fmt.Sprintf("Unknown remote '%s'", nameOrURL)).
		WithSuggestions(
			fmt.Sprintf("ivy remote add %s <url>  # Register the database", nameOrURL),
			"ivy remote -v               # List remotes",
		)
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}

// ReadOnlyColumns parses sheet.read_only_columns into column indices
func (c *Config) ReadOnlyColumns() ([]int, error) {
	var cols []int
	for _, part := range strings.Split(c.Sheet.ReadOnlyColumns, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("read_only_columns: %q: %w", part, util.ErrInvalidColumnID)
		}
		cols = append(cols, n)
	}
	return cols, nil
}

// LogLevel parses log.level. Unknown names fall back to info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LogPath returns log.file or the default location in the state directory
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return util.DefaultLogPath()
}

// Autosave returns the autosave interval; zero disables autosave.
func (c *Config) Autosave() time.Duration {
	return time.Duration(c.Editor.AutosaveSeconds) * time.Second
}

// DoubleClick returns the double click window.
func (c *Config) DoubleClick() time.Duration {
	return time.Duration(c.Editor.DoubleClickMs) * time.Millisecond
}

// Keymaps returns the default key bindings with [keys.*] overrides applied.
// An unknown op name is an error carrying close matches.
func (c *Config) Keymaps() (input.Keymaps, error) {
	km := input.DefaultKeymaps()

	nav, err := km.Navigate.Override(c.Keys.Navigate)
	if err != nil {
		return km, err
	}
	edit, err := km.Edit.Override(c.Keys.Edit)
	if err != nil {
		return km, err
	}
	return input.Keymaps{Navigate: nav, Edit: edit}, nil
}
