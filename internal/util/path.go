package util

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	AppDir     = "ivy"
	ConfigFile = "config.toml"
	LogFile    = "ivy.log"
	SyncFile   = "sync.toml"
)

// ConfigDir returns the directory holding ivy's config file.
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", AppDir)
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), AppDir)
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDir)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", AppDir)
	}
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFile)
}

// StateDir returns the directory for logs and other runtime state.
func StateDir() string {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDir)
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "state", AppDir)
	}
	return ConfigDir()
}

// DefaultLogPath returns where the log file goes when none is configured.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), LogFile)
}

// SheetName derives a sheet name from a file path ("work/2024-03.csv" -> "2024-03").
func SheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
