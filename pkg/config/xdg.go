package config

import (
	"os"
	"path/filepath"
)

// AppName is used for the configuration directory and environment prefix.
const AppName = "hsimp"

// ConfigFileNames lists the override files searched for, in order.
var ConfigFileNames = []string{"config.yaml", "config.yml", "config.toml", "config.json"}

// XDGConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigDir returns the directory holding hsimp configuration.
func DefaultConfigDir() string {
	return filepath.Join(XDGConfigHome(), AppName)
}

// FindConfigFile returns the first existing override file in dir, or "" when
// there is none.
func FindConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
