package config

import (
	"os"
	"path/filepath"
)

// GetHome returns REPOTABS_HOME or ~/.repotabs default
func GetHome() string {
	home := os.Getenv("REPOTABS_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".repotabs"
		}
		return filepath.Join(homeDir, ".repotabs")
	}
	return ExpandPath(home)
}

// GetDBPath returns $REPOTABS_HOME/state.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "state.db")
}

// GetSettingsPath returns $REPOTABS_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
