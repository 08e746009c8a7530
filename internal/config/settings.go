package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Settings represents the structure of $REPOTABS_HOME/settings.json
type Settings struct {
	AutoSwitchOnOpen   *bool       `json:"auto_switch_on_open,omitempty"`
	Debug              *bool       `json:"debug,omitempty"`
	Enabled            *bool       `json:"enabled,omitempty"`
	MaxLogFiles        *int        `json:"max_log_files,omitempty"`
	PreserveEditors    *bool       `json:"preserve_editors,omitempty"`
	RevealInExplorer   *bool       `json:"reveal_in_explorer,omitempty"`
	ScanSubdirectories *bool       `json:"scan_subdirectories,omitempty"`
	WorkspaceRoots     StringArray `json:"workspace_roots,omitempty"`
}

// Options is the resolved, defaulted view of Settings consumed by the tab
// engine. It is rebuilt on every poll so settings file edits take effect
// at the next operation.
type Options struct {
	AutoSwitchOnOpen   bool
	Enabled            bool
	PreserveEditors    bool
	RevealInExplorer   bool
	ScanSubdirectories bool
	WorkspaceRoots     []string
}

// Options resolves pointer fields against defaults
func (s *Settings) Options() Options {
	opts := Options{
		AutoSwitchOnOpen:   true,
		Enabled:            true,
		PreserveEditors:    false,
		RevealInExplorer:   true,
		ScanSubdirectories: false,
	}
	if s == nil {
		return opts
	}
	if s.AutoSwitchOnOpen != nil {
		opts.AutoSwitchOnOpen = *s.AutoSwitchOnOpen
	}
	if s.Enabled != nil {
		opts.Enabled = *s.Enabled
	}
	if s.PreserveEditors != nil {
		opts.PreserveEditors = *s.PreserveEditors
	}
	if s.RevealInExplorer != nil {
		opts.RevealInExplorer = *s.RevealInExplorer
	}
	if s.ScanSubdirectories != nil {
		opts.ScanSubdirectories = *s.ScanSubdirectories
	}
	for _, root := range s.WorkspaceRoots {
		opts.WorkspaceRoots = append(opts.WorkspaceRoots, ExpandPath(root))
	}
	return opts
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from $REPOTABS_HOME/settings.json.
// Returns empty Settings if file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings saves settings to $REPOTABS_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	if err := os.MkdirAll(GetHome(), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// FileSource re-reads settings.json on every poll. The engine asks for
// options at the start of each operation rather than caching them.
type FileSource struct {
	// Overrides, when set, win over the settings file (CLI flags)
	Overrides func(*Options)
}

// Current implements ports.SettingsSource
func (f *FileSource) Current() Options {
	settings, err := LoadSettings()
	if err != nil {
		settings = &Settings{}
	}
	opts := settings.Options()
	if f.Overrides != nil {
		f.Overrides(&opts)
	}
	return opts
}

// StaticSource returns fixed options on every poll (tests, serve command)
type StaticSource struct {
	Opts Options
}

// Current implements ports.SettingsSource
func (s *StaticSource) Current() Options {
	return s.Opts
}
