package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	var settings *Settings
	opts := settings.Options()

	assert.True(t, opts.AutoSwitchOnOpen)
	assert.True(t, opts.Enabled)
	assert.False(t, opts.PreserveEditors)
	assert.True(t, opts.RevealInExplorer)
	assert.False(t, opts.ScanSubdirectories)
	assert.Empty(t, opts.WorkspaceRoots)
}

func TestOptions_OverridesDefaults(t *testing.T) {
	f := false
	tr := true
	settings := &Settings{
		AutoSwitchOnOpen:   &f,
		Enabled:            &f,
		PreserveEditors:    &tr,
		ScanSubdirectories: &tr,
		WorkspaceRoots:     StringArray{"/work"},
	}

	opts := settings.Options()
	assert.False(t, opts.AutoSwitchOnOpen)
	assert.False(t, opts.Enabled)
	assert.True(t, opts.PreserveEditors)
	assert.True(t, opts.ScanSubdirectories)
	assert.Equal(t, []string{"/work"}, opts.WorkspaceRoots)
}

func TestStringArray_UnmarshalFormats(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected StringArray
	}{
		{
			name:     "json array",
			input:    `["/a", "/b"]`,
			expected: StringArray{"/a", "/b"},
		},
		{
			name:     "comma separated string",
			input:    `"/a, /b"`,
			expected: StringArray{"/a", "/b"},
		},
		{
			name:     "empty string",
			input:    `""`,
			expected: StringArray{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sa StringArray
			require.NoError(t, json.Unmarshal([]byte(tt.input), &sa))
			assert.Equal(t, tt.expected, sa)
		})
	}
}

func TestFileSource_AppliesOverrides(t *testing.T) {
	t.Setenv("REPOTABS_HOME", t.TempDir())

	source := &FileSource{Overrides: func(o *Options) {
		o.ScanSubdirectories = true
		o.WorkspaceRoots = []string{"/flag-root"}
	}}

	opts := source.Current()
	assert.True(t, opts.ScanSubdirectories)
	assert.Equal(t, []string{"/flag-root"}, opts.WorkspaceRoots)
}

func TestSaveAndLoadSettings_RoundTrip(t *testing.T) {
	t.Setenv("REPOTABS_HOME", t.TempDir())

	tr := true
	require.NoError(t, SaveSettings(&Settings{
		ScanSubdirectories: &tr,
		WorkspaceRoots:     StringArray{"/work/projects"},
	}))

	loaded, err := LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, loaded.ScanSubdirectories)
	assert.True(t, *loaded.ScanSubdirectories)
	assert.Equal(t, StringArray{"/work/projects"}, loaded.WorkspaceRoots)
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("REPOTABS_HOME", t.TempDir())

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.True(t, settings.Options().Enabled)
}
