package domain

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StateVersion is the persisted-state schema version. Loading a snapshot
// with a different version discards it entirely; there is no migration.
const StateVersion = 1

// ViewState captures cursor and scroll position for one document
type ViewState struct {
	CursorColumn  int
	CursorLine    int
	ScrollTopLine int
}

// RepoTab represents one tracked repository with its isolated editor state
// (domain entity)
type RepoTab struct {
	ActiveEditor string               // URI of last focused document, "" if none
	FolderPath   string               // absolute path, natural key
	FolderURI    string               // file:// form of FolderPath
	GitBranch    string               // branch name or short revision, "" if untracked
	GitDirty     bool
	ID           string               // stable opaque id, assigned once at creation
	Icon         TabIcon
	Name         string               // display name, folder basename
	OpenEditors  []string             // document URIs in host tab order
	ViewStates   map[string]ViewState // keyed by document URI
}

// NewRepoTab creates a tab for a repository path with a fresh id
func NewRepoTab(folderPath string, icon TabIcon) RepoTab {
	return RepoTab{
		FolderPath: folderPath,
		FolderURI:  PathToURI(folderPath),
		ID:         uuid.New().String(),
		Icon:       icon,
		Name:       filepath.Base(folderPath),
		ViewStates: make(map[string]ViewState),
	}
}

// HasEditor reports whether uri is already tracked as open
func (t *RepoTab) HasEditor(uri string) bool {
	for _, open := range t.OpenEditors {
		if open == uri {
			return true
		}
	}
	return false
}

// AppendEditor records uri as open, preserving order and uniqueness
func (t *RepoTab) AppendEditor(uri string) {
	if t.HasEditor(uri) {
		return
	}
	t.OpenEditors = append(t.OpenEditors, uri)
}

// RemoveEditor drops uri from the open list and its view state entry.
// Returns true if anything changed.
func (t *RepoTab) RemoveEditor(uri string) bool {
	changed := false
	for i, open := range t.OpenEditors {
		if open == uri {
			t.OpenEditors = append(t.OpenEditors[:i], t.OpenEditors[i+1:]...)
			changed = true
			break
		}
	}
	if _, ok := t.ViewStates[uri]; ok {
		delete(t.ViewStates, uri)
		changed = true
	}
	if t.ActiveEditor == uri {
		t.ActiveEditor = ""
		changed = true
	}
	return changed
}

// Owns reports whether path falls under this tab's folder
func (t *RepoTab) Owns(path string) bool {
	return isPathPrefix(t.FolderPath, path)
}

// PersistedState is the durable snapshot of the whole store
type PersistedState struct {
	ActiveTabID string // "" when no tab is active
	Tabs        []RepoTab
	Version     int
}

// FindOwner returns the index of the tab whose FolderPath is the longest
// path-prefix of filePath. With nested repositories more than one tab can
// match; the most specific one wins. Returns -1 when no tab owns the path.
func FindOwner(tabs []RepoTab, filePath string) int {
	best := -1
	bestLen := -1
	for i := range tabs {
		if !isPathPrefix(tabs[i].FolderPath, filePath) {
			continue
		}
		if len(tabs[i].FolderPath) > bestLen {
			best = i
			bestLen = len(tabs[i].FolderPath)
		}
	}
	return best
}

// PathContains reports whether dir contains path (or equals it),
// respecting path component boundaries
func PathContains(dir, path string) bool {
	return isPathPrefix(dir, path)
}

// isPathPrefix reports whether dir contains path, respecting path component
// boundaries ("/a/b" does not contain "/a/bc").
func isPathPrefix(dir, path string) bool {
	if dir == "" {
		return false
	}
	dir = filepath.Clean(dir)
	path = filepath.Clean(path)
	if dir == path {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
