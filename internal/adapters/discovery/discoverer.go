package discovery

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repotabs/internal/domain"
	"repotabs/internal/logging"
	"repotabs/internal/ports"
)

// repoMarkers is the ordered set of artifacts that make a directory count
// as a repository: version-control metadata first, then package/module
// manifests, then build-system manifests.
var repoMarkers = []string{
	".git",
	"package.json",
	"go.mod",
	"Cargo.toml",
	"pyproject.toml",
	"setup.py",
	"requirements.txt",
	"pom.xml",
	"build.gradle",
	"build.gradle.kts",
	"CMakeLists.txt",
	"Makefile",
}

// denyList names build-artifact and dependency folders that are never
// scanned or classified
var denyList = map[string]bool{
	"bin":          true,
	"build":        true,
	"dist":         true,
	"node_modules": true,
	"out":          true,
	"target":       true,
	"vendor":       true,
}

// Discoverer classifies directories as repositories using marker files
type Discoverer struct{}

// Verify interface compliance at compile time
var _ ports.Discoverer = (*Discoverer)(nil)

// NewDiscoverer creates a marker-file Discoverer
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// Discover implements ports.Discoverer.Discover
func (d *Discoverer) Discover(roots []string, scanSubdirectories bool) []string {
	seen := make(map[string]bool)
	var found []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			found = append(found, path)
		}
	}

	for _, root := range roots {
		root = filepath.Clean(root)
		if skipDir(filepath.Base(root)) {
			continue
		}
		if d.IsRepository(root) {
			add(root)
		}
		if !scanSubdirectories {
			continue
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			// Unreadable root: treat as containing nothing
			logging.Logger.Debug("Workspace root unreadable", "root", root, "error", err)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || skipDir(entry.Name()) {
				continue
			}
			sub := filepath.Join(root, entry.Name())
			if d.IsRepository(sub) {
				add(sub)
			}
		}
	}

	sort.Strings(found)
	return found
}

// IsRepository implements ports.Discoverer.IsRepository
func (d *Discoverer) IsRepository(path string) bool {
	for _, marker := range repoMarkers {
		if _, err := os.Stat(filepath.Join(path, marker)); err == nil {
			return true
		}
	}
	return false
}

// Classify implements ports.Discoverer.Classify. The rule order is fixed:
// frontend-framework markers before the generic package manifest, before
// the bare version-control marker, before the folder fallback.
func (d *Discoverer) Classify(path string) domain.TabIcon {
	if exists(path, "angular.json") {
		return domain.IconAngular
	}
	if exists(path, "package.json") {
		switch {
		case hasPackageDependency(path, "react"):
			return domain.IconReact
		case hasPackageDependency(path, "vue") || exists(path, "vue.config.js"):
			return domain.IconVue
		default:
			return domain.IconNode
		}
	}
	if exists(path, "go.mod") {
		return domain.IconGo
	}
	if exists(path, "Cargo.toml") {
		return domain.IconRust
	}
	if exists(path, "pyproject.toml") || exists(path, "setup.py") || exists(path, "requirements.txt") {
		return domain.IconPython
	}
	if exists(path, "pom.xml") || exists(path, "build.gradle") || exists(path, "build.gradle.kts") {
		return domain.IconJava
	}
	if exists(path, ".git") {
		return domain.IconGit
	}
	return domain.IconFolder
}

// skipDir reports whether a directory name is hidden or deny-listed
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || denyList[name]
}

func exists(dir, marker string) bool {
	_, err := os.Stat(filepath.Join(dir, marker))
	return err == nil
}

// hasPackageDependency checks package.json for a dependency name. Parse
// failures count as "not present".
func hasPackageDependency(dir, name string) bool {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return false
	}

	var manifest struct {
		Dependencies    map[string]json.RawMessage `json:"dependencies"`
		DevDependencies map[string]json.RawMessage `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false
	}

	if _, ok := manifest.Dependencies[name]; ok {
		return true
	}
	_, ok := manifest.DevDependencies[name]
	return ok
}
