package vcs

import (
	"os"
	"path/filepath"
	"strings"

	"repotabs/internal/logging"
	"repotabs/internal/ports"
)

// StatusReader derives branch and dirty state from on-disk git metadata.
// It never executes git and never walks the working tree; dirty detection
// is delegated to an optional host-provided integration, so a refresh is
// safe to run on every reconciliation pass.
type StatusReader struct {
	host ports.HostVCS // may be nil
}

// Verify interface compliance at compile time
var _ ports.VCSReader = (*StatusReader)(nil)

// NewStatusReader creates a StatusReader. host may be nil when no richer
// integration is available; dirty state then stays at its last known value.
func NewStatusReader(host ports.HostVCS) *StatusReader {
	return &StatusReader{host: host}
}

// ReadStatus implements ports.VCSReader.ReadStatus
func (r *StatusReader) ReadStatus(repoPath string, prev ports.VCSStatus) ports.VCSStatus {
	gitDir, ok := resolveGitDir(repoPath)
	if !ok {
		// Not under version control
		return ports.VCSStatus{}
	}

	branch, ok := readHead(gitDir)
	if !ok {
		// HEAD unreadable: keep whatever we knew before
		logging.Logger.Debug("Unreadable HEAD", "repo", repoPath)
		return prev
	}

	status := ports.VCSStatus{Branch: branch, Dirty: prev.Dirty}
	if r.host != nil {
		if workingTree, index, indexed := r.host.ChangeCounts(repoPath); indexed {
			status.Dirty = workingTree+index > 0
		}
	}
	return status
}

// resolveGitDir locates the metadata directory for a repository. A .git
// file containing a "gitdir:" pointer (worktrees, submodules) is followed
// one level.
func resolveGitDir(repoPath string) (string, bool) {
	gitPath := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		return gitPath, true
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return "", false
	}
	line := strings.TrimSpace(string(data))
	target, found := strings.CutPrefix(line, "gitdir:")
	if !found {
		return "", false
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(repoPath, target)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		return "", false
	}
	return target, true
}

// readHead parses HEAD into a branch name, or a 7 character revision
// prefix when detached
func readHead(gitDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", false
	}

	head := strings.TrimSpace(string(data))
	if ref, found := strings.CutPrefix(head, "ref:"); found {
		ref = strings.TrimSpace(ref)
		if branch, found := strings.CutPrefix(ref, "refs/heads/"); found {
			return branch, true
		}
		// Symbolic ref outside refs/heads; show it as-is
		return ref, true
	}

	// Detached HEAD: raw revision
	if len(head) > 7 {
		head = head[:7]
	}
	if head == "" {
		return "", false
	}
	return head, true
}
