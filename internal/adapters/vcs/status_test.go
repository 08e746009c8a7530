package vcs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repotabs/internal/ports"
)

// fakeHostVCS reports canned change counts for indexed paths
type fakeHostVCS struct {
	counts map[string][2]int
}

func (f *fakeHostVCS) ChangeCounts(repoPath string) (int, int, bool) {
	c, ok := f.counts[repoPath]
	return c[0], c[1], ok
}

func gitRepo(t *testing.T, head string) string {
	t.Helper()
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".git", "HEAD"), []byte(head), 0644))
	return repo
}

func TestReadStatus_SymbolicRef(t *testing.T) {
	repo := gitRepo(t, "ref: refs/heads/main\n")

	status := NewStatusReader(nil).ReadStatus(repo, ports.VCSStatus{})

	assert.Equal(t, "main", status.Branch)
	assert.False(t, status.Dirty)
}

func TestReadStatus_BranchNameWithSlashes(t *testing.T) {
	repo := gitRepo(t, "ref: refs/heads/feature/tab-engine\n")

	status := NewStatusReader(nil).ReadStatus(repo, ports.VCSStatus{})

	assert.Equal(t, "feature/tab-engine", status.Branch)
}

func TestReadStatus_DetachedHead(t *testing.T) {
	repo := gitRepo(t, "4a5b6c7d8e9f0a1b2c3d4e5f6a7b8c9d0e1f2a3b\n")

	status := NewStatusReader(nil).ReadStatus(repo, ports.VCSStatus{})

	assert.Equal(t, "4a5b6c7", status.Branch)
}

func TestReadStatus_NotARepository(t *testing.T) {
	dir := t.TempDir()

	prev := ports.VCSStatus{Branch: "stale", Dirty: true}
	status := NewStatusReader(nil).ReadStatus(dir, prev)

	assert.Empty(t, status.Branch)
	assert.False(t, status.Dirty)
}

func TestReadStatus_MissingHeadKeepsPrevious(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))

	prev := ports.VCSStatus{Branch: "main", Dirty: true}
	status := NewStatusReader(nil).ReadStatus(repo, prev)

	assert.Equal(t, prev, status)
}

func TestReadStatus_DirtyFromHostVCS(t *testing.T) {
	repo := gitRepo(t, "ref: refs/heads/main\n")
	host := &fakeHostVCS{counts: map[string][2]int{repo: {2, 1}}}

	status := NewStatusReader(host).ReadStatus(repo, ports.VCSStatus{})

	assert.Equal(t, "main", status.Branch)
	assert.True(t, status.Dirty)
}

func TestReadStatus_CleanFromHostVCS(t *testing.T) {
	repo := gitRepo(t, "ref: refs/heads/main\n")
	host := &fakeHostVCS{counts: map[string][2]int{repo: {0, 0}}}

	prev := ports.VCSStatus{Branch: "main", Dirty: true}
	status := NewStatusReader(host).ReadStatus(repo, prev)

	assert.False(t, status.Dirty, "indexed host counts override stale dirty flag")
}

func TestReadStatus_UnindexedPathKeepsLastKnownDirty(t *testing.T) {
	repo := gitRepo(t, "ref: refs/heads/main\n")
	host := &fakeHostVCS{counts: map[string][2]int{}}

	prev := ports.VCSStatus{Branch: "main", Dirty: true}
	status := NewStatusReader(host).ReadStatus(repo, prev)

	assert.True(t, status.Dirty)
}

func TestReadStatus_GitdirRedirect(t *testing.T) {
	tmp := t.TempDir()
	realGit := filepath.Join(tmp, "main-repo", ".git", "worktrees", "wt1")
	require.NoError(t, os.MkdirAll(realGit, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(realGit, "HEAD"), []byte("ref: refs/heads/wip\n"), 0644))

	worktree := filepath.Join(tmp, "wt1")
	require.NoError(t, os.MkdirAll(worktree, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: "+realGit+"\n"), 0644))

	status := NewStatusReader(nil).ReadStatus(worktree, ports.VCSStatus{})

	assert.Equal(t, "wip", status.Branch)
}
