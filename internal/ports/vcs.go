package ports

// VCSStatus is the lightweight version-control view of one repository
type VCSStatus struct {
	Branch string // branch name, short revision when detached, "" if untracked
	Dirty  bool
}

// VCSReader derives status from on-disk metadata. It never shells out and
// never runs a full status scan; errors leave the previous status in place.
type VCSReader interface {
	ReadStatus(repoPath string, prev VCSStatus) VCSStatus
}

// HostVCS is the optional richer host-provided integration. When the host
// has indexed a repository it can report change counts cheaply; otherwise
// ok is false and the caller keeps whatever dirty state it last knew.
type HostVCS interface {
	ChangeCounts(repoPath string) (workingTree, index int, ok bool)
}
