package ports

// WorkspaceWatcher observes workspace roots and invokes a callback when
// their contents change, driving reconciliation without host events
type WorkspaceWatcher interface {
	Watch(roots []string, onChange func()) error
	Close() error
}
