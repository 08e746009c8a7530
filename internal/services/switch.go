package services

import (
	"context"

	"repotabs/internal/domain"
	"repotabs/internal/logging"
	"repotabs/internal/ports"
)

// SwitchToTab runs the switch protocol: save the active tab's editor
// state, close everything, restore the target's documents, refocus the
// explorer and refresh the target's VCS status. A switch already in
// flight, an unknown id, or the already-active id are all silent no-ops.
func (s *TabService) SwitchToTab(ctx context.Context, id string) error {
	opts := s.settings.Current()
	if !opts.Enabled {
		return nil
	}

	s.mu.Lock()
	if s.switching {
		s.mu.Unlock()
		return nil
	}
	targetIdx := s.indexOfLocked(id)
	if targetIdx < 0 || id == s.activeTabID {
		s.mu.Unlock()
		return nil
	}
	// Raise the reentrancy fence. Everything after this point must reach
	// the deferred cleanup, no matter which step fails.
	s.switching = true
	currentIdx := s.indexOfLocked(s.activeTabID)
	var currentFolder string
	if currentIdx >= 0 {
		currentFolder = s.tabs[currentIdx].FolderPath
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.switching = false
		s.mu.Unlock()
	}()

	logging.Logger.Info("Switching tab", "to", id)

	// Save the outgoing tab's editor state
	if currentIdx >= 0 {
		s.captureEditorState(ctx, currentFolder)
	}

	if !opts.PreserveEditors {
		if err := s.bridge.CloseAll(ctx); err != nil {
			logging.Logger.Warn("Failed to close editors", "error", err)
		}
	}

	s.mu.Lock()
	s.activeTabID = id
	targetIdx = s.indexOfLocked(id)
	if targetIdx < 0 {
		// Target vanished between steps (reconcile raced us); bail out
		s.mu.Unlock()
		return nil
	}
	target := copyTab(s.tabs[targetIdx])
	s.mu.Unlock()

	s.restoreEditorState(ctx, target)

	if opts.RevealInExplorer {
		if err := s.bridge.RevealInExplorer(ctx, target.FolderPath); err != nil {
			// Host may not support explorer focus; the switch still counts
			logging.Logger.Debug("Explorer reveal unavailable", "error", err)
		}
	}

	s.mu.Lock()
	if idx := s.indexOfLocked(id); idx >= 0 {
		prev := ports.VCSStatus{Branch: s.tabs[idx].GitBranch, Dirty: s.tabs[idx].GitDirty}
		status := s.vcs.ReadStatus(s.tabs[idx].FolderPath, prev)
		s.tabs[idx].GitBranch = status.Branch
		s.tabs[idx].GitDirty = status.Dirty
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify()
	return nil
}

// captureEditorState records the documents belonging to the outgoing tab:
// open list in host order, the focused one, and its cursor and scroll
// position. Documents outside the tab's folder are left alone.
func (s *TabService) captureEditorState(ctx context.Context, folder string) {
	docs, err := s.bridge.ListOpenDocuments(ctx)
	if err != nil {
		logging.Logger.Warn("Failed to list open documents", "error", err)
		return
	}

	var open []string
	active := ""
	views := make(map[string]domain.ViewState)
	for _, doc := range docs {
		if !domain.PathContains(folder, domain.URIToPath(doc.URI)) {
			continue
		}
		open = append(open, doc.URI)
		if doc.IsActive {
			active = doc.URI
		}
		if view, err := s.bridge.CaptureViewState(ctx, doc.URI); err == nil && view != nil {
			views[doc.URI] = *view
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(s.activeTabID)
	if idx < 0 {
		return
	}
	tab := &s.tabs[idx]
	tab.OpenEditors = open
	tab.ActiveEditor = active
	// Keep earlier view states for still-open documents, drop the rest
	for uri := range tab.ViewStates {
		if _, stillOpen := views[uri]; stillOpen {
			continue
		}
		keep := false
		for _, openURI := range open {
			if openURI == uri {
				keep = true
				break
			}
		}
		if !keep {
			delete(tab.ViewStates, uri)
		}
	}
	for uri, view := range views {
		tab.ViewStates[uri] = view
	}
}

// restoreEditorState reopens the target tab's documents in their original
// order, then focuses the last active one and reapplies its view state.
// Documents missing from disk are skipped silently.
func (s *TabService) restoreEditorState(ctx context.Context, target domain.RepoTab) {
	for _, uri := range target.OpenEditors {
		if _, err := s.bridge.Open(ctx, uri, true); err != nil {
			logging.Logger.Debug("Skipping stale document", "uri", uri, "error", err)
		}
	}

	if target.ActiveEditor == "" {
		return
	}
	handle, err := s.bridge.Open(ctx, target.ActiveEditor, false)
	if err != nil {
		logging.Logger.Debug("Skipping stale active document", "uri", target.ActiveEditor, "error", err)
		return
	}
	if view, ok := target.ViewStates[target.ActiveEditor]; ok {
		if err := s.bridge.ApplyViewState(ctx, handle, view); err != nil {
			logging.Logger.Debug("Failed to restore view state", "uri", target.ActiveEditor, "error", err)
		}
	}
}

// SwitchToTabByIndex switches to the tab at a zero-based position.
// Out-of-range indexes are no-ops.
func (s *TabService) SwitchToTabByIndex(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.tabs) {
		s.mu.Unlock()
		return nil
	}
	id := s.tabs[index].ID
	s.mu.Unlock()
	return s.SwitchToTab(ctx, id)
}

// NextTab cycles forward through the tab list, wrapping at the end
func (s *TabService) NextTab(ctx context.Context) error {
	return s.cycle(ctx, 1)
}

// PreviousTab cycles backward through the tab list, wrapping at the start
func (s *TabService) PreviousTab(ctx context.Context) error {
	return s.cycle(ctx, -1)
}

func (s *TabService) cycle(ctx context.Context, step int) error {
	s.mu.Lock()
	if len(s.tabs) == 0 {
		s.mu.Unlock()
		return nil
	}
	idx := s.indexOfLocked(s.activeTabID)
	var next int
	if idx < 0 {
		next = 0
	} else {
		next = (idx + step + len(s.tabs)) % len(s.tabs)
	}
	id := s.tabs[next].ID
	s.mu.Unlock()
	return s.SwitchToTab(ctx, id)
}

// OnFileOpened handles the host's active-document-changed event. Events
// raised by the switch protocol's own restore step are ignored. When the
// document belongs to another tab and auto-switch is on, the switch takes
// precedence over recording the open.
func (s *TabService) OnFileOpened(ctx context.Context, uri string) error {
	opts := s.settings.Current()
	if !opts.Enabled {
		return nil
	}

	s.mu.Lock()
	if s.switching {
		s.mu.Unlock()
		return nil
	}
	path := domain.URIToPath(uri)
	ownerIdx := domain.FindOwner(s.tabs, path)
	activeIdx := s.indexOfLocked(s.activeTabID)

	if opts.AutoSwitchOnOpen && ownerIdx >= 0 && ownerIdx != activeIdx {
		ownerID := s.tabs[ownerIdx].ID
		s.mu.Unlock()
		return s.SwitchToTab(ctx, ownerID)
	}

	if activeIdx < 0 || s.tabs[activeIdx].HasEditor(uri) {
		s.mu.Unlock()
		return nil
	}
	s.tabs[activeIdx].AppendEditor(uri)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify()
	return nil
}

// OnFileClosed handles the host's document-closed event. The identifier
// is removed from every tab; a document tracked by more than one tab only
// happens when state is already inconsistent, and this repairs it.
func (s *TabService) OnFileClosed(ctx context.Context, uri string) error {
	opts := s.settings.Current()
	if !opts.Enabled {
		return nil
	}

	s.mu.Lock()
	if s.switching {
		s.mu.Unlock()
		return nil
	}
	changed := false
	for i := range s.tabs {
		if s.tabs[i].RemoveEditor(uri) {
			changed = true
		}
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify()
	return nil
}
