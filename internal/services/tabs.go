package services

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"repotabs/internal/config"
	"repotabs/internal/domain"
	"repotabs/internal/logging"
	"repotabs/internal/ports"
)

// vcsRefreshParallelism bounds concurrent HEAD reads during reconcile
const vcsRefreshParallelism = 4

// TabService owns the ordered tab collection, the active-tab pointer and
// the switch protocol. All state mutation happens inside this service;
// adapters are only ever called through their ports.
type TabService struct {
	bridge     ports.EditorBridge
	discoverer ports.Discoverer
	settings   ports.SettingsSource
	store      ports.TabRepository
	vcs        ports.VCSReader

	mu          sync.Mutex
	activeTabID string
	switching   bool // reentrancy fence for the switch protocol
	tabs        []domain.RepoTab

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func()
}

// NewTabService creates a TabService with all collaborators wired
func NewTabService(
	store ports.TabRepository,
	discoverer ports.Discoverer,
	vcs ports.VCSReader,
	bridge ports.EditorBridge,
	settings ports.SettingsSource,
) *TabService {
	return &TabService{
		bridge:      bridge,
		discoverer:  discoverer,
		settings:    settings,
		store:       store,
		subscribers: make(map[int]func()),
		vcs:         vcs,
	}
}

// Initialize loads the persisted snapshot, reconciles it against the live
// workspace and selects an active tab if none is set. A corrupt or
// mismatched snapshot resets the store instead of failing.
func (s *TabService) Initialize(ctx context.Context) error {
	opts := s.settings.Current()
	if !opts.Enabled {
		logging.Logger.Info("Tab engine disabled by configuration")
		return nil
	}

	state, err := s.store.LoadState(ctx)
	if err != nil {
		// Unreadable store: start empty rather than crash initialization
		logging.Logger.Warn("Failed to load persisted tabs, starting empty", "error", err)
		state = &domain.PersistedState{Version: domain.StateVersion}
	}

	s.mu.Lock()
	s.tabs = state.Tabs
	s.activeTabID = state.ActiveTabID
	s.reconcileLocked(opts)
	if s.activeTabID == "" && len(s.tabs) > 0 {
		s.activeTabID = s.tabs[0].ID
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify()
	logging.Logger.Info("Tab engine initialized", "tabs", len(snapshot.Tabs), "active", snapshot.ActiveTabID)
	return nil
}

// Reconcile resynchronizes tracked tabs against the live workspace: new
// repositories gain tabs, vanished ones lose them, and icon and VCS
// status are refreshed for the survivors.
func (s *TabService) Reconcile(ctx context.Context) error {
	opts := s.settings.Current()
	if !opts.Enabled {
		return nil
	}

	s.mu.Lock()
	if s.switching {
		// A switch is mid-flight; its own refresh will run shortly
		s.mu.Unlock()
		return nil
	}
	s.reconcileLocked(opts)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify()
	return nil
}

// reconcileLocked applies discovery results to the tab list. Caller holds
// s.mu.
func (s *TabService) reconcileLocked(opts config.Options) {
	found := s.discoverer.Discover(opts.WorkspaceRoots, opts.ScanSubdirectories)

	tracked := make(map[string]bool, len(s.tabs))
	for i := range s.tabs {
		tracked[s.tabs[i].FolderPath] = true
	}

	// Remove tabs whose folder vanished, stopped being a repository, or
	// fell outside every workspace root
	survivors := s.tabs[:0]
	for _, tab := range s.tabs {
		if !underAnyRoot(tab.FolderPath, opts.WorkspaceRoots) || !s.discoverer.IsRepository(tab.FolderPath) {
			logging.Logger.Info("Removing stale tab", "folder", tab.FolderPath)
			continue
		}
		survivors = append(survivors, tab)
	}
	s.tabs = survivors

	// Add tabs for newly discovered repositories
	for _, path := range found {
		if tracked[path] {
			continue
		}
		tab := domain.NewRepoTab(path, s.discoverer.Classify(path))
		logging.Logger.Info("Tracking new repository", "folder", path, "icon", tab.Icon)
		s.tabs = append(s.tabs, tab)
	}

	// Refresh derived fields for everything that remains
	for i := range s.tabs {
		s.tabs[i].Icon = s.discoverer.Classify(s.tabs[i].FolderPath)
	}
	s.refreshVCSLocked()

	// The active pointer follows the first remaining tab when its tab was
	// removed, mirroring initialization
	if s.activeTabID != "" && s.indexOfLocked(s.activeTabID) < 0 {
		s.activeTabID = ""
		if len(s.tabs) > 0 {
			s.activeTabID = s.tabs[0].ID
		}
	}
}

// refreshVCSLocked re-reads branch and dirty state for all tabs. Reads
// are pure filesystem inspection, so they fan out; results are merged
// back while still holding the lock.
func (s *TabService) refreshVCSLocked() {
	results := make([]ports.VCSStatus, len(s.tabs))
	g := new(errgroup.Group)
	g.SetLimit(vcsRefreshParallelism)
	for i := range s.tabs {
		prev := ports.VCSStatus{Branch: s.tabs[i].GitBranch, Dirty: s.tabs[i].GitDirty}
		path := s.tabs[i].FolderPath
		g.Go(func() error {
			results[i] = s.vcs.ReadStatus(path, prev)
			return nil
		})
	}
	_ = g.Wait()
	for i := range s.tabs {
		s.tabs[i].GitBranch = results[i].Branch
		s.tabs[i].GitDirty = results[i].Dirty
	}
}

// Tabs returns a copy of the ordered tab list
func (s *TabService) Tabs() []domain.RepoTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTabs(s.tabs)
}

// ActiveTab returns the active tab, or false when no tab is active
func (s *TabService) ActiveTab() (domain.RepoTab, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(s.activeTabID)
	if idx < 0 {
		return domain.RepoTab{}, false
	}
	return copyTab(s.tabs[idx]), true
}

// ActiveTabID returns the active pointer, "" when none
func (s *TabService) ActiveTabID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTabID
}

// WorkspaceRoots returns the roots discovery currently scans
func (s *TabService) WorkspaceRoots() []string {
	return s.settings.Current().WorkspaceRoots
}

// FindTabForFile returns the tab owning uri by longest folder prefix.
// With nested repositories the most specific tab wins.
func (s *TabService) FindTabForFile(uri string) (domain.RepoTab, bool) {
	path := domain.URIToPath(uri)
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := domain.FindOwner(s.tabs, path)
	if idx < 0 {
		return domain.RepoTab{}, false
	}
	return copyTab(s.tabs[idx]), true
}

// Subscribe registers a state-changed callback and returns its remover.
// Subscribers re-read full state; the signal carries no payload.
func (s *TabService) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Dispose drops all subscribers. The store itself is closed by whoever
// owns the repository.
func (s *TabService) Dispose() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = make(map[int]func())
}

// notify fires the parameterless state-changed signal
func (s *TabService) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// persist writes the snapshot; persistence failures are logged, never
// surfaced — the in-memory state stays authoritative for the session
func (s *TabService) persist(ctx context.Context, snapshot *domain.PersistedState) {
	if err := s.store.SaveState(ctx, snapshot); err != nil {
		logging.Logger.Error("Failed to persist tab state", "error", err)
	}
}

// snapshotLocked builds a persistable copy. Caller holds s.mu.
func (s *TabService) snapshotLocked() *domain.PersistedState {
	return &domain.PersistedState{
		ActiveTabID: s.activeTabID,
		Tabs:        copyTabs(s.tabs),
		Version:     domain.StateVersion,
	}
}

// indexOfLocked returns the position of a tab id, -1 if absent. Caller
// holds s.mu.
func (s *TabService) indexOfLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.tabs {
		if s.tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// underAnyRoot reports whether path is a workspace root or lives inside one
func underAnyRoot(path string, roots []string) bool {
	for _, root := range roots {
		if domain.PathContains(root, path) {
			return true
		}
	}
	return false
}

func copyTab(t domain.RepoTab) domain.RepoTab {
	out := t
	out.OpenEditors = append([]string(nil), t.OpenEditors...)
	out.ViewStates = make(map[string]domain.ViewState, len(t.ViewStates))
	for k, v := range t.ViewStates {
		out.ViewStates[k] = v
	}
	return out
}

func copyTabs(tabs []domain.RepoTab) []domain.RepoTab {
	out := make([]domain.RepoTab, len(tabs))
	for i := range tabs {
		out[i] = copyTab(tabs[i])
	}
	return out
}
