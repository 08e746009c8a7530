package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"repotabs/internal/domain"
	"repotabs/internal/logging"
	"repotabs/internal/services"
	"repotabs/internal/theme"
)

type uiState int

const (
	stateList uiState = iota
	stateEditingRoots
)

// tabsChangedMsg signals that the tab store mutated and the list must be
// rebuilt from a fresh snapshot
type tabsChangedMsg struct{}

type Model struct {
	changes     chan struct{}
	height      int
	keys        KeyMap
	rootsForm   *WorkspaceRootsForm
	state       uiState
	tabList     list.Model
	tabService  *services.TabService
	unsubscribe func()
	version     string
	width       int
}

// NewModel builds the tab list UI on top of an initialized TabService
func NewModel(tabService *services.TabService, version string) *Model {
	keys := NewKeyMap()

	tabList := list.New(nil, TabDelegate{}, 0, 0)
	tabList.Title = "Repository Tabs"
	tabList.Styles.Title = theme.TitleStyle
	tabList.SetShowStatusBar(false)
	tabList.SetFilteringEnabled(true)
	tabList.AdditionalShortHelpKeys = keys.ShortHelp
	tabList.AdditionalFullHelpKeys = func() []key.Binding {
		return keys.ShortHelp()
	}

	m := &Model{
		changes:    make(chan struct{}, 1),
		keys:       keys,
		state:      stateList,
		tabList:    tabList,
		tabService: tabService,
		version:    version,
	}

	// Coalesce service notifications into the Bubble Tea loop
	m.unsubscribe = tabService.Subscribe(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	m.reloadItems()
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the notification channel as a Bubble Tea command
func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return tabsChangedMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tabList.SetSize(msg.Width, msg.Height-1)
	case tabsChangedMsg:
		m.reloadItems()
		return m, m.waitForChange()
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateEditingRoots:
		return m.updateEditingRoots(msg)
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.tabList.SettingFilter() {
		ctx := context.Background()
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.unsubscribe()
			m.tabService.Dispose()
			return m, tea.Quit

		case key.Matches(keyMsg, m.keys.Open):
			if item, ok := m.tabList.SelectedItem().(TabItem); ok {
				return m, m.switchCmd(func() error {
					return m.tabService.SwitchToTab(ctx, item.Tab.ID)
				})
			}

		case key.Matches(keyMsg, m.keys.Next):
			return m, m.switchCmd(func() error {
				return m.tabService.NextTab(ctx)
			})

		case key.Matches(keyMsg, m.keys.Previous):
			return m, m.switchCmd(func() error {
				return m.tabService.PreviousTab(ctx)
			})

		case key.Matches(keyMsg, m.keys.Refresh):
			return m, m.switchCmd(func() error {
				return m.tabService.Reconcile(ctx)
			})

		case key.Matches(keyMsg, m.keys.EditRoots):
			m.rootsForm = NewWorkspaceRootsForm(m.currentRoots())
			m.state = stateEditingRoots
			return m, m.rootsForm.Init()
		}

		// Number keys jump straight to a tab position
		if n, err := strconv.Atoi(keyMsg.String()); err == nil && n >= 1 && n <= 9 {
			return m, m.switchCmd(func() error {
				return m.tabService.SwitchToTabByIndex(ctx, n-1)
			})
		}
	}

	var cmd tea.Cmd
	m.tabList, cmd = m.tabList.Update(msg)
	return m, cmd
}

func (m *Model) updateEditingRoots(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.rootsForm.Update(msg)
	m.rootsForm = updated.(*WorkspaceRootsForm)

	if m.rootsForm.Completed {
		m.state = stateList
		result := m.rootsForm.Result()
		m.rootsForm = nil
		if !result.Cancelled && result.Error == nil {
			return m, m.switchCmd(func() error {
				return m.tabService.Reconcile(context.Background())
			})
		}
		return m, nil
	}
	return m, cmd
}

// switchCmd runs a tab operation off the render loop; the store notifies
// subscribers itself, so no message is needed on success
func (m *Model) switchCmd(op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			logging.Logger.Error("Tab operation failed", "error", err)
		}
		return nil
	}
}

// reloadItems rebuilds the list from the current tab snapshot
func (m *Model) reloadItems() {
	tabs := m.tabService.Tabs()
	activeID := m.tabService.ActiveTabID()

	items := make([]list.Item, 0, len(tabs))
	for _, tab := range tabs {
		items = append(items, TabItem{Tab: tab, IsActive: tab.ID == activeID})
	}
	m.tabList.SetItems(items)
}

// currentRoots pulls the workspace roots from the tracked tabs' settings
func (m *Model) currentRoots() []string {
	return m.tabService.WorkspaceRoots()
}

func (m *Model) View() string {
	if m.state == stateEditingRoots && m.rootsForm != nil {
		return m.rootsForm.View()
	}

	header := ""
	if active, ok := m.tabService.ActiveTab(); ok {
		header = m.renderStatusLine(active)
	}
	return m.tabList.View() + "\n" + header
}

// renderStatusLine shows the active tab with its VCS status
func (m *Model) renderStatusLine(tab domain.RepoTab) string {
	line := theme.AppNameStyle.Render("repotabs") + " " +
		theme.VersionStyle.Render(m.version) + "  " +
		theme.NormalStyle.Render(fmt.Sprintf("%s %s", tab.Icon.Badge(), tab.Name))
	if tab.GitBranch != "" {
		line += theme.BranchStyle.Render("  " + tab.GitBranch)
		if tab.GitDirty {
			line += theme.DirtyStyle.Render(" ±")
		}
	}
	return line
}
