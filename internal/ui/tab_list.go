package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"repotabs/internal/domain"
	"repotabs/internal/theme"
)

// TabItem implements list.Item and list.DefaultItem
type TabItem struct {
	IsActive bool
	Tab      domain.RepoTab
}

// FilterValue implements list.Item
func (i TabItem) FilterValue() string {
	return i.Tab.Name + " " + i.Tab.GitBranch
}

// Title implements list.DefaultItem
func (i TabItem) Title() string {
	return i.Tab.Name
}

// Description implements list.DefaultItem
func (i TabItem) Description() string {
	return i.Tab.FolderPath
}

// TabDelegate renders tab items with icon, branch and dirty marker
type TabDelegate struct{}

// Height implements list.ItemDelegate
func (d TabDelegate) Height() int {
	return 2 // Two lines per item (name + folder/branch)
}

// Spacing implements list.ItemDelegate
func (d TabDelegate) Spacing() int {
	return 0
}

// Update implements list.ItemDelegate
func (d TabDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render implements list.ItemDelegate
func (d TabDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(TabItem)
	if !ok {
		return
	}

	cursor := " "
	if index == m.Index() {
		cursor = ">"
	}

	marker := " "
	if item.IsActive {
		marker = theme.ActiveTabStyle.Render("●")
	}

	line1 := fmt.Sprintf("%s %d. %s %s %s",
		cursor, index+1, marker, item.Tab.Icon.Badge(), item.Tab.Name)
	line1 = theme.NormalStyle.Render(line1)

	line2 := "       " + theme.CleanTabStyle.Render(item.Tab.FolderPath)
	if item.Tab.GitBranch != "" {
		line2 += theme.BranchStyle.Render("  " + item.Tab.GitBranch)
		if item.Tab.GitDirty {
			line2 += theme.DirtyStyle.Render(" ±")
		}
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}
