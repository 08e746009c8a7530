package storage

import (
	"repotabs/internal/domain"
)

// tabModelToDomain converts a TabModel (GORM) plus its related rows to
// domain.RepoTab
func tabModelToDomain(m TabModel, editors []string, views map[string]domain.ViewState) domain.RepoTab {
	if views == nil {
		views = make(map[string]domain.ViewState)
	}
	return domain.RepoTab{
		ActiveEditor: m.ActiveEditor,
		FolderPath:   m.FolderPath,
		FolderURI:    m.FolderURI,
		GitBranch:    m.GitBranch,
		GitDirty:     m.GitDirty,
		ID:           m.ID,
		Icon:         domain.TabIcon(m.Icon),
		Name:         m.Name,
		OpenEditors:  editors,
		ViewStates:   views,
	}
}

// domainToTabModel converts a domain.RepoTab to TabModel (GORM). Related
// rows are built separately.
func domainToTabModel(t domain.RepoTab, position int) TabModel {
	return TabModel{
		ActiveEditor: t.ActiveEditor,
		FolderPath:   t.FolderPath,
		FolderURI:    t.FolderURI,
		GitBranch:    t.GitBranch,
		GitDirty:     t.GitDirty,
		ID:           t.ID,
		Icon:         string(t.Icon),
		Name:         t.Name,
		Position:     position,
	}
}
