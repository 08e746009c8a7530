package storage

import "time"

// TabModel is the GORM model for the tabs table
type TabModel struct {
	ActiveEditor string `gorm:"default:''"`
	CreatedAt    time.Time
	FolderPath   string `gorm:"not null;uniqueIndex:idx_folder_path"`
	FolderURI    string `gorm:"not null;default:''"`
	GitBranch    string `gorm:"default:''"`
	GitDirty     bool   `gorm:"not null;default:false"`
	ID           string `gorm:"primaryKey"`
	Icon         string `gorm:"not null;default:'folder'"`
	Name         string `gorm:"not null;default:''"`
	Position     int    `gorm:"not null;default:0;index:idx_tab_position"`
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (TabModel) TableName() string { return "tabs" }

// TabEditorModel is the GORM model for a tab's ordered open editors
type TabEditorModel struct {
	CreatedAt time.Time
	Position  int    `gorm:"not null;default:0"`
	TabID     string `gorm:"primaryKey"`
	URI       string `gorm:"primaryKey"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (TabEditorModel) TableName() string { return "tab_editors" }

// TabViewStateModel is the GORM model for per-document cursor and scroll
// positions
type TabViewStateModel struct {
	CreatedAt     time.Time
	CursorColumn  int    `gorm:"not null;default:0"`
	CursorLine    int    `gorm:"not null;default:0"`
	ScrollTopLine int    `gorm:"not null;default:0"`
	TabID         string `gorm:"primaryKey"`
	URI           string `gorm:"primaryKey"`
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (TabViewStateModel) TableName() string { return "tab_view_states" }

// StoreMetaModel is the single-row GORM model holding schema version and
// the active tab pointer
type StoreMetaModel struct {
	ActiveTabID   string `gorm:"default:''"`
	CreatedAt     time.Time
	ID            int `gorm:"primaryKey"`
	SchemaVersion int `gorm:"not null"`
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (StoreMetaModel) TableName() string { return "store_meta" }

// metaRowID is the fixed primary key of the single store_meta row
const metaRowID = 1
