package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"repotabs/internal/domain"
	"repotabs/internal/logging"
	"repotabs/internal/ports"
)

// SQLiteRepository implements ports.TabRepository using GORM
type SQLiteRepository struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.TabRepository = (*SQLiteRepository)(nil)

// gormLogger wraps the repotabs logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("REPOTABS_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository creates a new SQLiteRepository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	// Auto-migrate primary tables
	if err := db.AutoMigrate(&TabModel{}, &StoreMetaModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tab schema: %w", err)
	}

	// Manually create child tables so the cascading foreign keys exist
	migrator := db.Migrator()

	if !migrator.HasTable(&TabEditorModel{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS tab_editors (
				tab_id TEXT NOT NULL,
				uri TEXT NOT NULL,
				position INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME,
				updated_at DATETIME,
				PRIMARY KEY (tab_id, uri),
				FOREIGN KEY (tab_id) REFERENCES tabs(id) ON UPDATE CASCADE ON DELETE CASCADE
			)
		`).Error; err != nil {
			return nil, fmt.Errorf("failed to create tab_editors table: %w", err)
		}
	}

	if !migrator.HasTable(&TabViewStateModel{}) {
		if err := db.Exec(`
			CREATE TABLE IF NOT EXISTS tab_view_states (
				tab_id TEXT NOT NULL,
				uri TEXT NOT NULL,
				cursor_line INTEGER NOT NULL DEFAULT 0,
				cursor_column INTEGER NOT NULL DEFAULT 0,
				scroll_top_line INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME,
				updated_at DATETIME,
				PRIMARY KEY (tab_id, uri),
				FOREIGN KEY (tab_id) REFERENCES tabs(id) ON UPDATE CASCADE ON DELETE CASCADE
			)
		`).Error; err != nil {
			return nil, fmt.Errorf("failed to create tab_view_states table: %w", err)
		}
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return &SQLiteRepository{db: db}, nil
}

// NewSQLiteRepositoryForPath creates a new SQLiteRepository for a specific
// REPOTABS_HOME path
func NewSQLiteRepositoryForPath(homePath string) (*SQLiteRepository, error) {
	return NewSQLiteRepository(filepath.Join(homePath, "state.db"))
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadState implements ports.TabStateLoader.LoadState. A schema version
// mismatch wipes the store and returns an empty snapshot; there is no
// migration path.
func (r *SQLiteRepository) LoadState(ctx context.Context) (*domain.PersistedState, error) {
	var meta StoreMetaModel
	var tabs []TabModel
	var editors []TabEditorModel
	var views []TabViewStateModel

	err := withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Where("id = ?", metaRowID).First(&meta).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				meta = StoreMetaModel{ID: metaRowID, SchemaVersion: domain.StateVersion}
				return tx.Create(&meta).Error
			}
			if err != nil {
				return fmt.Errorf("failed to load store meta: %w", err)
			}

			if meta.SchemaVersion != domain.StateVersion {
				logging.Logger.Warn("Persisted state version mismatch, resetting store",
					"persisted", meta.SchemaVersion,
					"current", domain.StateVersion)
				if err := tx.Where("1 = 1").Delete(&TabModel{}).Error; err != nil {
					return fmt.Errorf("failed to reset tabs: %w", err)
				}
				meta.ActiveTabID = ""
				meta.SchemaVersion = domain.StateVersion
				return tx.Save(&meta).Error
			}

			if err := tx.Order("position ASC, folder_path ASC").Find(&tabs).Error; err != nil {
				return fmt.Errorf("failed to load tabs: %w", err)
			}

			// Normalize positions if needed
			needsNormalization := false
			positionSet := make(map[int]bool)
			for i, tab := range tabs {
				if positionSet[tab.Position] || tab.Position != i {
					needsNormalization = true
					break
				}
				positionSet[tab.Position] = true
			}
			if needsNormalization {
				for i, tab := range tabs {
					if tab.Position != i {
						tx.Model(&TabModel{}).Where("id = ?", tab.ID).Update("position", i)
						tabs[i].Position = i
					}
				}
			}

			tx.Order("tab_id ASC, position ASC").Find(&editors)
			tx.Find(&views)
			return nil
		})
	}, 3)

	if err != nil {
		return nil, err
	}

	// Build lookup maps
	editorMap := make(map[string][]string)
	for _, e := range editors {
		editorMap[e.TabID] = append(editorMap[e.TabID], e.URI)
	}

	viewMap := make(map[string]map[string]domain.ViewState)
	for _, v := range views {
		if viewMap[v.TabID] == nil {
			viewMap[v.TabID] = make(map[string]domain.ViewState)
		}
		viewMap[v.TabID][v.URI] = domain.ViewState{
			CursorColumn:  v.CursorColumn,
			CursorLine:    v.CursorLine,
			ScrollTopLine: v.ScrollTopLine,
		}
	}

	state := &domain.PersistedState{
		ActiveTabID: meta.ActiveTabID,
		Version:     meta.SchemaVersion,
	}
	for _, tab := range tabs {
		state.Tabs = append(state.Tabs, tabModelToDomain(tab, editorMap[tab.ID], viewMap[tab.ID]))
	}

	// Drop a dangling active pointer from a partial write
	if state.ActiveTabID != "" {
		found := false
		for _, tab := range state.Tabs {
			if tab.ID == state.ActiveTabID {
				found = true
				break
			}
		}
		if !found {
			state.ActiveTabID = ""
		}
	}

	return state, nil
}

// SaveState implements ports.TabStateSaver.SaveState
func (r *SQLiteRepository) SaveState(ctx context.Context, state *domain.PersistedState) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing []TabModel
			if err := tx.Find(&existing).Error; err != nil {
				return fmt.Errorf("failed to load existing tabs: %w", err)
			}

			removed := make(map[string]bool)
			for _, tab := range existing {
				removed[tab.ID] = true
			}

			for i, tab := range state.Tabs {
				model := domainToTabModel(tab, i)
				if err := tx.Save(&model).Error; err != nil {
					return fmt.Errorf("failed to save tab %s: %w", tab.FolderPath, err)
				}
				delete(removed, tab.ID)

				// Replace child rows wholesale; the sets are small
				if err := tx.Where("tab_id = ?", tab.ID).Delete(&TabEditorModel{}).Error; err != nil {
					return fmt.Errorf("failed to clear editors for %s: %w", tab.ID, err)
				}
				for pos, uri := range tab.OpenEditors {
					if err := tx.Create(&TabEditorModel{TabID: tab.ID, URI: uri, Position: pos}).Error; err != nil {
						return fmt.Errorf("failed to save editor %s: %w", uri, err)
					}
				}

				if err := tx.Where("tab_id = ?", tab.ID).Delete(&TabViewStateModel{}).Error; err != nil {
					return fmt.Errorf("failed to clear view states for %s: %w", tab.ID, err)
				}
				for uri, view := range tab.ViewStates {
					if err := tx.Create(&TabViewStateModel{
						CursorColumn:  view.CursorColumn,
						CursorLine:    view.CursorLine,
						ScrollTopLine: view.ScrollTopLine,
						TabID:         tab.ID,
						URI:           uri,
					}).Error; err != nil {
						return fmt.Errorf("failed to save view state %s: %w", uri, err)
					}
				}
			}

			// Delete tabs no longer in the snapshot
			for id := range removed {
				if err := tx.Where("id = ?", id).Delete(&TabModel{}).Error; err != nil {
					return fmt.Errorf("failed to delete tab %s: %w", id, err)
				}
			}

			return tx.Save(&StoreMetaModel{
				ActiveTabID:   state.ActiveTabID,
				ID:            metaRowID,
				SchemaVersion: domain.StateVersion,
			}).Error
		})
	}, 3)
}

// withRetry retries operations on SQLITE_BUSY with exponential backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
