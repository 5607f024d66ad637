package database

import (
	"fmt"
	"log/slog"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"gorm.io/gorm"
)

// OpenSessionIndex guarantees at most one running session per task on
// dialects that support partial indexes.
const OpenSessionIndex = "idx_task_sessions_open"

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.Epic{},
		&models.Sprint{},
		&models.Task{},
		&models.TaskSession{},
		&models.Bug{},
		&models.Note{},
		&models.Document{},
	}
}

// Migrate creates or updates the schema and the indexes gorm tags cannot express.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	log.Info("running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return err
	}
	log.Info("database migrations completed")
	return nil
}

// AddIndexes adds the composite and partial indexes used by the engine.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Active-task ordering and session aggregation
		{"tasks", "idx_tasks_due_date_priority", "due_date, priority"},
		{"task_sessions", "idx_task_sessions_task_end", "task_id, end_time"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		sql := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON task_sessions (task_id) WHERE end_time IS NULL", OpenSessionIndex)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", OpenSessionIndex, err)
		}
	default:
		// MySQL has no partial indexes; StartTimer serializes on the task row lock.
	}

	return nil
}
