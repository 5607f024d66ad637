package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hsmith-dev/Trasker-WebApp/internal/database"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
	"gorm.io/gorm"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Start opens a new session. The task row is locked for the duration of the
// check-then-insert; the open-session unique index rejects any racer that
// slips past the check.
func (r *GormSessionRepository) Start(ctx context.Context, vis visibility.Context, taskID uint64, now time.Time) (*models.TaskSession, error) {
	session := &models.TaskSession{
		TaskID:    taskID,
		StartTime: now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireTask(tx, vis, taskID, true); err != nil {
			return err
		}

		var open int64
		if err := tx.Model(&models.TaskSession{}).
			Where("task_id = ? AND end_time IS NULL", taskID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrSessionOpen
		}

		if err := tx.Create(session).Error; err != nil {
			if IsUniqueViolation(err) {
				return ErrSessionOpen
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Stop closes the task's open session, if any, writing end time and elapsed
// seconds in a single UPDATE.
func (r *GormSessionRepository) Stop(ctx context.Context, vis visibility.Context, taskID uint64, now time.Time) (*models.TaskSession, error) {
	var stopped *models.TaskSession

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireTask(tx, vis, taskID, true); err != nil {
			return err
		}

		session, err := findOpen(tx, taskID)
		if err != nil || session == nil {
			return err
		}

		elapsed := session.ElapsedUntil(now)
		result := tx.Model(&models.TaskSession{}).
			Where("id = ? AND end_time IS NULL", session.ID).
			Updates(map[string]interface{}{
				"end_time":        now,
				"elapsed_seconds": elapsed,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		session.EndTime = &now
		session.ElapsedSeconds = elapsed
		stopped = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stopped, nil
}

// FindOpen returns the running session of a visible task, or nil
func (r *GormSessionRepository) FindOpen(ctx context.Context, vis visibility.Context, taskID uint64) (*models.TaskSession, error) {
	db := r.db.WithContext(ctx)
	if err := requireTask(db, vis, taskID, false); err != nil {
		return nil, err
	}
	return findOpen(db, taskID)
}

// TotalElapsed sums the elapsed seconds of a visible task's closed sessions
func (r *GormSessionRepository) TotalElapsed(ctx context.Context, vis visibility.Context, taskID uint64) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := requireTask(db, vis, taskID, false); err != nil {
		return 0, err
	}

	var total int64
	if err := db.Model(&models.TaskSession{}).
		Select("COALESCE(SUM(elapsed_seconds), 0)").
		Where("task_id = ? AND end_time IS NOT NULL", taskID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListByTask lists a visible task's sessions ordered by start time
func (r *GormSessionRepository) ListByTask(ctx context.Context, vis visibility.Context, taskID uint64) ([]models.TaskSession, error) {
	db := r.db.WithContext(ctx)
	if err := requireTask(db, vis, taskID, false); err != nil {
		return nil, err
	}

	sessions := []models.TaskSession{}
	if err := db.Where("task_id = ?", taskID).
		Order("start_time ASC, id ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// requireTask loads the task through the visibility scope, optionally taking
// a row lock, and returns gorm.ErrRecordNotFound when it is not visible.
func requireTask(db *gorm.DB, vis visibility.Context, taskID uint64, lock bool) error {
	query := db.Model(&models.Task{}).Select("tasks.id").Scopes(vis.Scope("tasks"))
	if lock {
		query = query.Scopes(database.ForUpdate)
	}
	var task models.Task
	return query.First(&task, taskID).Error
}

func findOpen(db *gorm.DB, taskID uint64) (*models.TaskSession, error) {
	var session models.TaskSession
	err := db.Where("task_id = ? AND end_time IS NULL", taskID).
		Order("id ASC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// IsUniqueViolation recognizes a unique constraint failure whether or not
// the dialect translated it to gorm.ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
