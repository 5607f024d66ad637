package repository

import (
	"context"

	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
	"gorm.io/gorm"
)

// DeleteHook runs inside the delete transaction before the record is removed.
type DeleteHook func(tx *gorm.DB, id uint64) error

// GormOwnedRepository is a GORM implementation of OwnedRepository for any
// model that embeds models.Ownership.
type GormOwnedRepository[T any] struct {
	db       *gorm.DB
	table    string
	omit     []string
	onDelete DeleteHook
}

// NewOwnedRepository creates a scoped repository over table.
func NewOwnedRepository[T any](db *gorm.DB, table string, onDelete DeleteHook) *GormOwnedRepository[T] {
	return &GormOwnedRepository[T]{db: db, table: table, onDelete: onDelete}
}

// NewEpicRepository detaches sprints from a deleted epic.
func NewEpicRepository(db *gorm.DB) OwnedRepository[models.Epic] {
	return NewOwnedRepository[models.Epic](db, "epics", func(tx *gorm.DB, id uint64) error {
		return tx.Model(&models.Sprint{}).Where("epic_id = ?", id).Update("epic_id", nil).Error
	})
}

// NewSprintRepository detaches tasks from a deleted sprint.
func NewSprintRepository(db *gorm.DB) OwnedRepository[models.Sprint] {
	return NewOwnedRepository[models.Sprint](db, "sprints", func(tx *gorm.DB, id uint64) error {
		return tx.Model(&models.Task{}).Where("sprint_id = ?", id).Update("sprint_id", nil).Error
	})
}

func NewBugRepository(db *gorm.DB) OwnedRepository[models.Bug] {
	return NewOwnedRepository[models.Bug](db, "bugs", nil)
}

// NewNoteRepository deletes the documents attached to a deleted note.
func NewNoteRepository(db *gorm.DB) OwnedRepository[models.Note] {
	return NewOwnedRepository[models.Note](db, "notes", func(tx *gorm.DB, id uint64) error {
		return tx.Where("note_id = ?", id).Delete(&models.Document{}).Error
	})
}

// Create creates a new record
func (r *GormOwnedRepository[T]) Create(ctx context.Context, record *T) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindVisible finds a visible record by ID
func (r *GormOwnedRepository[T]) FindVisible(ctx context.Context, vis visibility.Context, id uint64) (*T, error) {
	var record T
	if err := r.scoped(r.db.WithContext(ctx), vis).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List retrieves visible records matching filter, ordered by ID
func (r *GormOwnedRepository[T]) List(ctx context.Context, vis visibility.Context, filter Filter) ([]T, error) {
	query := r.scoped(r.db.WithContext(ctx), vis)
	if len(filter) > 0 {
		query = query.Where(map[string]interface{}(filter))
	}

	records := []T{}
	if err := query.Order(r.table + ".id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update applies column updates to a visible record and returns the new row
func (r *GormOwnedRepository[T]) Update(ctx context.Context, vis visibility.Context, id uint64, fields map[string]interface{}) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.scoped(tx, vis).First(&record, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&record).Updates(fields).Error; err != nil {
				return err
			}
		}
		return r.scoped(tx, vis).First(&record, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes a visible record after running the delete hook
func (r *GormOwnedRepository[T]) Delete(ctx context.Context, vis visibility.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record T
		if err := r.scoped(tx, vis).First(&record, id).Error; err != nil {
			return err
		}
		if r.onDelete != nil {
			if err := r.onDelete(tx, id); err != nil {
				return err
			}
		}
		return tx.Delete(new(T), id).Error
	})
}

func (r *GormOwnedRepository[T]) scoped(db *gorm.DB, vis visibility.Context) *gorm.DB {
	query := db.Model(new(T)).Scopes(vis.Scope(r.table))
	if len(r.omit) > 0 {
		query = query.Omit(r.omit...)
	}
	return query
}

// GormDocumentRepository keeps document content out of listings.
type GormDocumentRepository struct {
	*GormOwnedRepository[models.Document]
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	owned := NewOwnedRepository[models.Document](db, "documents", nil)
	owned.omit = []string{"content"}
	return &GormDocumentRepository{GormOwnedRepository: owned}
}

// FindContent finds a visible document including its content
func (r *GormDocumentRepository) FindContent(ctx context.Context, vis visibility.Context, id uint64) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).Scopes(vis.Scope(r.table)).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}
