package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/hsmith-dev/Trasker-WebApp/internal/database"
	"github.com/hsmith-dev/Trasker-WebApp/internal/models"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const activeTaskOrder = "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, " +
	"CASE tasks.priority WHEN 'Critical' THEN 1 WHEN 'High' THEN 2 WHEN 'Medium' THEN 3 WHEN 'Low' THEN 4 ELSE 5 END, " +
	"tasks.id ASC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindVisible finds a visible task by ID with optional preloading
func (r *GormTaskRepository) FindVisible(ctx context.Context, vis visibility.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx).Scopes(vis.Scope("tasks"))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves visible tasks with filtering, ordering and pagination
func (r *GormTaskRepository) List(ctx context.Context, vis visibility.Context, filter TaskFilter) ([]models.Task, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Task{}).Scopes(vis.Scope("tasks"), filterTasks(filter))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := base()
	if filter.SortActive {
		listQuery = listQuery.Order(activeTaskOrder)
	} else {
		listQuery = listQuery.Order("tasks.id ASC")
	}

	tasks := []models.Task{}
	if err := listQuery.
		Scopes(database.Paginate(filter.Pagination)).
		Preload("Owner").
		Preload("Team").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func filterTasks(filter TaskFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			db = db.Where("tasks.status = ?", *filter.Status)
		}
		if filter.ExcludeCompleted {
			db = db.Where("tasks.status <> ?", models.TaskStatusCompleted)
		}
		if filter.Category != nil {
			db = db.Where("tasks.category = ?", *filter.Category)
		}
		if filter.Priority != nil {
			db = db.Where("tasks.priority = ?", *filter.Priority)
		}
		if filter.ParentTaskID != nil {
			db = db.Where("tasks.parent_task_id = ?", *filter.ParentTaskID)
		}
		if filter.SprintID != nil {
			db = db.Where("tasks.sprint_id = ?", *filter.SprintID)
		}
		if filter.EpicID != nil {
			db = db.Where("tasks.sprint_id IN (SELECT sprints.id FROM sprints WHERE sprints.epic_id = ?)", *filter.EpicID)
		}
		if filter.DueFrom != nil {
			db = db.Where("tasks.due_date >= ?", *filter.DueFrom)
		}
		if filter.DueTo != nil {
			db = db.Where("tasks.due_date <= ?", *filter.DueTo)
		}
		if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
			pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
			db = db.Where(fmt.Sprintf("(%s LIKE ? ESCAPE '!' OR %s LIKE ? ESCAPE '!')",
				database.LowerExpr(db, "tasks.title"), database.LowerExpr(db, "tasks.description")), pattern, pattern)
		}
		if filter.TeamID != nil {
			db = db.Where("tasks.owner_team_id = ?", *filter.TeamID)
		}
		if filter.AssigneeID != nil {
			db = db.Where("tasks.owner_user_id = ?", *filter.AssigneeID)
		}
		return db
	}
}

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// Update updates a visible task's columns
func (r *GormTaskRepository) Update(ctx context.Context, vis visibility.Context, id uint64, fields map[string]interface{}) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(vis.Scope("tasks"), database.ForUpdate).First(&task, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&task).Omit(clause.Associations).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&task, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// HasAncestor walks parent_task_id links up from id without the visibility
// scope. The walk gives up after maxDepth links.
func (r *GormTaskRepository) HasAncestor(ctx context.Context, id, ancestorID uint64, maxDepth int) (bool, error) {
	current := id
	for depth := 0; depth < maxDepth; depth++ {
		var parents []*uint64
		if err := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", current).Pluck("parent_task_id", &parents).Error; err != nil {
			return false, err
		}
		if len(parents) == 0 || parents[0] == nil {
			return false, nil
		}
		if *parents[0] == ancestorID {
			return true, nil
		}
		current = *parents[0]
	}
	return false, nil
}

// Delete removes a visible task together with its descendant sub-tasks and
// their sessions. Bugs pointing at a removed task are detached.
func (r *GormTaskRepository) Delete(ctx context.Context, vis visibility.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Scopes(vis.Scope("tasks"), database.ForUpdate).First(&task, id).Error; err != nil {
			return err
		}

		ids, err := descendantTaskIDs(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskSession{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Bug{}).Where("task_id IN ?", ids).Update("task_id", nil).Error; err != nil {
			return err
		}

		// Children first so a parent_task_id foreign key never dangles.
		for i := len(ids) - 1; i >= 0; i-- {
			if err := tx.Delete(&models.Task{}, ids[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// descendantTaskIDs returns root followed by every transitive sub-task in
// breadth-first order.
func descendantTaskIDs(tx *gorm.DB, root uint64) ([]uint64, error) {
	ids := []uint64{root}
	seen := map[uint64]struct{}{root: {}}
	frontier := []uint64{root}

	for len(frontier) > 0 {
		var children []uint64
		if err := tx.Model(&models.Task{}).
			Where("parent_task_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			ids = append(ids, child)
			frontier = append(frontier, child)
		}
	}

	return ids, nil
}
