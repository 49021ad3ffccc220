package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"payflow/internal/models/db_models"
)

type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository
	Enqueue(ctx context.Context, task *db_models.Task) error
	// ListDue returns pending tasks whose run_at has passed and running tasks
	// whose lease expired.
	ListDue(ctx context.Context, now time.Time, limit int) ([]db_models.Task, error)
	// Claim leases a due task and counts the attempt. It reports false when
	// another worker got there first.
	Claim(ctx context.Context, id uuid.UUID, now time.Time, lease time.Duration) (bool, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error
	MarkDead(ctx context.Context, id uuid.UUID, lastErr string) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Task, error)
	ListByAggregate(ctx context.Context, aggregateID string) ([]db_models.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &taskRepository{db: tx}
}

func (r *taskRepository) Enqueue(ctx context.Context, task *db_models.Task) error {
	if task.Status == "" {
		task.Status = db_models.TaskStatusPending
	}
	if task.RunAt.IsZero() {
		task.RunAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) dueScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"((status = ? AND run_at <= ?) OR (status = ? AND locked_until < ?))",
			db_models.TaskStatusPending, now, db_models.TaskStatusRunning, now,
		)
	}
}

func (r *taskRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]db_models.Task, error) {
	var tasks []db_models.Task
	err := r.db.WithContext(ctx).
		Scopes(r.dueScope(now)).
		Order("run_at ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Claim(ctx context.Context, id uuid.UUID, now time.Time, lease time.Duration) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Task{}).
		Where("id = ?", id).
		Scopes(r.dueScope(now)).
		Updates(map[string]any{
			"status":       db_models.TaskStatusRunning,
			"locked_until": now.Add(lease),
			"attempts":     gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *taskRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, map[string]any{
		"status":       db_models.TaskStatusDone,
		"locked_until": nil,
		"last_error":   "",
	})
}

func (r *taskRepository) Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error {
	return r.update(ctx, id, map[string]any{
		"status":       db_models.TaskStatusPending,
		"run_at":       runAt,
		"locked_until": nil,
		"last_error":   lastErr,
	})
}

func (r *taskRepository) MarkDead(ctx context.Context, id uuid.UUID, lastErr string) error {
	return r.update(ctx, id, map[string]any{
		"status":       db_models.TaskStatusDead,
		"locked_until": nil,
		"last_error":   lastErr,
	})
}

func (r *taskRepository) update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Task{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Task, error) {
	var task db_models.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByAggregate(ctx context.Context, aggregateID string) ([]db_models.Task, error) {
	var tasks []db_models.Task
	err := r.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}
