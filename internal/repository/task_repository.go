package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"life-tasks/internal/model"
)

// TaskFilter narrows ListByUser. Zero fields do not restrict.
type TaskFilter struct {
	Category model.Category
	Status   model.Status
	Priority model.Priority
}

// TaskRepository handles CRUD for tasks and their subtasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func orderedSubtasks(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subtasks := task.Subtasks
		task.Subtasks = nil
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		for i := range subtasks {
			subtasks[i].TaskID = task.ID
			subtasks[i].Position = i + 1
		}
		if len(subtasks) > 0 {
			if err := tx.Create(&subtasks).Error; err != nil {
				return err
			}
		}
		task.Subtasks = subtasks
		return nil
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	if task.Subtasks == nil {
		task.Subtasks = []model.Subtask{}
	}
	return nil
}

// FindByID loads a task with its subtasks regardless of owner; callers enforce ownership.
func (r *TaskRepository) FindByID(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Subtasks", orderedSubtasks).
		Where("id = ?", taskID).First(&task).Error; err != nil {
		return nil, err
	}
	if task.Subtasks == nil {
		task.Subtasks = []model.Subtask{}
	}
	return &task, nil
}

// ListByUser returns the user's tasks, newest first.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Preload("Subtasks", orderedSubtasks).Where("user_id = ?", userID)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	tasks := []model.Task{}
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	for i := range tasks {
		if tasks[i].Subtasks == nil {
			tasks[i].Subtasks = []model.Subtask{}
		}
	}
	return tasks, nil
}

// Save writes the task's own columns. Subtasks are persisted through the subtask methods.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Delete removes a task and all of its subtasks in one transaction.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&model.Subtask{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", taskID).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// AppendSubtasks adds subtasks after the existing ones and saves the parent's columns.
func (r *TaskRepository) AppendSubtasks(ctx context.Context, task *model.Task, subtasks []model.Subtask) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&model.Subtask{}).Where("task_id = ?", task.ID).
			Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
			return err
		}
		for i := range subtasks {
			subtasks[i].TaskID = task.ID
			subtasks[i].Position = maxPos + i + 1
		}
		if len(subtasks) > 0 {
			if err := tx.Create(&subtasks).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(task).Error
	})
	if err != nil {
		return fmt.Errorf("append subtasks: %w", err)
	}
	task.Subtasks = append(task.Subtasks, subtasks...)
	return nil
}

// SaveSubtask writes one subtask and bumps the parent's updated_at.
func (r *TaskRepository) SaveSubtask(ctx context.Context, task *model.Task, subtask *model.Subtask) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(subtask).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(task).Error
	})
	if err != nil {
		return fmt.Errorf("save subtask: %w", err)
	}
	return nil
}

// DeleteSubtask removes one subtask of the task. It reports gorm.ErrRecordNotFound when nothing matched.
func (r *TaskRepository) DeleteSubtask(ctx context.Context, task *model.Task, subtaskID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND task_id = ?", subtaskID, task.ID).Delete(&model.Subtask{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Omit(clause.Associations).Save(task).Error
	})
	if err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return nil
}

// ListReminderCandidates returns open tasks that are due in [from, to) or carry any reminder date.
// Reminder dates are matched against the current day by the caller.
func (r *TaskRepository) ListReminderCandidates(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("status <> ?", model.StatusCompleted).
		Where(r.db.Where("due_date >= ? AND due_date < ?", from.UTC(), to.UTC()).
			Or("reminder_dates IS NOT NULL AND reminder_dates <> ?", "[]")).
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	return tasks, nil
}
