package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"life-tasks/internal/model"
	"life-tasks/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Status        string      `json:"status"`
	Priority      string      `json:"priority"`
	DueDate       Date        `json:"dueDate"`
	ReminderDates []time.Time `json:"reminderDates"`
	Notes         string      `json:"notes"`
	Attachments   []string    `json:"attachments"`
}

// TaskPatch carries a partial task update. Only fields that are Set change.
type TaskPatch struct {
	Title         Optional[string]      `json:"title"`
	Description   Optional[string]      `json:"description"`
	Category      Optional[string]      `json:"category"`
	Status        Optional[string]      `json:"status"`
	Priority      Optional[string]      `json:"priority"`
	DueDate       Optional[Date]        `json:"dueDate"`
	ReminderDates Optional[[]time.Time] `json:"reminderDates"`
	Notes         Optional[string]      `json:"notes"`
	Attachments   Optional[[]string]    `json:"attachments"`
}

// SubtaskInput represents data required to add a subtask.
type SubtaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     Date     `json:"dueDate"`
	Notes       string   `json:"notes"`
	Resources   []string `json:"resources"`
}

// SubtaskPatch carries a partial subtask update.
type SubtaskPatch struct {
	Title       Optional[string]   `json:"title"`
	Description Optional[string]   `json:"description"`
	Priority    Optional[string]   `json:"priority"`
	DueDate     Optional[Date]     `json:"dueDate"`
	Notes       Optional[string]   `json:"notes"`
	Resources   Optional[[]string] `json:"resources"`
	Completed   Optional[bool]     `json:"completed"`
}

// TaskQuery holds the raw list filters. Empty values do not restrict.
type TaskQuery struct {
	Category string
	Status   string
	Priority string
}

// TaskService owns the task and subtask lifecycle, scoped to the authenticated owner.
type TaskService struct {
	tasks *repository.TaskRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewTaskService(tasks *repository.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, log: log, now: time.Now}
}

func (s *TaskService) CreateTask(ctx context.Context, owner *model.User, input TaskInput) (*model.Task, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	title, err := requireTitle(input.Title)
	if err != nil {
		return nil, err
	}

	category := model.CategoryOther
	if strings.TrimSpace(input.Category) != "" {
		if category, err = parseCategory(input.Category); err != nil {
			return nil, err
		}
	}
	status := model.StatusNotStarted
	if strings.TrimSpace(input.Status) != "" {
		if status, err = parseStatus(input.Status); err != nil {
			return nil, err
		}
	}
	priority := model.PriorityMedium
	if strings.TrimSpace(input.Priority) != "" {
		if priority, err = parsePriority("priority", input.Priority); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	task := model.Task{
		UserID:        owner.ID,
		Title:         title,
		Description:   input.Description,
		Category:      category,
		Priority:      priority,
		DueDate:       input.DueDate.Ptr(),
		ReminderDates: utcDates(input.ReminderDates),
		Notes:         input.Notes,
		Attachments:   nonNil(input.Attachments),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	task.SetStatus(status, now)

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	s.log.Debug().Str("task", task.ID).Str("user", owner.ID).Msg("task created")
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, owner *model.User, query TaskQuery) ([]model.Task, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	var filter repository.TaskFilter
	var err error
	if strings.TrimSpace(query.Category) != "" {
		if filter.Category, err = parseCategory(query.Category); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(query.Status) != "" {
		if filter.Status, err = parseStatus(query.Status); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(query.Priority) != "" {
		if filter.Priority, err = parsePriority("priority", query.Priority); err != nil {
			return nil, err
		}
	}
	return s.tasks.ListByUser(ctx, owner.ID, filter)
}

func (s *TaskService) GetTask(ctx context.Context, owner *model.User, taskID string) (*model.Task, error) {
	return s.loadOwned(ctx, owner, taskID)
}

func (s *TaskService) UpdateTask(ctx context.Context, owner *model.User, taskID string, patch TaskPatch) (*model.Task, error) {
	task, err := s.loadOwned(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	if patch.Title.Set {
		if patch.Title.Value == nil {
			return nil, invalid("title", "must not be null")
		}
		if task.Title, err = requireTitle(*patch.Title.Value); err != nil {
			return nil, err
		}
	}
	if patch.Description.Set {
		task.Description = stringOrEmpty(patch.Description.Value)
	}
	if patch.Category.Set {
		if patch.Category.Value == nil {
			return nil, invalid("category", "must not be null")
		}
		if task.Category, err = parseCategory(*patch.Category.Value); err != nil {
			return nil, err
		}
	}
	if patch.Priority.Set {
		if patch.Priority.Value == nil {
			return nil, invalid("priority", "must not be null")
		}
		if task.Priority, err = parsePriority("priority", *patch.Priority.Value); err != nil {
			return nil, err
		}
	}
	if patch.Status.Set {
		if patch.Status.Value == nil {
			return nil, invalid("status", "must not be null")
		}
		status, err := parseStatus(*patch.Status.Value)
		if err != nil {
			return nil, err
		}
		task.SetStatus(status, now)
	}
	if patch.DueDate.Set {
		task.DueDate = optionalDate(patch.DueDate)
	}
	if patch.ReminderDates.Set {
		var dates []time.Time
		if patch.ReminderDates.Value != nil {
			dates = *patch.ReminderDates.Value
		}
		task.ReminderDates = utcDates(dates)
	}
	if patch.Notes.Set {
		task.Notes = stringOrEmpty(patch.Notes.Value)
	}
	if patch.Attachments.Set {
		var attachments []string
		if patch.Attachments.Value != nil {
			attachments = *patch.Attachments.Value
		}
		task.Attachments = nonNil(attachments)
	}

	task.UpdatedAt = now
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes the task together with every subtask.
func (s *TaskService) DeleteTask(ctx context.Context, owner *model.User, taskID string) error {
	task, err := s.loadOwned(ctx, owner, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	s.log.Debug().Str("task", task.ID).Int("subtasks", len(task.Subtasks)).Msg("task deleted")
	return nil
}

// AddSubtask appends a subtask and returns the updated parent task.
func (s *TaskService) AddSubtask(ctx context.Context, owner *model.User, taskID string, input SubtaskInput) (*model.Task, error) {
	title, err := requireTitle(input.Title)
	if err != nil {
		return nil, err
	}
	priority := model.PriorityMedium
	if strings.TrimSpace(input.Priority) != "" {
		if priority, err = parsePriority("priority", input.Priority); err != nil {
			return nil, err
		}
	}

	task, err := s.loadOwned(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	subtask := model.Subtask{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate.Ptr(),
		Notes:       input.Notes,
		Resources:   nonNil(input.Resources),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.UpdatedAt = now
	if err := s.tasks.AppendSubtasks(ctx, task, []model.Subtask{subtask}); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateSubtask applies a partial update to one subtask and returns the updated parent task.
func (s *TaskService) UpdateSubtask(ctx context.Context, owner *model.User, taskID, subtaskID string, patch SubtaskPatch) (*model.Task, error) {
	task, err := s.loadOwned(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}
	subtask, ok := task.Subtask(subtaskID)
	if !ok {
		return nil, ErrSubtaskNotFound
	}
	now := s.now().UTC()

	if patch.Title.Set {
		if patch.Title.Value == nil {
			return nil, invalid("title", "must not be null")
		}
		if subtask.Title, err = requireTitle(*patch.Title.Value); err != nil {
			return nil, err
		}
	}
	if patch.Description.Set {
		subtask.Description = stringOrEmpty(patch.Description.Value)
	}
	if patch.Priority.Set {
		if patch.Priority.Value == nil {
			return nil, invalid("priority", "must not be null")
		}
		if subtask.Priority, err = parsePriority("priority", *patch.Priority.Value); err != nil {
			return nil, err
		}
	}
	if patch.DueDate.Set {
		subtask.DueDate = optionalDate(patch.DueDate)
	}
	if patch.Notes.Set {
		subtask.Notes = stringOrEmpty(patch.Notes.Value)
	}
	if patch.Resources.Set {
		var resources []string
		if patch.Resources.Value != nil {
			resources = *patch.Resources.Value
		}
		subtask.Resources = nonNil(resources)
	}
	if patch.Completed.Set {
		if patch.Completed.Value == nil {
			return nil, invalid("completed", "must not be null")
		}
		subtask.SetCompleted(*patch.Completed.Value, now)
	}

	subtask.UpdatedAt = now
	task.UpdatedAt = now
	if err := s.tasks.SaveSubtask(ctx, task, subtask); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteSubtask(ctx context.Context, owner *model.User, taskID, subtaskID string) error {
	task, err := s.loadOwned(ctx, owner, taskID)
	if err != nil {
		return err
	}
	if _, ok := task.Subtask(subtaskID); !ok {
		return ErrSubtaskNotFound
	}
	task.UpdatedAt = s.now().UTC()
	if err := s.tasks.DeleteSubtask(ctx, task, subtaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubtaskNotFound
		}
		return err
	}
	return nil
}

// AddReminder schedules one more reminder date on the task.
func (s *TaskService) AddReminder(ctx context.Context, owner *model.User, taskID string, at time.Time) (*model.Task, error) {
	if at.IsZero() {
		return nil, invalid("date", "is required")
	}
	task, err := s.loadOwned(ctx, owner, taskID)
	if err != nil {
		return nil, err
	}
	task.ReminderDates = append(task.ReminderDates, at.UTC())
	sort.Slice(task.ReminderDates, func(i, j int) bool {
		return task.ReminderDates[i].Before(task.ReminderDates[j])
	})
	task.UpdatedAt = s.now().UTC()
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// loadOwned resolves a task and applies the ownership check every access path goes through.
func (s *TaskService) loadOwned(ctx context.Context, owner *model.User, taskID string) (*model.Task, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(taskID) == "" {
		return nil, ErrTaskNotFound
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrTaskNotFound
	case err != nil:
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.UserID != owner.ID {
		return nil, ErrNotOwner
	}
	return task, nil
}

func requireTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", invalid("title", "is required")
	}
	return title, nil
}

func parseCategory(raw string) (model.Category, error) {
	c, ok := model.ParseCategory(raw)
	if !ok {
		return "", invalid("category", "unknown value %q", raw)
	}
	return c, nil
}

func parseStatus(raw string) (model.Status, error) {
	st, ok := model.ParseStatus(raw)
	if !ok {
		return "", invalid("status", "unknown value %q", raw)
	}
	return st, nil
}

func parsePriority(field, raw string) (model.Priority, error) {
	p, ok := model.ParsePriority(raw)
	if !ok {
		return "", invalid(field, "unknown value %q", raw)
	}
	return p, nil
}

func utcDates(dates []time.Time) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.UTC())
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
