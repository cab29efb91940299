package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"life-tasks/internal/ai"
	"life-tasks/internal/model"
	"life-tasks/internal/repository"
)

// BreakdownRequest asks for a decomposition. With TaskID set the proposals are merged into that task.
type BreakdownRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TaskID      string `json:"taskId"`
}

// BreakdownResponse carries the proposals and, when merged, the updated task.
type BreakdownResponse struct {
	Subtasks []ai.SubtaskProposal `json:"subtasks"`
	Task     *model.Task          `json:"task,omitempty"`
	Fallback bool                 `json:"fallback"`
}

// SuggestionRequest names either an inline task or a stored one.
type SuggestionRequest struct {
	Task   *ai.TaskBrief `json:"task"`
	TaskID string        `json:"taskId"`
}

type SubtaskSuggestionRequest struct {
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
	Question  string `json:"question"`
}

// SubtaskSuggestionResponse returns the advice along with the subtask it was recorded on.
type SubtaskSuggestionResponse struct {
	Suggestions string         `json:"suggestions"`
	Subtask     *model.Subtask `json:"subtask"`
	Fallback    bool           `json:"fallback"`
}

// AssistService runs the AI workflows on behalf of an owner.
type AssistService struct {
	adapter *ai.Adapter
	tasks   *TaskService
	repo    *repository.TaskRepository
	log     zerolog.Logger
	now     func() time.Time
}

func NewAssistService(adapter *ai.Adapter, tasks *TaskService, repo *repository.TaskRepository, log zerolog.Logger) *AssistService {
	return &AssistService{adapter: adapter, tasks: tasks, repo: repo, log: log, now: time.Now}
}

func (s *AssistService) Breakdown(ctx context.Context, owner *model.User, req BreakdownRequest) (*BreakdownResponse, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	title := strings.TrimSpace(req.Title)
	if title == "" && strings.TrimSpace(req.TaskID) == "" {
		return nil, invalid("title", "is required")
	}

	var task *model.Task
	if req.TaskID != "" {
		var err error
		if task, err = s.tasks.loadOwned(ctx, owner, req.TaskID); err != nil {
			return nil, err
		}
		if title == "" {
			title = task.Title
		}
	}
	description := req.Description
	if description == "" && task != nil {
		description = task.Description
	}

	result, err := s.adapter.Breakdown(ctx, title, description)
	if err != nil {
		return nil, adapterError(err)
	}
	resp := &BreakdownResponse{Subtasks: result.Subtasks, Fallback: result.Fallback}
	if task == nil {
		return resp, nil
	}

	now := s.now().UTC()
	subtasks := make([]model.Subtask, 0, len(result.Subtasks))
	for _, p := range result.Subtasks {
		subtask := model.Subtask{
			Title:       p.Title,
			Description: p.Description,
			Priority:    model.PriorityOrDefault(string(p.Priority)),
			Resources:   []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if p.DueDateOffsetDays != nil {
			due := now.AddDate(0, 0, *p.DueDateOffsetDays)
			subtask.DueDate = &due
		}
		subtasks = append(subtasks, subtask)
	}
	task.AIGenerated = true
	task.UpdatedAt = now
	if err := s.repo.AppendSubtasks(ctx, task, subtasks); err != nil {
		return nil, err
	}
	s.log.Info().Str("task", task.ID).Int("added", len(subtasks)).Bool("fallback", result.Fallback).Msg("breakdown merged")
	resp.Task = task
	return resp, nil
}

func (s *AssistService) Prioritize(ctx context.Context, owner *model.User, tasks []ai.TaskBrief) (*ai.PrioritizeResult, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	result, err := s.adapter.Prioritize(ctx, tasks)
	if err != nil {
		return nil, adapterError(err)
	}
	return &result, nil
}

func (s *AssistService) SuggestForTask(ctx context.Context, owner *model.User, req SuggestionRequest) (*ai.Suggestion, error) {
	if owner == nil {
		return nil, ErrUnauthorized
	}
	var brief ai.TaskBrief
	switch {
	case req.Task != nil && strings.TrimSpace(req.Task.Title) != "":
		brief = *req.Task
	case req.TaskID != "":
		task, err := s.tasks.loadOwned(ctx, owner, req.TaskID)
		if err != nil {
			return nil, err
		}
		brief = taskBrief(task)
	default:
		return nil, invalid("task", "title is required")
	}

	result, err := s.adapter.SuggestForTask(ctx, brief)
	if err != nil {
		return nil, adapterError(err)
	}
	return &result, nil
}

func (s *AssistService) SuggestForSubtask(ctx context.Context, owner *model.User, req SubtaskSuggestionRequest) (*SubtaskSuggestionResponse, error) {
	if strings.TrimSpace(req.TaskID) == "" {
		return nil, invalid("taskId", "is required")
	}
	if strings.TrimSpace(req.SubtaskID) == "" {
		return nil, invalid("subtaskId", "is required")
	}
	task, err := s.tasks.loadOwned(ctx, owner, req.TaskID)
	if err != nil {
		return nil, err
	}
	subtask, ok := task.Subtask(req.SubtaskID)
	if !ok {
		return nil, ErrSubtaskNotFound
	}

	c := ai.SubtaskContext{
		Task:     taskBrief(task),
		Subtask:  subtaskBrief(subtask),
		UserName: owner.Name,
		Location: owner.Preferences.Location,
	}
	for i := range task.Subtasks {
		if task.Subtasks[i].ID != subtask.ID {
			c.Siblings = append(c.Siblings, subtaskBrief(&task.Subtasks[i]))
		}
	}

	result, err := s.adapter.SuggestForSubtask(ctx, c, strings.TrimSpace(req.Question))
	if err != nil {
		return nil, adapterError(err)
	}
	if !result.Fallback {
		now := s.now().UTC()
		subtask.AIAssisted = true
		subtask.UpdatedAt = now
		task.UpdatedAt = now
		if err := s.repo.SaveSubtask(ctx, task, subtask); err != nil {
			return nil, err
		}
	}
	return &SubtaskSuggestionResponse{Suggestions: result.Text, Subtask: subtask, Fallback: result.Fallback}, nil
}

func adapterError(err error) error {
	switch {
	case errors.Is(err, ai.ErrMissingTitle):
		return invalid("title", "is required")
	case errors.Is(err, ai.ErrNoTasks):
		return invalid("tasks", "must not be empty")
	}
	return err
}

func taskBrief(t *model.Task) ai.TaskBrief {
	return ai.TaskBrief{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    string(t.Category),
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
	}
}

func subtaskBrief(s *model.Subtask) ai.SubtaskBrief {
	return ai.SubtaskBrief{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Priority:    string(s.Priority),
		Completed:   s.Completed,
		DueDate:     s.DueDate,
	}
}
