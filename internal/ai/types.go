package ai

import (
	"time"

	"life-tasks/internal/model"
)

// SubtaskProposal is one step of a breakdown. DueDateOffsetDays counts days from now
// and is nil when the model proposed no date.
type SubtaskProposal struct {
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Priority          model.Priority `json:"priority"`
	DueDateOffsetDays *int           `json:"dueDateOffsetDays,omitempty"`
}

type BreakdownResult struct {
	Subtasks []SubtaskProposal `json:"subtasks"`
	Fallback bool              `json:"fallback"`
}

// TaskBrief is the task view sent to the model.
type TaskBrief struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// PrioritizedTask is a TaskBrief annotated with a canonical priority and the reasoning behind it.
type PrioritizedTask struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Status      string         `json:"status,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Priority    model.Priority `json:"priority"`
	Reasoning   string         `json:"reasoning"`
}

type PrioritizeResult struct {
	Tasks    []PrioritizedTask `json:"tasks"`
	Fallback bool              `json:"fallback"`
}

type Suggestion struct {
	Text     string `json:"suggestions"`
	Fallback bool   `json:"fallback"`
}

// SubtaskBrief is the subtask view sent to the model.
type SubtaskBrief struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// SubtaskContext is everything the model gets to answer a question about one subtask.
type SubtaskContext struct {
	Task     TaskBrief      `json:"task"`
	Subtask  SubtaskBrief   `json:"subtask"`
	Siblings []SubtaskBrief `json:"siblings,omitempty"`
	UserName string         `json:"userName,omitempty"`
	Location string         `json:"location,omitempty"`
}
