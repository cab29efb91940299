package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a top-level unit of work owned by one user.
type Task struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	UserID        string      `gorm:"index;size:36;not null" json:"userId"`
	Title         string      `gorm:"not null" json:"title"`
	Description   string      `json:"description"`
	Category      Category    `gorm:"size:16;index" json:"category"`
	Status        Status      `gorm:"size:16;index" json:"status"`
	Priority      Priority    `gorm:"size:8;index" json:"priority"`
	DueDate       *time.Time  `gorm:"index" json:"dueDate"`
	ReminderDates []time.Time `gorm:"serializer:json" json:"reminderDates"`
	Notes         string      `json:"notes"`
	Attachments   []string    `gorm:"serializer:json" json:"attachments"`
	AIGenerated   bool        `json:"aiGenerated"`
	CompletedAt   *time.Time  `json:"completedAt"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Subtasks      []Subtask   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"subtasks"`
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SetStatus moves the task to status and keeps CompletedAt in step with it.
func (t *Task) SetStatus(status Status, now time.Time) {
	t.Status = status
	switch {
	case status == StatusCompleted && t.CompletedAt == nil:
		t.CompletedAt = &now
	case status != StatusCompleted:
		t.CompletedAt = nil
	}
}

// Subtask returns the embedded subtask with the given id.
func (t *Task) Subtask(id string) (*Subtask, bool) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i], true
		}
	}
	return nil, false
}

// Subtask is a smaller unit of work inside a task. It has no identity outside its parent.
type Subtask struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	TaskID      string     `gorm:"index;size:36;not null" json:"taskId"`
	Position    int        `json:"-"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    Priority   `gorm:"size:8" json:"priority"`
	Notes       string     `json:"notes"`
	Resources   []string   `gorm:"serializer:json" json:"resources"`
	CompletedAt *time.Time `json:"completedAt"`
	AIAssisted  bool       `json:"aiAssisted"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (s *Subtask) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SetCompleted toggles the subtask and keeps CompletedAt in step with it.
func (s *Subtask) SetCompleted(completed bool, now time.Time) {
	s.Completed = completed
	switch {
	case completed && s.CompletedAt == nil:
		s.CompletedAt = &now
	case !completed:
		s.CompletedAt = nil
	}
}
