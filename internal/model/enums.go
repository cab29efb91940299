package model

import "strings"

// Category is the life area a task belongs to.
type Category string

const (
	CategoryHome    Category = "home"
	CategoryWork    Category = "work"
	CategoryFinance Category = "finance"
	CategoryHealth  Category = "health"
	CategoryFamily  Category = "family"
	CategoryOther   Category = "other"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeferred   Status = "deferred"
)

// Priority is shared by tasks and subtasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseCategory trims and lower-cases raw and reports whether it names a known category.
func ParseCategory(raw string) (Category, bool) {
	c := Category(normalize(raw))
	return c, c.Valid()
}

func (c Category) Valid() bool {
	switch c {
	case CategoryHome, CategoryWork, CategoryFinance, CategoryHealth, CategoryFamily, CategoryOther:
		return true
	}
	return false
}

// ParseStatus trims and lower-cases raw and reports whether it names a known status.
func ParseStatus(raw string) (Status, bool) {
	s := Status(normalize(raw))
	return s, s.Valid()
}

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusDeferred:
		return true
	}
	return false
}

// ParsePriority trims and lower-cases raw and reports whether it names a known priority.
func ParsePriority(raw string) (Priority, bool) {
	p := Priority(normalize(raw))
	return p, p.Valid()
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PriorityOrDefault returns the canonical priority for raw, or medium when raw is not one.
func PriorityOrDefault(raw string) Priority {
	if p, ok := ParsePriority(raw); ok {
		return p
	}
	return PriorityMedium
}

// Rank orders priorities high to low; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}
