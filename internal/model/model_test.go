package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	p, ok := ParsePriority(" HIGH ")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)

	_, ok = ParsePriority("urgent")
	assert.False(t, ok)

	c, ok := ParseCategory("Finance")
	assert.True(t, ok)
	assert.Equal(t, CategoryFinance, c)

	s, ok := ParseStatus("In_Progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, s)

	_, ok = ParseStatus("in-progress")
	assert.False(t, ok)
}

func TestPriorityOrDefault(t *testing.T) {
	assert.Equal(t, PriorityLow, PriorityOrDefault("Low"))
	assert.Equal(t, PriorityMedium, PriorityOrDefault(""))
	assert.Equal(t, PriorityMedium, PriorityOrDefault("critical"))
	assert.Less(t, PriorityHigh.Rank(), PriorityLow.Rank())
}

func TestTaskSetStatus(t *testing.T) {
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var task Task

	task.SetStatus(StatusCompleted, first)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, first, *task.CompletedAt)

	task.SetStatus(StatusCompleted, first.Add(time.Hour))
	assert.Equal(t, first, *task.CompletedAt)

	task.SetStatus(StatusDeferred, first)
	assert.Nil(t, task.CompletedAt)
}

func TestSubtaskSetCompleted(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var sub Subtask

	sub.SetCompleted(true, now)
	assert.True(t, sub.Completed)
	require.NotNil(t, sub.CompletedAt)

	sub.SetCompleted(false, now)
	assert.False(t, sub.Completed)
	assert.Nil(t, sub.CompletedAt)
}

func TestTaskSubtaskLookup(t *testing.T) {
	task := Task{Subtasks: []Subtask{{ID: "a", Title: "first"}, {ID: "b", Title: "second"}}}

	sub, ok := task.Subtask("b")
	require.True(t, ok)
	sub.Title = "renamed"
	assert.Equal(t, "renamed", task.Subtasks[1].Title)

	_, ok = task.Subtask("c")
	assert.False(t, ok)
}
