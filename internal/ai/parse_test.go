package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"life-tasks/internal/model"
)

func TestParseBreakdown(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []SubtaskProposal
	}{
		{
			name: "wrapped object",
			text: `{"subtasks":[{"title":"Measure","description":"tape","priority":"HIGH","dueDateOffsetDays":2}]}`,
			want: []SubtaskProposal{{Title: "Measure", Description: "tape", Priority: model.PriorityHigh, DueDateOffsetDays: daysFromNow(2)}},
		},
		{
			name: "bare array with dueDate offset",
			text: `[{"title":"Buy paint","priority":"Low","dueDate":4},{"title":"Paint","priority":"medium","dueDate":"7 days"}]`,
			want: []SubtaskProposal{
				{Title: "Buy paint", Priority: model.PriorityLow, DueDateOffsetDays: daysFromNow(4)},
				{Title: "Paint", Priority: model.PriorityMedium, DueDateOffsetDays: daysFromNow(7)},
			},
		},
		{
			name: "embedded in prose and fences",
			text: "Sure! Here is the plan:\n```json\n{\"steps\":[{\"title\":\"Sort items\",\"priority\":\"urgent\"}]}\n```\nGood luck.",
			want: []SubtaskProposal{{Title: "Sort items", Priority: model.PriorityMedium}},
		},
		{
			name: "unparsable offset leaves the date unset",
			text: `[{"title":"Stretch","dueDate":"soon"},{"title":"Rest","dueInDays":"2 days"}]`,
			want: []SubtaskProposal{
				{Title: "Stretch", Priority: model.PriorityMedium},
				{Title: "Rest", Priority: model.PriorityMedium, DueDateOffsetDays: daysFromNow(2)},
			},
		},
		{
			name: "untitled items dropped and negative offsets clamped",
			text: `{"subtasks":[{"title":"  "},{"title":"Call plumber","dueDateOffsetDays":-3}]}`,
			want: []SubtaskProposal{{Title: "Call plumber", Priority: model.PriorityMedium, DueDateOffsetDays: daysFromNow(0)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBreakdown(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBreakdownFailures(t *testing.T) {
	for _, text := range []string{
		"",
		"I cannot help with that.",
		`{"subtasks": []}`,
		`{"answer": "do it"}`,
		`[{"description":"no title"}]`,
	} {
		_, err := parseBreakdown(text)
		var perr *ParseError
		assert.ErrorAs(t, err, &perr, text)
	}
}

func TestParsePrioritized(t *testing.T) {
	input := []TaskBrief{
		{ID: "a", Title: "Pay rent", Priority: "low"},
		{ID: "b", Title: "Book dentist"},
		{Title: "Water plants", Priority: "high"},
	}

	text := `Here you go: {"tasks":[
		{"id":"b","title":"Book dentist","priority":"High","reasoning":"health first"},
		{"title":"pay RENT","priority":"medium","reasoning":""}
	]}`

	got, err := parsePrioritized(text, input)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, model.PriorityHigh, got[0].Priority)
	assert.Equal(t, "health first", got[0].Reasoning)

	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, model.PriorityMedium, got[1].Priority)
	assert.NotEmpty(t, got[1].Reasoning)

	assert.Equal(t, "Water plants", got[2].Title)
	assert.Equal(t, model.PriorityHigh, got[2].Priority)
	assert.Equal(t, unrankedReasoning, got[2].Reasoning)
}

func TestParsePrioritizedByIndex(t *testing.T) {
	input := []TaskBrief{{Title: "X"}, {Title: "Y"}}

	got, err := parsePrioritized(`[{"priority":"low","reasoning":"r1"},{"priority":"bogus","reasoning":"r2"}]`, input)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "X", got[0].Title)
	assert.Equal(t, model.PriorityLow, got[0].Priority)
	assert.Equal(t, model.PriorityMedium, got[1].Priority)
}

func TestParsePrioritizedNoMatch(t *testing.T) {
	_, err := parsePrioritized(`[{"title":"Something else","priority":"high"}]`, []TaskBrief{{Title: "X"}})
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestParseSuggestion(t *testing.T) {
	got, err := parseSuggestion("  Start with the pantry.  ")
	require.NoError(t, err)
	assert.Equal(t, "Start with the pantry.", got)

	got, err = parseSuggestion(`{"suggestions": "Call the landlord first."}`)
	require.NoError(t, err)
	assert.Equal(t, "Call the landlord first.", got)

	_, err = parseSuggestion("   \n")
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
}
