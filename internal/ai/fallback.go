package ai

import (
	"fmt"
	"strings"

	"life-tasks/internal/model"
)

const (
	fallbackReasoning = "AI prioritization is unavailable right now; keeping the current priority."
	unrankedReasoning = "Not ranked by the assistant; keeping the current priority."
)

// fallbackBreakdown is the canonical plan, execute, review decomposition.
func fallbackBreakdown(title string) []SubtaskProposal {
	title = strings.TrimSpace(title)
	return []SubtaskProposal{
		{
			Title:             "Plan: " + title,
			Description:       "List what needs to be done, gather materials and decide on a first step.",
			Priority:          model.PriorityHigh,
			DueDateOffsetDays: daysFromNow(1),
		},
		{
			Title:             "Execute: " + title,
			Description:       "Work through the plan, one step at a time.",
			Priority:          model.PriorityMedium,
			DueDateOffsetDays: daysFromNow(3),
		},
		{
			Title:             "Review: " + title,
			Description:       "Check the result, tidy up and note anything left to follow up on.",
			Priority:          model.PriorityLow,
			DueDateOffsetDays: daysFromNow(5),
		},
	}
}

func fallbackPrioritized(tasks []TaskBrief) []PrioritizedTask {
	out := make([]PrioritizedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, annotate(t, model.PriorityOrDefault(t.Priority), fallbackReasoning))
	}
	return out
}

func fallbackTaskSuggestion(task TaskBrief) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Suggestions for %q:\n", strings.TrimSpace(task.Title)))
	sb.WriteString("- Break the task into small steps and start with the one that unblocks the rest.\n")
	sb.WriteString("- Write down the tools, documents or people you will need before you begin.\n")
	sb.WriteString("- Set aside a fixed block of time and check progress at the end of it.\n")
	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf("- Aim to finish a day before the due date (%s) to leave room for surprises.\n", task.DueDate.Format("2006-01-02")))
	}
	sb.WriteString("AI suggestions are unavailable right now; these are general tips.")
	return sb.String()
}

func fallbackSubtaskSuggestion(c SubtaskContext, question string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Guidance for %q (part of %q):\n", strings.TrimSpace(c.Subtask.Title), strings.TrimSpace(c.Task.Title)))
	if q := strings.TrimSpace(question); q != "" {
		sb.WriteString(fmt.Sprintf("We could not answer %q right now.\n", q))
	}
	sb.WriteString("- Define what \"done\" looks like for this step.\n")
	sb.WriteString("- Check whether an earlier step has to be finished first.\n")
	sb.WriteString("- Look for a local service or a how-to guide if the step needs expertise you do not have.\n")
	sb.WriteString("AI suggestions are unavailable right now; these are general tips.")
	return sb.String()
}
