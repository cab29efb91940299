package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	breakdownSystem  = "You are a helpful assistant that breaks down complex tasks into actionable subtasks."
	prioritizeSystem = "You are a helpful assistant that prioritizes tasks based on urgency, importance, and dependencies."
	suggestSystem    = "You are a helpful assistant that provides practical suggestions for completing tasks."
	subtaskSystem    = "You are a helpful assistant that gives detailed, practical guidance for one step of a larger task. Be specific to the user's situation."
)

func breakdownPrompt(title, description string) Prompt {
	return Prompt{
		System: breakdownSystem,
		User: fmt.Sprintf(
			"Break down this task into smaller, actionable subtasks: Task: %s\nDescription: %s\n\n"+
				"Respond with a JSON object {\"subtasks\": [...]} where each item has 'title', 'description', "+
				"'priority' (low, medium, high) and 'dueDateOffsetDays', the estimated number of days from now.",
			title, description),
		JSON: true,
	}
}

func prioritizePrompt(tasks []TaskBrief) Prompt {
	return Prompt{
		System: prioritizeSystem,
		User: fmt.Sprintf(
			"Prioritize these tasks and explain why: %s\n\n"+
				"Respond with a JSON object {\"tasks\": [...]} ordered from most to least urgent. Each item keeps "+
				"the original 'id' and 'title' and adds 'priority' (low, medium, high) and 'reasoning'.",
			mustJSON(tasks)),
		JSON: true,
	}
}

func taskSuggestionPrompt(task TaskBrief) Prompt {
	return Prompt{
		System: suggestSystem,
		User: fmt.Sprintf(
			"Provide suggestions, resources, and tips for completing this task: %s\n\n"+
				"Consider: who to contact, tools needed, common pitfalls, estimated time required, and any special considerations.",
			mustJSON(task)),
	}
}

func subtaskSuggestionPrompt(c SubtaskContext, question string) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Main task: %s\n", mustJSON(c.Task)))
	sb.WriteString(fmt.Sprintf("Step to help with: %s\n", mustJSON(c.Subtask)))
	if len(c.Siblings) > 0 {
		sb.WriteString(fmt.Sprintf("Other steps of the same task (for context only): %s\n", mustJSON(c.Siblings)))
	}
	if c.Location != "" {
		sb.WriteString(fmt.Sprintf("The user is located in: %s\n", c.Location))
	}
	if q := strings.TrimSpace(question); q != "" {
		sb.WriteString(fmt.Sprintf("\nAnswer this question about the step: %s\n", q))
	} else {
		sb.WriteString("\nExplain how to complete this step: concrete actions, resources, pitfalls and a time estimate.\n")
	}
	return Prompt{System: subtaskSystem, User: sb.String()}
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
