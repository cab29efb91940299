package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"life-tasks/internal/model"
)

// maxEmbeddedCandidates bounds how many '{' / '[' positions the extraction stage tries.
const maxEmbeddedCandidates = 64

// ParseError means the model's text could not be turned into the structure an intent needs.
type ParseError struct {
	Intent string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %s", e.Intent, e.Reason)
}

// decodeStructured runs the two-stage parse: the whole text as JSON first, then the first
// JSON value embedded in surrounding prose or code fences that decode accepts.
func decodeStructured(text string, decode func(raw []byte) error) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty response")
	}
	firstErr := decode([]byte(trimmed))
	if firstErr == nil {
		return nil
	}

	tried := 0
	for i, r := range trimmed {
		if r != '{' && r != '[' {
			continue
		}
		if tried == maxEmbeddedCandidates {
			break
		}
		tried++
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(trimmed[i:])).Decode(&raw); err != nil {
			continue
		}
		if err := decode(raw); err == nil {
			return nil
		}
	}
	return firstErr
}

// looseString accepts a JSON string, number or bool and keeps its text.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		*s = ""
		return nil
	}
	*s = looseString(data)
	return nil
}

func (s looseString) trimmed() string {
	return strings.TrimSpace(string(s))
}

// offsetDays accepts 3, 3.5, "3" or "3 days". Anything else leaves it unset.
type offsetDays struct {
	set  bool
	days int
}

func (o *offsetDays) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		o.set, o.days = true, int(num+0.5)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return nil
	}
	str = strings.TrimSpace(str)
	end := strings.IndexFunc(str, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(str)
	}
	if n, err := strconv.Atoi(str[:end]); err == nil {
		o.set, o.days = true, n
	}
	return nil
}

type rawProposal struct {
	Title             looseString `json:"title"`
	Description       looseString `json:"description"`
	Priority          looseString `json:"priority"`
	DueDateOffsetDays offsetDays  `json:"dueDateOffsetDays"`
	DueDate           offsetDays  `json:"dueDate"`
	DueInDays         offsetDays  `json:"dueInDays"`
}

// offset returns the first offset the model supplied, or nil.
func (p rawProposal) offset() *int {
	for _, o := range []offsetDays{p.DueDateOffsetDays, p.DueDate, p.DueInDays} {
		if o.set {
			return daysFromNow(o.days)
		}
	}
	return nil
}

// daysFromNow clamps negative offsets to today.
func daysFromNow(n int) *int {
	if n < 0 {
		n = 0
	}
	return &n
}

func parseBreakdown(text string) ([]SubtaskProposal, error) {
	var proposals []SubtaskProposal
	err := decodeStructured(text, func(raw []byte) error {
		items, err := breakdownItems(raw)
		if err != nil {
			return err
		}
		proposals = proposals[:0]
		for _, item := range items {
			title := item.Title.trimmed()
			if title == "" {
				continue
			}
			proposals = append(proposals, SubtaskProposal{
				Title:             title,
				Description:       item.Description.trimmed(),
				Priority:          model.PriorityOrDefault(string(item.Priority)),
				DueDateOffsetDays: item.offset(),
			})
		}
		if len(proposals) == 0 {
			return fmt.Errorf("no titled subtasks")
		}
		return nil
	})
	if err != nil {
		return nil, &ParseError{Intent: "breakdown", Reason: err.Error()}
	}
	return proposals, nil
}

func breakdownItems(raw []byte) ([]rawProposal, error) {
	var list []rawProposal
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Subtasks []rawProposal `json:"subtasks"`
		Tasks    []rawProposal `json:"tasks"`
		Steps    []rawProposal `json:"steps"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	for _, candidate := range [][]rawProposal{wrapped.Subtasks, wrapped.Tasks, wrapped.Steps} {
		if len(candidate) > 0 {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("no subtask list found")
}

type rawPrioritized struct {
	ID        looseString `json:"id"`
	MongoID   looseString `json:"_id"`
	Title     looseString `json:"title"`
	Priority  looseString `json:"priority"`
	Reasoning looseString `json:"reasoning"`
}

// parsePrioritized maps the model's ordering back onto input. Every input task appears exactly
// once: matched ones in the model's order, unmatched ones after them with their own priority.
func parsePrioritized(text string, input []TaskBrief) ([]PrioritizedTask, error) {
	var out []PrioritizedTask
	err := decodeStructured(text, func(raw []byte) error {
		items, err := prioritizedItems(raw)
		if err != nil {
			return err
		}
		out = matchPrioritized(items, input)
		if out == nil {
			return fmt.Errorf("no task matched the input")
		}
		return nil
	})
	if err != nil {
		return nil, &ParseError{Intent: "prioritize", Reason: err.Error()}
	}
	return out, nil
}

func prioritizedItems(raw []byte) ([]rawPrioritized, error) {
	var list []rawPrioritized
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Tasks            []rawPrioritized `json:"tasks"`
		PrioritizedTasks []rawPrioritized `json:"prioritizedTasks"`
		Prioritized      []rawPrioritized `json:"prioritized_tasks"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	for _, candidate := range [][]rawPrioritized{wrapped.Tasks, wrapped.PrioritizedTasks, wrapped.Prioritized} {
		if len(candidate) > 0 {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("no task list found")
}

func matchPrioritized(items []rawPrioritized, input []TaskBrief) []PrioritizedTask {
	used := make([]bool, len(input))
	out := make([]PrioritizedTask, 0, len(input))

	find := func(item rawPrioritized, idx int) int {
		for _, id := range []string{item.ID.trimmed(), item.MongoID.trimmed()} {
			if id == "" {
				continue
			}
			for i, t := range input {
				if !used[i] && t.ID != "" && t.ID == id {
					return i
				}
			}
		}
		if title := item.Title.trimmed(); title != "" {
			for i, t := range input {
				if !used[i] && strings.EqualFold(strings.TrimSpace(t.Title), title) {
					return i
				}
			}
			return -1
		}
		if idx < len(input) && !used[idx] {
			return idx
		}
		return -1
	}

	for idx, item := range items {
		i := find(item, idx)
		if i < 0 {
			continue
		}
		used[i] = true
		reasoning := item.Reasoning.trimmed()
		if reasoning == "" {
			reasoning = "No reasoning was provided for this priority."
		}
		out = append(out, annotate(input[i], model.PriorityOrDefault(string(item.Priority)), reasoning))
	}
	if len(out) == 0 {
		return nil
	}
	for i, t := range input {
		if !used[i] {
			out = append(out, annotate(t, model.PriorityOrDefault(t.Priority), unrankedReasoning))
		}
	}
	return out
}

func annotate(t TaskBrief, p model.Priority, reasoning string) PrioritizedTask {
	return PrioritizedTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Status:      t.Status,
		DueDate:     t.DueDate,
		Priority:    p,
		Reasoning:   reasoning,
	}
}

// parseSuggestion accepts plain prose, or a JSON object wrapping the text.
func parseSuggestion(text string) (string, error) {
	var out string
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		// No wrapped text field means the reply is used verbatim below.
		_ = decodeStructured(trimmed, func(raw []byte) error {
			var wrapped struct {
				Suggestions looseString `json:"suggestions"`
				Suggestion  looseString `json:"suggestion"`
				Text        looseString `json:"text"`
				Answer      looseString `json:"answer"`
			}
			if err := json.Unmarshal(raw, &wrapped); err != nil {
				return err
			}
			for _, s := range []looseString{wrapped.Suggestions, wrapped.Suggestion, wrapped.Text, wrapped.Answer} {
				if v := s.trimmed(); v != "" {
					out = v
					return nil
				}
			}
			return fmt.Errorf("no text field")
		})
	}
	if out == "" {
		out = trimmed
	}
	if out == "" {
		return "", &ParseError{Intent: "suggest", Reason: "empty response"}
	}
	return out, nil
}
