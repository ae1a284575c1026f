package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smartpath-backend/internal/schedule"
	"smartpath-backend/internal/smart"
)

// TaskDescriptor is one generated task: a title, a date inside the goal's
// window and a recurrence rule.
type TaskDescriptor struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TaskDate    string          `json:"task_date"` // YYYY-MM-DD
	RepeatType  schedule.Repeat `json:"repeat_type"`
}

// ErrIncompletePrediction rejects task generation for a prediction with empty
// buckets. The source faulted on the empty time-bound lookup; here the guard
// fails loudly instead.
var ErrIncompletePrediction = fmt.Errorf("prediction has empty criteria, answer the follow-up questions first")

const dateLayout = "2006-01-02"

// GenerateTasks asks the LLM to decompose a completed prediction into 7-14
// task descriptors dated inside [startDate, dueDate]. Descriptors with
// invalid recurrence rules make the whole response invalid.
func GenerateTasks(ctx context.Context, llm Completer, p smart.Prediction, startDate, dueDate time.Time) ([]TaskDescriptor, error) {
	p.Normalize()

	if !p.Complete() {
		return nil, ErrIncompletePrediction
	}
	if startDate.IsZero() || dueDate.IsZero() {
		return nil, schedule.ErrMissingRange
	}

	prompt := buildTaskPrompt(p, startDate.Format(dateLayout), dueDate.Format(dateLayout))

	text, err := llm.Complete(ctx, taskSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Tasks []TaskDescriptor `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &ResponseParseError{Err: err}
	}

	for i, task := range parsed.Tasks {
		if err := task.RepeatType.Validate(); err != nil {
			return nil, &ResponseParseError{Err: fmt.Errorf("task %d (%q): %w", i, task.Title, err)}
		}
	}
	return parsed.Tasks, nil
}
