package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartpath-backend/internal/schedule"
)

const taskListResponse = `{
  "tasks": [
    {
      "title": "Track daily calorie intake",
      "description": "Log all meals under 2000 calories",
      "task_date": "2025-03-15",
      "repeat_type": {"type": "daily"}
    },
    {
      "title": "30-minute cardio workout",
      "description": "Jogging, cycling, or swimming",
      "task_date": "2025-03-15",
      "repeat_type": {"type": "weekly", "days": ["MON", "WED", "FRI"]}
    },
    {
      "title": "Monthly weight check",
      "description": "Record weight and progress photo",
      "task_date": "2025-04-01",
      "repeat_type": {"type": "monthly", "monthly_timing": "START"}
    }
  ]
}`

func window() (time.Time, time.Time) {
	start := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC)
	return start, due
}

func TestGenerateTasks(t *testing.T) {
	llm := &stubCompleter{response: taskListResponse}
	start, due := window()

	tasks, err := GenerateTasks(context.Background(), llm, completePrediction(), start, due)
	require.NoError(t, err)

	require.Len(t, tasks, 3)
	assert.Equal(t, "Track daily calorie intake", tasks[0].Title)
	assert.Equal(t, schedule.RepeatDaily, tasks[0].RepeatType.Type)
	assert.ElementsMatch(t, []string{"MON", "WED", "FRI"}, tasks[1].RepeatType.Days)
	assert.Equal(t, schedule.MonthStart, tasks[2].RepeatType.MonthlyTiming)

	assert.Contains(t, llm.prompt, "2025-03-15")
	assert.Contains(t, llm.prompt, "2025-05-15")
	assert.Contains(t, llm.system, "task generation")
}

func TestGenerateTasksRequiresCompletePrediction(t *testing.T) {
	llm := &stubCompleter{response: taskListResponse}
	start, due := window()

	_, err := GenerateTasks(context.Background(), llm, incompletePrediction(), start, due)
	assert.ErrorIs(t, err, ErrIncompletePrediction)
	assert.Zero(t, llm.calls)
}

func TestGenerateTasksRequiresDateWindow(t *testing.T) {
	llm := &stubCompleter{response: taskListResponse}

	_, err := GenerateTasks(context.Background(), llm, completePrediction(), time.Time{}, time.Now())
	assert.ErrorIs(t, err, schedule.ErrMissingRange)
}

func TestGenerateTasksParseError(t *testing.T) {
	llm := &stubCompleter{response: "here you go: 1. run 2. sleep"}
	start, due := window()

	_, err := GenerateTasks(context.Background(), llm, completePrediction(), start, due)

	var parseErr *ResponseParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerateTasksRejectsInvalidRecurrence(t *testing.T) {
	llm := &stubCompleter{response: `{"tasks": [
		{"title": "Weekly check", "description": "", "task_date": "2025-03-20",
		 "repeat_type": {"type": "weekly"}}
	]}`}
	start, due := window()

	_, err := GenerateTasks(context.Background(), llm, completePrediction(), start, due)

	var parseErr *ResponseParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "weekly repeat needs 1-3 days")
}
