package goals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartpath-backend/internal/ai"
	"smartpath-backend/internal/schedule"
)

func validCreateRequest() createGoalRequest {
	return createGoalRequest{
		Title:     "Lose 10 pounds",
		Category:  "health",
		StartDate: "2025-03-15",
		DueDate:   "2025-05-15",
		Tasks: []ai.TaskDescriptor{
			{
				Title:      "Track calories",
				TaskDate:   "2025-03-15",
				RepeatType: schedule.Repeat{Type: schedule.RepeatDaily},
			},
			{
				Title:      "Cardio",
				TaskDate:   "2025-03-17",
				RepeatType: schedule.Repeat{Type: schedule.RepeatWeekly, Days: []string{"MON", "WED"}},
			},
		},
	}
}

func TestCreateGoalRequestValidate(t *testing.T) {
	assert.Empty(t, validCreateRequest().validate())

	req := validCreateRequest()
	req.Title = "  "
	assert.Equal(t, "title is required", req.validate())

	req = validCreateRequest()
	req.StartDate = "15-03-2025"
	assert.Contains(t, req.validate(), "start_date")

	req = validCreateRequest()
	req.DueDate = ""
	assert.Contains(t, req.validate(), "due_date")

	req = validCreateRequest()
	req.Tasks[1].RepeatType.Days = nil
	assert.Contains(t, req.validate(), "weekly repeat needs 1-3 days")

	req = validCreateRequest()
	req.Tasks[0].Title = ""
	assert.Contains(t, req.validate(), "task 0: title is required")
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusCompleted, StatusFailed, StatusDeleted} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}
