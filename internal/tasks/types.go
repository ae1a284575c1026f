package tasks

import "time"

// Task statuses form a closed set, one notch smaller than the goal's: a task
// is never "deleted", it is removed.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Task is a persisted task row. It belongs to exactly one goal.
type Task struct {
	ID          int       `json:"id"`
	GoalID      int       `json:"goal_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	DueDate     string    `json:"due_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}
