package goals

import (
	"time"

	"smartpath-backend/internal/tasks"
)

// Goal statuses form a closed set. "deleted" exists in the schema but rows
// are removed by DELETE, not soft-deleted.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusDeleted   = "deleted"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusDeleted:
		return true
	}
	return false
}

type Goal struct {
	ID        int          `json:"id"`
	Title     string       `json:"title"`
	Status    string       `json:"status"`
	Category  string       `json:"category,omitempty"`
	StartDate string       `json:"start_date"`
	DueDate   string       `json:"due_date"`
	Tasks     []tasks.Task `json:"tasks"`
	CreatedAt time.Time    `json:"created_at"`
}
