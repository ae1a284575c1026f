package goals

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"smartpath-backend/internal/ai"
	"smartpath-backend/internal/analytics"
	"smartpath-backend/internal/auth"
	"smartpath-backend/internal/tasks"
)

const dateLayout = "2006-01-02"

type createGoalRequest struct {
	Title     string              `json:"title"`
	Category  string              `json:"category"`
	StartDate string              `json:"start_date"`
	DueDate   string              `json:"due_date"`
	Tasks     []ai.TaskDescriptor `json:"tasks"`
}

func (req createGoalRequest) validate() string {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if _, err := time.Parse(dateLayout, req.StartDate); err != nil {
		return "start_date must be YYYY-MM-DD"
	}
	if _, err := time.Parse(dateLayout, req.DueDate); err != nil {
		return "due_date must be YYYY-MM-DD"
	}
	for i, t := range req.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			return "task " + strconv.Itoa(i) + ": title is required"
		}
		if err := t.RepeatType.Validate(); err != nil {
			return "task " + strconv.Itoa(i) + ": " + err.Error()
		}
	}
	return ""
}

// CollectionHandler: GET /goals, POST /goals
func CollectionHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listGoals(dbx, w, r)
		case http.MethodPost:
			createGoal(dbx, w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// ItemHandler: GET/PUT/DELETE /goals/{id}
func ItemHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/goals/"))
		if err != nil {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			getGoal(dbx, w, r, id)
		case http.MethodPut:
			updateGoal(dbx, w, r, id)
		case http.MethodDelete:
			deleteGoal(dbx, w, r, id)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func listGoals(dbx *sql.DB, w http.ResponseWriter, r *http.Request) {
	rows, err := dbx.QueryContext(r.Context(), `
		SELECT id, title, status, COALESCE(category,''),
		       to_char(start_date,'YYYY-MM-DD'), to_char(due_date,'YYYY-MM-DD'),
		       created_at
		FROM goal
		ORDER BY id DESC
	`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db query error")
		return
	}
	defer rows.Close()

	list := []Goal{}
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Status, &g.Category, &g.StartDate, &g.DueDate, &g.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "db scan error")
			return
		}
		g.Tasks = []tasks.Task{}
		list = append(list, g)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "db rows error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// createGoal inserts the goal row, then one assigned_task plus interval row
// per generated descriptor. The inserts are separate round trips with no
// transaction, so a failure mid-way leaves a goal with a partial schedule.
func createGoal(dbx *sql.DB, w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var g Goal
	g.Title = req.Title
	g.Category = req.Category
	g.Status = StatusPending
	g.StartDate = req.StartDate
	g.DueDate = req.DueDate
	g.Tasks = []tasks.Task{}

	err := dbx.QueryRowContext(r.Context(), `
		INSERT INTO goal (title, status, category, start_date, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, req.Title, StatusPending, req.Category, req.StartDate, req.DueDate).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db insert error")
		return
	}

	// link to the authenticated user when there is one
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		_, err = dbx.ExecContext(r.Context(), `
			INSERT INTO assigned_goal (user_id, goal_id, assigned_at)
			VALUES ($1, $2, now())
		`, uid, g.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db insert error (assigned_goal)")
			return
		}
	}

	for _, task := range req.Tasks {
		var assignedTaskID int
		err := dbx.QueryRowContext(r.Context(), `
			INSERT INTO assigned_task (goal_id, title, description, task_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, g.ID, task.Title, task.Description, task.TaskDate).Scan(&assignedTaskID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db insert error (assigned_task)")
			return
		}

		_, err = dbx.ExecContext(r.Context(), `
			INSERT INTO assigned_task_interval (assigned_task_id, repeat_type, days, monthly_timing)
			VALUES ($1, $2, $3, $4)
		`, assignedTaskID, string(task.RepeatType.Type), pq.Array(task.RepeatType.Days),
			nullIfEmpty(string(task.RepeatType.MonthlyTiming)))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db insert error (assigned_task_interval)")
			return
		}
	}

	_ = analytics.Log(r.Context(), dbx, analytics.FromRequest(r), "goal_created", map[string]any{
		"goal_id":    g.ID,
		"task_count": len(req.Tasks),
	}, analytics.SourceEventKeyFromRequest(r))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(g)
}

func getGoal(dbx *sql.DB, w http.ResponseWriter, r *http.Request, id int) {
	var g Goal
	err := dbx.QueryRowContext(r.Context(), `
		SELECT id, title, status, COALESCE(category,''),
		       to_char(start_date,'YYYY-MM-DD'), to_char(due_date,'YYYY-MM-DD'),
		       created_at
		FROM goal
		WHERE id = $1
	`, id).Scan(&g.ID, &g.Title, &g.Status, &g.Category, &g.StartDate, &g.DueDate, &g.CreatedAt)
	if err != nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	g.Tasks = []tasks.Task{}
	rows, err := dbx.QueryContext(r.Context(), `
		SELECT id, goal_id, title, COALESCE(description,''), status,
		       to_char(due_date,'YYYY-MM-DD'), completed, created_at
		FROM task
		WHERE goal_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db query error")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var t tasks.Task
		if err := rows.Scan(&t.ID, &t.GoalID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.Completed, &t.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "db scan error")
			return
		}
		g.Tasks = append(g.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "db rows error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(g)
}

// updateGoal is whole-record replacement, not a merge.
func updateGoal(dbx *sql.DB, w http.ResponseWriter, r *http.Request, id int) {
	var req struct {
		Title     string `json:"title"`
		Status    string `json:"status"`
		Category  string `json:"category"`
		StartDate string `json:"start_date"`
		DueDate   string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "status must be pending, completed, failed or deleted")
		return
	}
	if _, err := time.Parse(dateLayout, req.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	if _, err := time.Parse(dateLayout, req.DueDate); err != nil {
		writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}

	res, err := dbx.ExecContext(r.Context(), `
		UPDATE goal
		SET title=$1, status=$2, category=$3, start_date=$4, due_date=$5
		WHERE id=$6
	`, req.Title, req.Status, req.Category, req.StartDate, req.DueDate, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db update error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	getGoal(dbx, w, r, id)
}

func deleteGoal(dbx *sql.DB, w http.ResponseWriter, r *http.Request, id int) {
	res, err := dbx.ExecContext(r.Context(), `DELETE FROM goal WHERE id=$1`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db delete error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
