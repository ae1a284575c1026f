package tasks

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type taskRequest struct {
	GoalID      int    `json:"goal_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	Completed   bool   `json:"completed"`
}

func (req taskRequest) validate(requireStatus bool) string {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if req.GoalID == 0 {
		return "goal_id is required"
	}
	if _, err := time.Parse(dateLayout, req.DueDate); err != nil {
		return "due_date must be YYYY-MM-DD"
	}
	if requireStatus && !ValidStatus(req.Status) {
		return "status must be pending, completed or failed"
	}
	return ""
}

// CollectionHandler: GET /tasks, POST /tasks
func CollectionHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listTasks(dbx, w, r)
		case http.MethodPost:
			createTask(dbx, w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// ItemHandler: GET/PUT/DELETE /tasks/{id}
func ItemHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/tasks/"))
		if err != nil {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			getTask(dbx, w, r, id)
		case http.MethodPut:
			updateTask(dbx, w, r, id)
		case http.MethodDelete:
			deleteTask(dbx, w, r, id)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func listTasks(dbx *sql.DB, w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, goal_id, title, COALESCE(description,''), status,
		       to_char(due_date,'YYYY-MM-DD'), completed, created_at
		FROM task
	`
	args := []any{}
	if goalID := r.URL.Query().Get("goal_id"); goalID != "" {
		gid, err := strconv.Atoi(goalID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "goal_id must be an integer")
			return
		}
		query += ` WHERE goal_id = $1`
		args = append(args, gid)
	}
	query += ` ORDER BY id`

	rows, err := dbx.QueryContext(r.Context(), query, args...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db query error")
		return
	}
	defer rows.Close()

	list := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.GoalID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.Completed, &t.CreatedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "db scan error")
			return
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "db rows error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

func createTask(dbx *sql.DB, w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t := Task{
		GoalID:      req.GoalID,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusPending,
		DueDate:     req.DueDate,
	}
	err := dbx.QueryRowContext(r.Context(), `
		INSERT INTO task (goal_id, title, description, status, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, created_at
	`, req.GoalID, req.Title, req.Description, StatusPending, req.DueDate).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db insert error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(t)
}

func getTask(dbx *sql.DB, w http.ResponseWriter, r *http.Request, id int) {
	var t Task
	err := dbx.QueryRowContext(r.Context(), `
		SELECT id, goal_id, title, COALESCE(description,''), status,
		       to_char(due_date,'YYYY-MM-DD'), completed, created_at
		FROM task
		WHERE id = $1
	`, id).Scan(&t.ID, &t.GoalID, &t.Title, &t.Description, &t.Status, &t.DueDate, &t.Completed, &t.CreatedAt)
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(t)
}

// updateTask replaces the whole record; there is no partial patch.
func updateTask(dbx *sql.DB, w http.ResponseWriter, r *http.Request, id int) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := req.validate(true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := dbx.ExecContext(r.Context(), `
		UPDATE task
		SET goal_id=$1, title=$2, description=$3, status=$4, due_date=$5, completed=$6
		WHERE id=$7
	`, req.GoalID, req.Title, req.Description, req.Status, req.DueDate, req.Completed, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db update error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	getTask(dbx, w, r, id)
}

func deleteTask(dbx *sql.DB, w http.ResponseWriter, r *http.Request, id int) {
	res, err := dbx.ExecContext(r.Context(), `DELETE FROM task WHERE id=$1`, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db delete error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
