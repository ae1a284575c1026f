package topics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type TopicHandler struct {
	Repo *Repository
}

func New(repo *Repository) *TopicHandler {
	return &TopicHandler{Repo: repo}
}

func validateTopic(t Topic) error {
	if strings.TrimSpace(t.Topic) == "" {
		return fmt.Errorf("topic name is required")
	}
	for i, task := range t.Tasks {
		if strings.TrimSpace(task.Title) == "" {
			return fmt.Errorf("task %d: title is required", i)
		}
		if err := task.RepeatType.Validate(); err != nil {
			return fmt.Errorf("task %d (%q): %w", i, task.Title, err)
		}
	}
	return nil
}

// Collection: GET /topics, POST /topics
func (h *TopicHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h.Repo.List())

	case http.MethodPost:
		var t Topic
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validateTopic(t); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		created := h.Repo.Create(t)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)

	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Item: GET/PUT/DELETE /topics/{id}
func (h *TopicHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/topics/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "topic not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := h.Repo.Get(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "topic not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)

	case http.MethodPut:
		var t Topic
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := validateTopic(t); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated, err := h.Repo.Update(id, t)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "topic not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(updated)

	case http.MethodDelete:
		if err := h.Repo.Delete(id); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "topic not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
