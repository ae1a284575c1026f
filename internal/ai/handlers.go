package ai

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"smartpath-backend/internal/analytics"
	"smartpath-backend/internal/ner"
	"smartpath-backend/internal/smart"
)

// Handler carries the AI pipeline dependencies: the tagger for extraction,
// the LLM for question/task generation, the DB for analytics events.
type Handler struct {
	Tagger ner.Tagger
	LLM    Completer
	DB     *sql.DB
}

func NewHandler(tagger ner.Tagger, llm Completer, db *sql.DB) *Handler {
	return &Handler{
		Tagger: tagger,
		LLM:    llm,
		DB:     db,
	}
}

// Validate: POST /ai/validate — tag free goal text into a Prediction.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	p, err := ner.Extract(r.Context(), h.Tagger, body.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error during prediction: "+err.Error())
		return
	}

	// analytics: goal_validated (text length only, never the raw text)
	_ = analytics.Log(r.Context(), h.DB, analytics.FromRequest(r), "goal_validated", map[string]any{
		"text_len":       len(body.Text),
		"empty_criteria": len(p.EmptyCriteria()),
	}, analytics.SourceEventKeyFromRequest(r))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// GenerateQuestions: POST /ai/generate-questions — one follow-up question per
// empty criterion, or the sentinel when nothing is missing.
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var p smart.Prediction
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p.Normalize()

	questions, message, err := GenerateQuestions(r.Context(), h.LLM, p)
	if err != nil {
		var parseErr *ResponseParseError
		if errors.As(err, &parseErr) {
			writeError(w, http.StatusInternalServerError, parseErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "error generating questions: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if message != "" {
		_ = json.NewEncoder(w).Encode(map[string]any{"message": message})
		return
	}

	_ = analytics.Log(r.Context(), h.DB, analytics.FromRequest(r), "questions_generated", map[string]any{
		"question_count": len(questions),
	}, analytics.SourceEventKeyFromRequest(r))

	_ = json.NewEncoder(w).Encode(questions)
}

// SubmitQuestion: POST /ai/submit-question — merge the user's answer into the
// prediction. Pure merge, no external call, full body in and out.
func (h *Handler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PredictionResult smart.Prediction `json:"prediction_result"`
		Question         string           `json:"question"`
		ToLabel          string           `json:"to_label"`
		Value            string           `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	updated, err := smart.SubmitAnswer(body.PredictionResult, body.ToLabel, body.Value, body.Question)
	if err != nil {
		switch {
		case errors.Is(err, smart.ErrInvalidCriterion):
			writeError(w, http.StatusBadRequest, "invalid prediction type: "+body.ToLabel)
		case errors.Is(err, smart.ErrInvalidValue):
			writeError(w, http.StatusBadRequest, "value cannot be empty")
		default:
			writeError(w, http.StatusInternalServerError, "error updating prediction: "+err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "Successfully updated prediction",
		"result":  updated,
	})
}

// GenerateTask: POST /ai/generate-task — decompose a completed prediction
// into dated task descriptors. The due date comes from the request when
// given, otherwise from the time-bound bucket; start defaults to today.
func (h *Handler) GenerateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OriginalText string                           `json:"original_text"`
		Prediction   map[smart.Label][]smart.Fragment `json:"prediction"`
		StartDate    string                           `json:"start_date"`
		DueDate      string                           `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	p := smart.Prediction{OriginalText: body.OriginalText, Prediction: body.Prediction}
	p.Normalize()

	start := time.Now().Truncate(24 * time.Hour)
	if body.StartDate != "" {
		var err error
		start, err = time.Parse(dateLayout, body.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
	}

	dueRaw := body.DueDate
	if dueRaw == "" {
		if frags := p.Prediction[smart.TimeBound]; len(frags) > 0 {
			dueRaw = frags[0].Text
		}
	}
	due, err := time.Parse(dateLayout, dueRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD (from body or the time-bound answer)")
		return
	}

	tasks, err := GenerateTasks(r.Context(), h.LLM, p, start, due)
	if err != nil {
		var parseErr *ResponseParseError
		switch {
		case errors.Is(err, ErrIncompletePrediction):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &parseErr):
			writeError(w, http.StatusInternalServerError, parseErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, "error generating task: "+err.Error())
		}
		return
	}

	_ = analytics.Log(r.Context(), h.DB, analytics.FromRequest(r), "tasks_generated", map[string]any{
		"task_count": len(tasks),
	}, analytics.SourceEventKeyFromRequest(r))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tasks": tasks})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
