package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartpath-backend/internal/ner"
	"smartpath-backend/internal/smart"
)

type scenarioTagger struct{}

func (scenarioTagger) Tag(ctx context.Context, text string) ([]ner.Span, error) {
	return []ner.Span{
		{Text: "lose", Label: "specific"},
		{Text: "10 pounds", Label: "measurable"},
		{Text: "want", Label: "relevant"},
		{Text: "2 months", Label: "time-bound"},
	}, nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestValidateHandler(t *testing.T) {
	h := NewHandler(scenarioTagger{}, &stubCompleter{}, nil)

	rec := postJSON(t, h.Validate, map[string]string{"text": "I want to lose 10 pounds in 2 months"})
	require.Equal(t, http.StatusOK, rec.Code)

	var p smart.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	p.Normalize()

	assert.Equal(t, "I want to lose 10 pounds in 2 months", p.OriginalText)
	assert.Equal(t, []smart.Label{smart.Achievable}, p.EmptyCriteria())
}

func TestValidateHandlerRequiresText(t *testing.T) {
	h := NewHandler(scenarioTagger{}, &stubCompleter{}, nil)

	rec := postJSON(t, h.Validate, map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text is required")
}

func TestGenerateQuestionsHandlerSingleMissingCriterion(t *testing.T) {
	llm := &stubCompleter{response: `{
		"achievable": {"question": "Is this realistic for you?", "type": "yes-no"}
	}`}
	h := NewHandler(scenarioTagger{}, llm, nil)

	rec := postJSON(t, h.GenerateQuestions, incompletePrediction())
	require.Equal(t, http.StatusOK, rec.Code)

	var questions map[string]Question
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	require.Len(t, questions, 1)
	assert.Contains(t, []string{"yes-no", "open-ended"}, questions["achievable"].Type)
}

func TestGenerateQuestionsHandlerSentinel(t *testing.T) {
	llm := &stubCompleter{}
	h := NewHandler(scenarioTagger{}, llm, nil)

	rec := postJSON(t, h.GenerateQuestions, completePrediction())
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, NoQuestionsMessage, body["message"])
	assert.Zero(t, llm.calls)
}

func TestSubmitQuestionHandler(t *testing.T) {
	h := NewHandler(scenarioTagger{}, &stubCompleter{}, nil)

	rec := postJSON(t, h.SubmitQuestion, map[string]any{
		"prediction_result": incompletePrediction(),
		"question":          "Is this realistic for you?",
		"to_label":          "achievable",
		"value":             "yes",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string           `json:"message"`
		Result  smart.Prediction `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Successfully updated prediction", body.Message)
	require.Len(t, body.Result.Prediction[smart.Achievable], 1)
	assert.Equal(t, "yes", body.Result.Prediction[smart.Achievable][0].Text)
	assert.Equal(t, smart.FromQuestion, body.Result.Prediction[smart.Achievable][0].From)
}

func TestSubmitQuestionHandlerGuards(t *testing.T) {
	h := NewHandler(scenarioTagger{}, &stubCompleter{}, nil)

	rec := postJSON(t, h.SubmitQuestion, map[string]any{
		"prediction_result": incompletePrediction(),
		"to_label":          "ambitious",
		"value":             "yes",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid prediction type")

	rec = postJSON(t, h.SubmitQuestion, map[string]any{
		"prediction_result": incompletePrediction(),
		"to_label":          "achievable",
		"value":             "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "value cannot be empty")
}

func TestGenerateTaskHandler(t *testing.T) {
	llm := &stubCompleter{response: taskListResponse}
	h := NewHandler(scenarioTagger{}, llm, nil)

	p := completePrediction()
	rec := postJSON(t, h.GenerateTask, map[string]any{
		"original_text": p.OriginalText,
		"prediction":    p.Prediction,
		"start_date":    "2025-03-15",
		"due_date":      "2025-05-15",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Tasks []TaskDescriptor `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Tasks, 3)
}

func TestGenerateTaskHandlerIncompletePrediction(t *testing.T) {
	h := NewHandler(scenarioTagger{}, &stubCompleter{response: taskListResponse}, nil)

	p := incompletePrediction()
	rec := postJSON(t, h.GenerateTask, map[string]any{
		"original_text": p.OriginalText,
		"prediction":    p.Prediction,
		"start_date":    "2025-03-15",
		"due_date":      "2025-05-15",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty criteria")
}

func TestGenerateTaskHandlerDueDateFromTimeBound(t *testing.T) {
	llm := &stubCompleter{response: taskListResponse}
	h := NewHandler(scenarioTagger{}, llm, nil)

	p := completePrediction()
	p.Prediction[smart.TimeBound] = []smart.Fragment{{Text: "2025-05-15", From: smart.FromQuestion}}

	rec := postJSON(t, h.GenerateTask, map[string]any{
		"original_text": p.OriginalText,
		"prediction":    p.Prediction,
		"start_date":    "2025-03-15",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, llm.prompt, "2025-05-15")
}

func TestGenerateTaskHandlerUnparseableDueDate(t *testing.T) {
	h := NewHandler(scenarioTagger{}, &stubCompleter{response: taskListResponse}, nil)

	p := completePrediction() // time-bound holds "2 months", not a date
	rec := postJSON(t, h.GenerateTask, map[string]any{
		"original_text": p.OriginalText,
		"prediction":    p.Prediction,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "due_date")
}
