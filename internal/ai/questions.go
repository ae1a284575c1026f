package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"smartpath-backend/internal/smart"
)

// NoQuestionsMessage is the sentinel returned when every criterion bucket is
// already filled and no LLM call is needed.
const NoQuestionsMessage = "No questions needed - all criteria are filled"

// Question is one follow-up question for an empty criterion.
type Question struct {
	Question string `json:"question"`
	Type     string `json:"type"` // date | yes-no | open-ended
}

// ResponseParseError marks LLM output that was not valid JSON for the
// expected schema. It is surfaced to the client as-is, never retried or
// repaired.
type ResponseParseError struct {
	Err error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// GenerateQuestions asks the LLM for one follow-up question per empty
// criterion. When no bucket is empty it short-circuits and returns the
// sentinel without calling the provider.
func GenerateQuestions(ctx context.Context, llm Completer, p smart.Prediction) (map[smart.Label]Question, string, error) {
	p.Normalize()

	if p.Complete() {
		return nil, NoQuestionsMessage, nil
	}

	text, err := llm.Complete(ctx, questionSystemPrompt, buildQuestionPrompt(p))
	if err != nil {
		return nil, "", err
	}

	var parsed map[smart.Label]Question
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, "", &ResponseParseError{Err: err}
	}
	return parsed, "", nil
}
