package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartpath-backend/internal/smart"
)

// stubCompleter returns a canned response and records the prompt it saw.
type stubCompleter struct {
	response string
	err      error
	calls    int
	prompt   string
	system   string
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	s.calls++
	s.system = system
	s.prompt = prompt
	return s.response, s.err
}

func incompletePrediction() smart.Prediction {
	p := smart.NewPrediction("I want to lose 10 pounds in 2 months")
	p.Prediction[smart.Specific] = []smart.Fragment{{Text: "lose", From: smart.FromOriginalText}}
	p.Prediction[smart.Measurable] = []smart.Fragment{{Text: "10 pounds", From: smart.FromOriginalText}}
	p.Prediction[smart.Relevant] = []smart.Fragment{{Text: "want", From: smart.FromOriginalText}}
	p.Prediction[smart.TimeBound] = []smart.Fragment{{Text: "2 months", From: smart.FromOriginalText}}
	return p
}

func completePrediction() smart.Prediction {
	p := incompletePrediction()
	p.Prediction[smart.Achievable] = []smart.Fragment{{Text: "yes", From: smart.FromQuestion}}
	return p
}

func TestGenerateQuestionsSentinelSkipsLLM(t *testing.T) {
	llm := &stubCompleter{}

	questions, message, err := GenerateQuestions(context.Background(), llm, completePrediction())
	require.NoError(t, err)

	assert.Empty(t, questions)
	assert.Equal(t, NoQuestionsMessage, message)
	assert.Zero(t, llm.calls, "LLM must not be called when all criteria are filled")
}

func TestGenerateQuestionsForEmptyCriteria(t *testing.T) {
	llm := &stubCompleter{response: `{
		"achievable": {"question": "Is losing 10 pounds in 2 months realistic for you?", "type": "yes-no"}
	}`}

	questions, message, err := GenerateQuestions(context.Background(), llm, incompletePrediction())
	require.NoError(t, err)

	assert.Empty(t, message)
	require.Len(t, questions, 1)
	q, ok := questions[smart.Achievable]
	require.True(t, ok, "expected a question for the one empty criterion")
	assert.Contains(t, []string{"yes-no", "open-ended"}, q.Type)
	assert.NotEmpty(t, q.Question)

	assert.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.prompt, "I want to lose 10 pounds in 2 months")
	assert.Contains(t, llm.system, "SMART goal refinement")
}

func TestGenerateQuestionsParseError(t *testing.T) {
	llm := &stubCompleter{response: "Sure! Here are your questions: ..."}

	_, _, err := GenerateQuestions(context.Background(), llm, incompletePrediction())

	var parseErr *ResponseParseError
	require.ErrorAs(t, err, &parseErr)
	assert.True(t, strings.HasPrefix(parseErr.Error(), "failed to parse AI response"))
}

func TestGenerateQuestionsProviderError(t *testing.T) {
	boom := errors.New("upstream down")
	llm := &stubCompleter{err: boom}

	_, _, err := GenerateQuestions(context.Background(), llm, incompletePrediction())
	assert.ErrorIs(t, err, boom)

	var parseErr *ResponseParseError
	assert.False(t, errors.As(err, &parseErr), "provider failure is not a parse error")
}
