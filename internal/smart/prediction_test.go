package smart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPredictionHasAllCriteria(t *testing.T) {
	p := NewPrediction("run a marathon")

	assert.Len(t, p.Prediction, 5)
	for _, l := range Labels {
		frags, ok := p.Prediction[l]
		assert.True(t, ok, "missing criterion %q", l)
		assert.NotNil(t, frags)
		assert.Empty(t, frags)
	}
}

func TestPredictionJSONKeepsEmptyBuckets(t *testing.T) {
	p := NewPrediction("save $1000")
	p.Prediction[Measurable] = []Fragment{{Text: "$1000", From: FromOriginalText}}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded Prediction
	require.NoError(t, json.Unmarshal(raw, &decoded))
	decoded.Normalize()

	for _, l := range Labels {
		assert.NotNil(t, decoded.Prediction[l], "criterion %q dropped in round trip", l)
	}
	assert.Equal(t, p.Prediction[Measurable], decoded.Prediction[Measurable])
}

func TestEmptyCriteria(t *testing.T) {
	p := NewPrediction("I want to lose 10 pounds in 2 months")
	p.Prediction[Specific] = []Fragment{{Text: "lose", From: FromOriginalText}}
	p.Prediction[Measurable] = []Fragment{{Text: "10 pounds", From: FromOriginalText}}
	p.Prediction[Relevant] = []Fragment{{Text: "want", From: FromOriginalText}}
	p.Prediction[TimeBound] = []Fragment{{Text: "2 months", From: FromOriginalText}}

	assert.Equal(t, []Label{Achievable}, p.EmptyCriteria())
	assert.False(t, p.Complete())

	p.Prediction[Achievable] = []Fragment{{Text: "yes", From: FromQuestion}}
	assert.True(t, p.Complete())
	assert.Empty(t, p.EmptyCriteria())
}

func TestParseLabel(t *testing.T) {
	for _, l := range Labels {
		got, ok := ParseLabel(string(l))
		assert.True(t, ok)
		assert.Equal(t, l, got)
	}

	_, ok := ParseLabel("time_bound")
	assert.False(t, ok)
	_, ok = ParseLabel("")
	assert.False(t, ok)
}

func TestSubmitAnswerReplacesBucket(t *testing.T) {
	p := NewPrediction("learn spanish")
	p.Prediction[Achievable] = []Fragment{
		{Text: "maybe", From: FromOriginalText},
		{Text: "probably", From: FromOriginalText},
	}

	got, err := SubmitAnswer(p, "achievable", "yes", "Is this realistic for you?")
	require.NoError(t, err)

	require.Len(t, got.Prediction[Achievable], 1)
	assert.Equal(t, Fragment{
		Text:     "yes",
		From:     FromQuestion,
		Question: "Is this realistic for you?",
	}, got.Prediction[Achievable][0])
}

func TestSubmitAnswerIdempotent(t *testing.T) {
	p := NewPrediction("learn spanish")

	once, err := SubmitAnswer(p, "time-bound", "2026-12-31", "What is your target date?")
	require.NoError(t, err)

	twice, err := SubmitAnswer(once, "time-bound", "2026-12-31", "What is your target date?")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestSubmitAnswerGuards(t *testing.T) {
	p := NewPrediction("learn spanish")

	_, err := SubmitAnswer(p, "ambitious", "yes", "q")
	assert.ErrorIs(t, err, ErrInvalidCriterion)

	_, err = SubmitAnswer(p, "achievable", "   ", "q")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
