package smart

import (
	"errors"
	"strings"
)

// Label is one of the five SMART criteria. The set is closed: buckets in a
// Prediction are keyed by these values and nothing else.
type Label string

const (
	Specific   Label = "specific"
	Measurable Label = "measurable"
	Achievable Label = "achievable"
	Relevant   Label = "relevant"
	TimeBound  Label = "time-bound"
)

// Labels lists every criterion in canonical order.
var Labels = []Label{Specific, Measurable, Achievable, Relevant, TimeBound}

func ParseLabel(s string) (Label, bool) {
	l := Label(strings.TrimSpace(s))
	for _, known := range Labels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// Fragment sources.
const (
	FromOriginalText = "original_text"
	FromQuestion     = "question"
)

// Fragment is one piece of evidence for a criterion: either a span the
// tagger extracted from the goal text, or the user's answer to a follow-up
// question.
type Fragment struct {
	Text     string `json:"text"`
	From     string `json:"from"`
	Question string `json:"question,omitempty"`
}

// Prediction is the per-request record mapping SMART criteria to extracted or
// answered fragments. Every criterion key is always present, even when its
// slice is empty.
type Prediction struct {
	OriginalText string               `json:"original_text"`
	Prediction   map[Label][]Fragment `json:"prediction"`
}

func NewPrediction(text string) Prediction {
	p := Prediction{
		OriginalText: text,
		Prediction:   make(map[Label][]Fragment, len(Labels)),
	}
	for _, l := range Labels {
		p.Prediction[l] = []Fragment{}
	}
	return p
}

// Normalize fills in any criterion keys missing from a client-supplied
// prediction so the all-keys invariant holds for bodies we did not build.
func (p *Prediction) Normalize() {
	if p.Prediction == nil {
		p.Prediction = make(map[Label][]Fragment, len(Labels))
	}
	for _, l := range Labels {
		if p.Prediction[l] == nil {
			p.Prediction[l] = []Fragment{}
		}
	}
}

// EmptyCriteria returns the criteria with no fragments, in canonical order.
func (p Prediction) EmptyCriteria() []Label {
	var empty []Label
	for _, l := range Labels {
		if len(p.Prediction[l]) == 0 {
			empty = append(empty, l)
		}
	}
	return empty
}

// Complete reports whether every bucket has at least one fragment.
func (p Prediction) Complete() bool {
	return len(p.EmptyCriteria()) == 0
}

var (
	ErrInvalidCriterion = errors.New("invalid criterion")
	ErrInvalidValue     = errors.New("value cannot be empty")
)

// SubmitAnswer merges a user's answer to a follow-up question into the
// prediction. The named bucket is replaced, not appended to, so repeated
// identical submissions are idempotent.
func SubmitAnswer(p Prediction, criterion string, value, question string) (Prediction, error) {
	label, ok := ParseLabel(criterion)
	if !ok {
		return Prediction{}, ErrInvalidCriterion
	}
	if strings.TrimSpace(value) == "" {
		return Prediction{}, ErrInvalidValue
	}

	p.Normalize()
	p.Prediction[label] = []Fragment{{
		Text:     value,
		From:     FromQuestion,
		Question: question,
	}}
	return p, nil
}
