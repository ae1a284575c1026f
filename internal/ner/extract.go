package ner

import (
	"context"

	"smartpath-backend/internal/smart"
)

// Extract tags the goal text and buckets every recognized span into the
// criterion named by its label. Spans with labels outside the SMART set are
// dropped. Buckets without spans stay as empty slices, never absent.
func Extract(ctx context.Context, tagger Tagger, text string) (smart.Prediction, error) {
	spans, err := tagger.Tag(ctx, text)
	if err != nil {
		return smart.Prediction{}, err
	}

	p := smart.NewPrediction(text)
	for _, span := range spans {
		label, ok := smart.ParseLabel(span.Label)
		if !ok {
			continue
		}
		p.Prediction[label] = append(p.Prediction[label], smart.Fragment{
			Text: span.Text,
			From: smart.FromOriginalText,
		})
	}
	return p, nil
}
