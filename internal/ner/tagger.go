package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Span is one tagged substring of the input text.
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Tagger is the sequence-tagging model boundary. The production
// implementation talks to the model server; tests swap in a stub.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Span, error)
}

// Client calls the SMART NER model server (the flair tagger behind an HTTP
// endpoint). Load must succeed once at startup before any Tag call.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    http.DefaultClient,
	}
}

// Load checks that the model server is up and has its model loaded.
// A failure here is fatal to the process: the API must not start serving
// without the tagger.
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("ner model unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("ner model not ready: status %d", res.StatusCode)
	}
	return nil
}

func (c *Client) Tag(ctx context.Context, text string) ([]Span, error) {
	body, _ := json.Marshal(map[string]string{"text": text})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/tag", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner model unreachable: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner model error: status %d", res.StatusCode)
	}

	var parsed struct {
		Spans []Span `json:"spans"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("ner model returned invalid json: %w", err)
	}
	return parsed.Spans, nil
}
