// Package gemini generates multiple-choice questions for a content
// title via the Gemini generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"tubecert-service/internal/domain"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash-lite"
	questionCount  = 10
	optionCount    = 4
)

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithBaseURL is test-only for pointing at a stub server.
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Model output may wrap the JSON array in prose or code fences.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// GenerateMCQs asks the model for a fixed-size question set about the
// given title and validates the result strictly: wrong question shape,
// wrong option count, or an answer outside its options all fail the
// whole call, never a partial accept.
func (c *Client) GenerateMCQs(ctx context.Context, title string) ([]domain.MCQ, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt(title)}}}},
	})
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("gemini decode: %w", err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	return parseMCQs(payload.Candidates[0].Content.Parts[0].Text)
}

func parseMCQs(text string) ([]domain.MCQ, error) {
	raw := jsonArrayRe.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in gemini response")
	}
	var mcqs []domain.MCQ
	if err := json.Unmarshal([]byte(raw), &mcqs); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if len(mcqs) == 0 {
		return nil, fmt.Errorf("gemini returned no questions")
	}
	for i, q := range mcqs {
		if q.Question == "" || len(q.Options) != optionCount || q.Answer == "" {
			return nil, fmt.Errorf("question %d has invalid shape", i)
		}
		if !contains(q.Options, q.Answer) {
			return nil, fmt.Errorf("question %d answer is not one of its options", i)
		}
	}
	return mcqs, nil
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}

func prompt(title string) string {
	return fmt.Sprintf(`Generate exactly %d unique, relevant, and medium level multiple-choice questions based on the following YouTube video title(s): %q.
The question must:
- Be strictly based on the topic of the video title.
- Be simple and understandable for medium level learners.
- Not repeat any previous question.
- Provide exactly %d unique options.
- Clearly indicate the correct answer.
- Use English only.
- Exactly %d questions.

Output strictly and only in valid JSON format as follows:
[
  {
    "question": "...",
    "options": ["...", "...", "...", "..."],
    "answer": "..."
  }
]`, questionCount, title, optionCount, questionCount)
}
