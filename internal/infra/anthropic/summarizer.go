package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nomadpi-assistant/internal/application"
	"nomadpi-assistant/internal/infra"
)

const DefaultModel = "claude-sonnet-4-20250514"

// Summarizer phrases device state as a spoken answer using the Messages API.
type Summarizer struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewSummarizer(apiKey, model string) *Summarizer {
	return NewSummarizerWithURL(apiKey, model, "https://api.anthropic.com/v1")
}

func NewSummarizerWithURL(apiKey, model, baseURL string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		model:      model,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (s *Summarizer) Summarize(ctx context.Context, report application.StateReport) (any, error) {
	bodyBytes, err := json.Marshal(request{
		Model:     s.model,
		MaxTokens: 256,
		System:    infra.StateSystemPrompt,
		Messages: []message{
			{Role: "user", Content: infra.StateUserPrompt(report)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var result response
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(bodyBytes))
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", s.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			apiErr := fmt.Errorf("claude API error %d: %s", resp.StatusCode, string(respBody))
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return apiErr
			}
			return infra.Permanent(apiErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	for _, block := range result.Content {
		if block.Text != "" {
			return infra.CleanAnswer(block.Text), nil
		}
	}
	return nil, fmt.Errorf("empty response from claude")
}
