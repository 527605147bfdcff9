package gemini

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

const DefaultModel = "gemini-2.0-flash"

type Summarizer struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewSummarizer(apiKey, model string) *Summarizer {
	return NewSummarizerWithURL(apiKey, model, "https://generativelanguage.googleapis.com/v1beta")
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

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type request struct {
	Contents         []content        `json:"contents"`
	SystemInstruct   *content         `json:"systemInstruction,omitempty"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

func (s *Summarizer) Summarize(ctx context.Context, report application.StateReport) (any, error) {
	bodyBytes, err := json.Marshal(request{
		SystemInstruct: &content{Parts: []part{{Text: infra.StateSystemPrompt}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: infra.StateUserPrompt(report)}}},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: 256,
			Temperature:     0.3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var result response
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		// The key travels in a header so it never shows up in url.Error text.
		url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", s.apiKey)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(respBody))
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return apiErr
			}
			return infra.Permanent(apiErr)
		}

		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	if result.Error != nil {
		return nil, fmt.Errorf("gemini error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	return infra.CleanAnswer(result.Candidates[0].Content.Parts[0].Text), nil
}
