package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// OpenAICompletion talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAICompletion struct {
	client    *resty.Client
	model     string
	maxTokens int
}

func NewOpenAICompletion(baseURL, model, apiKey string, maxTokens int) (*OpenAICompletion, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("AI_URL is not set")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("AI_MODEL is not set")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if strings.TrimSpace(apiKey) != "" {
		client.SetAuthToken(apiKey)
	}
	return &OpenAICompletion{client: client, model: model, maxTokens: maxTokens}, nil
}

type RateLimitError struct {
	RetryAfter time.Duration
}

func (r RateLimitError) Error() string {
	if r.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", r.RetryAfter)
	}
	return "rate limited"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (a *OpenAICompletion) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload := chatRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
	}
	if req.MaxTokens > 0 {
		payload.MaxTokens = req.MaxTokens
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: req.System})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: req.Prompt})
	if req.JSON {
		payload.ResponseFormat = map[string]string{"type": "json_object"}
	}

	var (
		res     chatResponse
		errBody map[string]any
	)
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&res).
		SetError(&errBody).
		Post("/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusTooManyRequests {
			return "", RateLimitError{RetryAfter: extractRetryAfter(errBody)}
		}
		return "", fmt.Errorf("completion http error: %s: %v", resp.Status(), errBody)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return res.Choices[0].Message.Content, nil
}

func extractRetryAfter(errBody map[string]any) time.Duration {
	errObj, ok := errBody["error"].(map[string]any)
	if !ok {
		return 0
	}
	details, ok := errObj["details"].([]any)
	if !ok {
		return 0
	}
	for _, d := range details {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if t, ok := m["@type"].(string); ok && strings.Contains(t, "RetryInfo") {
			if s, ok := m["retryDelay"].(string); ok {
				if dur, err := time.ParseDuration(s); err == nil {
					return dur
				}
			}
		}
	}
	return 0
}
