package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

// Analyzer sends one prompt to the text-generation provider.
type Analyzer interface {
	Complete(ctx context.Context, req CompletionRequest) (*models.Completion, error)
}

type CompletionRequest struct {
	Prompt  string
	Model   string
	Referer string
}

// Options tune every upstream call.
type Options struct {
	Endpoint    string
	MaxTokens   int
	Temperature float64
	Reasoning   bool
	Referer     string
	Title       string
	Timeout     time.Duration
}

type openRouterAnalyzer struct {
	apiKey string
	opts   Options
	logger *utils.Logger
	client *http.Client
}

type OpenRouterRequest struct {
	Model       string     `json:"model"`
	Messages    []Message  `json:"messages"`
	MaxTokens   int        `json:"max_tokens,omitempty"`
	Temperature float64    `json:"temperature"`
	Reasoning   *Reasoning `json:"reasoning,omitempty"`
}

type Reasoning struct {
	Enabled bool `json:"enabled"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenRouterResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// StatusError is a non-2xx answer from the provider. Body is kept verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// ErrEmptyCompletion means the provider answered without any choices.
var ErrEmptyCompletion = fmt.Errorf("empty response from AI")

func NewOpenRouterAnalyzer(apiKey string, opts Options, logger *utils.Logger) Analyzer {
	if opts.Timeout == 0 {
		opts.Timeout = 120 * time.Second
	}
	return &openRouterAnalyzer{
		apiKey: apiKey,
		opts:   opts,
		logger: logger,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

func (a *openRouterAnalyzer) Complete(ctx context.Context, in CompletionRequest) (*models.Completion, error) {
	reqBody := OpenRouterRequest{
		Model: in.Model,
		Messages: []Message{
			{
				Role:    "user",
				Content: in.Prompt,
			},
		},
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	}
	if a.opts.Reasoning {
		reqBody.Reasoning = &Reasoning{Enabled: true}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.opts.Endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	referer := in.Referer
	if referer == "" {
		referer = a.opts.Referer
	}

	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", referer)
	if a.opts.Title != "" {
		req.Header.Set("X-Title", a.opts.Title)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Error("OpenRouter API error", "status", resp.StatusCode, "body", string(body))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var openRouterResp OpenRouterResponse
	if err := json.Unmarshal(body, &openRouterResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if openRouterResp.Error != nil {
		return nil, fmt.Errorf("OpenRouter API error: %s", openRouterResp.Error.Message)
	}

	if len(openRouterResp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	completion := &models.Completion{
		Text:  openRouterResp.Choices[0].Message.Content,
		Model: in.Model,
	}
	if u := openRouterResp.Usage; u != nil {
		completion.Usage = &models.Usage{
			InputTokens:  u.PromptTokens,
			OutputTokens: u.CompletionTokens,
		}
	}

	return completion, nil
}
