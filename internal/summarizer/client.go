// Package summarizer calls the relay that fronts the text-generation provider.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

const (
	DefaultTimeout = 60 * time.Second

	TimeoutMessage = "request timed out, try again with a shorter transcript"
	EmptyMessage   = "the summarization service returned an empty response"
	untitledTopic  = "No topic"
	maxErrorBody   = 64 << 10
)

// RequestError is the only error Summarize returns. Message is safe to show
// to the user.
type RequestError struct {
	Message string
	Status  int
	Timeout bool
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type Request struct {
	Prompt string
	Model  string
	Topic  string
	Mode   models.Mode
}

type Result struct {
	Text  string
	Usage *models.Usage
	Model string
}

// UsageRecorder stores one log entry per successful call.
type UsageRecorder interface {
	Append(ctx context.Context, log models.UsageLog) (models.UsageLog, error)
}

type Client struct {
	relayURL string
	model    string
	timeout  time.Duration
	http     *http.Client
	usage    UsageRecorder
	logger   *utils.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// NewClient builds a client for relayURL. usage may be nil.
func NewClient(relayURL string, usage UsageRecorder, logger *utils.Logger, opts ...Option) *Client {
	c := &Client{
		relayURL: relayURL,
		timeout:  DefaultTimeout,
		http:     &http.Client{},
		usage:    usage,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize sends the prompt and waits at most the configured timeout.
func (c *Client) Summarize(ctx context.Context, in Request) (*Result, error) {
	model := in.Model
	if model == "" {
		model = c.model
	}

	body, err := json.Marshal(models.GenerateRequest{Prompt: in.Prompt, Model: model})
	if err != nil {
		return nil, &RequestError{Message: "failed to encode request", Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.relayURL, bytes.NewReader(body))
	if err != nil {
		return nil, &RequestError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(callCtx, err) {
			c.logger.Warn("Summarization timed out", "timeout", c.timeout, "error", err)
			return nil, &RequestError{Message: TimeoutMessage, Timeout: true, Err: err}
		}
		c.logger.Error("Summarization request failed", "error", err)
		return nil, &RequestError{Message: "could not reach the summarization service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.statusError(resp)
	}

	var out models.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if isTimeout(callCtx, err) {
			return nil, &RequestError{Message: TimeoutMessage, Timeout: true, Err: err}
		}
		return nil, &RequestError{Message: "invalid response from the summarization service", Status: resp.StatusCode, Err: err}
	}

	if strings.TrimSpace(out.Text) == "" {
		return nil, &RequestError{Message: EmptyMessage, Status: resp.StatusCode}
	}

	result := &Result{Text: out.Text, Usage: out.Usage, Model: out.Model}
	if result.Model == "" {
		result.Model = model
	}

	c.logger.Info("Summary received",
		"model", result.Model,
		"duration", time.Since(start),
		"has_usage", result.Usage != nil,
	)

	if result.Usage != nil {
		c.recordUsage(ctx, in, result)
	}

	return result, nil
}

func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload models.ErrorResponse
	message := fmt.Sprintf("API error: %d", resp.StatusCode)
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	c.logger.Error("Relay returned an error", "status", resp.StatusCode, "error", message)
	return &RequestError{Message: message, Status: resp.StatusCode}
}

// recordUsage never fails the call.
func (c *Client) recordUsage(ctx context.Context, in Request, result *Result) {
	if c.usage == nil {
		return
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = untitledTopic
	}

	_, err := c.usage.Append(ctx, models.UsageLog{
		Model:        result.Model,
		InputTokens:  result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
		Topic:        topic,
		Mode:         in.Mode,
	})
	if err != nil {
		c.logger.Warn("Failed to record usage", "error", err)
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// AsRequestError extracts a *RequestError from err's chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
