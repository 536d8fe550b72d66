package services

import (
	"context"
	"errors"
	"strings"

	"github.com/BerylCAtieno/transcript-summarizer/internal/analyzer"
	"github.com/BerylCAtieno/transcript-summarizer/internal/config"
	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

type RelayService interface {
	Generate(ctx context.Context, req *models.GenerateRequest, origin string) (*models.GenerateResponse, error)
}

type relayService struct {
	analyzer     analyzer.Analyzer
	defaultModel string
	logger       *utils.Logger
}

// NewRelayService wires the OpenRouter analyzer from cfg. Without an API key
// the service still starts and answers every call with a 500. Upstream calls
// are bounded by SummaryTimeout so they end before the server write deadline.
func NewRelayService(cfg *config.Config, logger *utils.Logger) RelayService {
	var llm analyzer.Analyzer
	if cfg.OpenRouterAPIKey != "" {
		llm = analyzer.NewOpenRouterAnalyzer(cfg.OpenRouterAPIKey, analyzer.Options{
			Endpoint:    cfg.OpenRouterURL,
			MaxTokens:   cfg.OpenRouterMaxTokens,
			Temperature: cfg.OpenRouterTemperature,
			Reasoning:   cfg.OpenRouterReasoning,
			Referer:     cfg.AppReferer,
			Title:       cfg.AppTitle,
			Timeout:     cfg.SummaryTimeout,
		}, logger)
	}
	return NewRelayServiceWith(llm, cfg.OpenRouterModel, logger)
}

// NewRelayServiceWith accepts any analyzer. A nil analyzer means no provider
// credentials are configured.
func NewRelayServiceWith(llm analyzer.Analyzer, defaultModel string, logger *utils.Logger) RelayService {
	if defaultModel == "" {
		defaultModel = config.DefaultModel
	}
	return &relayService{
		analyzer:     llm,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

func (s *relayService) Generate(ctx context.Context, req *models.GenerateRequest, origin string) (*models.GenerateResponse, error) {
	if s.analyzer == nil {
		return nil, utils.NewInternalError("API key not configured")
	}

	prompt, ok := req.Prompt.(string)
	if !ok || prompt == "" {
		return nil, utils.NewBadRequestError("Invalid prompt")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.defaultModel
	}

	s.logger.Info("Relaying prompt", "model", model, "prompt_chars", len(prompt))

	completion, err := s.analyzer.Complete(ctx, analyzer.CompletionRequest{
		Prompt:  prompt,
		Model:   model,
		Referer: origin,
	})
	if err != nil {
		var statusErr *analyzer.StatusError
		switch {
		case errors.As(err, &statusErr):
			return nil, utils.NewUpstreamError(statusErr.StatusCode, statusErr.Error(), statusErr.Body)
		case errors.Is(err, analyzer.ErrEmptyCompletion):
			return nil, utils.NewInternalError("Empty response from AI")
		default:
			appErr := utils.WrapInternal("Internal server error", err)
			appErr.Details = err.Error()
			return nil, appErr
		}
	}

	if completion.Usage != nil {
		s.logger.Info("Completion usage",
			"model", model,
			"input_tokens", completion.Usage.InputTokens,
			"output_tokens", completion.Usage.OutputTokens,
		)
	}

	return &models.GenerateResponse{
		Text:  completion.Text,
		Usage: completion.Usage,
		Model: model,
	}, nil
}
