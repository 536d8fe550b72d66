package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/repository"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

const PromptsKey = "mono_assist_prompts"

// Store persists the user's override of the prompt template.
type Store struct {
	repo   repository.Repository
	logger *utils.Logger
}

func NewStore(repo repository.Repository, logger *utils.Logger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Load returns the stored override laid over the defaults. Fields missing
// from the stored object keep their default values.
func (s *Store) Load(ctx context.Context) models.PromptConfig {
	cfg := models.DefaultPrompts

	data, err := s.repo.Get(ctx, PromptsKey)
	if errors.Is(err, repository.ErrNotFound) {
		return cfg
	}
	if err != nil {
		s.logger.Warn("Failed to read prompt config", "error", err)
		return models.DefaultPrompts
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		s.logger.Warn("Failed to parse prompt config, using defaults", "error", err)
		return models.DefaultPrompts
	}

	return cfg
}

func (s *Store) Save(ctx context.Context, cfg models.PromptConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode prompt config: %w", err)
	}
	if err := s.repo.Set(ctx, PromptsKey, data); err != nil {
		return fmt.Errorf("save prompt config: %w", err)
	}
	return nil
}

// Reset drops the override and returns the defaults.
func (s *Store) Reset(ctx context.Context) (models.PromptConfig, error) {
	if err := s.repo.Delete(ctx, PromptsKey); err != nil {
		return models.PromptConfig{}, fmt.Errorf("reset prompt config: %w", err)
	}
	return models.DefaultPrompts, nil
}
