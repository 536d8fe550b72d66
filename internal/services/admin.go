package services

import (
	"context"
	"strings"

	"github.com/BerylCAtieno/transcript-summarizer/internal/history"
	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/prompts"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

// AdminService backs the usage and prompt settings screens.
type AdminService interface {
	UsageReport(ctx context.Context) models.UsageReport
	ClearUsage(ctx context.Context) error
	Prompts(ctx context.Context) models.PromptConfig
	SavePrompts(ctx context.Context, cfg models.PromptConfig) (models.PromptConfig, error)
	ResetPrompts(ctx context.Context) (models.PromptConfig, error)
}

type adminService struct {
	history *history.Store
	prompts *prompts.Store
	logger  *utils.Logger
}

func NewAdminService(h *history.Store, p *prompts.Store, logger *utils.Logger) AdminService {
	return &adminService{history: h, prompts: p, logger: logger}
}

func (s *adminService) UsageReport(ctx context.Context) models.UsageReport {
	return s.history.Report(ctx)
}

func (s *adminService) ClearUsage(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return utils.WrapInternal("Failed to clear usage history", err)
	}
	s.logger.Info("Usage history cleared")
	return nil
}

func (s *adminService) Prompts(ctx context.Context) models.PromptConfig {
	return s.prompts.Load(ctx)
}

func (s *adminService) SavePrompts(ctx context.Context, cfg models.PromptConfig) (models.PromptConfig, error) {
	if strings.TrimSpace(cfg.SystemRole) == "" ||
		strings.TrimSpace(cfg.StandardInstruction) == "" ||
		strings.TrimSpace(cfg.DetailedInstruction) == "" {
		return models.PromptConfig{}, utils.NewBadRequestError("systemRole, standardInstruction and detailedInstruction are required")
	}
	if err := s.prompts.Save(ctx, cfg); err != nil {
		return models.PromptConfig{}, utils.WrapInternal("Failed to save prompts", err)
	}
	s.logger.Info("Prompt settings saved")
	return cfg, nil
}

func (s *adminService) ResetPrompts(ctx context.Context) (models.PromptConfig, error) {
	cfg, err := s.prompts.Reset(ctx)
	if err != nil {
		return models.PromptConfig{}, utils.WrapInternal("Failed to reset prompts", err)
	}
	s.logger.Info("Prompt settings reset")
	return cfg, nil
}
