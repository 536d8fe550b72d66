package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/storage"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

// Renderer turns a summary into a document.
type Renderer interface {
	Render(ctx context.Context, summary, sourceName string, style models.PDFStyle) (*models.Artifact, error)
}

type ExportService interface {
	Export(ctx context.Context, summary, fileName string, style models.PDFStyle) (*models.Artifact, error)
	// Archived returns a previously stored document by artifact name.
	Archived(ctx context.Context, name string) (*models.Artifact, error)
	DeleteArchived(ctx context.Context, name string) error
}

type exportService struct {
	renderer Renderer
	storage  storage.Storage
	logger   *utils.Logger
}

// NewExportService renders summaries and, when store is not nil, saves each
// document there under its artifact name.
func NewExportService(renderer Renderer, store storage.Storage, logger *utils.Logger) ExportService {
	return &exportService{
		renderer: renderer,
		storage:  store,
		logger:   logger,
	}
}

func (s *exportService) Export(ctx context.Context, summary, fileName string, style models.PDFStyle) (*models.Artifact, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, utils.NewBadRequestError("Summary is required")
	}

	artifact, err := s.renderer.Render(ctx, summary, fileName, style)
	if err != nil {
		return nil, utils.WrapInternal("Failed to generate PDF", err)
	}

	if s.storage != nil {
		location, err := s.storage.Upload(ctx, artifact.Name, artifact.Data, artifact.ContentType)
		if err != nil {
			return nil, utils.WrapInternal("Failed to store PDF", fmt.Errorf("upload %s: %w", artifact.Name, err))
		}
		artifact.Location = location
	}

	s.logger.Info("Summary exported",
		"name", artifact.Name,
		"style", style,
		"pages", artifact.Pages,
		"location", artifact.Location,
	)

	return artifact, nil
}

func (s *exportService) archiveKey(name string) (string, error) {
	if s.storage == nil {
		return "", utils.NewNotFoundError("Export archive not configured")
	}
	if name == "" || filepath.Base(name) != name || !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "", utils.NewBadRequestError("Invalid export name")
	}
	return name, nil
}

func (s *exportService) Archived(ctx context.Context, name string) (*models.Artifact, error) {
	key, err := s.archiveKey(name)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Download(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NewNotFoundError("Export not found")
	}
	if err != nil {
		return nil, utils.WrapInternal("Failed to read stored PDF", err)
	}

	return &models.Artifact{
		Name:        key,
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func (s *exportService) DeleteArchived(ctx context.Context, name string) error {
	key, err := s.archiveKey(name)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return utils.WrapInternal("Failed to delete stored PDF", err)
	}
	s.logger.Info("Archived export deleted", "name", key)
	return nil
}
