package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/services"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

type ExportHandler struct {
	service services.ExportService
	logger  *utils.Logger
}

func NewExportHandler(service services.ExportService, logger *utils.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger,
	}
}

// Export renders a summary and returns the PDF as an attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	style := models.StyleClassic
	if strings.TrimSpace(req.Style) != "" {
		parsed, err := models.ParseStyle(req.Style)
		if err != nil {
			respondError(h.logger, w, utils.NewBadRequestError("Unknown style, expected CLASSIC, ACADEMIC or CREATIVE"))
			return
		}
		style = parsed
	}

	artifact, err := h.service.Export(r.Context(), req.Summary, req.FileName, style)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	writePDF(h.logger, w, artifact)
}

// Download serves an archived export.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.service.Archived(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		respondError(h.logger, w, err)
		return
	}
	writePDF(h.logger, w, artifact)
}

func (h *ExportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteArchived(r.Context(), mux.Vars(r)["name"]); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writePDF(logger *utils.Logger, w http.ResponseWriter, artifact *models.Artifact) {
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	if artifact.Pages > 0 {
		w.Header().Set("X-Page-Count", strconv.Itoa(artifact.Pages))
	}
	if artifact.Location != "" {
		w.Header().Set("X-Artifact-Location", artifact.Location)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		logger.Error("Failed to write PDF response", "error", err)
	}
}
