package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/services"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

type AdminHandler struct {
	service services.AdminService
	logger  *utils.Logger
}

func NewAdminHandler(service services.AdminService, logger *utils.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.service.UsageReport(r.Context()))
}

func (h *AdminHandler) ClearStats(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearUsage(r.Context()); err != nil {
		respondError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) GetPrompts(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.service.Prompts(r.Context()))
}

func (h *AdminHandler) SavePrompts(w http.ResponseWriter, r *http.Request) {
	var cfg models.PromptConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(h.logger, w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	saved, err := h.service.SavePrompts(r.Context(), cfg)
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, saved)
}

func (h *AdminHandler) ResetPrompts(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.ResetPrompts(r.Context())
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, cfg)
}
