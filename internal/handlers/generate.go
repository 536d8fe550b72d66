package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/services"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

type GenerateHandler struct {
	service services.RelayService
	logger  *utils.Logger
}

func NewGenerateHandler(service services.RelayService, logger *utils.Logger) *GenerateHandler {
	return &GenerateHandler{
		service: service,
		logger:  logger,
	}
}

// Generate relays a prompt to the provider. An unreadable body is treated as
// a request without a prompt.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid relay request body", "error", err)
		req = models.GenerateRequest{}
	}

	resp, err := h.service.Generate(r.Context(), &req, r.Header.Get("Origin"))
	if err != nil {
		respondError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, resp)
}
