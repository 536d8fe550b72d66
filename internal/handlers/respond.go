package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

func respondJSON(logger *utils.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func respondError(logger *utils.Logger, w http.ResponseWriter, err error) {
	resp := models.ErrorResponse{Error: "Internal server error"}
	status := http.StatusInternalServerError

	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
		resp.Error = appErr.Message
		resp.Details = appErr.Details
	}

	logger.Error("Request error", "status", status, "error", err)
	respondJSON(logger, w, status, resp)
}

// MethodNotAllowed answers in the same JSON shape as every other error.
func MethodNotAllowed(logger *utils.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(logger, w, utils.NewMethodNotAllowedError("Method not allowed"))
	})
}

func NotFound(logger *utils.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(logger, w, utils.NewNotFoundError("Not found"))
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
