package router

import (
	"net/http"

	"github.com/BerylCAtieno/transcript-summarizer/internal/config"
	"github.com/BerylCAtieno/transcript-summarizer/internal/handlers"
	"github.com/BerylCAtieno/transcript-summarizer/internal/middleware"
	"github.com/BerylCAtieno/transcript-summarizer/internal/services"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"

	"github.com/gorilla/mux"
)

type Services struct {
	Relay  services.RelayService
	Export services.ExportService
	Admin  services.AdminService
}

func NewRouter(svc Services, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.MaxBody(cfg.MaxBodyBytes))

	r.MethodNotAllowedHandler = handlers.MethodNotAllowed(logger)
	r.NotFoundHandler = handlers.NotFound(logger)

	generateHandler := handlers.NewGenerateHandler(svc.Relay, logger)
	exportHandler := handlers.NewExportHandler(svc.Export, logger)
	adminHandler := handlers.NewAdminHandler(svc.Admin, logger)

	// Routes. The admin subrouter hangs off the root router and is registered
	// first; nesting it under /api hides method mismatches on sibling routes.
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	admin.Use(middleware.AdminAuth(cfg.AdminAuthMode, cfg.AdminToken, logger))
	admin.HandleFunc("/stats", adminHandler.GetStats).Methods(http.MethodGet)
	admin.HandleFunc("/stats", adminHandler.ClearStats).Methods(http.MethodDelete)
	admin.HandleFunc("/prompts", adminHandler.GetPrompts).Methods(http.MethodGet)
	admin.HandleFunc("/prompts", adminHandler.SavePrompts).Methods(http.MethodPut)
	admin.HandleFunc("/prompts/reset", adminHandler.ResetPrompts).Methods(http.MethodPost)
	admin.HandleFunc("/exports/{name}", exportHandler.Download).Methods(http.MethodGet)
	admin.HandleFunc("/exports/{name}", exportHandler.Delete).Methods(http.MethodDelete)

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler

	api.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	api.HandleFunc("/generate", generateHandler.Generate).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/export", exportHandler.Export).Methods(http.MethodPost, http.MethodOptions)

	return r
}
