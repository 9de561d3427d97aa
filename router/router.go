// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/session-pulse/cliparse"
	"github.com/danielhkuo/session-pulse/handlers"
	"github.com/danielhkuo/session-pulse/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	insightsHandler := handlers.NewInsightsHandler(db, cfg)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session management (presenter operations)
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}/admin", middleware.WithLogging(sessionHandler.GetSessionAdmin))
	mux.HandleFunc("POST /sessions/{id}/topics", middleware.WithLogging(sessionHandler.AddTopic))
	mux.HandleFunc("POST /sessions/{id}/outline", middleware.WithLogging(sessionHandler.ImportOutline))
	mux.HandleFunc("POST /sessions/{id}/publish", middleware.WithLogging(sessionHandler.PublishSession))
	mux.HandleFunc("POST /sessions/{id}/close", middleware.WithLogging(sessionHandler.CloseSession))
	mux.HandleFunc("GET /sessions/{id}/insights", middleware.WithLogging(insightsHandler.GetInsights))

	// Participant operations (public, addressed by share slug)
	mux.HandleFunc("POST /sessions/{slug}/claim-name", middleware.WithLogging(responseHandler.ClaimName))
	mux.HandleFunc("POST /sessions/{slug}/responses", middleware.WithLogging(responseHandler.SubmitResponse))
	mux.HandleFunc("GET /sessions/{slug}/my-response", middleware.WithLogging(responseHandler.GetMyResponse))

	// Session retrieval (public)
	mux.HandleFunc("GET /sessions/{slug}", middleware.WithLogging(insightsHandler.GetSession))
	mux.HandleFunc("GET /sessions/{slug}/preview", middleware.WithLogging(insightsHandler.GetPreview))

	// Device management
	mux.HandleFunc("POST /devices/register", middleware.WithLogging(deviceHandler.Register))
	mux.HandleFunc("GET /devices/me", middleware.WithLogging(deviceHandler.GetMe))
	mux.HandleFunc("GET /devices/my-sessions", middleware.WithLogging(deviceHandler.GetMySessions))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("session-pulse API v1"))
	})

	return mux
}
