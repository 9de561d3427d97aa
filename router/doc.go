// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Session Pulse API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Session management (admin, requires X-Admin-Key):

	POST /sessions                - Create session
	GET  /sessions/{id}/admin     - Get session details
	POST /sessions/{id}/topics    - Add topic
	POST /sessions/{id}/outline   - Import pasted outline
	POST /sessions/{id}/publish   - Open for responses
	POST /sessions/{id}/close     - Seal insights
	GET  /sessions/{id}/insights  - Ranked topics and suggestion groups

Participation (public, uses share slug):

	POST /sessions/{slug}/claim-name  - Claim participant identity
	POST /sessions/{slug}/responses   - Submit/replace response
	GET  /sessions/{slug}/my-response - Echo own submission

Session retrieval (public):

	GET /sessions/{slug}         - Session info and topics
	GET /sessions/{slug}/preview - Compact preview data

Device management:

	POST /devices/register    - Register device
	GET  /devices/me          - Get device info
	GET  /devices/my-sessions - List device's sessions

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(db, cfg)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	insightsHandler := handlers.NewInsightsHandler(db, cfg)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
