// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Session Pulse API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SessionHandler: Session lifecycle (create, topics, outline import, publish, close)
  - ResponseHandler: Name claims and response submission
  - InsightsHandler: Session info, previews, and insight retrieval
  - DeviceHandler: Device registration and session history

Handlers are created via constructor functions that accept *sql.DB and Config:

	sessionHandler := handlers.NewSessionHandler(db, cfg)

# Session Lifecycle

Sessions progress through three states: draft → open → closed

	POST /sessions               → CreateSession (returns admin_key)
	POST /sessions/{id}/topics   → AddTopic (draft only)
	POST /sessions/{id}/outline  → ImportOutline (draft only, replaces topics)
	POST /sessions/{id}/publish  → PublishSession (generates share_slug)
	POST /sessions/{id}/close    → CloseSession (seals insight snapshot)

Admin operations require the X-Admin-Key header.

# Participant Flow

Participants interact via the share slug:

	POST /sessions/{slug}/claim-name → ClaimName (returns participant_token)
	POST /sessions/{slug}/responses  → SubmitResponse (create or replace)
	GET  /sessions/{slug}/my-response → GetMyResponse

Participant operations require the X-Participant-Token header.

# Insights

Topic interest aggregation is implemented in insights.go:

	stats, err := ComputeTopicInterest(db, sessionID)

This computes mean level, response count, and positive share for each
topic, then ranks them. Suggested topics mined from response feedback
are grouped case-insensitively alongside.

# Device Tracking

Optional device tracking for native apps:

	POST /devices/register    → Register
	GET /devices/me           → GetMe
	GET /devices/my-sessions  → GetMySessions

Device operations require the X-Device-UUID header.
*/
package handlers
