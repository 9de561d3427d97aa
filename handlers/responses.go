// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/danielhkuo/session-pulse/auth"
	"github.com/danielhkuo/session-pulse/cliparse"
	"github.com/danielhkuo/session-pulse/middleware"
	"github.com/danielhkuo/session-pulse/models"
	"github.com/danielhkuo/session-pulse/suggestions"
)

type ResponseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResponseHandler(db *sql.DB, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{db: db, cfg: cfg}
}

// newResponseID returns a lexicographically sortable response ID, so
// "ORDER BY id" is submission order. ulid.Make shares one monotonic
// entropy source, keeping same-millisecond IDs ordered too.
func newResponseID() string {
	return ulid.Make().String()
}

// ClaimName handles POST /sessions/:slug/claim-name
// Reserves a display name within a session and issues the participant
// token used for all later requests.
func (h *ResponseHandler) ClaimName(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.ClaimNameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if len(displayName) < 2 || len(displayName) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "display_name must be 2-50 characters")
		return
	}

	// Get session and verify it's open
	var sessionID, status string
	err := h.db.QueryRow(`
		SELECT id, status FROM session WHERE share_slug = $1
	`, shareSlug).Scan(&sessionID, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not accepting participants")
		return
	}

	token, err := auth.GenerateParticipantToken()
	if err != nil {
		slog.Error("failed to generate participant token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim name")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO name_claim (session_id, display_name, participant_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, sessionID, displayName, token, time.Now())

	if err != nil {
		// Unique constraint violation means the name is taken
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			middleware.ErrorResponse(w, http.StatusConflict, "Name already taken")
			return
		}
		slog.Error("failed to insert name claim", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to claim name")
		return
	}

	// Link device as participant (if X-Device-UUID header present)
	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Warn("failed to get/create device", "error", err)
	} else if deviceID != "" {
		if err := LinkDeviceToSession(h.db, deviceID, sessionID, models.RoleParticipant, &token); err != nil {
			slog.Warn("failed to link device to session", "error", err)
		}
	}

	slog.Info("name claimed", "session_id", sessionID, "display_name", displayName)

	middleware.JSONResponse(w, http.StatusCreated, models.ClaimNameResponse{
		ParticipantToken: token,
	})
}

// SubmitResponse handles POST /sessions/:slug/responses
// Accepts per-topic interest levels plus optional suggested topics and
// a freeform comment. Resubmitting replaces the previous response.
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	token := r.Header.Get("X-Participant-Token")
	if err := auth.ValidateTokenFormat(token); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant token")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Interest) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "interest is required")
		return
	}
	for topicID, level := range req.Interest {
		if level < 0 || level > 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "interest levels must be between 0 and 1")
			return
		}
		if topicID == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "interest contains an empty topic ID")
			return
		}
	}

	// Get session and verify it's open
	var sessionID, status string
	err := h.db.QueryRow(`
		SELECT id, status FROM session WHERE share_slug = $1
	`, shareSlug).Scan(&sessionID, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not accepting responses")
		return
	}

	// Token must belong to a claimed name in this session
	var claimed int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM name_claim
		WHERE session_id = $1 AND participant_token = $2
	`, sessionID, token).Scan(&claimed)
	if err != nil {
		slog.Error("failed to check name claim", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if claimed == 0 {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown participant token for this session")
		return
	}

	// Every topic ID in the request must be a topic of this session
	topics, err := loadTopics(h.db, sessionID)
	if err != nil {
		slog.Error("failed to query topics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	validTopics := make(map[string]bool, len(topics))
	for _, t := range topics {
		validTopics[t.ID] = true
	}
	for topicID := range req.Interest {
		if !validTopics[topicID] {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown topic ID: "+topicID)
			return
		}
	}

	// Structured suggestions and the freeform comment share one stored
	// field; the sentinel block keeps them separable.
	feedback := suggestions.SerializeFeedback(req.SuggestedTopics, req.Comment)
	var feedbackValue sql.NullString
	if feedback != "" {
		feedbackValue = sql.NullString{String: feedback, Valid: true}
	}

	responseID := newResponseID()
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	userAgent := r.Header.Get("User-Agent")

	// Replace any previous response in one transaction
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Interests cascade with the response row
	_, err = tx.Exec(`
		DELETE FROM response
		WHERE session_id = $1 AND participant_token = $2
	`, sessionID, token)
	if err != nil {
		slog.Error("failed to clear previous response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit response")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO response (id, session_id, participant_token, feedback, submitted_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, responseID, sessionID, token, feedbackValue, time.Now(), ipHash, userAgent)
	if err != nil {
		slog.Error("failed to insert response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit response")
		return
	}

	for topicID, level := range req.Interest {
		_, err = tx.Exec(`
			INSERT INTO interest (response_id, topic_id, level)
			VALUES ($1, $2, $3)
		`, responseID, topicID, level)
		if err != nil {
			slog.Error("failed to insert interest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit response")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit response")
		return
	}

	slog.Info("response submitted", "session_id", sessionID, "response_id", responseID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponseResponse{
		ResponseID: responseID,
		Message:    "Response recorded",
	})
}

// GetMyResponse handles GET /sessions/:slug/my-response
// Echoes the participant's own submission, with the stored feedback
// field split back into its suggested-topics and comment parts.
func (h *ResponseHandler) GetMyResponse(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	token := r.Header.Get("X-Participant-Token")
	if err := auth.ValidateTokenFormat(token); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant token")
		return
	}

	var sessionID string
	err := h.db.QueryRow(`
		SELECT id FROM session WHERE share_slug = $1
	`, shareSlug).Scan(&sessionID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var responseID string
	var feedback sql.NullString
	var submittedAt time.Time
	err = h.db.QueryRow(`
		SELECT id, feedback, submitted_at
		FROM response
		WHERE session_id = $1 AND participant_token = $2
	`, sessionID, token).Scan(&responseID, &feedback, &submittedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No response submitted")
		return
	}
	if err != nil {
		slog.Error("failed to query response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT topic_id, level FROM interest WHERE response_id = $1
	`, responseID)
	if err != nil {
		slog.Error("failed to query interests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	interest := make(map[string]float64)
	for rows.Next() {
		var topicID string
		var level float64
		if err := rows.Scan(&topicID, &level); err != nil {
			slog.Error("failed to scan interest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		interest[topicID] = level
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read interests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	parsed := suggestions.ParseFeedback(feedback.String)

	middleware.JSONResponse(w, http.StatusOK, models.MyResponseView{
		Interest:        interest,
		SuggestedTopics: parsed.SuggestedTopicsRaw,
		Comment:         parsed.FreeformText,
		SubmittedAt:     submittedAt,
	})
}
