// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/session-pulse/auth"
	"github.com/danielhkuo/session-pulse/cliparse"
	"github.com/danielhkuo/session-pulse/middleware"
	"github.com/danielhkuo/session-pulse/models"
	"github.com/danielhkuo/session-pulse/outline"
)

type SessionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.PresenterName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "presenter_name is required")
		return
	}

	// Generate session ID
	sessionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate session ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// Generate admin key
	adminKey := auth.GenerateAdminKey(sessionID, h.cfg.AdminKeySalt)

	// Insert session into database
	_, err = h.db.Exec(`
		INSERT INTO session (id, title, description, presenter_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sessionID, req.Title, req.Description, req.PresenterName, models.StatusDraft, time.Now())

	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	// Link device as presenter (if X-Device-UUID header present)
	deviceID, err := GetOrCreateDevice(h.db, r)
	if err != nil {
		slog.Warn("failed to get/create device", "error", err)
	} else if deviceID != "" {
		if err := LinkDeviceToSession(h.db, deviceID, sessionID, models.RolePresenter, nil); err != nil {
			slog.Warn("failed to link device to session", "error", err)
		}
	}

	slog.Info("session created", "session_id", sessionID, "presenter", req.PresenterName)

	// Return response
	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sessionID,
		AdminKey:  adminKey,
	})
}

// AddTopic handles POST /sessions/:id/topics
func (h *SessionHandler) AddTopic(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// Parse request
	var req models.AddTopicRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Encode signals "no block" with an empty string when the title is
	// blank, so validate through the codec
	block := outline.Encode(req.Title, req.Subtopics)
	if block == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Subtopics) > outline.MaxSubtopics {
		middleware.ErrorResponse(w, http.StatusBadRequest, "too many subtopics")
		return
	}

	// Check session exists and is in draft status
	var status string
	err := h.db.QueryRow("SELECT status FROM session WHERE id = $1", sessionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add topics to non-draft session")
		return
	}

	// Existing topics: enforce the topic cap and the unique-title rule
	existing, err := loadTopics(h.db, sessionID)
	if err != nil {
		slog.Error("failed to query topics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if len(existing) >= outline.MaxTopics {
		middleware.ErrorResponse(w, http.StatusConflict, "Session already has the maximum number of topics")
		return
	}

	newTitle := outline.Decode(block).Title
	for _, t := range existing {
		if strings.EqualFold(outline.Decode(t.Block).Title, newTitle) {
			middleware.ErrorResponse(w, http.StatusConflict, "A topic with this title already exists")
			return
		}
	}

	// Generate topic ID
	topicID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate topic ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create topic")
		return
	}

	// Insert topic
	_, err = h.db.Exec(`
		INSERT INTO topic (id, session_id, position, block)
		VALUES ($1, $2, $3, $4)
	`, topicID, sessionID, len(existing), block)

	if err != nil {
		slog.Error("failed to insert topic", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create topic")
		return
	}

	slog.Info("topic added", "session_id", sessionID, "topic_id", topicID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddTopicResponse{
		TopicID: topicID,
		Block:   block,
	})
}

// ImportOutline handles POST /sessions/:id/outline
// Parses raw outline text (usually AI-generated) into topic blocks and
// replaces the session's draft topics with the result.
func (h *SessionHandler) ImportOutline(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.ImportOutlineRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Check session exists and is in draft status
	var status string
	err := h.db.QueryRow("SELECT status FROM session WHERE id = $1", sessionID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot import an outline into a non-draft session")
		return
	}

	// Parse never fails; an unusable outline just yields no topics
	blocks := outline.Parse(req.Outline)
	if len(blocks) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No topics could be parsed from the outline")
		return
	}

	// Replace draft topics in one transaction
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM topic WHERE session_id = $1`, sessionID); err != nil {
		slog.Error("failed to clear topics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import outline")
		return
	}

	topics := make([]models.Topic, 0, len(blocks))
	for i, block := range blocks {
		topicID, err := auth.GenerateID(12)
		if err != nil {
			slog.Error("failed to generate topic ID", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import outline")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO topic (id, session_id, position, block)
			VALUES ($1, $2, $3, $4)
		`, topicID, sessionID, i, block)

		if err != nil {
			slog.Error("failed to insert topic", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import outline")
			return
		}

		topics = append(topics, models.Topic{
			ID:        topicID,
			SessionID: sessionID,
			Position:  i,
			Block:     block,
		})
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to import outline")
		return
	}

	slog.Info("outline imported", "session_id", sessionID, "topic_count", len(topics))

	middleware.JSONResponse(w, http.StatusOK, models.ImportOutlineResponse{
		Topics: topics,
	})
}

// PublishSession handles POST /sessions/:id/publish
func (h *SessionHandler) PublishSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// Check session exists and is in draft status
	var status string
	var topicCount int
	err := h.db.QueryRow(`
		SELECT s.status, COUNT(t.id)
		FROM session s
		LEFT JOIN topic t ON s.id = t.session_id
		WHERE s.id = $1
		GROUP BY s.status
	`, sessionID).Scan(&status, &topicCount)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not in draft status")
		return
	}

	if topicCount < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Session must have at least 1 topic")
		return
	}

	// Generate share slug
	shareSlug := auth.GenerateShareSlug(sessionID, h.cfg.SessionSlugSalt)

	// Update session to open status
	_, err = h.db.Exec(`
		UPDATE session
		SET status = $1, share_slug = $2
		WHERE id = $3
	`, models.StatusOpen, shareSlug, sessionID)

	if err != nil {
		slog.Error("failed to publish session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish session")
		return
	}

	slog.Info("session published", "session_id", sessionID, "share_slug", shareSlug)

	shareURL := h.cfg.BaseURL + "/sessions/" + shareSlug

	middleware.JSONResponse(w, http.StatusOK, models.PublishSessionResponse{
		ShareSlug: shareSlug,
		ShareURL:  shareURL,
	})
}

// GetSessionAdmin handles GET /sessions/:id/admin
// Returns session details for presenter access using session ID and admin key
func (h *SessionHandler) GetSessionAdmin(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// Get session by ID
	var session models.Session
	err := h.db.QueryRow(`
		SELECT id, title, description, presenter_name, status,
		       share_slug, closed_at, final_snapshot_id, created_at
		FROM session
		WHERE id = $1
	`, sessionID).Scan(
		&session.ID, &session.Title, &session.Description, &session.PresenterName,
		&session.Status, &session.ShareSlug, &session.ClosedAt,
		&session.FinalSnapshotID, &session.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	topics, err := loadTopics(h.db, session.ID)
	if err != nil {
		slog.Error("failed to query topics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	response := models.SessionWithTopics{
		Session: session,
		Topics:  topics,
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// CloseSession handles POST /sessions/:id/close
// Moves the session to closed and snapshots its insights.
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	// Validate admin key
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	// Check session exists and is open
	var status string
	err := h.db.QueryRow("SELECT status FROM session WHERE id = $1", sessionID).Scan(&status)
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
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not open")
		return
	}

	// Compute the final insights before anything changes state
	snapshot, err := buildInsightSnapshot(h.db, sessionID)
	if err != nil {
		slog.Error("failed to compute insights", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute insights")
		return
	}

	snapshotID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate snapshot ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close session")
		return
	}
	closedAt := time.Now()
	snapshot.ID = snapshotID
	snapshot.ComputedAt = closedAt

	payload, err := marshalSnapshotPayload(snapshot)
	if err != nil {
		slog.Error("failed to marshal snapshot payload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save insights")
		return
	}

	// Begin transaction
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Update session to closed
	_, err = tx.Exec(`
		UPDATE session
		SET status = $1, closed_at = $2, final_snapshot_id = $3
		WHERE id = $4
	`, models.StatusClosed, closedAt, snapshotID, sessionID)

	if err != nil {
		slog.Error("failed to close session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close session")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO insight_snapshot (id, session_id, computed_at, payload)
		VALUES ($1, $2, $3, $4)
	`, snapshotID, sessionID, closedAt, payload)

	if err != nil {
		slog.Error("failed to insert snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save insights")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close session")
		return
	}

	slog.Info("session closed", "session_id", sessionID, "snapshot_id", snapshotID)

	middleware.JSONResponse(w, http.StatusOK, models.CloseSessionResponse{
		ClosedAt: closedAt,
		Snapshot: snapshot,
	})
}

// loadTopics returns a session's topics in position order.
func loadTopics(db *sql.DB, sessionID string) ([]models.Topic, error) {
	rows, err := db.Query(`
		SELECT id, session_id, position, block
		FROM topic
		WHERE session_id = $1
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Position, &t.Block); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}

	return topics, rows.Err()
}
