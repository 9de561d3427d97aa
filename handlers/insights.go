// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/session-pulse/auth"
	"github.com/danielhkuo/session-pulse/cliparse"
	"github.com/danielhkuo/session-pulse/middleware"
	"github.com/danielhkuo/session-pulse/models"
	"github.com/danielhkuo/session-pulse/outline"
	"github.com/danielhkuo/session-pulse/render"
	"github.com/danielhkuo/session-pulse/suggestions"
)

type InsightsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewInsightsHandler(db *sql.DB, cfg cliparse.Config) *InsightsHandler {
	return &InsightsHandler{db: db, cfg: cfg}
}

// GetSession handles GET /sessions/:slug
// Returns the participant-facing session view: decoded topic blocks
// and the description rendered to HTML.
func (h *InsightsHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	// Get session by share slug
	var session models.Session
	err := h.db.QueryRow(`
		SELECT id, title, description, presenter_name, status,
		       share_slug, closed_at, final_snapshot_id, created_at
		FROM session
		WHERE share_slug = $1
	`, shareSlug).Scan(
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

	views := make([]models.TopicView, 0, len(topics))
	blocks := make([]string, 0, len(topics))
	for _, t := range topics {
		views = append(views, models.TopicView{
			ID:    t.ID,
			Block: outline.Decode(t.Block),
		})
		blocks = append(blocks, t.Block)
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionView{
		Session:         session,
		DescriptionHTML: render.Markdown(session.Description),
		Topics:          views,
		TopicsMarkdown:  render.TopicListMarkdown(blocks),
	})
}

// GetInsights handles GET /sessions/:id/insights
// While the session is open the insights are computed live; after close
// the stored final snapshot is returned.
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
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

	var status string
	var snapshotID sql.NullString
	err := h.db.QueryRow(`
		SELECT status, final_snapshot_id
		FROM session
		WHERE id = $1
	`, sessionID).Scan(&status, &snapshotID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status == models.StatusClosed && snapshotID.Valid {
		snapshot, err := loadInsightSnapshot(h.db, snapshotID.String)
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load insights")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, snapshot)
		return
	}

	snapshot, err := buildInsightSnapshot(h.db, sessionID)
	if err != nil {
		slog.Error("failed to compute insights", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute insights")
		return
	}
	snapshot.ComputedAt = time.Now()

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}

// GetPreview handles GET /sessions/:slug/preview
// Returns compact session data for link unfurling
func (h *InsightsHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var title, status string
	var sessionID string
	err := h.db.QueryRow(`
		SELECT id, title, status FROM session WHERE share_slug = $1
	`, shareSlug).Scan(&sessionID, &title, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var topicCount int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM topic WHERE session_id = $1
	`, sessionID).Scan(&topicCount)
	if err != nil {
		slog.Error("failed to count topics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var responseCount int
	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM response WHERE session_id = $1
	`, sessionID).Scan(&responseCount)
	if err != nil {
		slog.Error("failed to count responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionPreviewResponse{
		Title:         title,
		Status:        status,
		TopicCount:    topicCount,
		ResponseCount: responseCount,
	})
}

// ComputeTopicInterest aggregates interest levels per topic for a
// session. Each topic gets its response count, mean level, and the
// share of levels at or above 0.5; topics are ranked by mean
// descending with count, title, and ID as successive tiebreakers.
func ComputeTopicInterest(db *sql.DB, sessionID string) ([]models.TopicInterest, error) {
	topics, err := loadTopics(db, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	levels, err := getTopicLevels(db, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interest levels: %w", err)
	}

	stats := make([]models.TopicInterest, 0, len(topics))
	for _, t := range topics {
		entry := models.TopicInterest{
			TopicID: t.ID,
			Title:   outline.Decode(t.Block).Title,
		}

		if values := levels[t.ID]; len(values) > 0 {
			sum := 0.0
			positive := 0
			for _, v := range values {
				sum += v
				if v >= 0.5 {
					positive++
				}
			}
			entry.ResponseCount = len(values)
			entry.MeanLevel = sum / float64(len(values))
			entry.PositiveShare = float64(positive) / float64(len(values))
		}

		stats = append(stats, entry)
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]

		// 1. Higher mean interest wins
		if a.MeanLevel != b.MeanLevel {
			return a.MeanLevel > b.MeanLevel
		}

		// 2. More responses wins
		if a.ResponseCount != b.ResponseCount {
			return a.ResponseCount > b.ResponseCount
		}

		// 3. Title ascending, case-insensitive
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if at != bt {
			return at < bt
		}

		// 4. Stable tie-breaking by topic ID (ascending)
		return a.TopicID < b.TopicID
	})

	for i := range stats {
		stats[i].Rank = i + 1 // 1-indexed ranking
	}

	return stats, nil
}

// getTopicLevels retrieves all interest levels grouped by topic
func getTopicLevels(db *sql.DB, sessionID string) (map[string][]float64, error) {
	rows, err := db.Query(`
		SELECT i.topic_id, i.level
		FROM interest i
		JOIN response r ON i.response_id = r.id
		WHERE r.session_id = $1
		ORDER BY i.topic_id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	levels := make(map[string][]float64)
	for rows.Next() {
		var topicID string
		var level float64
		if err := rows.Scan(&topicID, &level); err != nil {
			return nil, err
		}
		levels[topicID] = append(levels[topicID], level)
	}

	return levels, rows.Err()
}

// gatherFeedback returns every non-null stored feedback field for a
// session, in submission order.
func gatherFeedback(db *sql.DB, sessionID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT feedback FROM response
		WHERE session_id = $1 AND feedback IS NOT NULL
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := []string{}
	for rows.Next() {
		var feedback string
		if err := rows.Scan(&feedback); err != nil {
			return nil, err
		}
		fields = append(fields, feedback)
	}

	return fields, rows.Err()
}

// buildInsightSnapshot computes a full insight snapshot for a session:
// ranked topic interest plus grouped suggestions mined from all
// response feedback. ID and ComputedAt are left for the caller.
func buildInsightSnapshot(db *sql.DB, sessionID string) (models.InsightSnapshot, error) {
	snapshot := models.InsightSnapshot{SessionID: sessionID}

	interest, err := ComputeTopicInterest(db, sessionID)
	if err != nil {
		return snapshot, err
	}
	snapshot.TopicInterest = interest

	fields, err := gatherFeedback(db, sessionID)
	if err != nil {
		return snapshot, fmt.Errorf("failed to load feedback: %w", err)
	}

	groups, raw := suggestions.BuildGroupsFromResponses(fields)
	snapshot.SuggestionGroups = groups
	snapshot.RawSuggestions = raw

	return snapshot, nil
}

// snapshotPayload is the JSONB shape stored in insight_snapshot.
type snapshotPayload struct {
	TopicInterest    []models.TopicInterest        `json:"topic_interest"`
	SuggestionGroups []suggestions.SuggestionGroup `json:"suggestion_groups"`
	RawSuggestions   []string                      `json:"raw_suggestions"`
}

func marshalSnapshotPayload(snapshot models.InsightSnapshot) ([]byte, error) {
	return json.Marshal(snapshotPayload{
		TopicInterest:    snapshot.TopicInterest,
		SuggestionGroups: snapshot.SuggestionGroups,
		RawSuggestions:   snapshot.RawSuggestions,
	})
}

// loadInsightSnapshot reads a stored snapshot row back into its full
// form.
func loadInsightSnapshot(db *sql.DB, snapshotID string) (models.InsightSnapshot, error) {
	var snapshot models.InsightSnapshot
	var payloadJSON []byte

	err := db.QueryRow(`
		SELECT id, session_id, computed_at, payload
		FROM insight_snapshot
		WHERE id = $1
	`, snapshotID).Scan(&snapshot.ID, &snapshot.SessionID, &snapshot.ComputedAt, &payloadJSON)
	if err != nil {
		return snapshot, err
	}

	var payload snapshotPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return snapshot, fmt.Errorf("failed to parse snapshot payload: %w", err)
	}

	snapshot.TopicInterest = payload.TopicInterest
	snapshot.SuggestionGroups = payload.SuggestionGroups
	snapshot.RawSuggestions = payload.RawSuggestions
	return snapshot, nil
}
