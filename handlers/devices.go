// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/session-pulse/auth"
	"github.com/danielhkuo/session-pulse/cliparse"
	"github.com/danielhkuo/session-pulse/middleware"
	"github.com/danielhkuo/session-pulse/models"
)

type DeviceHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDeviceHandler(db *sql.DB, cfg cliparse.Config) *DeviceHandler {
	return &DeviceHandler{db: db, cfg: cfg}
}

// deviceUUIDFromHeader reads and validates the X-Device-UUID header.
// Returns "" when the header is absent or not a UUID.
func deviceUUIDFromHeader(r *http.Request) string {
	raw := r.Header.Get("X-Device-UUID")
	if raw == "" {
		return ""
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.String()
}

// Register handles POST /devices/register
// Registers a device and returns its device_id (or finds existing)
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	deviceUUID := deviceUUIDFromHeader(r)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header must be a valid UUID")
		return
	}

	var req models.RegisterDeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate platform
	if !isValidPlatform(req.Platform) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "platform must be one of: ios, macos, android, web")
		return
	}

	// Check if device already exists
	var existingID string
	err := h.db.QueryRow(`
		SELECT id FROM device WHERE device_uuid = $1
	`, deviceUUID).Scan(&existingID)

	if err == nil {
		// Device exists, update last_seen_at
		_, err = h.db.Exec(`
			UPDATE device SET last_seen_at = $1 WHERE id = $2
		`, time.Now(), existingID)
		if err != nil {
			slog.Error("failed to update device last_seen_at", "error", err)
		}

		slog.Info("device registered (existing)", "device_id", existingID)
		middleware.JSONResponse(w, http.StatusOK, models.RegisterDeviceResponse{
			DeviceID: existingID,
			IsNew:    false,
		})
		return
	}

	if err != sql.ErrNoRows {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Create new device
	deviceID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate device ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO device (id, device_uuid, platform, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, deviceID, deviceUUID, req.Platform, now, now)

	if err != nil {
		slog.Error("failed to insert device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	slog.Info("device registered (new)", "device_id", deviceID, "platform", req.Platform)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterDeviceResponse{
		DeviceID: deviceID,
		IsNew:    true,
	})
}

// GetMe handles GET /devices/me
// Returns current device info
func (h *DeviceHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	deviceUUID := deviceUUIDFromHeader(r)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header must be a valid UUID")
		return
	}

	var device models.DeviceInfo
	err := h.db.QueryRow(`
		SELECT id, platform, created_at, last_seen_at
		FROM device
		WHERE device_uuid = $1
	`, deviceUUID).Scan(&device.ID, &device.Platform, &device.CreatedAt, &device.LastSeenAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Update last_seen_at
	_, err = h.db.Exec(`
		UPDATE device SET last_seen_at = $1 WHERE id = $2
	`, time.Now(), device.ID)
	if err != nil {
		slog.Error("failed to update device last_seen_at", "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, device)
}

// GetMySessions handles GET /devices/my-sessions
// Returns sessions where this device is presenter or participant
func (h *DeviceHandler) GetMySessions(w http.ResponseWriter, r *http.Request) {
	deviceUUID := deviceUUIDFromHeader(r)
	if deviceUUID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header must be a valid UUID")
		return
	}

	// Get device ID
	var deviceID string
	err := h.db.QueryRow(`
		SELECT id FROM device WHERE device_uuid = $1
	`, deviceUUID).Scan(&deviceID)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Device not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Update last_seen_at
	_, err = h.db.Exec(`
		UPDATE device SET last_seen_at = $1 WHERE id = $2
	`, time.Now(), deviceID)
	if err != nil {
		slog.Error("failed to update device last_seen_at", "error", err)
	}

	// Get sessions linked to this device with metadata
	rows, err := h.db.Query(`
		SELECT
			s.id,
			s.title,
			s.status,
			s.share_slug,
			ds.role,
			ds.participant_token,
			ds.linked_at,
			(SELECT COUNT(*) FROM response resp WHERE resp.session_id = s.id) as response_count
		FROM device_session ds
		JOIN session s ON ds.session_id = s.id
		WHERE ds.device_id = $1
		ORDER BY ds.linked_at DESC
	`, deviceID)

	if err != nil {
		slog.Error("failed to query device sessions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	sessions := []models.DeviceSessionSummary{}
	for rows.Next() {
		var summary models.DeviceSessionSummary
		var participantToken sql.NullString

		if err := rows.Scan(
			&summary.SessionID,
			&summary.Title,
			&summary.Status,
			&summary.ShareSlug,
			&summary.Role,
			&participantToken,
			&summary.LinkedAt,
			&summary.ResponseCount,
		); err != nil {
			slog.Error("failed to scan session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		// Get display name if participant_token is present
		if participantToken.Valid {
			var displayName string
			err := h.db.QueryRow(`
				SELECT display_name FROM name_claim
				WHERE session_id = $1 AND participant_token = $2
			`, summary.SessionID, participantToken.String).Scan(&displayName)
			if err == nil {
				summary.DisplayName = &displayName
			}
		}

		sessions = append(sessions, summary)
	}

	middleware.JSONResponse(w, http.StatusOK, models.GetMySessionsResponse{
		Sessions: sessions,
	})
}

// GetOrCreateDevice looks up or creates a device record from the X-Device-UUID header.
// Returns empty string if the header is missing or malformed.
func GetOrCreateDevice(db *sql.DB, r *http.Request) (string, error) {
	deviceUUID := deviceUUIDFromHeader(r)
	if deviceUUID == "" {
		return "", nil
	}

	// Check if device exists
	var deviceID string
	err := db.QueryRow(`
		SELECT id FROM device WHERE device_uuid = $1
	`, deviceUUID).Scan(&deviceID)

	if err == nil {
		// Update last_seen_at
		_, _ = db.Exec(`UPDATE device SET last_seen_at = $1 WHERE id = $2`, time.Now(), deviceID)
		return deviceID, nil
	}

	if err != sql.ErrNoRows {
		return "", err
	}

	// Create new device with 'web' as default platform
	// (actual platform is set via /devices/register)
	deviceID, err = auth.GenerateID(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO device (id, device_uuid, platform, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, deviceID, deviceUUID, models.PlatformWeb, now, now)

	if err != nil {
		return "", err
	}

	return deviceID, nil
}

// LinkDeviceToSession creates an association between a device and a session
func LinkDeviceToSession(db *sql.DB, deviceID, sessionID, role string, participantToken *string) error {
	if deviceID == "" {
		return nil
	}

	var pt sql.NullString
	if participantToken != nil {
		pt = sql.NullString{String: *participantToken, Valid: true}
	}

	// Use INSERT ... ON CONFLICT to handle re-linking (e.g., participant becomes presenter)
	_, err := db.Exec(`
		INSERT INTO device_session (device_id, session_id, participant_token, role, linked_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (device_id, session_id) DO UPDATE SET
			role = CASE WHEN device_session.role = 'presenter' THEN 'presenter' ELSE EXCLUDED.role END,
			participant_token = COALESCE(device_session.participant_token, EXCLUDED.participant_token)
	`, deviceID, sessionID, pt, role, time.Now())

	return err
}

func isValidPlatform(platform string) bool {
	switch platform {
	case models.PlatformIOS, models.PlatformMacOS, models.PlatformAndroid, models.PlatformWeb:
		return true
	}
	return false
}
