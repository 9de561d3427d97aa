// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/session-pulse/outline"
	"github.com/danielhkuo/session-pulse/suggestions"
)

// Session status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Device platform constants
const (
	PlatformIOS     = "ios"
	PlatformMacOS   = "macos"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// Device role constants
const (
	RolePresenter   = "presenter"
	RoleParticipant = "participant"
)

// Request types

type CreateSessionRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PresenterName string `json:"presenter_name"`
}

type AddTopicRequest struct {
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics"`
}

// ImportOutlineRequest carries raw outline text, typically pasted from
// an AI assistant. The server only parses it; it never generates it.
type ImportOutlineRequest struct {
	Outline string `json:"outline"`
}

type ClaimNameRequest struct {
	DisplayName string `json:"display_name"`
}

// topic_id -> interest level (0.0 to 1.0)
type SubmitResponseRequest struct {
	Interest        map[string]float64 `json:"interest"`
	SuggestedTopics string             `json:"suggested_topics"`
	Comment         string             `json:"comment"`
}

type RegisterDeviceRequest struct {
	Platform string `json:"platform"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	AdminKey  string `json:"admin_key"`
}

type AddTopicResponse struct {
	TopicID string `json:"topic_id"`
	Block   string `json:"block"`
}

type ImportOutlineResponse struct {
	Topics []Topic `json:"topics"`
}

type PublishSessionResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type ClaimNameResponse struct {
	ParticipantToken string `json:"participant_token"`
}

type SubmitResponseResponse struct {
	ResponseID string `json:"response_id"`
	Message    string `json:"message"`
}

type CloseSessionResponse struct {
	ClosedAt time.Time       `json:"closed_at"`
	Snapshot InsightSnapshot `json:"snapshot"`
}

type RegisterDeviceResponse struct {
	DeviceID string `json:"device_id"`
	IsNew    bool   `json:"is_new"`
}

type SessionPreviewResponse struct {
	Title         string `json:"title"`
	Status        string `json:"status"`
	TopicCount    int    `json:"topic_count"`
	ResponseCount int    `json:"response_count"`
}

type GetMySessionsResponse struct {
	Sessions []DeviceSessionSummary `json:"sessions"`
}

// Domain types

type Session struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	PresenterName   string     `json:"presenter_name"`
	Status          string     `json:"status"`
	ShareSlug       *string    `json:"share_slug,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	FinalSnapshotID *string    `json:"final_snapshot_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Topic is one stored topic row. Block is the persisted topic string
// (title line plus "- " bullets) — there is no structured column.
type Topic struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Position  int    `json:"position"`
	Block     string `json:"block"`
}

type SessionWithTopics struct {
	Session Session `json:"session"`
	Topics  []Topic `json:"topics"`
}

// TopicView is the participant-facing form of a topic: the stored
// block decoded for display.
type TopicView struct {
	ID    string             `json:"id"`
	Block outline.TopicBlock `json:"block"`
}

// SessionView is the public session page payload. TopicsMarkdown is
// the whole agenda as one markdown document for clients that render
// it as a single page.
type SessionView struct {
	Session         Session     `json:"session"`
	DescriptionHTML string      `json:"description_html"`
	Topics          []TopicView `json:"topics"`
	TopicsMarkdown  string      `json:"topics_markdown"`
}

type Response struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	ParticipantToken string    `json:"-"` // Never expose in JSON
	SubmittedAt      time.Time `json:"submitted_at"`
	IPHash           *string   `json:"-"` // Never expose in JSON
	UserAgent        *string   `json:"-"` // Never expose in JSON
}

// MyResponseView echoes a participant's own submission back to them.
type MyResponseView struct {
	Interest        map[string]float64 `json:"interest"`
	SuggestedTopics string             `json:"suggested_topics,omitempty"`
	Comment         string             `json:"comment,omitempty"`
	SubmittedAt     time.Time          `json:"submitted_at"`
}

// Insight types

type TopicInterest struct {
	TopicID       string  `json:"topic_id"`
	Title         string  `json:"title"`
	ResponseCount int     `json:"response_count"`
	MeanLevel     float64 `json:"mean_level"`
	PositiveShare float64 `json:"positive_share"`
	Rank          int     `json:"rank"` // 1-indexed ranking
}

type InsightSnapshot struct {
	ID               string                        `json:"id"`
	SessionID        string                        `json:"session_id"`
	ComputedAt       time.Time                     `json:"computed_at"`
	TopicInterest    []TopicInterest               `json:"topic_interest"`
	SuggestionGroups []suggestions.SuggestionGroup `json:"suggestion_groups"`
	RawSuggestions   []string                      `json:"raw_suggestions"`
}

// Device types

type DeviceInfo struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

type DeviceSessionSummary struct {
	SessionID     string    `json:"session_id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	ShareSlug     *string   `json:"share_slug,omitempty"`
	Role          string    `json:"role"`
	DisplayName   *string   `json:"display_name,omitempty"`
	LinkedAt      time.Time `json:"linked_at"`
	ResponseCount int       `json:"response_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
