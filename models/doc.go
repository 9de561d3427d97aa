// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: title, description, presenter_name
  - AddTopicRequest: title, subtopics
  - ImportOutlineRequest: outline (raw pasted text)
  - ClaimNameRequest: display_name
  - SubmitResponseRequest: interest (map[string]float64), suggested_topics, comment
  - RegisterDeviceRequest: platform

# Response Types

Types for JSON responses:

  - CreateSessionResponse: session_id, admin_key
  - AddTopicResponse: topic_id, block
  - ImportOutlineResponse: topics
  - PublishSessionResponse: share_slug, share_url
  - ClaimNameResponse: participant_token
  - SubmitResponseResponse: response_id, message
  - CloseSessionResponse: closed_at, snapshot
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Session: session metadata and lifecycle state
  - Topic: stored topic block with position
  - TopicView / SessionView: participant-facing decoded forms
  - Response: response submission metadata
  - TopicInterest: aggregated interest statistics for one topic
  - InsightSnapshot: immutable insight record

# Constants

Status values:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"

Device roles:

	RolePresenter   = "presenter"
	RoleParticipant = "participant"

Platforms:

	PlatformIOS     = "ios"
	PlatformMacOS   = "macos"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
*/
package models
