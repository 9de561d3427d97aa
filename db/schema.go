// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Sessions
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    presenter_name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    share_slug TEXT UNIQUE,
    closed_at TIMESTAMP,
    final_snapshot_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_session_share_slug ON session(share_slug);
CREATE INDEX IF NOT EXISTS idx_session_status ON session(status);

-- Topics. The block column holds the persisted topic string (title
-- line plus bullet lines); it is the only topic structure we store.
CREATE TABLE IF NOT EXISTS topic (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    block TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_topic_session_id ON topic(session_id);

-- Display name claims
CREATE TABLE IF NOT EXISTS name_claim (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    participant_token TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (session_id, participant_token),
    UNIQUE (session_id, display_name)
);

CREATE INDEX IF NOT EXISTS idx_name_claim_session_id ON name_claim(session_id);

-- Responses. feedback is the mixed-content field: an optional
-- [SUGGESTED_TOPICS] block followed by freeform text.
CREATE TABLE IF NOT EXISTS response (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    participant_token TEXT NOT NULL,
    feedback TEXT,
    submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
    ip_hash TEXT,
    user_agent TEXT,
    UNIQUE (session_id, participant_token)
);

CREATE INDEX IF NOT EXISTS idx_response_session_id ON response(session_id);
CREATE INDEX IF NOT EXISTS idx_response_participant_token ON response(session_id, participant_token);

-- Interest levels
CREATE TABLE IF NOT EXISTS interest (
    response_id TEXT NOT NULL REFERENCES response(id) ON DELETE CASCADE,
    topic_id TEXT NOT NULL REFERENCES topic(id) ON DELETE CASCADE,
    level REAL NOT NULL CHECK (level >= 0 AND level <= 1),
    PRIMARY KEY (response_id, topic_id)
);

CREATE INDEX IF NOT EXISTS idx_interest_topic_id ON interest(topic_id);

-- Insight snapshots
CREATE TABLE IF NOT EXISTS insight_snapshot (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    computed_at TIMESTAMP NOT NULL DEFAULT NOW(),
    payload JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_insight_snapshot_session_id ON insight_snapshot(session_id);

-- Devices
CREATE TABLE IF NOT EXISTS device (
    id TEXT PRIMARY KEY,
    device_uuid TEXT NOT NULL UNIQUE,
    platform TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    last_seen_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_device_uuid ON device(device_uuid);

CREATE TABLE IF NOT EXISTS device_session (
    device_id TEXT NOT NULL REFERENCES device(id) ON DELETE CASCADE,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    participant_token TEXT,
    role TEXT NOT NULL DEFAULT 'participant',
    linked_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (device_id, session_id)
);

CREATE INDEX IF NOT EXISTS idx_device_session_device ON device_session(device_id);
`
