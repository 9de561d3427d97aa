// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - session: Session metadata and lifecycle state
  - topic: Topic blocks per session (the block column is the stored
    topic string, title line plus bullet lines)
  - name_claim: Maps display names to participant tokens
  - response: One response per participant per session; feedback holds
    the mixed suggested-topics/comment field
  - interest: Per-topic interest levels (0-1)
  - insight_snapshot: Immutable insight results
  - device: Registered devices
  - device_session: Links devices to sessions

# Relationships

	session 1──* topic
	session 1──* name_claim
	session 1──* response
	response 1──* interest
	session 1──* insight_snapshot
	device *──* session (via device_session)

All foreign keys use ON DELETE CASCADE.
*/
package db
