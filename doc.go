// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Session Pulse API server.

Session Pulse is a presentation feedback service: presenters draft a
session with topic blocks (typed by hand or parsed from a pasted AI
outline), share it with their audience, and collect per-topic interest
levels plus free-text suggestions. Closing a session seals an insight
snapshot ranking topics by interest and grouping suggested topics.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3419 -d "postgres://..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - SESSION_SLUG_SALT (-slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3419)
  - BASE_URL (-base-url): Public base URL used in share links

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, responses, insights, devices)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Token generation and validation
  - db: Schema creation
  - cliparse: Configuration parsing
  - outline: Topic block codec and outline parsing
  - suggestions: Suggested-topic extraction and grouping
  - render: Markdown rendering for session descriptions

See package documentation for each component.
*/
package main
