// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3419)
  - DatabaseURL: PostgreSQL connection string (required)
  - BaseURL: Public base URL used when building share links
  - AdminKeySalt: Secret for admin key HMAC (required)
  - SessionSlugSalt: Secret for share slug generation (required)

# CLI Flags

	-p          Server port
	-d          Database URL
	-base-url   Public base URL
	-admin-salt Admin key salt
	-slug-salt  Session slug salt

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	BASE_URL          → -base-url
	ADMIN_KEY_SALT    → -admin-salt
	SESSION_SLUG_SALT → -slug-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - SESSION_SLUG_SALT must be provided
*/
package cliparse
