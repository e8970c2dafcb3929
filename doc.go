// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs a single plurality election at a time: the admin
creates it, candidates register and are approved, registered voters log in
and cast one ballot each, and the candidate with the most votes wins.

# Starting the Server

	ADMIN_IDENTITY=0x... IDENTITY_KEY_SALT=... RECEIPT_SALT=... \
	DATABASE_URL=file:elect.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin 0x...

Print the admin's X-Identity-Key and exit:

	go run . -print-admin-key

# Configuration

Flags win over environment variables (a .env file is loaded first), which
win over the optional config file (-c / CONFIG_FILE), which wins over
defaults.

Required settings:

  - ADMIN_IDENTITY (-admin): Admin principal, 0x + 40 hex
  - IDENTITY_KEY_SALT (-key-salt): Secret for identity key HMAC
  - RECEIPT_SALT (-receipt-salt): Secret for ballot receipts
  - DATABASE_URL (-d): Required unless DATABASE_TYPE is memory

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default), postgres or memory
  - AMQP_URL (-amqp): Publish change events to RabbitMQ
  - AMQP_EXCHANGE (-amqp-exchange): Fanout exchange (default: election.events)
  - LOG_LEVEL, LOG_FORMAT: slog level and text or json output

# Architecture

  - election: The engine; lifecycle, registry, ledger and tally
  - db: SQL store for PostgreSQL and SQLite
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, identity auth, JSON helpers
  - models: Request/response types
  - auth: Identity keys, receipts and IP hashing
  - notify: AMQP event publishing
  - logging: slog setup
  - cliparse: Configuration parsing
*/
package main
