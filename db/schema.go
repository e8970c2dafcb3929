// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL runs unchanged on PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Election (single row, id is always 1)
CREATE TABLE IF NOT EXISTS election (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    election_id TEXT,
    name TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'not_created' CHECK (status IN ('not_created', 'created', 'active', 'ended', 'deleted')),
    created_at TIMESTAMP,
    started_at TIMESTAMP,
    ended_at TIMESTAMP,
    deleted_at TIMESTAMP
);

-- Candidates (append-only by index)
CREATE TABLE IF NOT EXISTS candidate (
    idx INTEGER PRIMARY KEY CHECK (idx >= 0),
    name TEXT NOT NULL,
    age INTEGER NOT NULL CHECK (age > 0),
    party TEXT NOT NULL,
    identity TEXT NOT NULL UNIQUE,
    approved BOOLEAN NOT NULL DEFAULT FALSE,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
    registered_at TIMESTAMP NOT NULL
);

-- Voters
CREATE TABLE IF NOT EXISTS voter (
    identity TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    age INTEGER NOT NULL CHECK (age > 0),
    logged_in BOOLEAN NOT NULL DEFAULT FALSE,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    registered_at TIMESTAMP NOT NULL,
    last_login_at TIMESTAMP
);

-- Ballots (one per voter per election)
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL,
    voter_identity TEXT NOT NULL UNIQUE REFERENCES voter(identity),
    candidate_idx INTEGER NOT NULL REFERENCES candidate(idx),
    cast_at TIMESTAMP NOT NULL,
    receipt TEXT NOT NULL,
    ip_hash TEXT,
    user_agent TEXT
);

CREATE INDEX IF NOT EXISTS idx_ballot_candidate_idx ON ballot(candidate_idx);
CREATE INDEX IF NOT EXISTS idx_ballot_election_id ON ballot(election_id);
`
