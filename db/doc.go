// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db persists the election in PostgreSQL or SQLite.

# Connecting

	conn, err := db.Open(db.TypeSQLite, "file:election.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}
	store := db.NewStore(conn)

SQLite is limited to one open connection. The same DDL and queries run on
both drivers.

# Tables

  - election: a single row (id = 1) with the lifecycle status and timestamps
  - candidate: the roster, keyed by registration index, with the vote counter
  - voter: registered identities, session flag and has_voted latch
  - ballot: one row per voter, with receipt code, hashed IP and user agent

ballot.voter_identity is UNIQUE, so a second ballot for the same voter fails
at the database even if the engine check were bypassed.

# Store

Store implements election.Store. Each method is a single transaction;
RecordVote inserts the ballot, increments the candidate counter and sets
has_voted together, and ResetElection drops candidates and ballots while
keeping voter registrations.
*/
package db
