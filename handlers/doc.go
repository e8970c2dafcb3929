// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct holding the election engine and config:

  - ElectionHandler: Election lifecycle (create, start, end, delete)
  - CandidateHandler: Candidate registration, approval and listing
  - VoterHandler: Voter registration, sessions and per-voter queries
  - VotingHandler: Ballot casting and the admin ballot audit
  - ResultsHandler: Winner, ranked results and the SSE change feed

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(engine, cfg)

# Election Lifecycle

An election moves through not_created → created → active → ended, and
delete returns it to a fresh created-able state:

	POST   /election       → CreateElection
	POST   /election/start → StartElection (needs an approved candidate)
	POST   /election/end   → EndElection
	DELETE /election       → DeleteElection

Admin operations require X-Identity and X-Identity-Key for the admin.

# Voting Flow

	POST /voters        → RegisterVoter (returns identity_key)
	POST /voters/login  → Login
	POST /votes         → CastVote (returns a receipt)

Engine errors map onto status codes in errors.go; any store failure is
reported as 500 without detail.
*/
package handlers
