// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the JSON request and response bodies of the HTTP API.

Domain records (Election, Candidate, Voter, Ballot, Results, Winner) live in
package election and are embedded here as-is.

# Request Types

  - CreateElectionRequest: name
  - RegisterCandidateRequest: name, age, party, identity
  - RegisterVoterRequest: name, age, identity
  - LoginRequest: name (optional)
  - VoteRequest: candidate_index

# Response Types

  - ElectionResponse: election record plus a humanized "since"
  - ElectionStatusResponse: name, is_active, has_ended, status
  - RegisterVoterResponse: voter and the identity key to authenticate with
  - VoteResponse: ballot_id, receipt, cast_at
  - ErrorResponse: error, message

Voter identities are never serialized inside ballots shown to third parties;
IP hashes and user agents are tagged json:"-".
*/
package models
