// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/quickly-elect/election"
)

// Request types

type CreateElectionRequest struct {
	Name string `json:"name"`
}

type RegisterCandidateRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Party    string `json:"party"`
	Identity string `json:"identity"`
}

type RegisterVoterRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Identity string `json:"identity"`
}

// Identity comes from the authenticated headers.
type LoginRequest struct {
	Name string `json:"name"`
}

type VoteRequest struct {
	CandidateIndex *int `json:"candidate_index"`
}

// Response types

type ElectionResponse struct {
	Election election.Election `json:"election"`
	// Since is a human-readable age of the current state, e.g. "3 minutes ago".
	Since string `json:"since,omitempty"`
}

type ElectionStatusResponse struct {
	election.StatusView
	ElectionID string          `json:"election_id,omitempty"`
	Status     election.Status `json:"status"`
	Since      string          `json:"since,omitempty"`
}

type AdminResponse struct {
	Admin string `json:"admin"`
}

// IdentityKey is shown once; clients send it back as X-Identity-Key.
type RegisterVoterResponse struct {
	Voter       election.Voter `json:"voter"`
	IdentityKey string         `json:"identity_key"`
}

type CandidatesResponse struct {
	Candidates []election.Candidate `json:"candidates"`
}

type VoteResponse struct {
	BallotID string    `json:"ballot_id"`
	Receipt  string    `json:"receipt"`
	CastAt   time.Time `json:"cast_at"`
	Message  string    `json:"message"`
}

type BallotsResponse struct {
	Ballots []election.Ballot `json:"ballots"`
}

type FlagResponse struct {
	Identity string `json:"identity"`
	Value    bool   `json:"value"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
