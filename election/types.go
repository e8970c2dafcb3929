// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "time"

// Status is a step of the election lifecycle.
type Status string

// Lifecycle states, in order. Deleted behaves like NotCreated for the
// purpose of creating the next election.
const (
	StatusNotCreated Status = "not_created"
	StatusCreated    Status = "created"
	StatusActive     Status = "active"
	StatusEnded      Status = "ended"
	StatusDeleted    Status = "deleted"
)

// Valid reports whether s is one of the lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusNotCreated, StatusCreated, StatusActive, StatusEnded, StatusDeleted:
		return true
	}
	return false
}

// Election is the single election record.
type Election struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// StatusView is the (name, isActive, hasEnded) triple the front end polls.
type StatusView struct {
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
	HasEnded bool   `json:"has_ended"`
}

// Candidate is a roster entry; Index is its position in registration order.
type Candidate struct {
	Index        int       `json:"index"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Party        string    `json:"party"`
	Identity     string    `json:"identity"`
	Approved     bool      `json:"approved"`
	Votes        int       `json:"votes"`
	RegisteredAt time.Time `json:"registered_at"`
}

// CandidateRegistration is the input to RegisterCandidate.
type CandidateRegistration struct {
	Name     string
	Age      int
	Party    string
	Identity string
}

// Voter is a directory entry keyed by identity.
type Voter struct {
	Identity     string     `json:"identity"`
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	LoggedIn     bool       `json:"logged_in"`
	HasVoted     bool       `json:"has_voted"`
	RegisteredAt time.Time  `json:"registered_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// VoterRegistration is the input to RegisterVoter.
type VoterRegistration struct {
	Name     string
	Age      int
	Identity string
}

// Ballot is the audit record of one accepted vote. Exactly one exists per
// voter that has voted in the current election.
type Ballot struct {
	ID             string    `json:"id"`
	ElectionID     string    `json:"election_id"`
	Voter          string    `json:"voter"`
	CandidateIndex int       `json:"candidate_index"`
	CastAt         time.Time `json:"cast_at"`
	Receipt        string    `json:"receipt"`
	IPHash         string    `json:"-"`
	UserAgent      string    `json:"-"`
}

// VoteRequest carries the caller and the addressed candidate. IPHash and
// UserAgent are stored on the ballot for audit only.
type VoteRequest struct {
	Voter          string
	CandidateIndex int
	IPHash         string
	UserAgent      string
}

// Winner is the tally leader. The zero-vote sentinel has an empty Name and
// Index -1; check Found before using it.
type Winner struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Party string `json:"party"`
	Votes int    `json:"votes"`
}

// Found reports whether w names a real candidate.
func (w Winner) Found() bool {
	return w.Name != ""
}

// Ranking is a candidate with its place in the results.
type Ranking struct {
	Rank int `json:"rank"` // 1-indexed
	Candidate
}

// Results is the ranked tally with turnout.
type Results struct {
	Election         Election  `json:"election"`
	Rankings         []Ranking `json:"rankings"`
	Winner           Winner    `json:"winner"`
	TotalVotes       int       `json:"total_votes"`
	RegisteredVoters int       `json:"registered_voters"`
	Turnout          float64   `json:"turnout"`
}

// State is the full persisted image loaded by Open.
type State struct {
	Election   Election
	Candidates []Candidate
	Voters     []Voter
	Ballots    []Ballot
}
