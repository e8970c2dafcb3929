// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-elect/auth"
)

// Vote casts req.Voter's single vote for req.CandidateIndex. The checks run
// in a fixed order under the write lock:
//
//  1. the election is active
//  2. the voter is registered and logged in
//  3. the voter has not voted
//  4. the candidate exists
//  5. the candidate is approved
func (e *Engine) Vote(ctx context.Context, req VoteRequest) (Ballot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.election.Status != StatusActive {
		return Ballot{}, fmt.Errorf("%w: election is %s", ErrElectionNotActive, e.election.Status)
	}
	v, ok := e.lookupVoter(req.Voter)
	if !ok || !v.LoggedIn {
		return Ballot{}, fmt.Errorf("%w: voter must be registered and logged in", ErrUnauthorized)
	}
	if v.HasVoted {
		return Ballot{}, fmt.Errorf("%w: %s", ErrAlreadyVoted, v.Identity)
	}
	idx := req.CandidateIndex
	if idx < 0 || idx >= len(e.candidates) {
		return Ballot{}, fmt.Errorf("%w: candidate %d", ErrNotFound, idx)
	}
	if !e.candidates[idx].Approved {
		return Ballot{}, fmt.Errorf("%w: candidate %d", ErrCandidateNotApproved, idx)
	}

	b := Ballot{
		ID:             uuid.NewString(),
		ElectionID:     e.election.ID,
		Voter:          v.Identity,
		CandidateIndex: idx,
		CastAt:         e.now(),
		IPHash:         req.IPHash,
		UserAgent:      req.UserAgent,
	}
	b.Receipt = auth.GenerateReceiptCode(b.ID, e.receiptSalt)

	if err := e.store.RecordVote(ctx, b); err != nil {
		return Ballot{}, fault("record vote", err)
	}
	e.candidates[idx].Votes++
	v.HasVoted = true
	e.ballots[v.Identity] = b
	c := e.candidates[idx]

	e.logger.Info("vote cast",
		"election_id", b.ElectionID,
		"ballot_id", b.ID,
		"voter", b.Voter,
		"candidate_index", idx,
		"candidate_votes", c.Votes,
	)
	e.emit(EventVoteCast, &c)
	return b, nil
}

// Winner returns the candidate with the most votes. Ties go to the lowest
// index. With no candidates or no votes it returns the sentinel.
func (e *Engine) Winner() Winner {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return winnerOf(e.candidates)
}

func winnerOf(cands []Candidate) Winner {
	w := Winner{Index: -1}
	for _, c := range cands {
		if c.Votes > w.Votes {
			w = Winner{Index: c.Index, Name: c.Name, Party: c.Party, Votes: c.Votes}
		}
	}
	return w
}

// Results ranks every candidate by votes, highest first, ties by index.
func (e *Engine) Results() Results {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ranked := make([]Candidate, len(e.candidates))
	copy(ranked, e.candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		return ranked[i].Index < ranked[j].Index
	})

	res := Results{
		Election:         e.election,
		Rankings:         make([]Ranking, 0, len(ranked)),
		Winner:           winnerOf(e.candidates),
		RegisteredVoters: len(e.voters),
	}
	for i, c := range ranked {
		res.Rankings = append(res.Rankings, Ranking{Rank: i + 1, Candidate: c})
		res.TotalVotes += c.Votes
	}
	if res.RegisteredVoters > 0 {
		res.Turnout = float64(len(e.ballots)) / float64(res.RegisteredVoters)
	}
	return res
}

// Ballots returns every ballot of the current election, oldest first.
// Admin only.
func (e *Engine) Ballots(caller string) ([]Ballot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.requireAdmin(caller); err != nil {
		return nil, err
	}
	out := make([]Ballot, 0, len(e.ballots))
	for _, b := range e.ballots {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CastAt.Equal(out[j].CastAt) {
			return out[i].CastAt.Before(out[j].CastAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// BallotFor returns the ballot cast by identity. The admin may read any
// ballot, a voter only their own.
func (e *Engine) BallotFor(caller, identity string) (Ballot, error) {
	id, err := normalizeIdentity(identity)
	if err != nil {
		return Ballot{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.IsAdmin(caller) {
		callerID, err := auth.NormalizeIdentity(caller)
		if err != nil || callerID != id {
			return Ballot{}, fmt.Errorf("%w: ballot of %s", ErrUnauthorized, id)
		}
	}
	b, ok := e.ballots[id]
	if !ok {
		return Ballot{}, fmt.Errorf("%w: no ballot for %s", ErrNotFound, id)
	}
	return b, nil
}
