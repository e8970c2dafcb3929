// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Store is the authoritative persistence behind an Engine. Each method is a
// single all-or-nothing write; the engine only updates memory after a method
// returns nil.
type Store interface {
	Load(ctx context.Context) (State, error)
	SaveElection(ctx context.Context, el Election) error
	AddCandidate(ctx context.Context, c Candidate) error
	ApproveCandidate(ctx context.Context, index int) error
	SaveVoter(ctx context.Context, v Voter) error
	// RecordVote inserts the ballot, increments the candidate counter and
	// latches the voter's has_voted flag together.
	RecordVote(ctx context.Context, b Ballot) error
	// ResetElection removes candidates and ballots, clears every has_voted
	// flag and saves el.
	ResetElection(ctx context.Context, el Election) error
}

// MemoryStore keeps state in process. It backs DATABASE_TYPE=memory and the
// engine tests.
type MemoryStore struct {
	mu sync.RWMutex

	election   Election
	candidates []Candidate
	voters     map[string]Voter
	ballots    map[string]Ballot
}

// NewMemoryStore returns an empty store holding nothing across restarts.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		election: Election{Status: StatusNotCreated},
		voters:   make(map[string]Voter),
		ballots:  make(map[string]Ballot),
	}
}

func (s *MemoryStore) Load(ctx context.Context) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Election:   s.election,
		Candidates: slices.Clone(s.candidates),
	}
	for _, v := range s.voters {
		st.Voters = append(st.Voters, v)
	}
	for _, b := range s.ballots {
		st.Ballots = append(st.Ballots, b)
	}
	return st, nil
}

func (s *MemoryStore) SaveElection(ctx context.Context, el Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.election = el
	return nil
}

func (s *MemoryStore) AddCandidate(ctx context.Context, c Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Index != len(s.candidates) {
		return fmt.Errorf("candidate index %d out of sequence (next is %d)", c.Index, len(s.candidates))
	}
	s.candidates = append(s.candidates, c)
	return nil
}

func (s *MemoryStore) ApproveCandidate(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.candidates) {
		return fmt.Errorf("candidate %d does not exist", index)
	}
	s.candidates[index].Approved = true
	return nil
}

func (s *MemoryStore) SaveVoter(ctx context.Context, v Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[v.Identity] = v
	return nil
}

func (s *MemoryStore) RecordVote(ctx context.Context, b Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ballots[b.Voter]; ok {
		return fmt.Errorf("ballot for %s already recorded", b.Voter)
	}
	v, ok := s.voters[b.Voter]
	if !ok || v.HasVoted {
		return fmt.Errorf("voter %s cannot vote", b.Voter)
	}
	if b.CandidateIndex < 0 || b.CandidateIndex >= len(s.candidates) || !s.candidates[b.CandidateIndex].Approved {
		return fmt.Errorf("candidate %d cannot receive votes", b.CandidateIndex)
	}

	s.candidates[b.CandidateIndex].Votes++
	v.HasVoted = true
	s.voters[b.Voter] = v
	s.ballots[b.Voter] = b
	return nil
}

func (s *MemoryStore) ResetElection(ctx context.Context, el Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates = nil
	s.ballots = make(map[string]Ballot)
	for id, v := range s.voters {
		v.HasVoted = false
		s.voters[id] = v
	}
	s.election = el
	return nil
}
