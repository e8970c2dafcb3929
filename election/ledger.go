// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
)

// RegisterCandidate appends a candidate to the roster. It is open to any
// caller and allowed in every election state.
func (e *Engine) RegisterCandidate(ctx context.Context, reg CandidateRegistration) (Candidate, error) {
	name, err := cleanName("name", reg.Name)
	if err != nil {
		return Candidate{}, err
	}
	party, err := cleanName("party", reg.Party)
	if err != nil {
		return Candidate{}, err
	}
	if err := checkAge(reg.Age); err != nil {
		return Candidate{}, err
	}
	identity, err := normalizeIdentity(reg.Identity)
	if err != nil {
		return Candidate{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range e.candidates {
		if c.Identity == identity {
			return Candidate{}, fmt.Errorf("%w: %s is already candidate %d", ErrAlreadyRegistered, identity, c.Index)
		}
	}

	c := Candidate{
		Index:        len(e.candidates),
		Name:         name,
		Age:          reg.Age,
		Party:        party,
		Identity:     identity,
		RegisteredAt: e.now(),
	}
	if err := e.store.AddCandidate(ctx, c); err != nil {
		return Candidate{}, fault("register candidate", err)
	}
	e.candidates = append(e.candidates, c)

	e.logger.Info("candidate registered", "index", c.Index, "name", c.Name, "party", c.Party)
	e.emit(EventCandidateRegistered, &c)
	return c, nil
}

// ApproveCandidate lets the candidate at index receive votes. Approving an
// approved candidate is a no-op.
func (e *Engine) ApproveCandidate(ctx context.Context, caller string, index int) (Candidate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return Candidate{}, err
	}
	if index < 0 || index >= len(e.candidates) {
		return Candidate{}, fmt.Errorf("%w: candidate %d", ErrNotFound, index)
	}
	if e.candidates[index].Approved {
		return e.candidates[index], nil
	}

	if err := e.store.ApproveCandidate(ctx, index); err != nil {
		return Candidate{}, fault("approve candidate", err)
	}
	e.candidates[index].Approved = true
	c := e.candidates[index]

	e.logger.Info("candidate approved", "index", c.Index, "name", c.Name)
	e.emit(EventCandidateApproved, &c)
	return c, nil
}

// Candidates returns the whole roster in index order, unapproved included.
func (e *Engine) Candidates() []Candidate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Candidate, len(e.candidates))
	copy(out, e.candidates)
	return out
}

// ApprovedCandidates returns the candidates that can currently receive votes.
func (e *Engine) ApprovedCandidates() []Candidate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []Candidate{}
	for _, c := range e.candidates {
		if c.Approved {
			out = append(out, c)
		}
	}
	return out
}

// Candidate returns the candidate at index, or ErrNotFound.
func (e *Engine) Candidate(index int) (Candidate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 || index >= len(e.candidates) {
		return Candidate{}, fmt.Errorf("%w: candidate %d", ErrNotFound, index)
	}
	return e.candidates[index], nil
}

func (e *Engine) approvedCount() int {
	n := 0
	for _, c := range e.candidates {
		if c.Approved {
			n++
		}
	}
	return n
}
