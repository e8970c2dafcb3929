// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// CreateElection opens a new election in the created state. Only allowed
// before the first election or after the previous one was deleted.
func (e *Engine) CreateElection(ctx context.Context, caller, name string) (Election, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return Election{}, err
	}
	switch e.election.Status {
	case StatusNotCreated, StatusDeleted:
	default:
		return Election{}, fmt.Errorf("%w: election %q is %s", ErrInvalidState, e.election.Name, e.election.Status)
	}
	name, err := cleanName("election name", name)
	if err != nil {
		return Election{}, err
	}

	now := e.now()
	next := Election{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusCreated,
		CreatedAt: &now,
	}
	if err := e.store.SaveElection(ctx, next); err != nil {
		return Election{}, fault("create election", err)
	}
	e.election = next

	e.logger.Info("election created", "election_id", next.ID, "name", next.Name)
	e.emit(EventElectionCreated, nil)
	return next, nil
}

// StartElection opens a created election for voting. Admin only.
func (e *Engine) StartElection(ctx context.Context, caller string) (Election, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return Election{}, err
	}
	if e.election.Status != StatusCreated {
		return Election{}, fmt.Errorf("%w: cannot start an election that is %s", ErrInvalidState, e.election.Status)
	}

	now := e.now()
	next := e.election
	next.Status = StatusActive
	next.StartedAt = &now
	if err := e.store.SaveElection(ctx, next); err != nil {
		return Election{}, fault("start election", err)
	}
	e.election = next

	e.logger.Info("election started", "election_id", next.ID, "approved_candidates", e.approvedCount())
	e.emit(EventElectionStarted, nil)
	return next, nil
}

// EndElection closes an active election. Admin only.
func (e *Engine) EndElection(ctx context.Context, caller string) (Election, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return Election{}, err
	}
	if e.election.Status != StatusActive {
		return Election{}, fmt.Errorf("%w: cannot end an election that is %s", ErrInvalidState, e.election.Status)
	}

	now := e.now()
	next := e.election
	next.Status = StatusEnded
	next.EndedAt = &now
	if err := e.store.SaveElection(ctx, next); err != nil {
		return Election{}, fault("end election", err)
	}
	e.election = next

	ranFor := ""
	if next.StartedAt != nil {
		ranFor = strings.TrimSpace(humanize.RelTime(*next.StartedAt, now, "", ""))
	}
	e.logger.Info("election ended", "election_id", next.ID, "ballots", len(e.ballots), "ran_for", ranFor)
	e.emit(EventElectionEnded, nil)
	return next, nil
}

// DeleteElection clears every election-scoped record: candidates, ballots and
// has_voted latches. Voter registrations and sessions survive.
func (e *Engine) DeleteElection(ctx context.Context, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return err
	}
	if e.election.Status != StatusEnded {
		return fmt.Errorf("%w: election must be ended before deletion (it is %s)", ErrPreconditionFailed, e.election.Status)
	}

	now := e.now()
	next := e.election
	next.Status = StatusDeleted
	next.DeletedAt = &now
	if err := e.store.ResetElection(ctx, next); err != nil {
		return fault("delete election", err)
	}

	cleared := len(e.ballots)
	e.election = next
	e.candidates = nil
	e.ballots = make(map[string]Ballot)
	for _, v := range e.voters {
		v.HasVoted = false
	}

	e.logger.Info("election deleted", "election_id", next.ID, "ballots_cleared", cleared)
	e.emit(EventElectionDeleted, nil)
	return nil
}

// Election returns a copy of the current election record.
func (e *Engine) Election() Election {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.election
}

// ElectionStatus returns the (name, isActive, hasEnded) view of the election.
func (e *Engine) ElectionStatus() StatusView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return statusOf(e.election)
}

// ElectionSnapshot returns the election record and its status view read
// under one lock, so the two always agree.
func (e *Engine) ElectionSnapshot() (Election, StatusView) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.election, statusOf(e.election)
}

func statusOf(el Election) StatusView {
	name := el.Name
	if el.Status == StatusDeleted {
		name = ""
	}
	return StatusView{
		Name:     name,
		IsActive: el.Status == StatusActive,
		HasEnded: el.Status == StatusEnded,
	}
}
