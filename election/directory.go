// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"strings"
)

// RegisterVoter creates a logged-out voter. An identity registers once;
// a second attempt fails with ErrAlreadyRegistered and changes nothing.
func (e *Engine) RegisterVoter(ctx context.Context, reg VoterRegistration) (Voter, error) {
	name, err := cleanName("name", reg.Name)
	if err != nil {
		return Voter{}, err
	}
	if err := checkAge(reg.Age); err != nil {
		return Voter{}, err
	}
	identity, err := normalizeIdentity(reg.Identity)
	if err != nil {
		return Voter{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.voters[identity]; ok {
		return Voter{}, fmt.Errorf("%w: voter %s", ErrAlreadyRegistered, identity)
	}

	v := Voter{
		Identity:     identity,
		Name:         name,
		Age:          reg.Age,
		RegisteredAt: e.now(),
	}
	if err := e.store.SaveVoter(ctx, v); err != nil {
		return Voter{}, fault("register voter", err)
	}
	e.voters[identity] = &v

	e.logger.Info("voter registered", "identity", identity)
	e.emit(EventVoterRegistered, nil)
	return v, nil
}

// LoginVoter opens the session of a registered identity. Each identity has
// a single session, so logging in again only refreshes the display name.
// An empty name keeps the registered one.
func (e *Engine) LoginVoter(ctx context.Context, identity, name string) (Voter, error) {
	id, err := normalizeIdentity(identity)
	if err != nil {
		return Voter{}, err
	}
	name = strings.TrimSpace(name)
	if len(name) > 100 {
		return Voter{}, invalid("name must be at most 100 characters")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur, ok := e.voters[id]
	if !ok {
		return Voter{}, fmt.Errorf("%w: %s is not a registered voter", ErrUnauthorized, id)
	}

	now := e.now()
	next := *cur
	next.LoggedIn = true
	next.LastLoginAt = &now
	if name != "" {
		next.Name = name
	}
	if err := e.store.SaveVoter(ctx, next); err != nil {
		return Voter{}, fault("login voter", err)
	}
	*cur = next

	e.logger.Info("voter logged in", "identity", id)
	return next, nil
}

// LogoutVoter closes the session of identity. Only the identity itself may
// do so; logging out twice is a no-op.
func (e *Engine) LogoutVoter(ctx context.Context, caller, identity string) error {
	id, err := normalizeIdentity(identity)
	if err != nil {
		return err
	}
	callerID, err := normalizeIdentity(caller)
	if err != nil || callerID != id {
		return fmt.Errorf("%w: only %s may end its session", ErrUnauthorized, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cur, ok := e.voters[id]
	if !ok {
		return fmt.Errorf("%w: voter %s", ErrNotFound, id)
	}
	if !cur.LoggedIn {
		return nil
	}

	next := *cur
	next.LoggedIn = false
	if err := e.store.SaveVoter(ctx, next); err != nil {
		return fault("logout voter", err)
	}
	*cur = next

	e.logger.Info("voter logged out", "identity", id)
	return nil
}

func (e *Engine) lookupVoter(identity string) (*Voter, bool) {
	id, err := normalizeIdentity(identity)
	if err != nil {
		return nil, false
	}
	v, ok := e.voters[id]
	return v, ok
}

// IsRegistered reports whether identity is in the voter directory.
func (e *Engine) IsRegistered(identity string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.lookupVoter(identity)
	return ok
}

// IsVoterLoggedIn reports whether identity has an open session.
func (e *Engine) IsVoterLoggedIn(identity string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.lookupVoter(identity)
	return ok && v.LoggedIn
}

// HasVoted reports whether identity has cast its ballot.
func (e *Engine) HasVoted(identity string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.lookupVoter(identity)
	return ok && v.HasVoted
}

// VoterDetails returns the voter record, or ErrNotFound.
func (e *Engine) VoterDetails(identity string) (Voter, error) {
	id, err := normalizeIdentity(identity)
	if err != nil {
		return Voter{}, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.voters[id]
	if !ok {
		return Voter{}, fmt.Errorf("%w: voter %s", ErrNotFound, id)
	}
	return *v, nil
}
