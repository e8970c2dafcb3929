// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
)

// Clock supplies commit timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Engine owns all election state. Writes hold the lock across
// check, persist and apply; reads see only committed state.
type Engine struct {
	mu sync.RWMutex

	admin       string
	store       Store
	clock       Clock
	logger      *slog.Logger
	receiptSalt string
	feed        *feed

	election   Election
	candidates []Candidate
	voters     map[string]*Voter
	ballots    map[string]Ballot
}

// Option configures an Engine at Open.
type Option func(*Engine)

// WithClock replaces the wall clock used for timestamps.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the engine's logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithReceiptSalt sets the secret used to derive ballot receipt codes.
func WithReceiptSalt(salt string) Option {
	return func(e *Engine) { e.receiptSalt = salt }
}

// Open loads the persisted state from store and returns an engine whose
// admin authority is fixed to admin for its whole lifetime.
func Open(ctx context.Context, admin string, store Store, opts ...Option) (*Engine, error) {
	adminID, err := auth.NormalizeIdentity(admin)
	if err != nil {
		return nil, invalid("admin identity: %v", err)
	}

	e := &Engine{
		admin:   adminID,
		store:   store,
		clock:   ClockFunc(time.Now),
		logger:  slog.Default(),
		feed:    newFeed(),
		voters:  make(map[string]*Voter),
		ballots: make(map[string]Ballot),
	}
	for _, opt := range opts {
		opt(e)
	}

	st, err := store.Load(ctx)
	if err != nil {
		return nil, fault("load state", err)
	}
	if err := e.restore(st); err != nil {
		return nil, fault("restore state", err)
	}

	e.logger.Info("election engine ready",
		"status", e.election.Status,
		"candidates", len(e.candidates),
		"voters", len(e.voters),
		"ballots", len(e.ballots),
	)
	return e, nil
}

// restore rebuilds memory from st and rejects images that break the tally
// invariants, which can only mean the store was corrupted.
func (e *Engine) restore(st State) error {
	el := st.Election
	if el.Status == "" {
		el.Status = StatusNotCreated
	}
	if !el.Status.Valid() {
		return fmt.Errorf("unknown election status %q", el.Status)
	}
	e.election = el

	cands := append([]Candidate(nil), st.Candidates...)
	sort.Slice(cands, func(i, j int) bool { return cands[i].Index < cands[j].Index })
	total := 0
	for i, c := range cands {
		if c.Index != i {
			return fmt.Errorf("candidate indexes not contiguous at %d", i)
		}
		if c.Votes > 0 && !c.Approved {
			return fmt.Errorf("unapproved candidate %d holds %d votes", i, c.Votes)
		}
		total += c.Votes
	}
	e.candidates = cands

	voted := 0
	for i := range st.Voters {
		v := st.Voters[i]
		e.voters[v.Identity] = &v
		if v.HasVoted {
			voted++
		}
	}

	perCandidate := make([]int, len(cands))
	for _, b := range st.Ballots {
		v, ok := e.voters[b.Voter]
		if !ok || !v.HasVoted {
			return fmt.Errorf("ballot %s has no matching voter", b.ID)
		}
		if b.CandidateIndex < 0 || b.CandidateIndex >= len(cands) {
			return fmt.Errorf("ballot %s names unknown candidate %d", b.ID, b.CandidateIndex)
		}
		if !cands[b.CandidateIndex].Approved {
			return fmt.Errorf("ballot %s names unapproved candidate %d", b.ID, b.CandidateIndex)
		}
		perCandidate[b.CandidateIndex]++
		e.ballots[b.Voter] = b
	}
	for i, c := range cands {
		if perCandidate[i] != c.Votes {
			return fmt.Errorf("candidate %d counts %d votes but has %d ballots", i, c.Votes, perCandidate[i])
		}
	}

	if total != voted || voted != len(e.ballots) {
		return fmt.Errorf("tally mismatch: %d votes, %d voters voted, %d ballots", total, voted, len(e.ballots))
	}
	return nil
}

// Admin returns the identity of the admin authority.
func (e *Engine) Admin() string {
	return e.admin
}

// IsAdmin reports whether caller is the admin authority.
func (e *Engine) IsAdmin(caller string) bool {
	id, err := auth.NormalizeIdentity(caller)
	return err == nil && id == e.admin
}

func (e *Engine) requireAdmin(caller string) error {
	if !e.IsAdmin(caller) {
		return fmt.Errorf("%w: admin authority required", ErrUnauthorized)
	}
	return nil
}

func (e *Engine) now() time.Time {
	return e.clock.Now().UTC().Truncate(time.Microsecond)
}

func normalizeIdentity(raw string) (string, error) {
	id, err := auth.NormalizeIdentity(raw)
	if err != nil {
		return "", invalid("identity: %v", err)
	}
	return id, nil
}

func cleanName(field, raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", invalid("%s is required", field)
	}
	if len(name) > 100 {
		return "", invalid("%s must be at most 100 characters", field)
	}
	return name, nil
}

func checkAge(age int) error {
	if age <= 0 {
		return invalid("age must be positive")
	}
	return nil
}
