// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"log/slog"
	"sync"
	"time"
)

// EventKind names a committed change.
type EventKind string

const (
	EventElectionCreated     EventKind = "election.created"
	EventElectionStarted     EventKind = "election.started"
	EventElectionEnded       EventKind = "election.ended"
	EventElectionDeleted     EventKind = "election.deleted"
	EventCandidateRegistered EventKind = "candidate.registered"
	EventCandidateApproved   EventKind = "candidate.approved"
	EventVoterRegistered     EventKind = "voter.registered"
	EventVoteCast            EventKind = "vote.cast"
)

// Event is a committed change. Vote events carry the candidate's new counter
// but never the voter, so subscribers only see aggregates.
type Event struct {
	Kind       EventKind  `json:"kind"`
	At         time.Time  `json:"at"`
	ElectionID string     `json:"election_id,omitempty"`
	Status     Status     `json:"status"`
	Candidate  *Candidate `json:"candidate,omitempty"`
}

type feed struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newFeed() *feed {
	return &feed{subs: make(map[int]chan Event)}
}

func (f *feed) subscribe(buffer int) (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan Event, buffer)
	f.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish never blocks; a subscriber whose buffer is full misses the event.
func (f *feed) publish(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("event dropped for slow subscriber", "subscriber", id, "kind", ev.Kind)
		}
	}
}

// Subscribe returns a channel of committed events and a cancel function that
// closes it. Delivery is best effort: a full buffer drops events.
func (e *Engine) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	return e.feed.subscribe(buffer)
}

// emit must be called with the write lock held so events follow commit order.
func (e *Engine) emit(kind EventKind, cand *Candidate) {
	ev := Event{
		Kind:       kind,
		At:         e.now(),
		ElectionID: e.election.ID,
		Status:     e.election.Status,
	}
	if cand != nil {
		c := *cand
		ev.Candidate = &c
	}
	e.feed.publish(ev)
}
