// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/testutil"
)

const admin = testutil.AdminIdentity

var errDisk = errors.New("disk full")

// flakyStore fails every write while broken is set.
type flakyStore struct {
	*election.MemoryStore
	broken atomic.Bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: election.NewMemoryStore()}
}

func (s *flakyStore) check() error {
	if s.broken.Load() {
		return errDisk
	}
	return nil
}

func (s *flakyStore) SaveElection(ctx context.Context, el election.Election) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.MemoryStore.SaveElection(ctx, el)
}

func (s *flakyStore) AddCandidate(ctx context.Context, c election.Candidate) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.MemoryStore.AddCandidate(ctx, c)
}

func (s *flakyStore) ApproveCandidate(ctx context.Context, index int) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.MemoryStore.ApproveCandidate(ctx, index)
}

func (s *flakyStore) SaveVoter(ctx context.Context, v election.Voter) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.MemoryStore.SaveVoter(ctx, v)
}

func (s *flakyStore) RecordVote(ctx context.Context, b election.Ballot) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.MemoryStore.RecordVote(ctx, b)
}

func (s *flakyStore) ResetElection(ctx context.Context, el election.Election) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.MemoryStore.ResetElection(ctx, el)
}

// staticStore serves a fixed image from Load.
type staticStore struct {
	*election.MemoryStore
	state election.State
	err   error
}

func (s staticStore) Load(context.Context) (election.State, error) {
	return s.state, s.err
}

func newEngine(t *testing.T) *election.Engine {
	t.Helper()
	return testutil.NewTestEngine(t, election.NewMemoryStore())
}

// activeElection returns an engine with an active election, the given
// candidates (all approved unless listed in unapproved) and n logged-in voters.
func activeElection(t *testing.T, names []string, unapproved map[int]bool, n int) (*election.Engine, []string) {
	t.Helper()
	ctx := context.Background()
	eng := newEngine(t)

	_, err := eng.CreateElection(ctx, admin, "Campus2025")
	require.NoError(t, err)
	for i, name := range names {
		_, err := eng.RegisterCandidate(ctx, election.CandidateRegistration{
			Name: name, Age: 30 + i, Party: "Party " + name, Identity: testutil.Identity(100 + i),
		})
		require.NoError(t, err)
		if !unapproved[i] {
			_, err = eng.ApproveCandidate(ctx, admin, i)
			require.NoError(t, err)
		}
	}
	_, err = eng.StartElection(ctx, admin)
	require.NoError(t, err)

	voters := make([]string, n)
	for i := range voters {
		voters[i] = testutil.Identity(1000 + i)
		_, err := eng.RegisterVoter(ctx, election.VoterRegistration{Name: "Voter", Age: 18 + i%50, Identity: voters[i]})
		require.NoError(t, err)
		_, err = eng.LoginVoter(ctx, voters[i], "")
		require.NoError(t, err)
	}
	return eng, voters
}

func TestOpen_RejectsMalformedAdmin(t *testing.T) {
	_, err := election.Open(context.Background(), "admin", election.NewMemoryStore())
	assert.ErrorIs(t, err, election.ErrValidation)
}

func TestOpen_LoadFailureIsFault(t *testing.T) {
	store := staticStore{MemoryStore: election.NewMemoryStore(), err: errDisk}
	_, err := election.Open(context.Background(), admin, store)
	assert.ErrorIs(t, err, election.ErrSystemFault)
	assert.ErrorIs(t, err, errDisk)
}

func TestOpen_RejectsCorruptImage(t *testing.T) {
	voter := testutil.Identity(1)
	base := func() election.State {
		return election.State{
			Election: election.Election{ID: "e", Name: "E", Status: election.StatusActive},
			Candidates: []election.Candidate{
				{Index: 0, Name: "A", Age: 30, Party: "P", Identity: testutil.Identity(100), Approved: true, Votes: 1},
				{Index: 1, Name: "B", Age: 30, Party: "Q", Identity: testutil.Identity(101), Approved: true},
				{Index: 2, Name: "C", Age: 30, Party: "R", Identity: testutil.Identity(102)},
			},
			Voters:  []election.Voter{{Identity: voter, Name: "V", Age: 20, HasVoted: true}},
			Ballots: []election.Ballot{{ID: "b", Voter: voter, CandidateIndex: 0}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*election.State)
	}{
		{"counter without voter", func(s *election.State) { s.Candidates[0].Votes = 2 }},
		{"votes on unapproved", func(s *election.State) { s.Candidates[0].Approved = false }},
		{"index gap", func(s *election.State) { s.Candidates[0].Index = 1 }},
		{"ballot without latch", func(s *election.State) { s.Voters[0].HasVoted = false }},
		{"unknown status", func(s *election.State) { s.Election.Status = "paused" }},
		{"ballot names missing candidate", func(s *election.State) { s.Ballots[0].CandidateIndex = 99 }},
		{"ballot names negative index", func(s *election.State) { s.Ballots[0].CandidateIndex = -1 }},
		{"ballot names unapproved candidate", func(s *election.State) { s.Ballots[0].CandidateIndex = 2 }},
		{"counter on other candidate", func(s *election.State) { s.Ballots[0].CandidateIndex = 1 }},
	}

	// the untouched image is accepted
	_, err := election.Open(context.Background(), admin, staticStore{MemoryStore: election.NewMemoryStore(), state: base()},
		election.WithLogger(testutil.Quiet()))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := base()
			tt.mutate(&st)
			_, err := election.Open(context.Background(), admin, staticStore{MemoryStore: election.NewMemoryStore(), state: st},
				election.WithLogger(testutil.Quiet()))
			assert.ErrorIs(t, err, election.ErrSystemFault)
		})
	}
}

func TestIsAdmin(t *testing.T) {
	eng := newEngine(t)

	assert.Equal(t, admin, eng.Admin())
	assert.True(t, eng.IsAdmin(admin))
	assert.True(t, eng.IsAdmin("0x00000000000000000000000000000000000000AD"), "comparison is case-insensitive")
	assert.False(t, eng.IsAdmin(testutil.Identity(1)))
	assert.False(t, eng.IsAdmin(""))
}

// A failed store write is a fault and leaves memory untouched.
func TestStoreFaultLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	eng := testutil.NewTestEngine(t, store)

	_, err := eng.CreateElection(ctx, admin, "Campus2025")
	require.NoError(t, err)
	_, err = eng.RegisterCandidate(ctx, election.CandidateRegistration{Name: "Alice", Age: 40, Party: "Blue", Identity: testutil.Identity(1)})
	require.NoError(t, err)
	_, err = eng.ApproveCandidate(ctx, admin, 0)
	require.NoError(t, err)
	_, err = eng.StartElection(ctx, admin)
	require.NoError(t, err)
	voter := testutil.Identity(10)
	_, err = eng.RegisterVoter(ctx, election.VoterRegistration{Name: "V", Age: 20, Identity: voter})
	require.NoError(t, err)
	_, err = eng.LoginVoter(ctx, voter, "")
	require.NoError(t, err)

	store.broken.Store(true)

	_, err = eng.Vote(ctx, election.VoteRequest{Voter: voter, CandidateIndex: 0})
	assert.ErrorIs(t, err, election.ErrSystemFault)
	assert.False(t, eng.HasVoted(voter))
	assert.Equal(t, 0, eng.Candidates()[0].Votes)

	_, err = eng.EndElection(ctx, admin)
	assert.ErrorIs(t, err, election.ErrSystemFault)
	assert.Equal(t, election.StatusActive, eng.Election().Status)

	_, err = eng.RegisterCandidate(ctx, election.CandidateRegistration{Name: "Bob", Age: 40, Party: "Red", Identity: testutil.Identity(2)})
	assert.ErrorIs(t, err, election.ErrSystemFault)
	assert.Len(t, eng.Candidates(), 1)

	err = eng.LogoutVoter(ctx, voter, voter)
	assert.ErrorIs(t, err, election.ErrSystemFault)
	assert.True(t, eng.IsVoterLoggedIn(voter))

	store.broken.Store(false)

	_, err = eng.Vote(ctx, election.VoteRequest{Voter: voter, CandidateIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, eng.Winner().Votes)
}
