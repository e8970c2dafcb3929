// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestRegisterCandidate(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)

	// open to anyone, before any election exists
	a, err := eng.RegisterCandidate(ctx, election.CandidateRegistration{
		Name: "Alice", Age: 40, Party: "Blue", Identity: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Index)
	assert.False(t, a.Approved)
	assert.Equal(t, 0, a.Votes)
	assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", a.Identity)

	b, err := eng.RegisterCandidate(ctx, election.CandidateRegistration{
		Name: "Bob", Age: 45, Party: "Green", Identity: testutil.Identity(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Index)

	got, err := eng.Candidate(1)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = eng.Candidate(2)
	assert.ErrorIs(t, err, election.ErrNotFound)
	_, err = eng.Candidate(-1)
	assert.ErrorIs(t, err, election.ErrNotFound)
}

func TestRegisterCandidate_Validation(t *testing.T) {
	valid := election.CandidateRegistration{Name: "Alice", Age: 40, Party: "Blue", Identity: testutil.Identity(1)}

	tests := []struct {
		name   string
		mutate func(*election.CandidateRegistration)
	}{
		{"empty name", func(r *election.CandidateRegistration) { r.Name = " " }},
		{"zero age", func(r *election.CandidateRegistration) { r.Age = 0 }},
		{"negative age", func(r *election.CandidateRegistration) { r.Age = -3 }},
		{"empty party", func(r *election.CandidateRegistration) { r.Party = "" }},
		{"short identity", func(r *election.CandidateRegistration) { r.Identity = "0x1234" }},
		{"non-hex identity", func(r *election.CandidateRegistration) { r.Identity = "0x" + "zz" + testutil.Identity(1)[4:] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newEngine(t)
			reg := valid
			tt.mutate(&reg)
			_, err := eng.RegisterCandidate(context.Background(), reg)
			assert.ErrorIs(t, err, election.ErrValidation)
			assert.Empty(t, eng.Candidates())
		})
	}
}

func TestRegisterCandidate_DuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	reg := election.CandidateRegistration{Name: "Alice", Age: 40, Party: "Blue", Identity: testutil.Identity(1)}

	_, err := eng.RegisterCandidate(ctx, reg)
	require.NoError(t, err)

	reg.Name = "Alice Again"
	_, err = eng.RegisterCandidate(ctx, reg)
	assert.ErrorIs(t, err, election.ErrAlreadyRegistered)
	require.Len(t, eng.Candidates(), 1)
	assert.Equal(t, "Alice", eng.Candidates()[0].Name)
}

func TestApproveCandidate(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	_, err := eng.RegisterCandidate(ctx, election.CandidateRegistration{Name: "Alice", Age: 40, Party: "Blue", Identity: testutil.Identity(1)})
	require.NoError(t, err)
	_, err = eng.RegisterCandidate(ctx, election.CandidateRegistration{Name: "Bob", Age: 45, Party: "Green", Identity: testutil.Identity(2)})
	require.NoError(t, err)

	_, err = eng.ApproveCandidate(ctx, testutil.Identity(9), 0)
	assert.ErrorIs(t, err, election.ErrUnauthorized)

	_, err = eng.ApproveCandidate(ctx, admin, 5)
	assert.ErrorIs(t, err, election.ErrNotFound)

	c, err := eng.ApproveCandidate(ctx, admin, 0)
	require.NoError(t, err)
	assert.True(t, c.Approved)

	approved := eng.ApprovedCandidates()
	require.Len(t, approved, 1)
	assert.Equal(t, "Alice", approved[0].Name)
	assert.Len(t, eng.Candidates(), 2)
}

func TestApproveCandidate_Idempotent(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	_, err := eng.RegisterCandidate(ctx, election.CandidateRegistration{Name: "Alice", Age: 40, Party: "Blue", Identity: testutil.Identity(1)})
	require.NoError(t, err)

	events, cancel := eng.Subscribe(8)
	defer cancel()

	first, err := eng.ApproveCandidate(ctx, admin, 0)
	require.NoError(t, err)
	once := eng.Candidates()

	second, err := eng.ApproveCandidate(ctx, admin, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, once, eng.Candidates())

	// only the first call is a change
	ev := <-events
	assert.Equal(t, election.EventCandidateApproved, ev.Kind)
	select {
	case ev := <-events:
		t.Fatalf("unexpected second event %s", ev.Kind)
	default:
	}
}

func TestCandidates_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	assert.NotNil(t, eng.Candidates())
	assert.NotNil(t, eng.ApprovedCandidates())

	_, err := eng.RegisterCandidate(ctx, election.CandidateRegistration{Name: "Alice", Age: 40, Party: "Blue", Identity: testutil.Identity(1)})
	require.NoError(t, err)

	cands := eng.Candidates()
	cands[0].Votes = 99
	cands[0].Approved = true
	assert.Equal(t, 0, eng.Candidates()[0].Votes)
	assert.False(t, eng.Candidates()[0].Approved)
}
