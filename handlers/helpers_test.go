// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

// testEnv wires every handler over an engine backed by in-memory SQLite.
type testEnv struct {
	t      *testing.T
	cfg    cliparse.Config
	engine *election.Engine
	mux    *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testutil.GetTestConfig()
	engine := testutil.NewTestEngine(t, db.NewStore(testutil.SetupTestDB(t)))

	eh := NewElectionHandler(engine, cfg)
	ch := NewCandidateHandler(engine, cfg)
	vh := NewVoterHandler(engine, cfg)
	vt := NewVotingHandler(engine, cfg)
	rh := NewResultsHandler(engine, cfg)
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireIdentity(cfg.IdentityKeySalt, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /election", authed(eh.CreateElection))
	mux.HandleFunc("POST /election/start", authed(eh.StartElection))
	mux.HandleFunc("POST /election/end", authed(eh.EndElection))
	mux.HandleFunc("DELETE /election", authed(eh.DeleteElection))
	mux.HandleFunc("GET /election", eh.GetElection)
	mux.HandleFunc("GET /election/admin", eh.GetAdmin)
	mux.HandleFunc("POST /candidates", ch.RegisterCandidate)
	mux.HandleFunc("GET /candidates", ch.ListCandidates)
	mux.HandleFunc("GET /candidates/{index}", ch.GetCandidate)
	mux.HandleFunc("POST /candidates/{index}/approve", authed(ch.ApproveCandidate))
	mux.HandleFunc("POST /voters", vh.RegisterVoter)
	mux.HandleFunc("POST /voters/login", authed(vh.Login))
	mux.HandleFunc("POST /voters/logout", authed(vh.Logout))
	mux.HandleFunc("GET /voters/{identity}", vh.GetVoter)
	mux.HandleFunc("GET /voters/{identity}/session", vh.GetSession)
	mux.HandleFunc("GET /voters/{identity}/voted", vh.GetVoted)
	mux.HandleFunc("GET /voters/{identity}/registered", vh.GetRegistered)
	mux.HandleFunc("GET /voters/{identity}/ballot", authed(vh.GetBallot))
	mux.HandleFunc("POST /votes", authed(vt.CastVote))
	mux.HandleFunc("GET /ballots", authed(vt.ListBallots))
	mux.HandleFunc("GET /results", rh.GetResults)
	mux.HandleFunc("GET /results/winner", rh.GetWinner)
	mux.HandleFunc("GET /events", rh.StreamEvents)

	return &testEnv{t: t, cfg: cfg, engine: engine, mux: mux}
}

// do sends a request as identity ("" for anonymous).
func (e *testEnv) do(method, path string, body any, identity string) *httptest.ResponseRecorder {
	e.t.Helper()
	var headers map[string]string
	if identity != "" {
		headers = testutil.AuthHeaders(e.cfg, identity)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
	return w
}

func (e *testEnv) admin() string { return e.cfg.AdminIdentity }

func (e *testEnv) mustStatus(w *httptest.ResponseRecorder, want int) {
	e.t.Helper()
	if w.Code != want {
		e.t.Fatalf("Expected status %d, got %d. Body: %s", want, w.Code, w.Body.String())
	}
}

func (e *testEnv) createElection(name string) {
	e.t.Helper()
	e.mustStatus(e.do("POST", "/election", models.CreateElectionRequest{Name: name}, e.admin()), http.StatusCreated)
}

func (e *testEnv) registerCandidate(name, party string, n int) election.Candidate {
	e.t.Helper()
	w := e.do("POST", "/candidates", models.RegisterCandidateRequest{
		Name: name, Age: 40, Party: party, Identity: testutil.Identity(n),
	}, "")
	e.mustStatus(w, http.StatusCreated)
	var c election.Candidate
	testutil.AssertJSON(e.t, w, &c)
	return c
}

func (e *testEnv) approve(index int) {
	e.t.Helper()
	e.mustStatus(e.do("POST", fmt.Sprintf("/candidates/%d/approve", index), nil, e.admin()), http.StatusOK)
}

func (e *testEnv) start() {
	e.t.Helper()
	e.mustStatus(e.do("POST", "/election/start", nil, e.admin()), http.StatusOK)
}

// voter registers and logs in identity n, returning the identity.
func (e *testEnv) voter(n int) string {
	e.t.Helper()
	id := testutil.Identity(n)
	e.mustStatus(e.do("POST", "/voters", models.RegisterVoterRequest{Name: "Voter", Age: 30, Identity: id}, ""), http.StatusCreated)
	e.mustStatus(e.do("POST", "/voters/login", nil, id), http.StatusOK)
	return id
}

func (e *testEnv) vote(identity string, index int) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do("POST", "/votes", models.VoteRequest{CandidateIndex: &index}, identity)
}

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{election.ErrUnauthorized, http.StatusUnauthorized},
		{election.ErrValidation, http.StatusBadRequest},
		{election.ErrNotFound, http.StatusNotFound},
		{election.ErrInvalidState, http.StatusConflict},
		{election.ErrPreconditionFailed, http.StatusConflict},
		{election.ErrAlreadyVoted, http.StatusConflict},
		{election.ErrElectionNotActive, http.StatusConflict},
		{election.ErrCandidateNotApproved, http.StatusConflict},
		{election.ErrAlreadyRegistered, http.StatusConflict},
		{election.ErrSystemFault, http.StatusInternalServerError},
		{fmt.Errorf("record vote: %w: %w", election.ErrSystemFault, election.ErrNotFound), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", election.ErrAlreadyVoted), http.StatusConflict},
		{errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, got)
			}
		})
	}
}
