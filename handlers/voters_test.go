// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestRegisterVoter(t *testing.T) {
	env := newTestEnv(t)
	id := testutil.Identity(10)

	w := env.do("POST", "/voters", models.RegisterVoterRequest{Name: "Dana", Age: 21, Identity: strings.ToUpper(id)}, "")
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.RegisterVoterResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Voter.Identity != id {
		t.Errorf("Expected normalized identity %s, got %s", id, resp.Voter.Identity)
	}
	if err := auth.ValidateIdentityKey(id, resp.IdentityKey, env.cfg.IdentityKeySalt); err != nil {
		t.Errorf("Issued key does not validate: %v", err)
	}

	testCases := []struct {
		name           string
		body           models.RegisterVoterRequest
		expectedStatus int
	}{
		{"again", models.RegisterVoterRequest{Name: "Mallory", Age: 30, Identity: id}, http.StatusConflict},
		{"admin identity", models.RegisterVoterRequest{Name: "Mallory", Age: 30, Identity: env.admin()}, http.StatusForbidden},
		{"no name", models.RegisterVoterRequest{Age: 30, Identity: testutil.Identity(11)}, http.StatusBadRequest},
		{"negative age", models.RegisterVoterRequest{Name: "Eve", Age: -1, Identity: testutil.Identity(11)}, http.StatusBadRequest},
		{"bad identity", models.RegisterVoterRequest{Name: "Eve", Age: 30, Identity: "0xnothex"}, http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testutil.AssertStatus(t, env.do("POST", "/voters", tc.body, ""), tc.expectedStatus)
		})
	}

	var details election.Voter
	testutil.AssertJSON(t, env.do("GET", "/voters/"+id, nil, ""), &details)
	if details.Name != "Dana" {
		t.Errorf("Re-registration must not rename, got %s", details.Name)
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	id := testutil.Identity(10)

	flag := func(path string) bool {
		t.Helper()
		var resp models.FlagResponse
		w := env.do("GET", "/voters/"+id+path, nil, "")
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertJSON(t, w, &resp)
		return resp.Value
	}

	// a key for an unregistered identity proves ownership but not registration
	testutil.AssertStatus(t, env.do("POST", "/voters/login", nil, id), http.StatusUnauthorized)
	if flag("/registered") {
		t.Error("Expected unregistered")
	}

	env.mustStatus(env.do("POST", "/voters", models.RegisterVoterRequest{Name: "Dana", Age: 21, Identity: id}, ""), http.StatusCreated)
	if !flag("/registered") || flag("/session") {
		t.Error("Expected registered and logged out")
	}

	w := env.do("POST", "/voters/login", models.LoginRequest{Name: "Dana K."}, id)
	testutil.AssertStatus(t, w, http.StatusOK)
	var v election.Voter
	testutil.AssertJSON(t, w, &v)
	if !v.LoggedIn || v.Name != "Dana K." {
		t.Errorf("Unexpected voter after login: %+v", v)
	}
	if !flag("/session") {
		t.Error("Expected logged in")
	}

	testutil.AssertStatus(t, env.do("POST", "/voters/logout", nil, id), http.StatusOK)
	if flag("/session") {
		t.Error("Expected logged out")
	}
	testutil.AssertStatus(t, env.do("POST", "/voters/logout", nil, id), http.StatusOK)

	testutil.AssertStatus(t, env.do("POST", "/voters/logout", nil, testutil.Identity(99)), http.StatusNotFound)
}

func TestVoterQueries_BadIdentity(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/voters/dana", "/voters/dana/session", "/voters/0x12/voted", "/voters/dana/registered"} {
		testutil.AssertStatus(t, env.do("GET", path, nil, ""), http.StatusBadRequest)
	}
	testutil.AssertStatus(t, env.do("GET", "/voters/"+testutil.Identity(3), nil, ""), http.StatusNotFound)
}

func TestForgedIdentityKey(t *testing.T) {
	env := newTestEnv(t)
	victim := env.voter(10)

	req := testutil.MakeRequest("POST", "/voters/logout", nil, map[string]string{
		"X-Identity":     victim,
		"X-Identity-Key": auth.GenerateIdentityKey(victim, "guessed-salt"),
	})
	w := httptest.NewRecorder()
	env.mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	if !env.engine.IsVoterLoggedIn(victim) {
		t.Error("Forged key must not end the session")
	}
}
