// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
)

func NewRouter(engine *election.Engine, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(engine, cfg)
	candidateHandler := handlers.NewCandidateHandler(engine, cfg)
	voterHandler := handlers.NewVoterHandler(engine, cfg)
	votingHandler := handlers.NewVotingHandler(engine, cfg)
	resultsHandler := handlers.NewResultsHandler(engine, cfg)

	// logged and authenticated
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireIdentity(cfg.IdentityKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Election lifecycle (admin operations)
	mux.HandleFunc("POST /election", authed(electionHandler.CreateElection))
	mux.HandleFunc("POST /election/start", authed(electionHandler.StartElection))
	mux.HandleFunc("POST /election/end", authed(electionHandler.EndElection))
	mux.HandleFunc("DELETE /election", authed(electionHandler.DeleteElection))
	mux.HandleFunc("GET /election", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /election/admin", middleware.WithLogging(electionHandler.GetAdmin))

	// Candidate roster
	mux.HandleFunc("POST /candidates", middleware.WithLogging(candidateHandler.RegisterCandidate))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("GET /candidates/{index}", middleware.WithLogging(candidateHandler.GetCandidate))
	mux.HandleFunc("POST /candidates/{index}/approve", authed(candidateHandler.ApproveCandidate))

	// Voter directory
	mux.HandleFunc("POST /voters", middleware.WithLogging(voterHandler.RegisterVoter))
	mux.HandleFunc("POST /voters/login", authed(voterHandler.Login))
	mux.HandleFunc("POST /voters/logout", authed(voterHandler.Logout))
	mux.HandleFunc("GET /voters/{identity}", middleware.WithLogging(voterHandler.GetVoter))
	mux.HandleFunc("GET /voters/{identity}/session", middleware.WithLogging(voterHandler.GetSession))
	mux.HandleFunc("GET /voters/{identity}/voted", middleware.WithLogging(voterHandler.GetVoted))
	mux.HandleFunc("GET /voters/{identity}/registered", middleware.WithLogging(voterHandler.GetRegistered))
	mux.HandleFunc("GET /voters/{identity}/ballot", authed(voterHandler.GetBallot))

	// Voting and audit
	mux.HandleFunc("POST /votes", authed(votingHandler.CastVote))
	mux.HandleFunc("GET /ballots", authed(votingHandler.ListBallots))

	// Results (public, live)
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /results/winner", middleware.WithLogging(resultsHandler.GetWinner))
	mux.HandleFunc("GET /events", middleware.WithLogging(resultsHandler.StreamEvents))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}
