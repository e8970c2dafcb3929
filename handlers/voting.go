// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// maxUserAgent bounds the stored user agent.
const maxUserAgent = 255

type VotingHandler struct {
	engine *election.Engine
	cfg    cliparse.Config
}

func NewVotingHandler(engine *election.Engine, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{engine: engine, cfg: cfg}
}

// CastVote handles POST /votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CandidateIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_index is required")
		return
	}

	ua := r.UserAgent()
	if len(ua) > maxUserAgent {
		ua = ua[:maxUserAgent]
	}

	b, err := h.engine.Vote(r.Context(), election.VoteRequest{
		Voter:          middleware.Identity(r.Context()),
		CandidateIndex: *req.CandidateIndex,
		IPHash:         auth.HashIP(middleware.GetClientIP(r), h.cfg.ReceiptSalt),
		UserAgent:      ua,
	})
	if err != nil {
		writeEngineError(w, "vote", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		BallotID: b.ID,
		Receipt:  b.Receipt,
		CastAt:   b.CastAt,
		Message:  "Vote recorded",
	})
}

// ListBallots handles GET /ballots (admin only)
func (h *VotingHandler) ListBallots(w http.ResponseWriter, r *http.Request) {
	ballots, err := h.engine.Ballots(middleware.Identity(r.Context()))
	if err != nil {
		writeEngineError(w, "list ballots", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.BallotsResponse{Ballots: ballots})
}
