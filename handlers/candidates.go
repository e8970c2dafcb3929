// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type CandidateHandler struct {
	engine *election.Engine
	cfg    cliparse.Config
}

func NewCandidateHandler(engine *election.Engine, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{engine: engine, cfg: cfg}
}

// RegisterCandidate handles POST /candidates. Open to anyone; the admin
// decides later who appears on the ballot.
func (h *CandidateHandler) RegisterCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.engine.RegisterCandidate(r.Context(), election.CandidateRegistration{
		Name:     req.Name,
		Age:      req.Age,
		Party:    req.Party,
		Identity: req.Identity,
	})
	if err != nil {
		writeEngineError(w, "register candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, c)
}

// ApproveCandidate handles POST /candidates/{index}/approve
func (h *CandidateHandler) ApproveCandidate(w http.ResponseWriter, r *http.Request) {
	idx, ok := parseIndex(r.PathValue("index"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}

	c, err := h.engine.ApproveCandidate(r.Context(), middleware.Identity(r.Context()), idx)
	if err != nil {
		writeEngineError(w, "approve candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// ListCandidates handles GET /candidates[?approved=true]
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	var cands []election.Candidate
	switch r.URL.Query().Get("approved") {
	case "", "false":
		cands = h.engine.Candidates()
	case "true":
		cands = h.engine.ApprovedCandidates()
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "approved must be true or false")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{Candidates: cands})
}

// GetCandidate handles GET /candidates/{index}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	idx, ok := parseIndex(r.PathValue("index"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "index must be a non-negative integer")
		return
	}

	c, err := h.engine.Candidate(idx)
	if err != nil {
		writeEngineError(w, "get candidate", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}
