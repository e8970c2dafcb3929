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

type ElectionHandler struct {
	engine *election.Engine
	cfg    cliparse.Config
}

func NewElectionHandler(engine *election.Engine, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{engine: engine, cfg: cfg}
}

// CreateElection handles POST /election
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	el, err := h.engine.CreateElection(r.Context(), middleware.Identity(r.Context()), req.Name)
	if err != nil {
		writeEngineError(w, "create election", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.ElectionResponse{Election: el, Since: since(el)})
}

// StartElection handles POST /election/start
func (h *ElectionHandler) StartElection(w http.ResponseWriter, r *http.Request) {
	el, err := h.engine.StartElection(r.Context(), middleware.Identity(r.Context()))
	if err != nil {
		writeEngineError(w, "start election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ElectionResponse{Election: el, Since: since(el)})
}

// EndElection handles POST /election/end
func (h *ElectionHandler) EndElection(w http.ResponseWriter, r *http.Request) {
	el, err := h.engine.EndElection(r.Context(), middleware.Identity(r.Context()))
	if err != nil {
		writeEngineError(w, "end election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ElectionResponse{Election: el, Since: since(el)})
}

// DeleteElection handles DELETE /election
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteElection(r.Context(), middleware.Identity(r.Context())); err != nil {
		writeEngineError(w, "delete election", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Election deleted"})
}

// GetElection handles GET /election
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	el, view := h.engine.ElectionSnapshot()
	resp := models.ElectionStatusResponse{
		StatusView: view,
		Status:     el.Status,
	}
	if el.Status != election.StatusDeleted {
		resp.ElectionID = el.ID
	}
	resp.Since = since(el)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetAdmin handles GET /election/admin
func (h *ElectionHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.AdminResponse{Admin: h.engine.Admin()})
}
