// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type VoterHandler struct {
	engine *election.Engine
	cfg    cliparse.Config
}

func NewVoterHandler(engine *election.Engine, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{engine: engine, cfg: cfg}
}

// RegisterVoter handles POST /voters. The response carries the identity key
// the voter authenticates with from then on; it is derived, not stored.
func (h *VoterHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// The admin shares the key scheme, so its identity must never be claimable.
	if h.engine.IsAdmin(req.Identity) {
		slog.Warn("voter registration for admin identity refused", "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusForbidden, "identity is reserved")
		return
	}

	v, err := h.engine.RegisterVoter(r.Context(), election.VoterRegistration{
		Name:     req.Name,
		Age:      req.Age,
		Identity: req.Identity,
	})
	if err != nil {
		writeEngineError(w, "register voter", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		Voter:       v,
		IdentityKey: auth.GenerateIdentityKey(v.Identity, h.cfg.IdentityKeySalt),
	})
}

// Login handles POST /voters/login
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	v, err := h.engine.LoginVoter(r.Context(), middleware.Identity(r.Context()), req.Name)
	if err != nil {
		writeEngineError(w, "login", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, v)
}

// Logout handles POST /voters/logout
func (h *VoterHandler) Logout(w http.ResponseWriter, r *http.Request) {
	caller := middleware.Identity(r.Context())
	if err := h.engine.LogoutVoter(r.Context(), caller, caller); err != nil {
		writeEngineError(w, "logout", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// pathIdentity reads and normalizes {identity}, answering 400 itself.
func pathIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := auth.NormalizeIdentity(r.PathValue("identity"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// GetVoter handles GET /voters/{identity}
func (h *VoterHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIdentity(w, r)
	if !ok {
		return
	}
	v, err := h.engine.VoterDetails(id)
	if err != nil {
		writeEngineError(w, "get voter", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, v)
}

// GetSession handles GET /voters/{identity}/session
func (h *VoterHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathIdentity(w, r); ok {
		middleware.JSONResponse(w, http.StatusOK, models.FlagResponse{Identity: id, Value: h.engine.IsVoterLoggedIn(id)})
	}
}

// GetVoted handles GET /voters/{identity}/voted
func (h *VoterHandler) GetVoted(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathIdentity(w, r); ok {
		middleware.JSONResponse(w, http.StatusOK, models.FlagResponse{Identity: id, Value: h.engine.HasVoted(id)})
	}
}

// GetRegistered handles GET /voters/{identity}/registered
func (h *VoterHandler) GetRegistered(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathIdentity(w, r); ok {
		middleware.JSONResponse(w, http.StatusOK, models.FlagResponse{Identity: id, Value: h.engine.IsRegistered(id)})
	}
}

// GetBallot handles GET /voters/{identity}/ballot (the voter or the admin)
func (h *VoterHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathIdentity(w, r)
	if !ok {
		return
	}
	b, err := h.engine.BallotFor(middleware.Identity(r.Context()), id)
	if err != nil {
		writeEngineError(w, "get ballot", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, b)
}
