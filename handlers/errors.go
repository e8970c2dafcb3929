// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
)

// statusFor maps an engine error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, election.ErrSystemFault):
		return http.StatusInternalServerError
	case errors.Is(err, election.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, election.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, election.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, election.ErrInvalidState),
		errors.Is(err, election.ErrPreconditionFailed),
		errors.Is(err, election.ErrAlreadyVoted),
		errors.Is(err, election.ErrElectionNotActive),
		errors.Is(err, election.ErrCandidateNotApproved),
		errors.Is(err, election.ErrAlreadyRegistered):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeEngineError reports err to the client. Faults are logged and hidden.
func writeEngineError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err)
		middleware.ErrorResponse(w, status, "Internal error")
		return
	}
	slog.Debug(op+" rejected", "status", status, "error", err)
	middleware.ErrorResponse(w, status, err.Error())
}

func parseIndex(raw string) (int, bool) {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// since renders the age of the election's latest lifecycle change.
func since(el election.Election) string {
	var latest *time.Time
	for _, t := range []*time.Time{el.CreatedAt, el.StartedAt, el.EndedAt, el.DeletedAt} {
		if t != nil && (latest == nil || t.After(*latest)) {
			latest = t
		}
	}
	if latest == nil {
		return ""
	}
	return humanize.Time(*latest)
}
