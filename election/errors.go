// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidState         = errors.New("invalid election state")
	ErrPreconditionFailed   = errors.New("precondition failed")
	ErrNotFound             = errors.New("not found")
	ErrAlreadyVoted         = errors.New("voter has already voted")
	ErrElectionNotActive    = errors.New("election is not active")
	ErrCandidateNotApproved = errors.New("candidate is not approved")
	ErrValidation           = errors.New("validation error")
	ErrAlreadyRegistered    = errors.New("identity already registered")

	// ErrSystemFault wraps store failures. It is never a user error and the
	// in-memory state is left untouched when it is returned.
	ErrSystemFault = errors.New("system fault")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func fault(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrSystemFault, err)
}
