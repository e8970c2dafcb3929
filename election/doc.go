// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the single-election state machine behind the
Quickly Elect API.

# Engine

An Engine owns the election record, the candidate roster, the voter
directory and the ballots. It is opened over a Store and a fixed admin
identity:

	engine, err := election.Open(ctx, adminIdentity, store,
		election.WithReceiptSalt(cfg.ReceiptSalt),
	)

Callers are passed explicitly to every operation; the engine never keeps an
ambient "current user".

# Lifecycle

	not_created → created → active → ended → deleted
	                 ↑                          │
	                 └──────────────────────────┘

CreateElection, StartElection, EndElection and DeleteElection are admin
only. DeleteElection requires an ended election and clears candidates,
ballots and every voter's has_voted flag.

# Voting

Vote checks, in order: election active, voter logged in, voter has not
voted, candidate exists, candidate approved. All five checks and the write
happen under one lock, so a voter racing against itself gets exactly one
ballot.

# Results

Winner breaks ties by lowest candidate index and returns a sentinel with an
empty Name when nobody has votes:

	if w := engine.Winner(); w.Found() {
		fmt.Println(w.Name, w.Votes)
	}

# Errors

Failures are sentinel errors (ErrUnauthorized, ErrInvalidState,
ErrPreconditionFailed, ErrNotFound, ErrAlreadyVoted, ErrElectionNotActive,
ErrCandidateNotApproved, ErrValidation, ErrAlreadyRegistered) matched with
errors.Is. Store failures wrap ErrSystemFault and leave memory untouched.

# Change feed

Subscribe returns committed events in commit order. Vote events carry the
candidate's new counter, never the voter.
*/
package election
