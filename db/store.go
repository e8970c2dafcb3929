// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-elect/election"
)

// Store persists election state in SQL. Every method runs in its own
// transaction, so a failed call leaves the database as it was.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ election.Store = (*Store)(nil)

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load reads the whole election image.
func (s *Store) Load(ctx context.Context) (election.State, error) {
	var st election.State

	el, err := s.loadElection(ctx)
	if err != nil {
		return st, err
	}
	st.Election = el

	if st.Candidates, err = s.loadCandidates(ctx); err != nil {
		return st, err
	}
	if st.Voters, err = s.loadVoters(ctx); err != nil {
		return st, err
	}
	if st.Ballots, err = s.loadBallots(ctx); err != nil {
		return st, err
	}
	return st, nil
}

func (s *Store) loadElection(ctx context.Context) (election.Election, error) {
	var (
		el                                       election.Election
		id                                       sql.NullString
		status                                   string
		createdAt, startedAt, endedAt, deletedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT election_id, name, status, created_at, started_at, ended_at, deleted_at
		FROM election
		WHERE id = 1
	`).Scan(&id, &el.Name, &status, &createdAt, &startedAt, &endedAt, &deletedAt)

	if err == sql.ErrNoRows {
		return election.Election{Status: election.StatusNotCreated}, nil
	}
	if err != nil {
		return el, fmt.Errorf("failed to query election: %w", err)
	}

	el.ID = id.String
	el.Status = election.Status(status)
	el.CreatedAt = timePtr(createdAt)
	el.StartedAt = timePtr(startedAt)
	el.EndedAt = timePtr(endedAt)
	el.DeletedAt = timePtr(deletedAt)
	return el, nil
}

func (s *Store) loadCandidates(ctx context.Context) ([]election.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, name, age, party, identity, approved, votes, registered_at
		FROM candidate
		ORDER BY idx
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	cands := []election.Candidate{}
	for rows.Next() {
		var c election.Candidate
		if err := rows.Scan(&c.Index, &c.Name, &c.Age, &c.Party, &c.Identity,
			&c.Approved, &c.Votes, &c.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		c.RegisteredAt = c.RegisteredAt.UTC()
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

func (s *Store) loadVoters(ctx context.Context) ([]election.Voter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, name, age, logged_in, has_voted, registered_at, last_login_at
		FROM voter
		ORDER BY identity
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []election.Voter{}
	for rows.Next() {
		var v election.Voter
		var lastLogin sql.NullTime
		if err := rows.Scan(&v.Identity, &v.Name, &v.Age, &v.LoggedIn, &v.HasVoted,
			&v.RegisteredAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		v.RegisteredAt = v.RegisteredAt.UTC()
		v.LastLoginAt = timePtr(lastLogin)
		voters = append(voters, v)
	}
	return voters, rows.Err()
}

func (s *Store) loadBallots(ctx context.Context) ([]election.Ballot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, voter_identity, candidate_idx, cast_at, receipt, ip_hash, user_agent
		FROM ballot
		ORDER BY cast_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	ballots := []election.Ballot{}
	for rows.Next() {
		var b election.Ballot
		var ipHash, userAgent sql.NullString
		if err := rows.Scan(&b.ID, &b.ElectionID, &b.Voter, &b.CandidateIndex,
			&b.CastAt, &b.Receipt, &ipHash, &userAgent); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		b.CastAt = b.CastAt.UTC()
		b.IPHash = ipHash.String
		b.UserAgent = userAgent.String
		ballots = append(ballots, b)
	}
	return ballots, rows.Err()
}

// SaveElection upserts the single election row.
func (s *Store) SaveElection(ctx context.Context, el election.Election) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveElection(ctx, tx, el)
	})
}

func saveElection(ctx context.Context, tx *sql.Tx, el election.Election) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO election (id, election_id, name, status, created_at, started_at, ended_at, deleted_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			election_id = excluded.election_id,
			name = excluded.name,
			status = excluded.status,
			created_at = excluded.created_at,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			deleted_at = excluded.deleted_at
	`, nullString(el.ID), el.Name, string(el.Status),
		nullTime(el.CreatedAt), nullTime(el.StartedAt), nullTime(el.EndedAt), nullTime(el.DeletedAt))
	if err != nil {
		return fmt.Errorf("failed to save election: %w", err)
	}
	return nil
}

func (s *Store) AddCandidate(ctx context.Context, c election.Candidate) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO candidate (idx, name, age, party, identity, approved, votes, registered_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.Index, c.Name, c.Age, c.Party, c.Identity, c.Approved, c.Votes, c.RegisteredAt)
		if err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
		return nil
	})
}

func (s *Store) ApproveCandidate(ctx context.Context, index int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE candidate SET approved = $1 WHERE idx = $2
		`, true, index)
		if err != nil {
			return fmt.Errorf("failed to approve candidate: %w", err)
		}
		return expectOneRow(res, "approve candidate")
	})
}

// SaveVoter upserts a voter row keyed by identity.
func (s *Store) SaveVoter(ctx context.Context, v election.Voter) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO voter (identity, name, age, logged_in, has_voted, registered_at, last_login_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (identity) DO UPDATE SET
				name = excluded.name,
				age = excluded.age,
				logged_in = excluded.logged_in,
				has_voted = excluded.has_voted,
				last_login_at = excluded.last_login_at
		`, v.Identity, v.Name, v.Age, v.LoggedIn, v.HasVoted, v.RegisteredAt, nullTime(v.LastLoginAt))
		if err != nil {
			return fmt.Errorf("failed to save voter: %w", err)
		}
		return nil
	})
}

// RecordVote writes the ballot, bumps the counter and latches has_voted.
// The guarded UPDATEs make a second ballot for the same voter, or a vote for
// an unapproved candidate, fail here even if the caller got it wrong.
func (s *Store) RecordVote(ctx context.Context, b election.Ballot) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ballot (id, election_id, voter_identity, candidate_idx, cast_at, receipt, ip_hash, user_agent)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, b.ID, b.ElectionID, b.Voter, b.CandidateIndex, b.CastAt, b.Receipt,
			nullString(b.IPHash), nullString(b.UserAgent))
		if err != nil {
			return fmt.Errorf("failed to insert ballot: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE candidate SET votes = votes + 1 WHERE idx = $1 AND approved = $2
		`, b.CandidateIndex, true)
		if err != nil {
			return fmt.Errorf("failed to increment votes: %w", err)
		}
		if err := expectOneRow(res, "increment votes"); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `
			UPDATE voter SET has_voted = $1 WHERE identity = $2 AND has_voted = $3
		`, true, b.Voter, false)
		if err != nil {
			return fmt.Errorf("failed to mark voter: %w", err)
		}
		return expectOneRow(res, "mark voter")
	})
}

func (s *Store) ResetElection(ctx context.Context, el election.Election) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ballot`); err != nil {
			return fmt.Errorf("failed to delete ballots: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidate`); err != nil {
			return fmt.Errorf("failed to delete candidates: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE voter SET has_voted = $1`, false); err != nil {
			return fmt.Errorf("failed to reset voters: %w", err)
		}
		return saveElection(ctx, tx, el)
	})
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n != 1 {
		return fmt.Errorf("%s: expected 1 row, affected %d", op, n)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
