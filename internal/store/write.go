package store

import (
	"context"
	"fmt"

	"github.com/roach88/dayline/internal/grade"
	"github.com/roach88/dayline/internal/session"
)

// WriteSession archives a session snapshot and the authored expectations
// it was graded against, in one transaction.
//
// Idempotent: every insert uses ON CONFLICT DO NOTHING, so archiving the
// same snapshot twice leaves the database unchanged. Re-archiving a
// session id with different content keeps the first archive; the archive
// records what happened, it is not a mutable save slot.
func (s *Store) WriteSession(ctx context.Context, snap session.Snapshot, expected []grade.ExpectedAction) error {
	stateJSON, err := marshalState(snap)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write session: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions
		(id, day, slot, budget, reputation, notes, state)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		snap.SessionID,
		snap.At.Day,
		string(snap.At.Slot),
		snap.Budget,
		snap.Reputation,
		snap.Notes,
		stateJSON,
	)
	if err != nil {
		return fmt.Errorf("write session: insert session: %w", err)
	}

	for _, d := range snap.Decisions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO decisions (session_id, node_id, option_id, ordinal)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(session_id, node_id) DO NOTHING
		`, snap.SessionID, d.NodeID, d.OptionID, d.Ordinal)
		if err != nil {
			return fmt.Errorf("write session: insert decision %s: %w", d.NodeID, err)
		}
	}

	for _, id := range snap.Completed {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO completed_sequences (session_id, sequence_id)
			VALUES (?, ?)
			ON CONFLICT(session_id, sequence_id) DO NOTHING
		`, snap.SessionID, id)
		if err != nil {
			return fmt.Errorf("write session: insert completion %s: %w", id, err)
		}
	}

	for _, exp := range expected {
		constraintsJSON, err := marshalMap(exp.Constraints)
		if err != nil {
			return fmt.Errorf("write session: expected %s: %w", exp.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO expected_actions (session_id, id, target_id, rule, constraints)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(session_id, id) DO NOTHING
		`, snap.SessionID, exp.ID, exp.TargetID, exp.Rule, constraintsJSON)
		if err != nil {
			return fmt.Errorf("write session: insert expected %s: %w", exp.ID, err)
		}
	}

	for _, a := range snap.Actions {
		valueFinalJSON, err := marshalMap(a.ValueFinal)
		if err != nil {
			return fmt.Errorf("write session: action %s: %w", a.ID, err)
		}
		contextJSON, err := marshalMap(a.Context)
		if err != nil {
			return fmt.Errorf("write session: action %s: %w", a.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO canonical_actions
			(id, session_id, target_id, value_final, context, ordinal)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, a.ID, snap.SessionID, a.TargetID, valueFinalJSON, contextJSON, a.Ordinal)
		if err != nil {
			return fmt.Errorf("write session: insert action %s: %w", a.ID, err)
		}
	}

	for _, c := range snap.Comparisons {
		var missingJSON, actualJSON any
		if c.Result.Deviation != nil {
			m, err := marshalMap(c.Result.Deviation.Missing)
			if err != nil {
				return fmt.Errorf("write session: comparison %s: %w", c.ID, err)
			}
			missingJSON = m
			if c.Result.Deviation.Actual != nil {
				a, err := marshalMap(c.Result.Deviation.Actual)
				if err != nil {
					return fmt.Errorf("write session: comparison %s: %w", c.ID, err)
				}
				actualJSON = a
			}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO comparisons
			(id, session_id, expected_id, action_id, outcome, rule, missing, actual, ordinal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`,
			c.ID,
			snap.SessionID,
			c.ExpectedID,
			c.ActionID,
			string(c.Result.Outcome),
			c.Result.Rule,
			missingJSON,
			actualJSON,
			c.Ordinal,
		)
		if err != nil {
			return fmt.Errorf("write session: insert comparison %s: %w", c.ID, err)
		}
	}

	for _, p := range snap.Log {
		var detailJSON any
		if p.Detail != nil {
			d, err := marshalMap(p.Detail)
			if err != nil {
				return fmt.Errorf("write session: player action %d: %w", p.Ordinal, err)
			}
			detailJSON = d
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO player_actions (session_id, ordinal, kind, target, detail)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(session_id, ordinal) DO NOTHING
		`, snap.SessionID, p.Ordinal, p.Kind, p.Target, detailJSON)
		if err != nil {
			return fmt.Errorf("write session: insert player action %d: %w", p.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write session: commit: %w", err)
	}
	return nil
}
