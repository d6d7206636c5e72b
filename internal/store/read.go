package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SessionNotFoundError indicates a read named a session id not in the
// archive.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// IsSessionNotFound reports whether err is a SessionNotFoundError.
func IsSessionNotFound(err error) bool {
	var target *SessionNotFoundError
	return errors.As(err, &target)
}

// Report is the normalized view of one archived session.
type Report struct {
	SessionID  string
	Day        int
	Slot       string
	Budget     int64
	Reputation int64
	Notes      string
	State      string

	Decisions   []DecisionRow
	Completed   []string
	Actions     []ActionRow
	Comparisons []ComparisonRow
}

// DecisionRow is one archived decision.
type DecisionRow struct {
	NodeID   string
	OptionID string
	Ordinal  int64
}

// ActionRow is one archived canonical action; payload columns hold
// canonical JSON.
type ActionRow struct {
	ID         string
	TargetID   string
	ValueFinal string
	Context    string
	Ordinal    int64
}

// ComparisonRow is one archived grading outcome. Missing and Actual are
// empty strings for DONE_OK rows.
type ComparisonRow struct {
	ID         string
	ExpectedID string
	ActionID   string
	Outcome    string
	Rule       string
	Missing    string
	Actual     string
	Ordinal    int64
}

// Deviations counts the comparisons that ended in a deviation.
func (r *Report) Deviations() int {
	n := 0
	for _, c := range r.Comparisons {
		if c.Outcome == "DEVIATION" {
			n++
		}
	}
	return n
}

// ReadSession reconstructs the normalized report of one archived session.
func (s *Store) ReadSession(ctx context.Context, sessionID string) (*Report, error) {
	r := &Report{SessionID: sessionID}

	err := s.db.QueryRowContext(ctx, `
		SELECT day, slot, budget, reputation, notes, state
		FROM sessions WHERE id = ?
	`, sessionID).Scan(&r.Day, &r.Slot, &r.Budget, &r.Reputation, &r.Notes, &r.State)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &SessionNotFoundError{SessionID: sessionID}
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	if err := s.readDecisions(ctx, r); err != nil {
		return nil, err
	}
	if err := s.readCompleted(ctx, r); err != nil {
		return nil, err
	}
	if err := s.readActions(ctx, r); err != nil {
		return nil, err
	}
	if err := s.readComparisons(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) readDecisions(ctx context.Context, r *Report) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT node_id, option_id, ordinal
		FROM decisions WHERE session_id = ?
		ORDER BY ordinal
	`, r.SessionID)
	if err != nil {
		return fmt.Errorf("read decisions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d DecisionRow
		if err := rows.Scan(&d.NodeID, &d.OptionID, &d.Ordinal); err != nil {
			return fmt.Errorf("read decisions: scan: %w", err)
		}
		r.Decisions = append(r.Decisions, d)
	}
	return rows.Err()
}

func (s *Store) readCompleted(ctx context.Context, r *Report) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence_id
		FROM completed_sequences WHERE session_id = ?
		ORDER BY sequence_id
	`, r.SessionID)
	if err != nil {
		return fmt.Errorf("read completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("read completions: scan: %w", err)
		}
		r.Completed = append(r.Completed, id)
	}
	return rows.Err()
}

func (s *Store) readActions(ctx context.Context, r *Report) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target_id, value_final, context, ordinal
		FROM canonical_actions WHERE session_id = ?
		ORDER BY ordinal
	`, r.SessionID)
	if err != nil {
		return fmt.Errorf("read actions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a ActionRow
		if err := rows.Scan(&a.ID, &a.TargetID, &a.ValueFinal, &a.Context, &a.Ordinal); err != nil {
			return fmt.Errorf("read actions: scan: %w", err)
		}
		r.Actions = append(r.Actions, a)
	}
	return rows.Err()
}

func (s *Store) readComparisons(ctx context.Context, r *Report) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expected_id, action_id, outcome, rule, missing, actual, ordinal
		FROM comparisons WHERE session_id = ?
		ORDER BY ordinal
	`, r.SessionID)
	if err != nil {
		return fmt.Errorf("read comparisons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c ComparisonRow
		var missing, actual sql.NullString
		if err := rows.Scan(&c.ID, &c.ExpectedID, &c.ActionID, &c.Outcome, &c.Rule, &missing, &actual, &c.Ordinal); err != nil {
			return fmt.Errorf("read comparisons: scan: %w", err)
		}
		c.Missing = missing.String
		c.Actual = actual.String
		r.Comparisons = append(r.Comparisons, c)
	}
	return rows.Err()
}

// ListSessions returns the ids of all archived sessions, newest first by
// rowid.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM sessions ORDER BY rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
