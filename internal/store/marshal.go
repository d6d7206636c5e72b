package store

import (
	"fmt"

	"github.com/roach88/dayline/internal/session"
	"github.com/roach88/dayline/internal/value"
)

// marshalMap serializes a value map to canonical JSON for a payload
// column. A nil map serializes as an empty object so columns never hold
// JSON null.
func marshalMap(m value.Map) (string, error) {
	if m == nil {
		m = value.Map{}
	}
	data, err := value.MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// marshalState builds the session row's whole-state payload: the summary
// fields of the snapshot in canonical JSON. Child tables carry the
// normalized detail; this column gives replay tooling one stable blob.
func marshalState(snap session.Snapshot) (string, error) {
	completed := value.List{}
	for _, id := range snap.Completed {
		completed = append(completed, value.String(id))
	}
	emails := value.List{}
	for _, id := range snap.ReadEmails {
		emails = append(emails, value.String(id))
	}
	documents := value.List{}
	for _, id := range snap.ReadDocuments {
		documents = append(documents, value.String(id))
	}

	assignments := value.Map{}
	for id, post := range snap.Assignments {
		assignments[id] = value.String(post)
	}

	state := value.Map{
		"session_id":     value.String(snap.SessionID),
		"day":            value.Int(int64(snap.At.Day)),
		"slot":           value.String(string(snap.At.Slot)),
		"budget":         value.Int(snap.Budget),
		"reputation":     value.Int(snap.Reputation),
		"notes":          value.String(snap.Notes),
		"completed":      completed,
		"read_emails":    emails,
		"read_documents": documents,
		"assignments":    assignments,
	}

	data, err := value.MarshalCanonical(state)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(data), nil
}
