package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainAction     = "dayline/action/v1"
	DomainComparison = "dayline/comparison/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00}) // Null separator - CRITICAL for security
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ActionID computes the content-addressed ID of a canonical action.
// The ID is stable across restarts and replays given the same inputs, which
// lets a re-exported session keep its action links intact.
func ActionID(sessionID, targetID string, valueFinal Map, ordinal int64) (string, error) {
	obj := Map{
		"session_id":  String(sessionID),
		"target_id":   String(targetID),
		"value_final": valueFinal,
		"ordinal":     Int(ordinal),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ActionID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainAction, canonical), nil
}

// ComparisonID computes the content-addressed ID of a graded comparison.
// Links the canonical action being graded to the expectation it was graded
// against.
func ComparisonID(actionID, expectedID, outcome string, ordinal int64) (string, error) {
	obj := Map{
		"action_id":   String(actionID),
		"expected_id": String(expectedID),
		"outcome":     String(outcome),
		"ordinal":     Int(ordinal),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ComparisonID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainComparison, canonical), nil
}

// MustActionID is like ActionID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustActionID(sessionID, targetID string, valueFinal Map, ordinal int64) string {
	id, err := ActionID(sessionID, targetID, valueFinal, ordinal)
	if err != nil {
		panic(err)
	}
	return id
}

// MustComparisonID is like ComparisonID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustComparisonID(actionID, expectedID, outcome string, ordinal int64) string {
	id, err := ComparisonID(actionID, expectedID, outcome, ordinal)
	if err != nil {
		panic(err)
	}
	return id
}
