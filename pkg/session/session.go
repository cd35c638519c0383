package session

import (
	"errors"
	"strings"
	"time"

	"github.com/worklogr/worklogr/pkg/tracker"
)

// State is the credential lifecycle state.
type State string

const (
	// StateNoCredential means no credential has been entered or observed yet.
	StateNoCredential State = "noCredential"
	// StateUnvalidated means a credential is present but has not been probed
	// against the tracker since it was last set.
	StateUnvalidated State = "unvalidated"
	// StateValid means the most recent probe accepted the credential.
	StateValid State = "valid"
	// StateInvalid means the most recent probe rejected the credential. The
	// credential is kept so the user can inspect and replace it.
	StateInvalid State = "invalid"
)

var (
	ErrEmptyCredential = errors.New("credential is empty after normalization")
	ErrNoCredential    = errors.New("no credential available")
)

// Session is a snapshot of the current credential lifecycle state.
type Session struct {
	State      State
	Credential string
	CapturedAt time.Time
	Identity   *tracker.Identity
}

// RatesSummary is supplementary display data derived from the user-rate
// endpoint: averages over the first two rate records.
type RatesSummary struct {
	AllocationRate  float64
	UtilizationRate float64
	WorkLogRate     float64
}

// NormalizeCredential cleans a raw credential as pasted or captured: trims,
// removes newlines, collapses internal whitespace runs to single spaces, and
// strips an optional case-insensitive "Bearer " prefix. Returns
// ErrEmptyCredential when nothing remains.
func NormalizeCredential(raw string) (string, error) {
	normalized := strings.Join(strings.Fields(raw), " ")
	if len(normalized) >= 7 && strings.EqualFold(normalized[:7], "bearer ") {
		normalized = strings.TrimSpace(normalized[7:])
	}
	if normalized == "" {
		return "", ErrEmptyCredential
	}
	return normalized, nil
}

// CredentialPreview shortens a credential for display, never exposing the
// full value in UI responses or logs.
func CredentialPreview(credential string) string {
	if len(credential) <= 20 {
		return credential
	}
	return credential[:20] + "..."
}
