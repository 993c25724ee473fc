package arena

import "errors"

var (
	ErrSessionNotFound  = errors.New("session_not_found")
	ErrNotAMember       = errors.New("not_a_member")
	ErrCapacityExceeded = errors.New("capacity_exceeded")
	ErrValidation       = errors.New("validation_error")
	ErrNoSubmission     = errors.New("no_submission")
	ErrNoSubmissions    = errors.New("no_submissions")
	ErrInvalidPhase     = errors.New("invalid_phase")
	ErrNoAcceptedScore  = errors.New("no_accepted_score")

	// Retryable: the caller may repeat the operation unchanged.
	ErrRoundChanged            = errors.New("round_changed")
	ErrOracleUnavailable       = errors.New("oracle_unavailable")
	ErrAdjudicationUnavailable = errors.New("adjudication_unavailable")
	ErrPromptUnavailable       = errors.New("prompt_unavailable")
	ErrLedgerUnavailable       = errors.New("ledger_unavailable")
)

// IsRetryable reports whether err is a transient failure of an external
// source or the XP ledger, or a lost race with a concurrent round restart.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRoundChanged) ||
		errors.Is(err, ErrOracleUnavailable) ||
		errors.Is(err, ErrAdjudicationUnavailable) ||
		errors.Is(err, ErrPromptUnavailable) ||
		errors.Is(err, ErrLedgerUnavailable)
}
