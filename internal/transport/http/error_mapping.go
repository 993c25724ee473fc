package httptransport

import (
	"errors"
	"net/http"

	appsession "optimistic-arena/internal/app/session"
	"optimistic-arena/internal/arena"
)

// MapArenaError maps service errors to a status and the error code returned
// to the caller.
func MapArenaError(err error) (int, string) {
	switch {
	case errors.Is(err, arena.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, arena.ErrNotAMember):
		return http.StatusForbidden, "not_a_member"
	case errors.Is(err, arena.ErrCapacityExceeded):
		return http.StatusConflict, "capacity_exceeded"
	case errors.Is(err, arena.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, arena.ErrNoSubmission):
		return http.StatusConflict, "no_submission"
	case errors.Is(err, arena.ErrNoSubmissions):
		return http.StatusConflict, "no_submissions"
	case errors.Is(err, arena.ErrInvalidPhase):
		return http.StatusConflict, "invalid_phase"
	case errors.Is(err, arena.ErrNoAcceptedScore):
		return http.StatusConflict, "no_accepted_score"
	case errors.Is(err, arena.ErrRoundChanged):
		return http.StatusConflict, "round_changed"
	case errors.Is(err, arena.ErrOracleUnavailable):
		return http.StatusServiceUnavailable, "oracle_unavailable"
	case errors.Is(err, arena.ErrAdjudicationUnavailable):
		return http.StatusServiceUnavailable, "adjudication_unavailable"
	case errors.Is(err, arena.ErrPromptUnavailable):
		return http.StatusServiceUnavailable, "prompt_unavailable"
	case errors.Is(err, appsession.ErrLedgerUnavailable):
		return http.StatusServiceUnavailable, "ledger_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
