package session

import (
	"errors"
	"fmt"

	"optimistic-arena/internal/arena"
)

// ErrLedgerUnavailable is returned when an XP batch could not be settled.
// Round state is left untouched, so the call can be retried.
var ErrLedgerUnavailable = arena.ErrLedgerUnavailable

func notFound(sessionID string) error {
	return fmt.Errorf("%w: %s", arena.ErrSessionNotFound, sessionID)
}

// asUnavailable makes sure a failed outbound call surfaces as the retryable
// sentinel of its source, keeping the underlying cause in the message.
func asUnavailable(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
