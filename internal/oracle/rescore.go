package oracle

import (
	"context"
	"fmt"

	"optimistic-arena/internal/arena"
)

// RescoreAdjudicator settles an appeal with an independent committee pass
// over the target's answer: the accepted score was wrong when any dimension
// lies further than Tolerance from the re-score.
type RescoreAdjudicator struct {
	Scorer    Scorer
	Tolerance int
}

func (a RescoreAdjudicator) Adjudicate(ctx context.Context, c arena.AppealCase) (bool, error) {
	card, err := a.Scorer.ScoreAsCommittee(ctx, c.Answer)
	if err != nil {
		return false, fmt.Errorf("%w: appeal %s: %v", arena.ErrAdjudicationUnavailable, c.Appeal.ID, err)
	}
	return !arena.Equivalent(c.Accepted, card, a.Tolerance), nil
}
