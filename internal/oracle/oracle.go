// Package oracle holds the external judges of a round: the scoring oracle,
// the prompt source and the appeal adjudicator, with their HTTP adapters,
// a local development oracle and scripted doubles for tests.
package oracle

import (
	"context"

	"optimistic-arena/internal/arena"
)

type Mode string

const (
	ModeLeader    Mode = "leader"
	ModeCommittee Mode = "committee"
)

// Scorer judges answers. The leader and committee modes may disagree on the
// same answer, and repeated calls need not return the same card.
type Scorer interface {
	ScoreAsLeader(ctx context.Context, answer string) (arena.Scorecard, error)
	ScoreAsCommittee(ctx context.Context, answer string) (arena.Scorecard, error)
}

type PromptSource interface {
	NextPrompt(ctx context.Context) (string, error)
}

// Adjudicator decides whether the AI score contested by an appeal was wrong.
type Adjudicator interface {
	Adjudicate(ctx context.Context, c arena.AppealCase) (bool, error)
}

// Score dispatches to the scorer method for mode.
func Score(ctx context.Context, s Scorer, mode Mode, answer string) (arena.Scorecard, error) {
	if mode == ModeCommittee {
		return s.ScoreAsCommittee(ctx, answer)
	}
	return s.ScoreAsLeader(ctx, answer)
}
