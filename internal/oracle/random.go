package oracle

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"optimistic-arena/internal/arena"
)

// RandomScorer is a stand-in for a real model during local development: the
// leader draws each dimension from 4..10, the committee from 3..10.
type RandomScorer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomScorer seeds the scorer; seed 0 uses the clock.
func NewRandomScorer(seed int64) *RandomScorer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomScorer{rnd: rand.New(rand.NewSource(seed))}
}

func (s *RandomScorer) ScoreAsLeader(ctx context.Context, _ string) (arena.Scorecard, error) {
	return s.draw(ctx, 4, 10)
}

func (s *RandomScorer) ScoreAsCommittee(ctx context.Context, _ string) (arena.Scorecard, error) {
	return s.draw(ctx, 3, 10)
}

func (s *RandomScorer) draw(ctx context.Context, lo, hi int) (arena.Scorecard, error) {
	if err := ctx.Err(); err != nil {
		return arena.Scorecard{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	span := hi - lo + 1
	return arena.NewScorecard(lo+s.rnd.Intn(span), lo+s.rnd.Intn(span), lo+s.rnd.Intn(span))
}
