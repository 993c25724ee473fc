package oracle

import (
	"context"
	"fmt"
	"sync"

	"optimistic-arena/internal/arena"
)

// Scripted returns fixed scorecards per answer and mode. It is meant for
// tests and demos that need exact, repeatable scores.
type Scripted struct {
	mu        sync.Mutex
	leader    map[string]arena.Scorecard
	committee map[string]arena.Scorecard
	failLeft  map[Mode]int
	calls     map[Mode]int
	// Hook, when set, runs before each call returns.
	Hook func(mode Mode, answer string)
}

func NewScripted() *Scripted {
	return &Scripted{
		leader:    map[string]arena.Scorecard{},
		committee: map[string]arena.Scorecard{},
		failLeft:  map[Mode]int{},
		calls:     map[Mode]int{},
	}
}

// Set scripts the card mode returns for answer.
func (s *Scripted) Set(mode Mode, answer string, clarity, creativity, relevance int) *Scripted {
	card, err := arena.NewScorecard(clarity, creativity, relevance)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == ModeCommittee {
		s.committee[answer] = card
	} else {
		s.leader[answer] = card
	}
	return s
}

// FailNext makes the next n calls in mode fail with ErrOracleUnavailable.
func (s *Scripted) FailNext(mode Mode, n int) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLeft[mode] = n
	return s
}

func (s *Scripted) Calls(mode Mode) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[mode]
}

func (s *Scripted) ScoreAsLeader(ctx context.Context, answer string) (arena.Scorecard, error) {
	return s.lookup(ctx, ModeLeader, answer)
}

func (s *Scripted) ScoreAsCommittee(ctx context.Context, answer string) (arena.Scorecard, error) {
	return s.lookup(ctx, ModeCommittee, answer)
}

func (s *Scripted) lookup(ctx context.Context, mode Mode, answer string) (arena.Scorecard, error) {
	if err := ctx.Err(); err != nil {
		return arena.Scorecard{}, fmt.Errorf("%w: %v", arena.ErrOracleUnavailable, err)
	}
	s.mu.Lock()
	s.calls[mode]++
	fail := s.failLeft[mode] > 0
	if fail {
		s.failLeft[mode]--
	}
	table := s.leader
	if mode == ModeCommittee {
		table = s.committee
	}
	card, ok := table[answer]
	hook := s.Hook
	s.mu.Unlock()

	if hook != nil {
		hook(mode, answer)
	}
	if fail {
		return arena.Scorecard{}, fmt.Errorf("%w: scripted failure", arena.ErrOracleUnavailable)
	}
	if !ok {
		return arena.Scorecard{}, fmt.Errorf("%w: no %s score scripted for %q", arena.ErrOracleUnavailable, mode, answer)
	}
	return card, nil
}

// ScriptedAdjudicator decides appeals by appeal id, then by challenger,
// falling back to Default.
type ScriptedAdjudicator struct {
	mu           sync.Mutex
	byAppeal     map[string]bool
	byChallenger map[string]bool
	Default      bool
	Err          error
}

func NewScriptedAdjudicator(def bool) *ScriptedAdjudicator {
	return &ScriptedAdjudicator{byAppeal: map[string]bool{}, byChallenger: map[string]bool{}, Default: def}
}

func (a *ScriptedAdjudicator) DecideFor(challengerID string, aiWasWrong bool) *ScriptedAdjudicator {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byChallenger[challengerID] = aiWasWrong
	return a
}

func (a *ScriptedAdjudicator) Decide(appealID string, aiWasWrong bool) *ScriptedAdjudicator {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byAppeal[appealID] = aiWasWrong
	return a
}

func (a *ScriptedAdjudicator) Adjudicate(ctx context.Context, c arena.AppealCase) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return false, a.Err
	}
	if v, ok := a.byAppeal[c.Appeal.ID]; ok {
		return v, nil
	}
	if v, ok := a.byChallenger[c.Appeal.ChallengerID]; ok {
		return v, nil
	}
	return a.Default, nil
}

// FixedPrompts cycles through prompts in order.
type FixedPrompts struct {
	mu      sync.Mutex
	prompts []string
	next    int
	Err     error
}

func NewFixedPrompts(prompts ...string) *FixedPrompts {
	if len(prompts) == 0 {
		prompts = []string{"prompt"}
	}
	return &FixedPrompts{prompts: prompts}
}

func (p *FixedPrompts) NextPrompt(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return "", p.Err
	}
	out := p.prompts[p.next%len(p.prompts)]
	p.next++
	return out, nil
}
