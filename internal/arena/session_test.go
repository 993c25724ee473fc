package arena

import (
	"errors"
	"strings"
	"testing"
)

func TestJoinIsIdempotent(t *testing.T) {
	s := NewSession("s1", "host", 2)
	if err := s.Join("a"); err != nil {
		t.Fatalf("join a: %v", err)
	}
	if err := s.Join("a"); err != nil {
		t.Fatalf("join a again: %v", err)
	}
	if got := s.Members(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("members = %v, want [a]", got)
	}
}

func TestJoinCapacityExceeded(t *testing.T) {
	s := NewSession("s1", "host", 2)
	for _, p := range []string{"a", "b"} {
		if err := s.Join(p); err != nil {
			t.Fatalf("join %s: %v", p, err)
		}
	}
	if err := s.Join("c"); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("join c err = %v, want capacity_exceeded", err)
	}
	if s.IsMember("c") || len(s.Members()) != 2 {
		t.Fatalf("c partially admitted: %v", s.Members())
	}
	// an existing member re-joining a full session is still a no-op
	if err := s.Join("a"); err != nil {
		t.Fatalf("rejoin full session: %v", err)
	}
}

func TestNewSessionDefaultsCapacity(t *testing.T) {
	s := NewSession("s1", "host", 0)
	if s.MaxPlayers != DefaultMaxPlayers {
		t.Fatalf("MaxPlayers = %d, want %d", s.MaxPlayers, DefaultMaxPlayers)
	}
	if s.Round().Number != 0 {
		t.Fatalf("round = %d before any start, want 0", s.Round().Number)
	}
}

func TestSubmitValidation(t *testing.T) {
	s := NewSession("s1", "host", 4)
	_ = s.Join("a")
	s.StartRound("prompt")

	if err := s.Submit("a", strings.Repeat("x", MaxAnswerLength+1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversized submit err = %v, want validation_error", err)
	}
	if err := s.Submit("a", strings.Repeat("é", MaxAnswerLength)); err != nil {
		t.Fatalf("280 multibyte chars should be accepted: %v", err)
	}
	if err := s.Submit("stranger", "hi"); !errors.Is(err, ErrNotAMember) {
		t.Fatalf("stranger submit err = %v, want not_a_member", err)
	}
}

func TestSubmitLastWriteWins(t *testing.T) {
	s := NewSession("s1", "host", 4)
	_ = s.Join("a")
	_ = s.Join("b")
	s.StartRound("prompt")
	_ = s.Submit("a", "first")
	_ = s.Submit("b", "other")
	_ = s.Submit("a", "second")

	got, _ := s.Round().Answer("a")
	if got != "second" {
		t.Fatalf("answer = %q, want second", got)
	}
	order := s.Round().SubmissionOrder()
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("order = %v, want [a b]", order)
	}
}

func TestVoteRules(t *testing.T) {
	s := NewSession("s1", "host", 4)
	_ = s.Join("a")
	_ = s.Join("b")
	s.StartRound("prompt")
	_ = s.Submit("a", "x")

	if err := s.Vote("b", "a"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := s.Vote("b", "a"); err != nil {
		t.Fatalf("repeat vote: %v", err)
	}
	if err := s.Vote("a", "a"); err != nil {
		t.Fatalf("self vote: %v", err)
	}
	if got := s.Round().Votes("a"); got != 3 {
		t.Fatalf("votes = %d, want 3", got)
	}
	if err := s.Vote("a", "b"); !errors.Is(err, ErrNoSubmission) {
		t.Fatalf("vote for non-submitter err = %v, want no_submission", err)
	}
	if err := s.Vote("z", "a"); !errors.Is(err, ErrNotAMember) {
		t.Fatalf("vote by stranger err = %v, want not_a_member", err)
	}
	if err := s.Vote("a", "z"); !errors.Is(err, ErrNotAMember) {
		t.Fatalf("vote for stranger err = %v, want not_a_member", err)
	}
}

func TestStartRoundResetsState(t *testing.T) {
	s := NewSession("s1", "host", 4)
	_ = s.Join("a")
	s.StartRound("one")
	_ = s.Submit("a", "x")
	_ = s.Vote("a", "a")
	req, _ := s.Round().PrepareProposal()
	_ = s.Round().ApplyProposal(req.Ticket, map[string]Scorecard{"a": mustCard(t, 5, 5, 5)})

	r1 := s.StartRound("two").Number
	r2 := s.StartRound("three").Number
	if r1 != 2 || r2 != 3 {
		t.Fatalf("round numbers = %d,%d want 2,3", r1, r2)
	}
	v := s.Round().View()
	if len(v.Submissions) != 0 || len(v.Votes) != 0 || len(v.Proposed) != 0 || len(v.Accepted) != 0 || len(v.Appeals) != 0 {
		t.Fatalf("round state not reset: %+v", v)
	}
	if v.Phase != PhaseNoProposal || v.Prompt != "three" {
		t.Fatalf("unexpected round view: %+v", v)
	}
}

func mustCard(t *testing.T, clarity, creativity, relevance int) Scorecard {
	t.Helper()
	c, err := NewScorecard(clarity, creativity, relevance)
	if err != nil {
		t.Fatalf("new scorecard: %v", err)
	}
	return c
}
