package arena

import (
	"errors"
	"math"
	"testing"
)

func TestPlacementXP(t *testing.T) {
	want := []int64{15, 13, 11, 9, 7, 5, 5, 5}
	for rank, w := range want {
		if got := PlacementXP(rank); got != w {
			t.Fatalf("PlacementXP(%d) = %d, want %d", rank, got, w)
		}
	}
}

func TestRankRoundScenario(t *testing.T) {
	s := acceptedSession(t)
	_ = s.Vote("a", "b")

	standings, err := s.Round().RankRound(0.6, 0.4)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("standings = %+v", standings)
	}
	if standings[0].PlayerID != "a" || standings[1].PlayerID != "b" {
		t.Fatalf("ranking = %+v, want a before b", standings)
	}
	if math.Abs(standings[0].Final-7.2) > 1e-9 || math.Abs(standings[1].Final-6.6) > 1e-9 {
		t.Fatalf("finals = %v, %v want 7.2, 6.6", standings[0].Final, standings[1].Final)
	}
	if standings[0].XP != 15 || standings[1].XP != 13 {
		t.Fatalf("xp = %d, %d want 15, 13", standings[0].XP, standings[1].XP)
	}
}

func TestRankRoundWithoutAcceptance(t *testing.T) {
	s := NewSession("s1", "host", 8)
	for _, p := range []string{"a", "b", "c"} {
		_ = s.Join(p)
	}
	s.StartRound("p")
	_ = s.Submit("c", "1")
	_ = s.Submit("a", "2")
	_ = s.Submit("b", "3")
	_ = s.Vote("a", "b")

	standings, err := s.Round().RankRound(1, 1)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	// b leads on votes; c and a tie at zero and keep submission order
	got := []string{standings[0].PlayerID, standings[1].PlayerID, standings[2].PlayerID}
	if got[0] != "b" || got[1] != "c" || got[2] != "a" {
		t.Fatalf("ranking = %v, want [b c a]", got)
	}
	for _, st := range standings {
		if st.AITotal != 0 {
			t.Fatalf("ai total without acceptance = %d", st.AITotal)
		}
	}
}

func TestApplyFinalOnlyOnce(t *testing.T) {
	s := acceptedSession(t)
	r := s.Round()
	standings, _ := r.RankRound(0.6, 0.4)
	if err := r.ApplyFinal(standings); err != nil {
		t.Fatalf("apply final: %v", err)
	}
	if v, ok := r.FinalScore("a"); !ok || math.Abs(v-7.2) > 1e-9 {
		t.Fatalf("final a = %v, %v", v, ok)
	}
	if _, err := r.RankRound(0.6, 0.4); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("second rank err = %v, want invalid_phase", err)
	}
	if err := r.ApplyFinal(standings); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("second apply err = %v, want invalid_phase", err)
	}
	if _, err := r.PrepareProposal(); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("propose after final err = %v, want invalid_phase", err)
	}
}
