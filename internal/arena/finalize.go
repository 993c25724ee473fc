package arena

import (
	"fmt"
	"sort"
)

// Placement XP: every ranked player gets BaseXP, plus a bonus that starts at
// BonusStartXP for the winner and shrinks by BonusStepXP per rank.
const (
	BaseXP       = 5
	BonusStartXP = 10
	BonusStepXP  = 2
)

// PlacementXP returns the XP awarded for a zero-based rank.
func PlacementXP(rank int) int64 {
	bonus := BonusStartXP - rank*BonusStepXP
	if bonus < 0 {
		bonus = 0
	}
	return int64(BaseXP + bonus)
}

// Standing is one player's result in a finalized round.
type Standing struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Votes    int     `json:"votes"`
	AITotal  int     `json:"ai_total"`
	Final    float64 `json:"final"`
	XP       int64   `json:"xp"`
}

// RankRound combines votes and accepted totals into final scores and ranks
// the submitting players by final score, highest first. Ties keep
// first-submission order. Players without an accepted scorecard count an AI
// total of zero. The round is not modified.
func (r *Round) RankRound(humanWeight, aiWeight float64) ([]Standing, error) {
	if r.Phase == PhaseFinalized {
		return nil, fmt.Errorf("%w: round %d already finalized", ErrInvalidPhase, r.Number)
	}
	out := make([]Standing, 0, len(r.order))
	for _, player := range r.order {
		votes := r.votes[player]
		aiTotal := r.accepted[player].Total
		out = append(out, Standing{
			PlayerID: player,
			Votes:    votes,
			AITotal:  aiTotal,
			Final:    humanWeight*float64(votes) + aiWeight*float64(aiTotal),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Final > out[j].Final
	})
	for i := range out {
		out[i].Rank = i
		out[i].XP = PlacementXP(i)
	}
	return out, nil
}

// ApplyFinal records the final scores and closes the round for finalization.
func (r *Round) ApplyFinal(standings []Standing) error {
	if r.Phase == PhaseFinalized {
		return fmt.Errorf("%w: round %d already finalized", ErrInvalidPhase, r.Number)
	}
	final := make(map[string]float64, len(standings))
	for _, s := range standings {
		final[s.PlayerID] = s.Final
	}
	r.final = final
	r.Phase = PhaseFinalized
	r.version++
	return nil
}

// FinalScore returns the finalized score of player.
func (r *Round) FinalScore(player string) (float64, bool) {
	v, ok := r.final[player]
	return v, ok
}
