package arena

import "fmt"

// Scorecard is the AI judgement of one answer. Values are immutable: an
// adjustment returns a new Scorecard.
type Scorecard struct {
	Clarity    int `json:"clarity"`
	Creativity int `json:"creativity"`
	Relevance  int `json:"relevance"`
	Total      int `json:"total"`
}

// NewScorecard builds a scorecard whose total is the sum of its dimensions.
func NewScorecard(clarity, creativity, relevance int) (Scorecard, error) {
	if clarity < 0 || creativity < 0 || relevance < 0 {
		return Scorecard{}, fmt.Errorf("%w: negative score dimension", ErrValidation)
	}
	return Scorecard{
		Clarity:    clarity,
		Creativity: creativity,
		Relevance:  relevance,
		Total:      clarity + creativity + relevance,
	}, nil
}

// WithCorrection returns a copy whose total is raised by points. Dimensions
// are kept as judged.
func (s Scorecard) WithCorrection(points int) Scorecard {
	out := s
	out.Total += points
	return out
}

func (s Scorecard) dimensions() [3]int {
	return [3]int{s.Clarity, s.Creativity, s.Relevance}
}

// Equivalent reports whether every dimension of a and b differs by at most
// tolerance. Totals are not compared.
func Equivalent(a, b Scorecard, tolerance int) bool {
	da, db := a.dimensions(), b.dimensions()
	for i := range da {
		if absInt(da[i]-db[i]) > tolerance {
			return false
		}
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
