package oracle

import (
	"context"
	"fmt"
	"strings"

	"optimistic-arena/internal/arena"
)

type scoreRequest struct {
	Answer string `json:"answer"`
	Mode   Mode   `json:"mode"`
}

type scoreResponse struct {
	Clarity    int `json:"clarity"`
	Creativity int `json:"creativity"`
	Relevance  int `json:"relevance"`
}

// HTTPScorer asks a remote scoring service for scorecards. The remote total,
// if any, is ignored and recomputed from the dimensions.
type HTTPScorer struct {
	client   *HTTPClient
	endpoint string
	headers  map[string]string
}

func NewHTTPScorer(client *HTTPClient, endpoint, apiKey string) *HTTPScorer {
	headers := map[string]string{}
	if strings.TrimSpace(apiKey) != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}
	return &HTTPScorer{client: client, endpoint: endpoint, headers: headers}
}

func (s *HTTPScorer) ScoreAsLeader(ctx context.Context, answer string) (arena.Scorecard, error) {
	return s.score(ctx, ModeLeader, answer)
}

func (s *HTTPScorer) ScoreAsCommittee(ctx context.Context, answer string) (arena.Scorecard, error) {
	return s.score(ctx, ModeCommittee, answer)
}

func (s *HTTPScorer) score(ctx context.Context, mode Mode, answer string) (arena.Scorecard, error) {
	var resp scoreResponse
	if err := s.client.PostJSON(ctx, s.endpoint, s.headers, scoreRequest{Answer: answer, Mode: mode}, &resp); err != nil {
		return arena.Scorecard{}, fmt.Errorf("%w: %s scoring: %v", arena.ErrOracleUnavailable, mode, err)
	}
	card, err := arena.NewScorecard(resp.Clarity, resp.Creativity, resp.Relevance)
	if err != nil {
		return arena.Scorecard{}, fmt.Errorf("%w: %s scoring returned %+v", arena.ErrOracleUnavailable, mode, resp)
	}
	return card, nil
}
