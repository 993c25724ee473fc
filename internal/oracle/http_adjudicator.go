package oracle

import (
	"context"
	"fmt"
	"strings"

	"optimistic-arena/internal/arena"
)

type adjudicationResponse struct {
	AIWasWrong *bool `json:"ai_was_wrong"`
}

// HTTPAdjudicator hands each appeal to an external review service.
type HTTPAdjudicator struct {
	client   *HTTPClient
	endpoint string
	headers  map[string]string
}

func NewHTTPAdjudicator(client *HTTPClient, endpoint, apiKey string) *HTTPAdjudicator {
	headers := map[string]string{}
	if strings.TrimSpace(apiKey) != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}
	return &HTTPAdjudicator{client: client, endpoint: endpoint, headers: headers}
}

func (a *HTTPAdjudicator) Adjudicate(ctx context.Context, c arena.AppealCase) (bool, error) {
	var resp adjudicationResponse
	if err := a.client.PostJSON(ctx, a.endpoint, a.headers, c, &resp); err != nil {
		return false, fmt.Errorf("%w: appeal %s: %v", arena.ErrAdjudicationUnavailable, c.Appeal.ID, err)
	}
	if resp.AIWasWrong == nil {
		return false, fmt.Errorf("%w: appeal %s: missing ai_was_wrong", arena.ErrAdjudicationUnavailable, c.Appeal.ID)
	}
	return *resp.AIWasWrong, nil
}
