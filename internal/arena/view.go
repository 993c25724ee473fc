package arena

// SessionView is a read-only copy of a session and its current round.
type SessionView struct {
	SessionID  string    `json:"session_id"`
	HostID     string    `json:"host_id"`
	Members    []string  `json:"members"`
	MaxPlayers int       `json:"max_players"`
	Round      RoundView `json:"round"`
}

type RoundView struct {
	Number      int                  `json:"number"`
	Prompt      string               `json:"prompt"`
	Phase       Phase                `json:"phase"`
	Submissions map[string]string    `json:"submissions"`
	Order       []string             `json:"submission_order"`
	Votes       map[string]int       `json:"votes"`
	Proposed    map[string]Scorecard `json:"proposed_scores"`
	Accepted    map[string]Scorecard `json:"accepted_scores"`
	Final       map[string]float64   `json:"final_scores"`
	Appeals     []Appeal             `json:"pending_appeals"`
}

func (s *Session) View() SessionView {
	return SessionView{
		SessionID:  s.ID,
		HostID:     s.HostID,
		Members:    s.Members(),
		MaxPlayers: s.MaxPlayers,
		Round:      s.round.View(),
	}
}

func (r *Round) View() RoundView {
	v := RoundView{
		Number:      r.Number,
		Prompt:      r.Prompt,
		Phase:       r.Phase,
		Submissions: make(map[string]string, len(r.submissions)),
		Order:       r.SubmissionOrder(),
		Votes:       make(map[string]int, len(r.votes)),
		Proposed:    make(map[string]Scorecard, len(r.proposed)),
		Accepted:    make(map[string]Scorecard, len(r.accepted)),
		Final:       make(map[string]float64, len(r.final)),
		Appeals:     r.PendingAppeals(),
	}
	for k, val := range r.submissions {
		v.Submissions[k] = val
	}
	for k, val := range r.votes {
		v.Votes[k] = val
	}
	for k, val := range r.proposed {
		v.Proposed[k] = val
	}
	for k, val := range r.accepted {
		v.Accepted[k] = val
	}
	for k, val := range r.final {
		v.Final[k] = val
	}
	if v.Order == nil {
		v.Order = []string{}
	}
	if v.Appeals == nil {
		v.Appeals = []Appeal{}
	}
	return v
}
