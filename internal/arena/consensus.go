package arena

import "fmt"

// Submission is one answer handed to the scoring oracle.
type Submission struct {
	PlayerID string
	Answer   string
}

type ProposalRequest struct {
	Ticket      Ticket
	Submissions []Submission
}

// PrepareProposal lists every current submission for the leader pass.
func (r *Round) PrepareProposal() (ProposalRequest, error) {
	if r.Phase == PhaseFinalized {
		return ProposalRequest{}, fmt.Errorf("%w: round %d already finalized", ErrInvalidPhase, r.Number)
	}
	if len(r.order) == 0 {
		return ProposalRequest{}, ErrNoSubmissions
	}
	subs := make([]Submission, 0, len(r.order))
	for _, player := range r.order {
		subs = append(subs, Submission{PlayerID: player, Answer: r.submissions[player]})
	}
	return ProposalRequest{Ticket: r.ticket(), Submissions: subs}, nil
}

// ApplyProposal stores the leader's scorecards as the round's proposal.
// Any earlier acceptance, and the appeals filed against it, are dropped.
func (r *Round) ApplyProposal(t Ticket, cards map[string]Scorecard) error {
	if err := r.Check(t); err != nil {
		return err
	}
	if r.Phase == PhaseFinalized {
		return ErrInvalidPhase
	}
	for _, player := range r.order {
		if _, ok := cards[player]; !ok {
			return fmt.Errorf("%w: proposal misses player %s", ErrValidation, player)
		}
	}
	proposed := make(map[string]Scorecard, len(r.order))
	for _, player := range r.order {
		proposed[player] = cards[player]
	}
	r.proposed = proposed
	r.accepted = map[string]Scorecard{}
	r.appeals = nil
	r.Phase = PhaseProposed
	r.version++
	return nil
}

// Candidate is a proposed scorecard awaiting the committee audit.
type Candidate struct {
	PlayerID string
	Answer   string
	Proposed Scorecard
}

type VerificationRequest struct {
	Ticket     Ticket
	Candidates []Candidate
}

// PrepareVerification lists the proposal for the committee pass. Only legal
// while the round is in PhaseProposed.
func (r *Round) PrepareVerification() (VerificationRequest, error) {
	if r.Phase != PhaseProposed {
		return VerificationRequest{}, fmt.Errorf("%w: committee verification needs a proposal, round is %s", ErrInvalidPhase, r.Phase)
	}
	out := make([]Candidate, 0, len(r.proposed))
	for _, player := range r.order {
		card, ok := r.proposed[player]
		if !ok {
			continue
		}
		out = append(out, Candidate{PlayerID: player, Answer: r.submissions[player], Proposed: card})
	}
	return VerificationRequest{Ticket: r.ticket(), Candidates: out}, nil
}

type Verdict string

const (
	VerdictRatified Verdict = "ratified"
	VerdictReplaced Verdict = "replaced"
)

// VerificationOutcome records the committee decision for one player.
type VerificationOutcome struct {
	PlayerID  string    `json:"player_id"`
	Verdict   Verdict   `json:"verdict"`
	Proposed  Scorecard `json:"proposed"`
	Committee Scorecard `json:"committee"`
	Accepted  Scorecard `json:"accepted"`
}

// ApplyVerification settles every proposed scorecard against the
// committee's recomputation and moves the round to PhaseAccepted. A player
// whose scores are equivalent within tolerance keeps the leader's card;
// any other player takes the committee's card.
func (r *Round) ApplyVerification(t Ticket, committee map[string]Scorecard, tolerance int) ([]VerificationOutcome, error) {
	if tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance must be non-negative", ErrValidation)
	}
	if err := r.Check(t); err != nil {
		return nil, err
	}
	if r.Phase != PhaseProposed {
		return nil, ErrInvalidPhase
	}
	for player := range r.proposed {
		if _, ok := committee[player]; !ok {
			return nil, fmt.Errorf("%w: committee scorecard missing for %s", ErrValidation, player)
		}
	}

	accepted := make(map[string]Scorecard, len(r.proposed))
	outcomes := make([]VerificationOutcome, 0, len(r.proposed))
	for _, player := range r.order {
		proposed, ok := r.proposed[player]
		if !ok {
			continue
		}
		audit := committee[player]
		outcome := VerificationOutcome{PlayerID: player, Proposed: proposed, Committee: audit}
		if Equivalent(proposed, audit, tolerance) {
			outcome.Verdict = VerdictRatified
			outcome.Accepted = proposed
		} else {
			outcome.Verdict = VerdictReplaced
			outcome.Accepted = audit
		}
		accepted[player] = outcome.Accepted
		outcomes = append(outcomes, outcome)
	}
	r.accepted = accepted
	r.Phase = PhaseAccepted
	r.version++
	return outcomes, nil
}
