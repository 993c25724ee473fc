package arena

import "fmt"

// DefaultAppealCorrection is the number of points an upheld appeal adds to
// the target's accepted total.
const DefaultAppealCorrection = 2

// MaxBond caps a single appeal bond so bond arithmetic stays far from int64
// limits in every ledger backend.
const MaxBond int64 = 1_000_000_000

type AppealStatus string

const (
	AppealPending  AppealStatus = "pending"
	AppealUpheld   AppealStatus = "upheld"
	AppealRejected AppealStatus = "rejected"
)

// Appeal is a bonded challenge against an accepted scorecard.
type Appeal struct {
	ID           string       `json:"id"`
	ChallengerID string       `json:"challenger_id"`
	TargetID     string       `json:"target_id"`
	Bond         int64        `json:"bond"`
	Status       AppealStatus `json:"status"`
}

func (r *Round) fileAppeal(id, challenger, target string, bond int64) (Appeal, error) {
	if bond < 0 {
		return Appeal{}, fmt.Errorf("%w: bond must be non-negative", ErrValidation)
	}
	if bond > MaxBond {
		return Appeal{}, fmt.Errorf("%w: bond exceeds %d", ErrValidation, MaxBond)
	}
	if r.Phase != PhaseAccepted {
		return Appeal{}, fmt.Errorf("%w: round is %s", ErrNoAcceptedScore, r.Phase)
	}
	if _, ok := r.accepted[target]; !ok {
		return Appeal{}, fmt.Errorf("%w: %s", ErrNoAcceptedScore, target)
	}
	a := Appeal{ID: id, ChallengerID: challenger, TargetID: target, Bond: bond, Status: AppealPending}
	r.appeals = append(r.appeals, a)
	return a, nil
}

// AppealCase is what an adjudicator sees: the appeal and the accepted
// state it contests, frozen before any appeal of the batch is applied.
type AppealCase struct {
	Appeal   Appeal    `json:"appeal"`
	Answer   string    `json:"answer"`
	Accepted Scorecard `json:"accepted"`
}

type AppealRequest struct {
	Ticket Ticket
	Cases  []AppealCase
}

// PrepareAppeals snapshots the pending appeals for adjudication.
func (r *Round) PrepareAppeals() AppealRequest {
	cases := make([]AppealCase, 0, len(r.appeals))
	for _, a := range r.appeals {
		cases = append(cases, AppealCase{
			Appeal:   a,
			Answer:   r.submissions[a.TargetID],
			Accepted: r.accepted[a.TargetID],
		})
	}
	return AppealRequest{Ticket: r.ticket(), Cases: cases}
}

// PlanAppeals turns adjudication decisions, keyed by appeal id, into the
// resolved appeals. It does not touch the round.
func PlanAppeals(cases []AppealCase, aiWasWrong map[string]bool) ([]Appeal, error) {
	out := make([]Appeal, 0, len(cases))
	for _, c := range cases {
		wrong, ok := aiWasWrong[c.Appeal.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no decision for appeal %s", ErrValidation, c.Appeal.ID)
		}
		a := c.Appeal
		if wrong {
			a.Status = AppealUpheld
		} else {
			a.Status = AppealRejected
		}
		out = append(out, a)
	}
	return out, nil
}

// ApplyAppeals corrects the accepted totals for upheld appeals and removes
// every resolved appeal from the pending list. Appeals filed after t was
// issued stay pending.
func (r *Round) ApplyAppeals(t Ticket, resolved []Appeal, correction int) error {
	if err := r.Check(t); err != nil {
		return err
	}
	done := make(map[string]struct{}, len(resolved))
	for _, a := range resolved {
		if _, ok := r.accepted[a.TargetID]; !ok && a.Status == AppealUpheld {
			return fmt.Errorf("%w: %s", ErrNoAcceptedScore, a.TargetID)
		}
		done[a.ID] = struct{}{}
	}
	for _, a := range resolved {
		if a.Status == AppealUpheld {
			r.accepted[a.TargetID] = r.accepted[a.TargetID].WithCorrection(correction)
		}
	}
	remaining := r.appeals[:0:0]
	for _, a := range r.appeals {
		if _, ok := done[a.ID]; !ok {
			remaining = append(remaining, a)
		}
	}
	r.appeals = remaining
	r.version++
	return nil
}
