package arena

import "fmt"

type Phase string

const (
	PhaseNoProposal Phase = "no_proposal"
	PhaseProposed   Phase = "proposed"
	PhaseAccepted   Phase = "accepted"
	PhaseFinalized  Phase = "finalized"
)

// MaxAnswerLength is counted in characters, not bytes.
const MaxAnswerLength = 280

// Round holds everything played in one round of a session. A new Round
// replaces the previous one wholesale.
type Round struct {
	Number int
	Prompt string
	Phase  Phase

	submissions map[string]string
	order       []string
	votes       map[string]int
	proposed    map[string]Scorecard
	accepted    map[string]Scorecard
	final       map[string]float64
	appeals     []Appeal

	// version changes whenever submissions or scorecards change, so work
	// prepared outside the session lock can detect that it went stale.
	version uint64
}

func newRound(number int, prompt string) *Round {
	return &Round{
		Number:      number,
		Prompt:      prompt,
		Phase:       PhaseNoProposal,
		submissions: map[string]string{},
		votes:       map[string]int{},
		proposed:    map[string]Scorecard{},
		accepted:    map[string]Scorecard{},
		final:       map[string]float64{},
	}
}

// Ticket identifies the round state a piece of out-of-lock work was
// prepared against.
type Ticket struct {
	Round   int
	Version uint64
}

func (r *Round) ticket() Ticket {
	return Ticket{Round: r.Number, Version: r.version}
}

// Check fails with ErrRoundChanged when the round moved on since t was
// issued.
func (r *Round) Check(t Ticket) error {
	if r.Number != t.Round || r.version != t.Version {
		return fmt.Errorf("%w: round %d version %d, prepared against round %d version %d",
			ErrRoundChanged, r.Number, r.version, t.Round, t.Version)
	}
	return nil
}

func (r *Round) submit(player, text string) error {
	if _, ok := r.submissions[player]; !ok {
		r.order = append(r.order, player)
	}
	r.submissions[player] = text
	r.version++
	return nil
}

func (r *Round) vote(target string) error {
	if _, ok := r.submissions[target]; !ok {
		return ErrNoSubmission
	}
	r.votes[target]++
	return nil
}

// Answer returns the current submission of player.
func (r *Round) Answer(player string) (string, bool) {
	text, ok := r.submissions[player]
	return text, ok
}

// Accepted returns the accepted scorecard of player.
func (r *Round) Accepted(player string) (Scorecard, bool) {
	card, ok := r.accepted[player]
	return card, ok
}

// Proposed returns the leader's proposed scorecard of player.
func (r *Round) Proposed(player string) (Scorecard, bool) {
	card, ok := r.proposed[player]
	return card, ok
}

// Votes returns the upvote count of player.
func (r *Round) Votes(player string) int {
	return r.votes[player]
}

// SubmissionOrder lists submitting players in first-submission order.
func (r *Round) SubmissionOrder() []string {
	return append([]string(nil), r.order...)
}

// PendingAppeals returns a copy of the unresolved appeals in filing order.
func (r *Round) PendingAppeals() []Appeal {
	return append([]Appeal(nil), r.appeals...)
}
