// Package session runs arena sessions for many concurrent callers. Each
// session is guarded by its own mutex; calls to the oracle, the prompt source
// and the adjudicator are made without holding it, and their results are
// applied only if the round they were computed for is still current.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"optimistic-arena/internal/arena"
	"optimistic-arena/internal/id"
	"optimistic-arena/internal/ledger"
	"optimistic-arena/internal/oracle"

	"github.com/rs/zerolog/log"
)

type entry struct {
	mu      sync.Mutex
	session *arena.Session
}

type Service struct {
	scorer      oracle.Scorer
	prompts     oracle.PromptSource
	adjudicator oracle.Adjudicator
	ledger      *ledger.Ledger
	opts        Options

	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewService(scorer oracle.Scorer, prompts oracle.PromptSource, adjudicator oracle.Adjudicator, l *ledger.Ledger, opts Options) *Service {
	return &Service{
		scorer:      scorer,
		prompts:     prompts,
		adjudicator: adjudicator,
		ledger:      l,
		opts:        opts.withDefaults(),
		sessions:    map[string]*entry{},
	}
}

func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) lookup(sessionID string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(sessionID)
	}
	return e, nil
}

// CreateSession opens an empty session hosted by hostID. A non-positive
// maxPlayers takes the configured default.
func (s *Service) CreateSession(hostID string, maxPlayers int) string {
	if maxPlayers <= 0 {
		maxPlayers = s.opts.DefaultMaxPlayers
	}
	sessionID := id.NewPrefixed("ses")
	e := &entry{session: arena.NewSession(sessionID, hostID, maxPlayers)}
	s.mu.Lock()
	s.sessions[sessionID] = e
	s.mu.Unlock()
	metricSessionsCreated.Add(1)
	log.Info().
		Str("session_id", sessionID).
		Str("host_id", hostID).
		Int("max_players", maxPlayers).
		Msg("session created")
	return sessionID
}

func (s *Service) JoinSession(sessionID, playerID string) error {
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.session.Join(playerID); err != nil {
		return err
	}
	log.Debug().Str("session_id", sessionID).Str("player_id", playerID).Msg("player joined")
	return nil
}

// StartRound draws a prompt and replaces the current round with a fresh
// one. If no prompt can be obtained the current round is left as it is.
func (s *Service) StartRound(ctx context.Context, sessionID string) (RoundStarted, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return RoundStarted{}, err
	}
	prompt, err := s.nextPrompt(ctx, sessionID)
	if err != nil {
		return RoundStarted{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.session.StartRound(prompt)
	metricRoundsStarted.Add(1)
	log.Info().
		Str("session_id", sessionID).
		Int("round", r.Number).
		Msg("round started")
	return RoundStarted{SessionID: sessionID, Round: r.Number, Prompt: prompt}, nil
}

func (s *Service) SubmitAnswer(sessionID, playerID, text string) error {
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Submit(playerID, text)
}

func (s *Service) Vote(sessionID, voterID, targetID string) error {
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Vote(voterID, targetID)
}

// ProposeScores asks the leader oracle for a scorecard per submitting player
// and stores them as the round's proposal, replacing any earlier one.
func (s *Service) ProposeScores(ctx context.Context, sessionID string) (Proposal, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Proposal{}, err
	}
	e.mu.Lock()
	req, err := e.session.Round().PrepareProposal()
	e.mu.Unlock()
	if err != nil {
		return Proposal{}, err
	}

	answers := make([]scoreJob, 0, len(req.Submissions))
	for _, sub := range req.Submissions {
		answers = append(answers, scoreJob{playerID: sub.PlayerID, answer: sub.Answer})
	}
	cards, err := s.scoreAll(ctx, sessionID, oracle.ModeLeader, answers)
	if err != nil {
		return Proposal{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.session.Round().ApplyProposal(req.Ticket, cards); err != nil {
		s.noteRoundChanged(err, sessionID, "propose")
		return Proposal{}, err
	}
	metricProposalsTotal.Add(1)
	log.Info().
		Str("session_id", sessionID).
		Int("round", req.Ticket.Round).
		Int("players", len(cards)).
		Msg("proposal stored")
	return Proposal{Round: req.Ticket.Round, Cards: cards}, nil
}

// CommitteeVerify audits the current proposal with the committee oracle and
// settles the accepted scorecards.
func (s *Service) CommitteeVerify(ctx context.Context, sessionID string, tolerance int) (Verification, error) {
	if tolerance < 0 {
		return Verification{}, fmt.Errorf("%w: tolerance must be non-negative", arena.ErrValidation)
	}
	e, err := s.lookup(sessionID)
	if err != nil {
		return Verification{}, err
	}
	e.mu.Lock()
	req, err := e.session.Round().PrepareVerification()
	e.mu.Unlock()
	if err != nil {
		return Verification{}, err
	}

	jobs := make([]scoreJob, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		jobs = append(jobs, scoreJob{playerID: c.PlayerID, answer: c.Answer})
	}
	committee, err := s.scoreAll(ctx, sessionID, oracle.ModeCommittee, jobs)
	if err != nil {
		return Verification{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	outcomes, err := e.session.Round().ApplyVerification(req.Ticket, committee, tolerance)
	if err != nil {
		s.noteRoundChanged(err, sessionID, "verify")
		return Verification{}, err
	}
	metricVerificationsTotal.Add(1)
	for _, o := range outcomes {
		if o.Verdict == arena.VerdictReplaced {
			metricCardsReplaced.Add(1)
		}
		log.Info().
			Str("session_id", sessionID).
			Int("round", req.Ticket.Round).
			Str("player_id", o.PlayerID).
			Str("verdict", string(o.Verdict)).
			Int("accepted_total", o.Accepted.Total).
			Msg("verification outcome")
	}
	return Verification{Round: req.Ticket.Round, Outcomes: outcomes}, nil
}

func (s *Service) ChallengeScore(sessionID, challengerID, targetID string, bond int64) (arena.Appeal, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return arena.Appeal{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	a, err := e.session.FileAppeal(id.NewPrefixed("apl"), challengerID, targetID, bond)
	if err != nil {
		return arena.Appeal{}, err
	}
	metricAppealsFiled.Add(1)
	log.Info().
		Str("session_id", sessionID).
		Int("round", e.session.Round().Number).
		Str("appeal_id", a.ID).
		Str("player_id", challengerID).
		Str("target_id", targetID).
		Int64("bond", bond).
		Msg("appeal filed")
	return a, nil
}

// ResolveAppeals adjudicates every pending appeal against the accepted
// scores as they stood before this batch, then applies the corrections and
// the bond movements together. Appeals filed while adjudication is running
// stay pending for the next call.
func (s *Service) ResolveAppeals(ctx context.Context, sessionID string) (Resolution, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Resolution{}, err
	}
	e.mu.Lock()
	req := e.session.Round().PrepareAppeals()
	e.mu.Unlock()
	if len(req.Cases) == 0 {
		return Resolution{Round: req.Ticket.Round, Appeals: []arena.Appeal{}}, nil
	}

	decisions, err := s.adjudicateAll(ctx, sessionID, req.Cases)
	if err != nil {
		return Resolution{}, err
	}
	resolved, err := arena.PlanAppeals(req.Cases, decisions)
	if err != nil {
		return Resolution{}, err
	}

	entries := make([]ledger.Entry, 0, len(resolved))
	for _, a := range resolved {
		if a.Status == arena.AppealUpheld {
			entries = append(entries, ledger.BondCredit(a.ChallengerID, a.Bond, a.ID))
		} else {
			entries = append(entries, ledger.BondSlash(a.ChallengerID, a.Bond, a.ID))
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	round := e.session.Round()
	if err := round.Check(req.Ticket); err != nil {
		s.noteRoundChanged(err, sessionID, "resolve_appeals")
		return Resolution{}, err
	}
	settled, err := s.applyXP(ctx, entries)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: settle appeal bonds: %v", ErrLedgerUnavailable, err)
	}
	if err := round.ApplyAppeals(req.Ticket, resolved, s.opts.AppealCorrection); err != nil {
		// The ledger batch is already committed; this only happens if the
		// round moved while the lock was held, which Check rules out.
		log.Error().Err(err).Str("session_id", sessionID).Msg("apply appeals after settling bonds failed")
		return Resolution{}, err
	}
	for i, a := range resolved {
		if a.Status == arena.AppealUpheld {
			metricAppealsUpheld.Add(1)
		} else {
			metricAppealsRejected.Add(1)
		}
		log.Info().
			Str("session_id", sessionID).
			Int("round", req.Ticket.Round).
			Str("appeal_id", a.ID).
			Str("player_id", a.ChallengerID).
			Str("target_id", a.TargetID).
			Str("status", string(a.Status)).
			Int64("xp_applied", settled[i].Applied).
			Msg("appeal resolved")
	}
	return Resolution{Round: req.Ticket.Round, Appeals: resolved}, nil
}

// FinalizeRound computes the final scores, awards placement XP and closes
// the round. A round is finalized at most once.
func (s *Service) FinalizeRound(ctx context.Context, sessionID string, humanWeight, aiWeight float64) (Finalization, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Finalization{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	round := e.session.Round()
	standings, err := round.RankRound(humanWeight, aiWeight)
	if err != nil {
		return Finalization{}, err
	}

	awards := make([]ledger.Entry, 0, len(standings))
	for _, st := range standings {
		awards = append(awards, ledger.PlacementAward(st.PlayerID, st.XP, sessionID, round.Number))
	}
	if _, err := s.applyXP(ctx, awards); err != nil {
		return Finalization{}, fmt.Errorf("%w: award placement xp: %v", ErrLedgerUnavailable, err)
	}
	if err := round.ApplyFinal(standings); err != nil {
		return Finalization{}, err
	}
	metricRoundsFinalized.Add(1)
	for _, st := range standings {
		metricXPAwarded.Add(st.XP)
		log.Info().
			Str("session_id", sessionID).
			Int("round", round.Number).
			Str("player_id", st.PlayerID).
			Int("rank", st.Rank).
			Float64("final", st.Final).
			Int64("xp", st.XP).
			Msg("xp awarded")
	}
	return Finalization{Round: round.Number, Standings: standings}, nil
}

func (s *Service) View(sessionID string) (arena.SessionView, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return arena.SessionView{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.View(), nil
}

func (s *Service) Standings(ctx context.Context, limit int) ([]ledger.Standing, error) {
	return s.ledger.Standings(ctx, limit)
}

func (s *Service) Balance(ctx context.Context, playerID string) (int64, error) {
	return s.ledger.Balance(ctx, playerID)
}

func (s *Service) SeasonID() string {
	return s.ledger.SeasonID()
}

// ResetSeason starts a new XP season. Sessions and their rounds are kept.
func (s *Service) ResetSeason(seasonID string) string {
	next := s.ledger.ResetSeason(seasonID)
	log.Warn().Str("season_id", next).Msg("season reset")
	return next
}

// applyXP settles a ledger batch. Callers hold the session lock, so the wait
// is bounded by LedgerTimeout.
func (s *Service) applyXP(ctx context.Context, entries []ledger.Entry) ([]ledger.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LedgerTimeout)
	defer cancel()
	settled, err := s.ledger.Apply(ctx, entries)
	if err != nil {
		metricLedgerErrors.Add(1)
		return nil, err
	}
	return settled, nil
}

func (s *Service) noteRoundChanged(err error, sessionID, op string) {
	if !errors.Is(err, arena.ErrRoundChanged) {
		return
	}
	metricRoundChanged.Add(1)
	log.Info().Str("session_id", sessionID).Str("op", op).Msg("round changed during outbound call")
}
